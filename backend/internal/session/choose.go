package session

// Choose picks an item by weight. draw must lie in [0,1); it is scaled to the
// weight sum and weights are subtracted until the cursor is no longer
// positive. Choose returns the zero value for an empty slice.
func Choose[T any](items []T, weight func(T) int, draw float64) T {
	var zero T
	if len(items) == 0 {
		return zero
	}

	total := 0
	for _, item := range items {
		if w := weight(item); w > 0 {
			total += w
		}
	}
	if total == 0 {
		return items[0]
	}

	cursor := draw * float64(total)
	for _, item := range items {
		w := weight(item)
		if w <= 0 {
			continue
		}
		cursor -= float64(w)
		if cursor <= 0 {
			return item
		}
	}
	return items[len(items)-1]
}
