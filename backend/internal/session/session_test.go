package session

import (
	"fmt"
	"sync"
	"testing"

	"pung-bot/backend/internal/adapter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_Cap(t *testing.T) {
	h := NewHistory(10)
	for i := 1; i <= 25; i++ {
		h.Append("u1", adapter.Message{Role: adapter.RoleUser, Content: fmt.Sprint(i)})
		assert.LessOrEqual(t, h.Len("u1"), 10)
	}

	msgs := h.Messages("u1")
	require.Len(t, msgs, 10)
	assert.Equal(t, "16", msgs[0].Content)
	assert.Equal(t, "25", msgs[9].Content)
	assert.Empty(t, h.Messages("u2"))
}

func TestHistory_MessagesIsACopy(t *testing.T) {
	h := NewHistory(10)
	h.Append("u1", adapter.Message{Role: adapter.RoleUser, Content: "hi"})

	msgs := h.Messages("u1")
	msgs[0].Content = "changed"
	assert.Equal(t, "hi", h.Messages("u1")[0].Content)
}

func TestHistory_Concurrent(t *testing.T) {
	h := NewHistory(10)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Append("u1", adapter.Message{Role: adapter.RoleUser, Content: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 10, h.Len("u1"))
}

func TestChoose(t *testing.T) {
	type item struct {
		name string
		w    int
	}
	items := []item{{"a", 1}, {"b", 0}, {"c", 3}}
	weight := func(i item) int { return i.w }

	assert.Equal(t, "a", Choose(items, weight, 0).name)
	assert.Equal(t, "a", Choose(items, weight, 0.25).name)
	assert.Equal(t, "c", Choose(items, weight, 0.26).name)
	assert.Equal(t, "c", Choose(items, weight, 0.999).name)
	assert.Equal(t, item{}, Choose([]item{}, weight, 0.5))
	assert.Equal(t, "x", Choose([]item{{"x", 0}}, weight, 0.5).name)
}

func TestPersonalities(t *testing.T) {
	sum := 0
	for _, p := range Personalities {
		sum += p.Weight
	}
	assert.Equal(t, 100, sum)
	assert.Len(t, Personalities, 8)

	assert.Equal(t, "friendly", PickPersonality(0).Name)
	assert.Equal(t, "friendly", PickPersonality(0.26).Name)
	assert.Equal(t, "funny", PickPersonality(0.28).Name)
	assert.Equal(t, "sad", PickPersonality(0.82).Name)
	assert.Equal(t, "hyped", PickPersonality(0.99).Name)
}

func TestPersonalities_Distribution(t *testing.T) {
	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		counts[PickPersonality(float64(i)/1000).Name]++
	}
	for _, p := range Personalities {
		assert.InDelta(t, p.Weight*10, counts[p.Name], 1, p.Name)
	}
}

func TestMemoryContext(t *testing.T) {
	ctx := MemoryContext([]string{"likes pizza", "main is thanos"}, nil, "\nLEARNED\n")
	assert.Equal(t, "Things you remember about this user: likes pizza, main is thanos\n\nLEARNED\n", ctx)

	p := Personalities[0]
	assert.True(t, len(p.System(ctx)) > len(p.Prompt))
}
