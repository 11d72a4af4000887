package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"5 + 3 * 2", 11},
		{"(5 + 3) * 2", 16},
		{"10 / 4", 2.5},
		{"-3 + 1", -2},
		{"2 * -(1 + 1)", -4},
		{"0.5 + .25", 0.75},
		{"what is 76 - 2?", 74},
		{"1 - 2 - 3", -4},
		{"8 / 2 / 2", 2},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvaluate_Invalid(t *testing.T) {
	for _, expr := range []string{"", "hello", "1/0", "(1", "1.2.3", "3 +", "()"} {
		t.Run(expr, func(t *testing.T) {
			_, err := Evaluate(expr)
			assert.Error(t, err)
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "11", formatNumber(11))
	assert.Equal(t, "2.5", formatNumber(2.5))
	assert.Equal(t, "-4", formatNumber(-4))
}
