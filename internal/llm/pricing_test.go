package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceFor(t *testing.T) {
	cases := []struct {
		model string
		want  Price
		known bool
	}{
		{"claude-sonnet-4-5-20250929", Price{3, 15}, true},
		{"claude-opus-4-5", Price{5, 25}, true},
		{"claude-opus-4-1-20250805", Price{15, 75}, true},
		{"anthropic/claude-haiku-4-5", Price{1, 5}, true},
		{"gpt-4o-mini", Price{0.15, 0.6}, true},
		{"gpt-4o-2024-08-06", Price{2.5, 10}, true},
		{"openai/gpt-5-mini", Price{0.25, 2}, true},
		{"gemini-2.5-flash-lite-preview-06-17", Price{0.1, 0.4}, true},
		{"gemini-2.5-flash", Price{0.3, 2.5}, true},
		{"llama-3-70b", Price{}, false},
		{"mock-model", Price{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.model, func(t *testing.T) {
			got, ok := PriceFor(tc.model)
			assert.Equal(t, tc.known, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPrice_Cost(t *testing.T) {
	p := Price{Input: 3, Output: 15}
	assert.InDelta(t, 0.018, p.Cost(1000, 1000), 1e-9)
	assert.Zero(t, p.Cost(0, 0))
}
