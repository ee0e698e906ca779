package llm

import (
	"sort"
	"strings"
)

// Price is USD per million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Cost of one call, or of a sum of calls.
func (p Price) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1e6
}

// PriceFor matches model against the longest known family prefix, so
// dated snapshots and "vendor/model" ids from OpenRouter resolve too.
func PriceFor(model string) (Price, bool) {
	if i := strings.LastIndexByte(model, '/'); i >= 0 {
		model = model[i+1:]
	}
	for _, f := range families {
		if strings.HasPrefix(model, f.prefix) {
			return f.price, true
		}
	}
	return Price{}, false
}

type family struct {
	prefix string
	price  Price
}

// Public list prices, checked 2026-02.
var families = byLongestPrefix([]family{
	{"claude-3-haiku", Price{0.25, 1.25}},
	{"claude-3-5-haiku", Price{0.8, 4}},
	{"claude-haiku-4", Price{1, 5}},
	{"claude-3-5-sonnet", Price{3, 15}},
	{"claude-3-7-sonnet", Price{3, 15}},
	{"claude-sonnet-4", Price{3, 15}},
	{"claude-3-opus", Price{15, 75}},
	{"claude-opus-4", Price{15, 75}},
	{"claude-opus-4-5", Price{5, 25}},
	{"claude-opus-4-6", Price{5, 25}},

	{"gpt-3.5-turbo", Price{0.5, 1.5}},
	{"gpt-4", Price{30, 60}},
	{"gpt-4-turbo", Price{10, 30}},
	{"gpt-4o", Price{2.5, 10}},
	{"gpt-4o-mini", Price{0.15, 0.6}},
	{"gpt-4.1", Price{2, 8}},
	{"gpt-4.1-mini", Price{0.4, 1.6}},
	{"gpt-4.1-nano", Price{0.1, 0.4}},
	{"gpt-5", Price{1.25, 10}},
	{"gpt-5-mini", Price{0.25, 2}},
	{"gpt-5-nano", Price{0.05, 0.4}},
	{"gpt-5-pro", Price{15, 120}},
	{"gpt-5.1-codex-mini", Price{0.25, 2}},
	{"gpt-5.2", Price{1.75, 14}},
	{"gpt-5.2-pro", Price{21, 168}},
	{"gpt-5.3", Price{1.75, 14}},
	{"o1", Price{15, 60}},
	{"o1-mini", Price{1.1, 4.4}},
	{"o1-pro", Price{150, 600}},
	{"o3", Price{2, 8}},
	{"o3-mini", Price{1.1, 4.4}},
	{"o3-pro", Price{20, 80}},
	{"o4-mini", Price{1.1, 4.4}},

	{"gemini-1.5-flash", Price{0.075, 0.3}},
	{"gemini-1.5-pro", Price{1.25, 5}},
	{"gemini-2.0-flash", Price{0.1, 0.4}},
	{"gemini-2.0-flash-lite", Price{0.075, 0.3}},
	{"gemini-2.5-flash", Price{0.3, 2.5}},
	{"gemini-2.5-flash-lite", Price{0.1, 0.4}},
	{"gemini-2.5-pro", Price{1.25, 10}},
	{"gemini-3-flash", Price{0.5, 3}},
	{"gemini-3-pro", Price{2, 12}},
	{"gemini-flash-latest", Price{0.3, 2.5}},
	{"gemini-flash-lite-latest", Price{0.1, 0.4}},
})

func byLongestPrefix(fs []family) []family {
	sort.SliceStable(fs, func(i, j int) bool { return len(fs[i].prefix) > len(fs[j].prefix) })
	return fs
}
