// Package tokenbudget estimates serialized token cost and degrades
// metadata to fit a budget.
package tokenbudget

import (
	"encoding/json"
	"math"

	"github.com/darkxdd/FigmaCursor-sub000/internal/metadata"
)

// charsPerToken is the approximate character-to-token ratio of the
// generation service's tokenizer.
const charsPerToken = 3.5

// EstimateTokens approximates the token cost of text: ceil(len/3.5) plus
// 10% structural overhead.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	base := int(math.Ceil(float64(len(text)) / charsPerToken))
	return base + base/10
}

// EstimateMetadata serializes metadata and estimates its token cost.
func EstimateMetadata(m *metadata.Simplified) int {
	if m == nil {
		return 0
	}
	return EstimateTokens(Serialize(m))
}

// Serialize renders metadata to the compact JSON form embedded in prompts.
func Serialize(m *metadata.Simplified) string {
	if m == nil {
		return ""
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}
