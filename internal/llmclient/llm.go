// Package llmclient abstracts the code-generation service behind a small
// text-in/text-out interface. Cross-cutting concerns (retries, logging,
// usage counters) are applied via middleware in internal/llm.
package llmclient

import "context"

// Params are the per-call generation parameters.
type Params struct {
	Temperature     float32
	MaxOutputTokens int
}

// GenerateClient produces source code text from a compiled prompt.
type GenerateClient interface {
	Name() string
	GenerateCode(ctx context.Context, prompt string, params Params) (string, error)
	CountTokens(text string) int
	Close() error
}
