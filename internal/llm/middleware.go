// Package llm decorates a llmclient.GenerateClient with cross-cutting
// concerns: retries, logging, and usage accounting.
package llm

import (
	"context"
	"log"

	"github.com/darkxdd/FigmaCursor-sub000/internal/llmclient"
)

// Middleware decorates a GenerateClient.
type Middleware func(llmclient.GenerateClient) llmclient.GenerateClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner llmclient.GenerateClient, mws ...Middleware) llmclient.GenerateClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// WithLogging logs request size and errors. Pass nil to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next llmclient.GenerateClient) llmclient.GenerateClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.GenerateClient
	log  *log.Logger
}

func (l *logging) Name() string                { return l.next.Name() }
func (l *logging) Close() error                { return l.next.Close() }
func (l *logging) CountTokens(text string) int { return l.next.CountTokens(text) }

func (l *logging) GenerateCode(ctx context.Context, prompt string, params llmclient.Params) (string, error) {
	l.log.Printf("generate request (%s): %d bytes, temp=%.2f, max=%d",
		l.next.Name(), len(prompt), params.Temperature, params.MaxOutputTokens)
	out, err := l.next.GenerateCode(ctx, prompt, params)
	if err != nil {
		l.log.Printf("generate error (%s): %v", l.next.Name(), err)
	}
	return out, err
}
