package llm

import (
	"context"
	"sync/atomic"

	"github.com/darkxdd/FigmaCursor-sub000/internal/llmclient"
)

// Usage tracks monotonic call and token counters. Counters only grow and
// are safe for concurrent use.
type Usage struct {
	calls  atomic.Int64
	tokens atomic.Int64
	errors atomic.Int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Calls  int64 `json:"calls"`
	Tokens int64 `json:"tokens"`
	Errors int64 `json:"errors"`
}

func (u *Usage) Snapshot() Snapshot {
	return Snapshot{
		Calls:  u.calls.Load(),
		Tokens: u.tokens.Load(),
		Errors: u.errors.Load(),
	}
}

func (u *Usage) record(tokens int, failed bool) {
	u.calls.Add(1)
	u.tokens.Add(int64(tokens))
	if failed {
		u.errors.Add(1)
	}
}

// WithUsage records each call's estimated token cost into usage.
func WithUsage(usage *Usage) Middleware {
	return func(next llmclient.GenerateClient) llmclient.GenerateClient {
		return &counted{next: next, usage: usage}
	}
}

type counted struct {
	next  llmclient.GenerateClient
	usage *Usage
}

func (c *counted) Name() string                { return c.next.Name() }
func (c *counted) Close() error                { return c.next.Close() }
func (c *counted) CountTokens(text string) int { return c.next.CountTokens(text) }

func (c *counted) GenerateCode(ctx context.Context, prompt string, params llmclient.Params) (string, error) {
	tokens := c.next.CountTokens(prompt)
	if tokens < 1 {
		tokens = 1
	}
	out, err := c.next.GenerateCode(ctx, prompt, params)
	if c.usage != nil {
		c.usage.record(tokens, err != nil)
	}
	return out, err
}
