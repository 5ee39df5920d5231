package llm

import (
	"context"
	"errors"
	"time"

	"github.com/darkxdd/FigmaCursor-sub000/internal/apperr"
	"github.com/darkxdd/FigmaCursor-sub000/internal/llmclient"
)

// RetryPolicy bounds the retry loop. Delay grows as
// min(Base * Factor^attempt, Cap); only transient error classes retry.
type RetryPolicy struct {
	MaxRetries int
	Base       time.Duration
	Factor     float64
	Cap        time.Duration
}

// DefaultRetryPolicy matches the upstream service's documented limits.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	Base:       500 * time.Millisecond,
	Factor:     2,
	Cap:        8 * time.Second,
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.Base <= 0 {
		p.Base = 500 * time.Millisecond
	}
	if p.Factor < 1 {
		p.Factor = 2
	}
	if p.Cap <= 0 {
		p.Cap = 8 * time.Second
	}
	return p
}

// Delay returns the backoff before retry attempt n (0-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := float64(p.Base)
	for i := 0; i < attempt; i++ {
		d *= p.Factor
		if time.Duration(d) >= p.Cap {
			return p.Cap
		}
	}
	if time.Duration(d) > p.Cap {
		return p.Cap
	}
	return time.Duration(d)
}

// Retry retries GenerateCode for transient failures with exponential
// backoff. Auth, validation, and safety-block errors surface immediately.
// A rate-limit retry-after hint overrides the computed delay when longer.
func Retry(policy RetryPolicy) Middleware {
	policy = policy.withDefaults()
	return func(next llmclient.GenerateClient) llmclient.GenerateClient {
		return &retrying{next: next, policy: policy}
	}
}

type retrying struct {
	next   llmclient.GenerateClient
	policy RetryPolicy
}

func (r *retrying) Name() string                { return r.next.Name() }
func (r *retrying) Close() error                { return r.next.Close() }
func (r *retrying) CountTokens(text string) int { return r.next.CountTokens(text) }

func (r *retrying) GenerateCode(ctx context.Context, prompt string, params llmclient.Params) (string, error) {
	var last error
	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		out, err := r.next.GenerateCode(ctx, prompt, params)
		if err == nil {
			return out, nil
		}
		if !apperr.Retryable(err) {
			return "", err
		}
		last = err
		if attempt == r.policy.MaxRetries {
			break
		}
		delay := r.policy.Delay(attempt)
		var ae *apperr.Error
		if errors.As(err, &ae) && ae.RetryAfter > delay {
			delay = ae.RetryAfter
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", last
}
