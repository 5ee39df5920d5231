package llm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/darkxdd/FigmaCursor-sub000/internal/apperr"
	"github.com/darkxdd/FigmaCursor-sub000/internal/llmclient"
	"github.com/darkxdd/FigmaCursor-sub000/internal/tester"
)

type scriptedClient struct {
	calls  int
	script []error
}

func (s *scriptedClient) Name() string                { return "scripted" }
func (s *scriptedClient) Close() error                { return nil }
func (s *scriptedClient) CountTokens(text string) int { return len(text) / 4 }

func (s *scriptedClient) GenerateCode(ctx context.Context, prompt string, params llmclient.Params) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.script) && s.script[i] != nil {
		return "", s.script[i]
	}
	return "ok", nil
}

func TestRetryHonorsLongerRetryAfterHint(t *testing.T) {
	hinted := apperr.New("scripted", apperr.KindRateLimit, fmt.Errorf("429"))
	hinted.RetryAfter = 60 * time.Millisecond
	fake := &scriptedClient{script: []error{hinted, nil}}

	// Computed backoff caps at 2ms, so only the hint can explain a 60ms wait.
	client := Wrap(fake, Retry(RetryPolicy{MaxRetries: 2, Base: time.Millisecond, Factor: 2, Cap: 2 * time.Millisecond}))
	startedAt := time.Now()
	out, err := client.GenerateCode(context.Background(), "prompt", llmclient.Params{})
	elapsed := time.Since(startedAt)

	tester.NoErr(t, err)
	tester.Eq(t, "ok", out)
	tester.Eq(t, 2, fake.calls)
	tester.True(t, elapsed >= 60*time.Millisecond, "waited less than the retry-after hint")
}

func TestRetryShorterHintKeepsComputedDelay(t *testing.T) {
	hinted := apperr.New("scripted", apperr.KindRateLimit, fmt.Errorf("429"))
	hinted.RetryAfter = time.Nanosecond
	fake := &scriptedClient{script: []error{hinted, nil}}

	client := Wrap(fake, Retry(RetryPolicy{MaxRetries: 2, Base: time.Millisecond, Factor: 2, Cap: 2 * time.Millisecond}))
	out, err := client.GenerateCode(context.Background(), "prompt", llmclient.Params{})

	tester.NoErr(t, err)
	tester.Eq(t, "ok", out)
	tester.Eq(t, 2, fake.calls)
}

func TestRetryCancelledWhileWaiting(t *testing.T) {
	hinted := apperr.New("scripted", apperr.KindRateLimit, fmt.Errorf("429"))
	hinted.RetryAfter = time.Minute
	fake := &scriptedClient{script: []error{hinted, nil}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	client := Wrap(fake, Retry(RetryPolicy{MaxRetries: 2, Base: time.Millisecond, Factor: 2, Cap: 2 * time.Millisecond}))
	_, err := client.GenerateCode(ctx, "prompt", llmclient.Params{})

	tester.IsErr(t, err, context.DeadlineExceeded)
	tester.Eq(t, 1, fake.calls)
}
