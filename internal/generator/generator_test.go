package generator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkxdd/FigmaCursor-sub000/internal/apperr"
	"github.com/darkxdd/FigmaCursor-sub000/internal/llm"
	"github.com/darkxdd/FigmaCursor-sub000/internal/llmclient"
	"github.com/darkxdd/FigmaCursor-sub000/internal/metadata"
	"github.com/darkxdd/FigmaCursor-sub000/internal/prompt"
)

// fakeClient scripts one error (or success) per call in order; calls past
// the script succeed.
type fakeClient struct {
	mu     sync.Mutex
	calls  int
	script []error
	out    string
}

func (f *fakeClient) Name() string { return "fake" }
func (f *fakeClient) Close() error { return nil }
func (f *fakeClient) CountTokens(text string) int {
	return len(text) / 4
}

func (f *fakeClient) GenerateCode(ctx context.Context, promptText string, params llmclient.Params) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.script) && f.script[i] != nil {
		return "", f.script[i]
	}
	if f.out != "" {
		return f.out, nil
	}
	return "const Out = () => null;", nil
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func rateLimited() error {
	return apperr.New("fake", apperr.KindRateLimit, fmt.Errorf("429"))
}

func fastPolicy(maxRetries int) llm.RetryPolicy {
	return llm.RetryPolicy{MaxRetries: maxRetries, Base: time.Millisecond, Factor: 2, Cap: 4 * time.Millisecond}
}

func testMeta() *metadata.Simplified {
	return &metadata.Simplified{
		ID: "9:9", Name: "Pricing Card", Type: "COMPONENT",
		SemanticType: metadata.SemanticCard,
		Width:        300, Height: 420,
		Text: "Pro plan",
	}
}

func TestRetryBoundMakesMaxRetriesPlusOneAttempts(t *testing.T) {
	fake := &fakeClient{script: []error{rateLimited(), rateLimited(), rateLimited(), rateLimited(), rateLimited()}}
	client := llm.Wrap(fake, llm.Retry(fastPolicy(2)))

	_, err := client.GenerateCode(context.Background(), "prompt", llmclient.Params{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindRateLimit, apperr.KindOf(err))
	assert.Equal(t, 3, fake.callCount(), "maxRetries+1 attempts")
}

func TestRetryDelaysNonDecreasing(t *testing.T) {
	p := llm.RetryPolicy{MaxRetries: 5, Base: 100 * time.Millisecond, Factor: 2, Cap: time.Second}
	prev := time.Duration(0)
	for attempt := 0; attempt <= 5; attempt++ {
		d := p.Delay(attempt)
		assert.GreaterOrEqual(t, d, prev)
		assert.LessOrEqual(t, d, time.Second)
		prev = d
	}
}

func TestNoRetryOnAuthError(t *testing.T) {
	fake := &fakeClient{script: []error{apperr.New("fake", apperr.KindAuth, fmt.Errorf("401"))}}
	client := llm.Wrap(fake, llm.Retry(fastPolicy(3)))

	_, err := client.GenerateCode(context.Background(), "prompt", llmclient.Params{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
	assert.Equal(t, 1, fake.callCount())
}

func TestFallbackLadderSucceedsOnLastRung(t *testing.T) {
	// Rungs 1-3 hit the rate limit; rung 4 succeeds.
	fake := &fakeClient{
		script: []error{rateLimited(), rateLimited(), rateLimited(), nil},
		out:    "const Card = () => null;",
	}
	svc := New(fake, fastPolicy(0), Config{})

	res, err := svc.GenerateWithFallback(context.Background(), testMeta(), nil, DefaultLadder)
	require.NoError(t, err)
	assert.Equal(t, "const Card = () => null;", res.Code)
	assert.Equal(t, prompt.StrategyLastResort, res.Strategy)
	assert.Equal(t, 4, fake.callCount())
}

func TestFallbackLadderExhaustion(t *testing.T) {
	fake := &fakeClient{script: []error{rateLimited(), rateLimited(), rateLimited(), rateLimited()}}
	svc := New(fake, fastPolicy(0), Config{})

	_, err := svc.GenerateWithFallback(context.Background(), testMeta(), nil, DefaultLadder)
	require.Error(t, err)
	assert.Equal(t, apperr.KindGeneration, apperr.KindOf(err))
	assert.Equal(t, 4, fake.callCount())
}

func TestFallbackAbortsOnSafetyBlock(t *testing.T) {
	fake := &fakeClient{script: []error{apperr.New("fake", apperr.KindSafetyBlock, fmt.Errorf("blocked"))}}
	svc := New(fake, fastPolicy(0), Config{})

	_, err := svc.GenerateWithFallback(context.Background(), testMeta(), nil, DefaultLadder)
	require.Error(t, err)
	assert.Equal(t, apperr.KindSafetyBlock, apperr.KindOf(err))
	assert.Equal(t, 1, fake.callCount(), "safety blocks do not advance the ladder")
}

func TestCacheHitSkipsDispatch(t *testing.T) {
	fake := &fakeClient{}
	svc := New(fake, fastPolicy(0), Config{})
	spec := prompt.LastResort(testMeta())

	first, err := svc.Generate(context.Background(), spec, 0)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := svc.Generate(context.Background(), spec, 0)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, 1, fake.callCount(), "identical prompt within TTL dispatches once")
}

func TestCacheTTLExpiryRedispatches(t *testing.T) {
	fake := &fakeClient{}
	svc := New(fake, fastPolicy(0), Config{CacheTTL: 5 * time.Minute})
	spec := prompt.LastResort(testMeta())

	now := time.Now()
	svc.SetCacheClock(func() time.Time { return now })
	_, err := svc.Generate(context.Background(), spec, 0)
	require.NoError(t, err)

	// An entry created 10 minutes ago with a 5 minute TTL is a miss.
	svc.SetCacheClock(func() time.Time { return now.Add(10 * time.Minute) })
	res, err := svc.Generate(context.Background(), spec, 0)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 2, fake.callCount())
}

func TestUsageCountersAreMonotonic(t *testing.T) {
	fake := &fakeClient{script: []error{nil, rateLimited()}}
	svc := New(fake, fastPolicy(0), Config{})

	_, _ = svc.Generate(context.Background(), prompt.LastResort(testMeta()), 0)
	m := testMeta()
	m.Name = "Other Card"
	_, _ = svc.Generate(context.Background(), prompt.LastResort(m), 0)

	snap := svc.Usage()
	assert.Equal(t, int64(2), snap.Calls)
	assert.Equal(t, int64(1), snap.Errors)
	assert.Greater(t, snap.Tokens, int64(0))
}

func TestPromptHashStable(t *testing.T) {
	a := PromptHash("same text")
	b := PromptHash("same text")
	c := PromptHash("other text")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
