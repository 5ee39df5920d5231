// Package generator dispatches compiled prompts to the code-generation
// service with retries, a strategy-fallback ladder, and a response cache.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/darkxdd/FigmaCursor-sub000/internal/apperr"
	"github.com/darkxdd/FigmaCursor-sub000/internal/cache/memory"
	"github.com/darkxdd/FigmaCursor-sub000/internal/llm"
	"github.com/darkxdd/FigmaCursor-sub000/internal/llmclient"
	"github.com/darkxdd/FigmaCursor-sub000/internal/metadata"
	"github.com/darkxdd/FigmaCursor-sub000/internal/prompt"
)

// Rung is one configuration in the strategy-fallback ladder.
type Rung struct {
	Strategy    prompt.Strategy
	TokenBudget int
	Temperature float32
}

// DefaultLadder steps from the richest strategy down to the terse ones,
// trading context for dispatchability.
var DefaultLadder = []Rung{
	{Strategy: prompt.StrategyDetailed, TokenBudget: 4000, Temperature: 0.2},
	{Strategy: prompt.StrategyVisual, TokenBudget: 3000, Temperature: 0.2},
	{Strategy: prompt.StrategyMinimal, TokenBudget: 1500, Temperature: 0.1},
	{Strategy: prompt.StrategyLastResort, TokenBudget: 500, Temperature: 0},
}

// Result is the outcome of a generation call.
type Result struct {
	Code      string
	Strategy  prompt.Strategy
	FromCache bool
}

type cachedResponse struct {
	text string
}

// Config sizes the response cache and output limits.
type Config struct {
	CacheCapacity   int
	CacheTTL        time.Duration
	MaxOutputTokens int
}

func (c Config) withDefaults() Config {
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = 64
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = 8192
	}
	return c
}

// Service owns the generation client, the response cache, and the usage
// counters. Construct one per process and pass it by handle; there is no
// package-level state.
type Service struct {
	client llmclient.GenerateClient
	cache  *memory.LRUTTL[string, cachedResponse]
	usage  *llm.Usage
	cfg    Config
}

// New wires the client with retry and usage middleware and an LRU+TTL
// response cache.
func New(client llmclient.GenerateClient, policy llm.RetryPolicy, cfg Config) *Service {
	cfg = cfg.withDefaults()
	usage := &llm.Usage{}
	return &Service{
		client: llm.Wrap(client, llm.WithUsage(usage), llm.Retry(policy)),
		cache:  memory.NewLRUTTL[string, cachedResponse](cfg.CacheCapacity, cfg.CacheTTL),
		usage:  usage,
		cfg:    cfg,
	}
}

// Usage returns a snapshot of the monotonic call/token counters.
func (s *Service) Usage() llm.Snapshot { return s.usage.Snapshot() }

// SetCacheClock overrides the cache's time source, used by tests to
// age entries past their TTL.
func (s *Service) SetCacheClock(now func() time.Time) { s.cache.SetClock(now) }

// PromptHash keys the response cache by the exact compiled prompt text.
func PromptHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Generate dispatches one compiled prompt. A cache hit short-circuits the
// network entirely; misses dispatch, then populate the cache on success.
func (s *Service) Generate(ctx context.Context, spec prompt.Spec, temperature float32) (Result, error) {
	if spec.Text == "" {
		return Result{}, apperr.New("generator.Generate", apperr.KindValidation,
			fmt.Errorf("empty prompt"))
	}
	key := PromptHash(spec.Text)
	if hit, ok := s.cache.Get(key); ok {
		return Result{Code: hit.text, Strategy: spec.Strategy, FromCache: true}, nil
	}

	out, err := s.client.GenerateCode(ctx, spec.Text, llmclient.Params{
		Temperature:     temperature,
		MaxOutputTokens: s.cfg.MaxOutputTokens,
	})
	if err != nil {
		return Result{Strategy: spec.Strategy}, err
	}
	s.cache.Set(key, cachedResponse{text: out})
	return Result{Code: out, Strategy: spec.Strategy}, nil
}

// GenerateWithFallback walks the ladder in order: each rung compiles the
// target under its own budget and dispatches. Transient and generation
// failures advance to the next rung; auth, validation, and safety blocks
// abort immediately. Ladder exhaustion raises an aggregated failure.
func (s *Service) GenerateWithFallback(ctx context.Context, target *metadata.Simplified, siblings []*metadata.Simplified, ladder []Rung) (Result, error) {
	const op = "generator.GenerateWithFallback"
	if target == nil {
		return Result{}, apperr.New(op, apperr.KindValidation, fmt.Errorf("nil metadata"))
	}
	if len(ladder) == 0 {
		ladder = DefaultLadder
	}

	var failures []error
	for _, rung := range ladder {
		var spec prompt.Spec
		if rung.Strategy == prompt.StrategyLastResort {
			spec = prompt.LastResort(target)
		} else {
			spec = prompt.Compile(prompt.Request{
				Target:   target,
				Siblings: siblings,
				Strategy: rung.Strategy,
				Budget:   rung.TokenBudget,
			})
		}
		res, err := s.Generate(ctx, spec, rung.Temperature)
		if err == nil {
			return res, nil
		}
		switch apperr.KindOf(err) {
		case apperr.KindAuth, apperr.KindValidation, apperr.KindSafetyBlock:
			return Result{}, err
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		failures = append(failures, fmt.Errorf("%s: %w", rung.Strategy, err))
	}
	return Result{}, apperr.New(op, apperr.KindGeneration, errors.Join(failures...))
}
