package llmclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	genai "google.golang.org/genai"

	"github.com/darkxdd/FigmaCursor-sub000/internal/apperr"
)

// GeminiClient is a thin wrapper around the official genai client. It only
// maps the API call and its failure modes; retries and observability are
// layered on via middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	// The genai client reads GEMINI_API_KEY from the environment.
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) CountTokens(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	return len(text) / 4
}

// GenerateCode dispatches prompt with explicit temperature and output
// limits. Responses flagged as safety-blocked or truncated, or lacking any
// generated text, surface as distinct typed failures.
func (g *GeminiClient) GenerateCode(ctx context.Context, prompt string, params Params) (string, error) {
	const op = "gemini.GenerateCode"
	cfg := &genai.GenerateContentConfig{}
	cfg.Temperature = genai.Ptr(params.Temperature)
	if params.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(params.MaxOutputTokens)
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err != nil {
		return "", classifyAPIError(op, err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", apperr.New(op, apperr.KindSafetyBlock,
			fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason))
	}
	if len(resp.Candidates) == 0 {
		return "", apperr.New(op, apperr.KindGeneration, fmt.Errorf("no candidates in response"))
	}

	cand := resp.Candidates[0]
	switch cand.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent:
		return "", apperr.New(op, apperr.KindSafetyBlock,
			fmt.Errorf("candidate blocked: %s", cand.FinishReason))
	case genai.FinishReasonMaxTokens:
		return "", apperr.New(op, apperr.KindTruncation,
			fmt.Errorf("output truncated at token limit"))
	}
	if cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0].Text == "" {
		return "", apperr.New(op, apperr.KindGeneration, fmt.Errorf("response carries no generated text"))
	}
	return cand.Content.Parts[0].Text, nil
}

func classifyAPIError(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return apperr.New(op, apperr.KindAuth, err)
		case apiErr.Code == 429:
			e := apperr.New(op, apperr.KindRateLimit, err)
			e.RetryAfter = retryHint(apiErr.Details)
			return e
		case apiErr.Code == 400:
			return apperr.New(op, apperr.KindValidation, err)
		case apiErr.Code >= 500:
			return apperr.New(op, apperr.KindServerError, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.New(op, apperr.KindTimeout, err)
	}
	return apperr.New(op, apperr.KindServerError, err)
}

// retryHint extracts the RetryInfo delay a 429 carries in its error
// details, e.g. {"@type": ".../google.rpc.RetryInfo", "retryDelay": "7s"}.
func retryHint(details []map[string]any) time.Duration {
	for _, d := range details {
		t, _ := d["@type"].(string)
		if !strings.HasSuffix(t, "google.rpc.RetryInfo") {
			continue
		}
		raw, _ := d["retryDelay"].(string)
		if dur, err := time.ParseDuration(raw); err == nil && dur > 0 {
			return dur
		}
	}
	return 0
}
