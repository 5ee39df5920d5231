package llmclient

import (
	"errors"
	"testing"
	"time"

	genai "google.golang.org/genai"

	"github.com/darkxdd/FigmaCursor-sub000/internal/apperr"
	"github.com/darkxdd/FigmaCursor-sub000/internal/tester"
)

func TestClassifyAPIErrorKinds(t *testing.T) {
	cases := []struct {
		name string
		code int
		want apperr.Kind
	}{
		{"unauthorized", 401, apperr.KindAuth},
		{"forbidden", 403, apperr.KindAuth},
		{"rate limited", 429, apperr.KindRateLimit},
		{"bad request", 400, apperr.KindValidation},
		{"internal", 500, apperr.KindServerError},
		{"overloaded", 503, apperr.KindServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyAPIError("gemini.GenerateCode", genai.APIError{Code: tc.code, Message: "x"})
			tester.Eq(t, tc.want, apperr.KindOf(err))
		})
	}
}

func TestClassifyAPIError429CarriesRetryHint(t *testing.T) {
	apiErr := genai.APIError{
		Code:   429,
		Status: "RESOURCE_EXHAUSTED",
		Details: []map[string]any{
			{"@type": "type.googleapis.com/google.rpc.ErrorInfo", "reason": "RATE_LIMIT_EXCEEDED"},
			{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "7s"},
		},
	}
	err := classifyAPIError("gemini.GenerateCode", apiErr)
	tester.Eq(t, apperr.KindRateLimit, apperr.KindOf(err))
	var ae *apperr.Error
	tester.True(t, errors.As(err, &ae))
	tester.Eq(t, 7*time.Second, ae.RetryAfter)
}

func TestRetryHintIgnoresMalformedDetails(t *testing.T) {
	tester.Eq(t, time.Duration(0), retryHint(nil))
	tester.Eq(t, time.Duration(0), retryHint([]map[string]any{
		{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "soon"},
	}))
	tester.Eq(t, time.Duration(0), retryHint([]map[string]any{
		{"@type": "type.googleapis.com/google.rpc.ErrorInfo", "retryDelay": "7s"},
	}))
}
