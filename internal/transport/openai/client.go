// Package openai adapts OpenAI-compatible HTTP APIs to the domain embedding
// and chat-completion providers.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/transcriptqa/internal/domain"
)

const defaultProvider = "openai"

// newClient builds a client for the OpenAI API or, when baseURL is set,
// for a compatible endpoint.
func newClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// apiError maps a go-openai failure onto sentinel. HTTP 429 additionally
// matches domain.ErrRateLimited; cancellation keeps the context error only.
func apiError(kind string, err, sentinel error) error {
	var (
		status int
		msg    string
	)

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status, msg = apiErr.HTTPStatusCode, apiErr.Message
	case errors.As(err, &reqErr):
		status, msg = reqErr.HTTPStatusCode, errorMessage(reqErr.Body)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s request: %w", kind, err)
	default:
		return fmt.Errorf("%s request failed: %v: %w", kind, err, sentinel)
	}

	if status == http.StatusTooManyRequests {
		sentinel = errors.Join(domain.ErrRateLimited, sentinel)
	}
	return fmt.Errorf("%s API error %d: %s: %w", kind, status, msg, sentinel)
}

// errorMessage pulls a readable message out of an error body. Compatible
// proxies often answer {"detail": ...} instead of the OpenAI error object.
func errorMessage(body []byte) string {
	for _, path := range []string{"detail", "error.message", "message"} {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return strings.TrimSpace(string(body))
}
