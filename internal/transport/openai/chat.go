package openai

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/domain"
	"github.com/kailas-cloud/transcriptqa/internal/metrics"
)

// DefaultChatModel is the chat-completion model used when none is configured.
const DefaultChatModel = openai.GPT3Dot5Turbo

// ChatConfig holds the chat-completion provider settings.
type ChatConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	User     string
	Provider string
	Logger   *zap.Logger
}

// Chat is a chat-completion provider using the OpenAI-compatible API.
type Chat struct {
	client   *openai.Client
	model    string
	user     string
	provider string
	logger   *zap.Logger
}

// NewChat creates an OpenAI-compatible chat-completion provider.
func NewChat(cfg *ChatConfig) *Chat {
	c := &Chat{
		client:   newClient(cfg.APIKey, cfg.BaseURL),
		model:    cmp.Or(cfg.Model, DefaultChatModel),
		user:     cfg.User,
		provider: cmp.Or(cfg.Provider, defaultProvider),
		logger:   cfg.Logger,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Complete implements domain.ChatModel: one user message, one non-streamed reply.
func (c *Chat) Complete(ctx context.Context, prompt string, temperature float32) (domain.ChatResult, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: wireTemperature(temperature),
		User:        c.user,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return domain.ChatResult{}, apiError("chat", err, domain.ErrChatProviderError)
	}
	if len(resp.Choices) == 0 {
		metrics.ChatRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return domain.ChatResult{}, fmt.Errorf("empty chat response: %w", domain.ErrChatProviderError)
	}

	metrics.ChatRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.ChatRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())
	metrics.ChatTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.ChatTokensTotal.WithLabelValues(c.provider, c.model, "completion").Add(float64(resp.Usage.CompletionTokens))

	c.logger.Debug("Chat completion",
		zap.String("model", resp.Model),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", duration),
	)

	return domain.ChatResult{
		Text:             resp.Choices[0].Message.Content,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies that the configured model is reachable.
func (c *Chat) HealthCheck(ctx context.Context) error {
	if _, err := c.client.GetModel(ctx, c.model); err != nil {
		return fmt.Errorf("get model %s: %w", c.model, err)
	}
	return nil
}

// wireTemperature keeps an explicit zero on the wire. The request field is
// omitempty, and an omitted temperature makes the API fall back to 1.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
