package openai

import (
	"cmp"
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/domain"
	"github.com/kailas-cloud/transcriptqa/internal/metrics"
)

// DefaultEmbeddingModel is the embeddings model used when none is configured.
const DefaultEmbeddingModel = "text-embedding-ada-002"

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string // empty selects the OpenAI API
	Model      string
	Dimensions int // 0 keeps the model's native size
	User       string
	Provider   string
	Logger     *zap.Logger
}

// Embedder turns texts into vectors through the embeddings endpoint and
// records per-request transport metrics.
type Embedder struct {
	client   *openai.Client
	template openai.EmbeddingRequest
	provider string
	logger   *zap.Logger
}

// NewEmbedder creates an embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	template := openai.EmbeddingRequest{
		Model:          openai.EmbeddingModel(cmp.Or(cfg.Model, DefaultEmbeddingModel)),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           cfg.User,
	}
	if cfg.Dimensions > 0 {
		template.Dimensions = cfg.Dimensions
	}
	e := &Embedder{
		client:   newClient(cfg.APIKey, cfg.BaseURL),
		template: template,
		provider: cmp.Or(cfg.Provider, defaultProvider),
		logger:   cfg.Logger,
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Model returns the embeddings model sent with every request.
func (e *Embedder) Model() string { return string(e.template.Model) }

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    res.Embeddings[0],
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// BatchEmbed implements domain.BatchEmbedder with one request for all texts.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	req := e.template
	req.Input = texts

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		e.fail("api_error")
		return domain.BatchEmbeddingResult{}, apiError("embedding", err, domain.ErrEmbeddingProviderError)
	}

	vectors, err := byIndex(resp.Data, len(texts))
	if err != nil {
		e.fail("invalid_response")
		return domain.BatchEmbeddingResult{}, err
	}
	e.succeed(elapsed, resp.Usage)

	e.logger.Debug("Embeddings created",
		zap.String("model", e.Model()),
		zap.Int("inputs", len(texts)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", elapsed),
	)
	return domain.BatchEmbeddingResult{
		Embeddings:   vectors,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck lists models, which costs no tokens.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (e *Embedder) fail(reason string) {
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.Model(), "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.Model(), reason).Inc()
}

func (e *Embedder) succeed(elapsed time.Duration, usage openai.Usage) {
	model := e.Model()
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, model).Observe(elapsed.Seconds())
	if usage.TotalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, model, "prompt").Add(float64(usage.PromptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, model, "total").Add(float64(usage.TotalTokens))
	}
}

// byIndex places each vector at its input position. The response must hold
// exactly one vector per input.
func byIndex(data []openai.Embedding, n int) ([][]float32, error) {
	if len(data) != n {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs: %w",
			len(data), n, domain.ErrEmbeddingProviderError)
	}
	out := make([][]float32, n)
	for _, d := range data {
		if d.Index < 0 || d.Index >= n || out[d.Index] != nil {
			return nil, fmt.Errorf("embedding response has invalid index %d: %w",
				d.Index, domain.ErrEmbeddingProviderError)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}
