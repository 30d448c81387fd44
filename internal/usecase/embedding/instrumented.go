// Package embedding guards the embedding provider with a token budget and
// accounts token usage per request and per run.
package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/domain"
	logpkg "github.com/kailas-cloud/transcriptqa/internal/logger"
	"github.com/kailas-cloud/transcriptqa/internal/metrics"
)

// DefaultMaxAPIBatchSize bounds the number of inputs per provider request.
const DefaultMaxAPIBatchSize = 256

// BudgetChecker enforces a token budget.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedEmbedder is the outermost embedder decorator. It rejects requests
// once the budget is spent, splits large ingestion batches into provider-sized
// requests and adds the consumed tokens to the request Usage and the budget.
// Transport metrics are recorded by the provider itself.
type InstrumentedEmbedder struct {
	inner     domain.Embedder
	provider  string
	model     string
	batchSize int
	budget    BudgetChecker
	logger    *zap.Logger
}

// NewInstrumentedEmbedder wraps inner. budget can be nil.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:     inner,
		provider:  provider,
		model:     model,
		batchSize: DefaultMaxAPIBatchSize,
		budget:    budget,
		logger:    logger,
	}
}

// WithBatchSize overrides the per-request input limit. Non-positive values are ignored.
func (p *InstrumentedEmbedder) WithBatchSize(n int) *InstrumentedEmbedder {
	if n > 0 {
		p.batchSize = n
	}
	return p
}

// Embed embeds a single query text.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	log := p.log(ctx)
	if err := p.guard(ctx, log, 1); err != nil {
		return domain.EmbeddingResult{}, err
	}

	start := time.Now()
	res, err := p.inner.Embed(ctx, text)
	if err != nil {
		log.Error("Embedding request failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	p.settle(ctx, res.TotalTokens)
	log.Debug("Embedding request completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("dimensions", len(res.Embedding)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res, nil
}

// BatchEmbed embeds texts in provider-sized sub-batches, re-checking the budget
// before each one so a long ingestion stops as soon as the budget is spent.
func (p *InstrumentedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	log := p.log(ctx)
	start := time.Now()

	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, 0, len(texts))}
	for offset := 0; offset < len(texts); offset += p.batchSize {
		if err := p.guard(ctx, log, len(texts)-offset); err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("sub-batch at %d: %w", offset, err)
		}

		part := texts[offset:min(offset+p.batchSize, len(texts))]
		res, err := domain.EmbedAll(ctx, p.inner, part)
		if err != nil {
			log.Error("Batch embedding request failed",
				zap.Int("offset", offset),
				zap.Int("size", len(part)),
				zap.Error(err),
			)
			return domain.BatchEmbeddingResult{}, fmt.Errorf("sub-batch at %d: %w", offset, err)
		}

		// Settle per sub-batch: tokens already spent count even if a later one fails.
		p.settle(ctx, res.TotalTokens)
		out.Append(res)
	}

	log.Debug("Batch embedding completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("texts", len(texts)),
		zap.Int("requests", (len(texts)+p.batchSize-1)/p.batchSize),
		zap.Int("total_tokens", out.TotalTokens),
	)
	return out, nil
}

// guard rejects the request when the budget is spent.
func (p *InstrumentedEmbedder) guard(ctx context.Context, log *zap.Logger, pending int) error {
	if p.budget == nil {
		return nil
	}
	if err := p.budget.Check(ctx); err != nil {
		log.Error("Embedding budget exhausted", zap.Int("pending_texts", pending), zap.Error(err))
		return fmt.Errorf("budget check: %w", err)
	}
	return nil
}

// settle accounts consumed tokens to the request usage and the budget.
func (p *InstrumentedEmbedder) settle(ctx context.Context, tokens int) {
	if tokens <= 0 {
		return
	}
	domain.UsageFromContext(ctx).AddEmbeddingTokens(tokens)
	if p.budget == nil {
		return
	}
	p.budget.Record(int64(tokens))
	remaining := metrics.EmbeddingBudgetTokensRemaining
	remaining.WithLabelValues(p.provider, "daily").Set(float64(p.budget.RemainingDaily()))
	remaining.WithLabelValues(p.provider, "monthly").Set(float64(p.budget.RemainingMonthly()))
}

func (p *InstrumentedEmbedder) log(ctx context.Context) *zap.Logger {
	return logpkg.From(ctx, p.logger).With(
		zap.String("provider", p.provider),
		zap.String("model", p.model),
	)
}
