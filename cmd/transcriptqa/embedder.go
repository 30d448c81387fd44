package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/config"
	"github.com/kailas-cloud/transcriptqa/internal/db"
	"github.com/kailas-cloud/transcriptqa/internal/domain"
	"github.com/kailas-cloud/transcriptqa/internal/metrics"
	budgetrepo "github.com/kailas-cloud/transcriptqa/internal/repository/budget"
	"github.com/kailas-cloud/transcriptqa/internal/repository/embcache"
	openaiTransport "github.com/kailas-cloud/transcriptqa/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/transcriptqa/internal/usecase/embedding"
)

// newBudgetChecker returns a persisted budget tracker, or a nil interface when no limit is set.
func newBudgetChecker(
	ctx context.Context, cfg config.EmbeddingConfig, store db.KVStore, logger *zap.Logger,
) embeddinguc.BudgetChecker {
	if !cfg.Budget.Enabled() {
		// Return an untyped nil: a (*BudgetTracker)(nil) in the interface is not == nil.
		return nil
	}
	action := embeddinguc.BudgetActionWarn
	if cfg.Budget.Action == string(embeddinguc.BudgetActionReject) {
		action = embeddinguc.BudgetActionReject
	}
	tracker := embeddinguc.NewBudgetTracker(
		cfg.Provider, cfg.Budget.DailyTokenLimit, cfg.Budget.MonthlyTokenLimit, action, logger,
	)
	return tracker.WithStore(ctx, budgetrepo.New(store))
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
// store may be nil, which disables the cache.
func buildEmbedder(
	cfg config.EmbeddingConfig,
	store db.KVStore,
	budget embeddinguc.BudgetChecker,
	logger *zap.Logger,
) (domain.Embedder, *openaiTransport.Embedder) {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.Cache && store != nil {
		embedder = embcache.New(base, store, embcache.Config{
			Prefix: cfg.CachePrefix,
			Model:  base.Model(),
			TTL:    time.Duration(cfg.CacheTTLHrs) * time.Hour,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Provider, base.Model(), budget, logger,
	).WithBatchSize(cfg.BatchSize)

	return embedder, base
}
