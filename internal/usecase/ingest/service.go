package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/domain"
	logpkg "github.com/kailas-cloud/transcriptqa/internal/logger"
	"github.com/kailas-cloud/transcriptqa/internal/metrics"
)

// Report summarizes a finished ingestion run.
type Report struct {
	Documents int
	Chunks    int
	Keys      []string
}

// Service runs the ingestion flow: load, split, embed, store.
type Service struct {
	loader   DocumentLoader
	splitter Splitter
	embed    domain.Embedder
	repo     Repository
	recreate bool
	logger   *zap.Logger
}

// New creates an ingestion service.
func New(
	loader DocumentLoader, splitter Splitter, embed domain.Embedder,
	repo Repository, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		loader:   loader,
		splitter: splitter,
		embed:    embed,
		repo:     repo,
		logger:   logger,
	}
}

// WithRecreate makes every run drop the index and its records before storing new ones.
// The drop happens only after all chunks were embedded.
func (s *Service) WithRecreate(recreate bool) *Service {
	s.recreate = recreate
	return s
}

// Ingest loads every supported file under dir and stores its chunks in one batch.
// Any failure aborts the run; nothing is retried.
func (s *Service) Ingest(ctx context.Context, dir string) (Report, error) {
	start := time.Now()
	log := logpkg.From(ctx, s.logger)
	log.Info("ingest started", zap.String("dir", dir))

	docs, err := s.loader.Load(ctx, dir)
	if err != nil {
		return Report{}, fmt.Errorf("load documents: %w", err)
	}
	metrics.IngestDocumentsTotal.Add(float64(len(docs)))

	chunks := s.splitter.SplitDocuments(docs)
	if len(chunks) == 0 {
		return Report{Documents: len(docs)}, fmt.Errorf("%s: %w", dir, domain.ErrNoDocuments)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text()
	}

	emb, err := domain.EmbedAll(ctx, s.embed, texts)
	if err != nil {
		return Report{}, fmt.Errorf("embed chunks: %w", err)
	}

	if s.recreate {
		if err = s.repo.DropIndex(ctx); err != nil {
			return Report{}, fmt.Errorf("drop index: %w", err)
		}
		log.Info("index dropped before ingest")
	}

	if err = s.repo.EnsureIndex(ctx, len(emb.Embeddings[0])); err != nil {
		return Report{}, fmt.Errorf("ensure index: %w", err)
	}

	keys, err := s.repo.Add(ctx, chunks, emb.Embeddings)
	if err != nil {
		return Report{}, fmt.Errorf("store chunks: %w", err)
	}
	metrics.IngestChunksTotal.Add(float64(len(keys)))

	elapsed := time.Since(start)
	metrics.IngestDuration.Observe(elapsed.Seconds())
	log.Info("ingest finished",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(keys)),
		zap.Int("tokens", emb.TotalTokens),
		zap.Duration("duration", elapsed),
	)

	return Report{Documents: len(docs), Chunks: len(chunks), Keys: keys}, nil
}
