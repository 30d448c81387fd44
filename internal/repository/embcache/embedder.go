// Package embcache memoizes embeddings in Redis, keyed by model and text hash,
// so re-ingesting unchanged transcripts costs no provider tokens.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/db"
	"github.com/kailas-cloud/transcriptqa/internal/domain"
)

// DefaultKeyPrefix keeps cache entries outside the vector index prefix.
const DefaultKeyPrefix = "transcriptqa:emb_cache:"

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config addresses cache entries.
type Config struct {
	Prefix string        // DefaultKeyPrefix when empty
	Model  string        // separates vectors of different models and dimensions
	TTL    time.Duration // zero keeps entries forever
}

// CachedEmbedder serves repeated texts from the cache. Hits report zero tokens.
type CachedEmbedder struct {
	inner   domain.Embedder
	store   store
	cfg     Config
	lookups *prometheus.CounterVec
	logger  *zap.Logger
}

// New wraps inner. lookups counts cache lookups by "result" (hit or miss) and may be nil.
func New(
	inner domain.Embedder, s store, cfg Config,
	lookups *prometheus.CounterVec, logger *zap.Logger,
) *CachedEmbedder {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{inner: inner, store: s, cfg: cfg, lookups: lookups, logger: logger}
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.key(text)
	if vec, ok := c.lookup(ctx, key); ok {
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	res, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	c.save(ctx, key, res.Embedding)
	return res, nil
}

// BatchEmbed looks every text up and sends the distinct misses to the inner
// embedder in one call. Identical texts within a batch are embedded once.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	out := make([][]float32, len(texts))
	pending := make(map[string][]int) // cache key -> positions awaiting the vector
	var misses, missKeys []string

	for i, text := range texts {
		key := c.key(text)
		if at, seen := pending[key]; seen {
			pending[key] = append(at, i)
			continue
		}
		if vec, ok := c.lookup(ctx, key); ok {
			out[i] = vec
			continue
		}
		pending[key] = []int{i}
		misses = append(misses, text)
		missKeys = append(missKeys, key)
	}

	if len(misses) == 0 {
		return domain.BatchEmbeddingResult{Embeddings: out}, nil
	}

	res, err := domain.EmbedAll(ctx, c.inner, misses)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embed %d uncached texts: %w", len(misses), err)
	}
	for j, key := range missKeys {
		for _, i := range pending[key] {
			out[i] = res.Embeddings[j]
		}
		c.save(ctx, key, res.Embeddings[j])
	}

	c.logger.Debug("Embedding cache batch",
		zap.Int("texts", len(texts)),
		zap.Int("embedded", len(misses)),
	)
	return domain.BatchEmbeddingResult{
		Embeddings:   out,
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	if c.cfg.Model == "" {
		return c.cfg.Prefix + hex.EncodeToString(sum[:])
	}
	return c.cfg.Prefix + c.cfg.Model + ":" + hex.EncodeToString(sum[:])
}

// lookup reads key and counts the outcome. Store and decode failures count as misses.
func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	vec, err := c.read(ctx, key)
	if err != nil && !errors.Is(err, db.ErrKeyNotFound) {
		c.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
	}
	hit := err == nil && len(vec) > 0
	if c.lookups != nil {
		result := "miss"
		if hit {
			result = "hit"
		}
		c.lookups.WithLabelValues(result).Inc()
	}
	return vec, hit
}

func (c *CachedEmbedder) read(ctx context.Context, key string) ([]float32, error) {
	blob, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return db.DecodeVector(blob)
}

// save writes one vector. Failures only cost a future cache miss.
func (c *CachedEmbedder) save(ctx context.Context, key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	if err := c.store.Put(ctx, key, []byte(db.EncodeVector(vec)), c.cfg.TTL); err != nil {
		c.logger.Warn("Embedding cache write failed", zap.String("key", key), zap.Error(err))
	}
}
