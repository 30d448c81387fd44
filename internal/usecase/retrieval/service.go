package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/transcriptqa/internal/domain"
	"github.com/kailas-cloud/transcriptqa/internal/domain/search/result"
)

// Service answers similarity queries over the ingested chunks.
type Service struct {
	repo  Repository
	embed domain.Embedder
}

// New creates a retrieval service.
func New(repo Repository, embed domain.Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// Search embeds query and returns at most k chunks ordered by non-increasing similarity.
func (s *Service) Search(ctx context.Context, query string, k int) ([]result.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidQuery, k)
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.repo.Search(ctx, emb.Embedding, k)
	if err != nil {
		return nil, err
	}

	result.SortByScore(results)
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}
