package retrieval

import (
	"context"

	"github.com/kailas-cloud/transcriptqa/internal/domain/search/result"
)

// Repository runs KNN queries against the vector index.
type Repository interface {
	Search(ctx context.Context, vector []float32, k int) ([]result.Result, error)
}
