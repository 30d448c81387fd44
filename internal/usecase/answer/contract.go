package answer

import (
	"context"

	"github.com/kailas-cloud/transcriptqa/internal/domain/search/result"
)

// Retriever finds the chunks relevant to a question.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]result.Result, error)
}
