package ingest

import (
	"context"

	domdoc "github.com/kailas-cloud/transcriptqa/internal/domain/document"
)

// DocumentLoader reads transcripts from a directory.
type DocumentLoader interface {
	Load(ctx context.Context, dir string) ([]domdoc.Document, error)
}

// Splitter cuts documents into token-bounded chunks.
type Splitter interface {
	SplitDocuments(docs []domdoc.Document) []domdoc.Chunk
}

// Repository stores chunk embeddings in the vector index.
type Repository interface {
	EnsureIndex(ctx context.Context, dim int) error
	DropIndex(ctx context.Context) error
	Add(ctx context.Context, chunks []domdoc.Chunk, vectors [][]float32) ([]string, error)
}
