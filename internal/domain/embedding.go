package domain

import (
	"context"
	"fmt"
)

// Embedder turns a text into a vector. Providers, caches and budget guards
// all implement it so they can be stacked.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder is implemented by embedders that vectorize many texts per call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// EmbeddingResult is one vector plus the tokens spent on it.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult holds one vector per input text, in input order,
// plus the tokens spent on all of them.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// Append adds the vectors and usage of next after those already held.
func (r *BatchEmbeddingResult) Append(next BatchEmbeddingResult) {
	r.Embeddings = append(r.Embeddings, next.Embeddings...)
	r.PromptTokens += next.PromptTokens
	r.TotalTokens += next.TotalTokens
}

// EmbedAll vectorizes texts in order. It prefers BatchEmbed and otherwise
// calls Embed once per text. A batch reply with the wrong number of vectors
// is reported as ErrEmbeddingProviderError.
func EmbedAll(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return BatchEmbeddingResult{}, nil
	}

	be, ok := e.(BatchEmbedder)
	if !ok {
		return embedEach(ctx, e, texts)
	}
	res, err := be.BatchEmbed(ctx, texts)
	if err != nil {
		return BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	if got := len(res.Embeddings); got != len(texts) {
		return BatchEmbeddingResult{}, fmt.Errorf("batch embed returned %d vectors for %d texts: %w",
			got, len(texts), ErrEmbeddingProviderError)
	}
	return res, nil
}

func embedEach(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	out := BatchEmbeddingResult{Embeddings: make([][]float32, 0, len(texts))}
	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("embed text %d: %w", i, err)
		}
		out.Append(BatchEmbeddingResult{
			Embeddings:   [][]float32{res.Embedding},
			PromptTokens: res.PromptTokens,
			TotalTokens:  res.TotalTokens,
		})
	}
	return out, nil
}
