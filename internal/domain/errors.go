package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty query or a non-positive result count.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrIndexNotFound signals that the vector index has not been created yet.
	ErrIndexNotFound = errors.New("index not found")
	// ErrRecordNotFound signals a missing embedding record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrNoDocuments signals that the ingest directory yielded nothing to store.
	ErrNoDocuments = errors.New("no documents to ingest")
	// ErrVectorDimMismatch signals embeddings of different dimensionality in one batch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrRateLimited signals a provider rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted daily or monthly token budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat-completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
)
