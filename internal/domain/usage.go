package domain

import "context"

type usageKey struct{}

// Usage collects provider token usage for a single request.
// The handler puts a mutable pointer into the context before calling the service;
// the services write after each provider call; the handler reads it for response headers.
type Usage struct {
	EmbeddingTokens int
	ChatTokens      int
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *Usage) {
	u := &Usage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}

// AddEmbeddingTokens records tokens consumed by the embeddings API.
func (u *Usage) AddEmbeddingTokens(n int) {
	if u != nil {
		u.EmbeddingTokens += n
	}
}

// AddChatTokens records tokens consumed by the chat-completion API.
func (u *Usage) AddChatTokens(n int) {
	if u != nil {
		u.ChatTokens += n
	}
}
