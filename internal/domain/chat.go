package domain

import "context"

// ChatModel is the hosted chat-completion contract: one prompt in, one reply out.
type ChatModel interface {
	Complete(ctx context.Context, prompt string, temperature float32) (ChatResult, error)
}

// ChatResult carries the generated text and token usage.
type ChatResult struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
