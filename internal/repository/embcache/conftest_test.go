package embcache

import (
	"context"
	"time"

	"github.com/kailas-cloud/transcriptqa/internal/db"
	"github.com/kailas-cloud/transcriptqa/internal/domain"
)

// fakeEmbedder returns a one-dimensional vector per text: its length.
type fakeEmbedder struct {
	tokensPerText int
	err           error
	batches       [][]string
	singles       int
}

func (f *fakeEmbedder) vector(text string) []float32 { return []float32{float32(len(text))} }

func (f *fakeEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	f.singles++
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{
		Embedding:    f.vector(text),
		PromptTokens: f.tokensPerText,
		TotalTokens:  f.tokensPerText,
	}, nil
}

func (f *fakeEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	f.batches = append(f.batches, append([]string(nil), texts...))
	if f.err != nil {
		return domain.BatchEmbeddingResult{}, f.err
	}
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i, text := range texts {
		out.Embeddings[i] = f.vector(text)
	}
	out.PromptTokens = f.tokensPerText * len(texts)
	out.TotalTokens = out.PromptTokens
	return out, nil
}

type putCall struct {
	key string
	ttl time.Duration
}

// memKV is an in-memory key-value store.
type memKV struct {
	data   map[string][]byte
	puts   []putCall
	getErr error
	putErr error
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	m.puts = append(m.puts, putCall{key: key, ttl: ttl})
	return nil
}
