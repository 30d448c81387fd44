// Package splitter cuts documents into token-bounded chunks.
package splitter

import (
	"errors"
	"unicode/utf8"

	"github.com/kailas-cloud/transcriptqa/internal/domain/document"
)

// Defaults for transcript chunking.
const (
	DefaultChunkSize    = 600
	DefaultChunkOverlap = 0
)

// TokenSplitter splits text into windows of at most size tokens,
// consecutive windows sharing overlap tokens.
type TokenSplitter struct {
	tok     Tokenizer
	size    int
	overlap int
}

// New creates a token splitter.
func New(tok Tokenizer, size, overlap int) (*TokenSplitter, error) {
	if tok == nil {
		return nil, errors.New("tokenizer is required")
	}
	if size <= 0 {
		return nil, errors.New("chunk size must be positive")
	}
	if overlap < 0 || overlap >= size {
		return nil, errors.New("chunk overlap must be in [0, chunk size)")
	}
	return &TokenSplitter{tok: tok, size: size, overlap: overlap}, nil
}

// SplitText returns the token windows of text. Empty text yields no chunks.
// A window never ends inside a multi-byte character: it gives back tokens
// until its text is valid UTF-8, and the next window starts there. With zero
// overlap the chunks concatenate back to text.
func (s *TokenSplitter) SplitText(text string) []string {
	ids := s.tok.Encode(text)
	if len(ids) == 0 {
		return nil
	}

	step := s.size - s.overlap
	chunks := make([]string, 0, (len(ids)+step-1)/step)
	for start := 0; start < len(ids); {
		end := min(start+s.size, len(ids))
		chunk := s.tok.Decode(ids[start:end])
		for !utf8.ValidString(chunk) && end > start+1 {
			end--
			chunk = s.tok.Decode(ids[start:end])
		}
		chunks = append(chunks, chunk)
		if end == len(ids) {
			break
		}
		start = s.nextStart(ids, start, end)
	}
	return chunks
}

// nextStart backs up overlap tokens from end, always moving past start, and
// skips forward until the overlapping text begins on a character boundary.
func (s *TokenSplitter) nextStart(ids []int, start, end int) int {
	next := max(end-s.overlap, start+1)
	for next < end && !utf8.ValidString(s.tok.Decode(ids[next:end])) {
		next++
	}
	return next
}

// SplitDocuments splits every document, preserving document order.
func (s *TokenSplitter) SplitDocuments(docs []document.Document) []document.Chunk {
	var chunks []document.Chunk
	for i := range docs {
		for pos, text := range s.SplitText(docs[i].Text()) {
			chunks = append(chunks, document.NewChunk(&docs[i], text, pos))
		}
	}
	return chunks
}
