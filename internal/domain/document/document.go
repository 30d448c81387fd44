package document

import (
	"errors"
	"maps"
	"strconv"
)

// Metadata keys attached by the loader and the splitter.
const (
	MetaSource = "source"
	MetaLine   = "line"
	MetaChunk  = "chunk"
)

// Document is a loaded transcript (immutable value object).
type Document struct {
	source   string
	text     string
	metadata map[string]string
}

// New validates and creates a Document. The source metadata key is always set.
func New(source, text string, metadata map[string]string) (Document, error) {
	if source == "" {
		return Document{}, errors.New("document source is required")
	}
	md := cloneMetadata(metadata)
	if md == nil {
		md = make(map[string]string, 1)
	}
	md[MetaSource] = source
	return Document{source: source, text: text, metadata: md}, nil
}

// Source returns the source identifier (file path).
func (d *Document) Source() string { return d.source }

// Text returns the raw document text.
func (d *Document) Text() string { return d.text }

// Metadata returns a copy of the document metadata.
func (d *Document) Metadata() map[string]string { return cloneMetadata(d.metadata) }

// Chunk is a token-bounded slice of a Document's text.
type Chunk struct {
	text     string
	source   string
	position int
	metadata map[string]string
}

// NewChunk creates the chunk at position (0-based) of doc.
func NewChunk(doc *Document, text string, position int) Chunk {
	md := doc.Metadata()
	md[MetaChunk] = strconv.Itoa(position)
	return Chunk{text: text, source: doc.source, position: position, metadata: md}
}

// ReconstructChunk creates a Chunk without validation (storage hydration).
func ReconstructChunk(text string, metadata map[string]string) Chunk {
	c := Chunk{text: text, metadata: metadata}
	if metadata != nil {
		c.source = metadata[MetaSource]
		if p, err := strconv.Atoi(metadata[MetaChunk]); err == nil {
			c.position = p
		}
	}
	return c
}

// Text returns the chunk text.
func (c *Chunk) Text() string { return c.text }

// Source returns the parent document source.
func (c *Chunk) Source() string { return c.source }

// Position returns the chunk index within its document.
func (c *Chunk) Position() int { return c.position }

// Metadata returns the chunk metadata (document metadata plus chunk index).
func (c *Chunk) Metadata() map[string]string { return c.metadata }

func cloneMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
