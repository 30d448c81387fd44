package loader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/transcriptqa/internal/domain/document"
)

// DefaultTextPointer addresses the transcript text in a JSON file.
const DefaultTextPointer = "/text"

var _ Loader = (*JSONLoader)(nil)

// JSONLoader extracts text from a JSON file at an RFC 6901 pointer.
// Every string found under the pointer becomes one document, with a
// 1-based "line" in its metadata.
type JSONLoader struct {
	pointer string
	path    string
}

// NewJSONLoader creates a JSON loader for the given pointer ("" addresses the root).
func NewJSONLoader(pointer string) (*JSONLoader, error) {
	path, err := pointerToPath(pointer)
	if err != nil {
		return nil, err
	}
	return &JSONLoader{pointer: pointer, path: path}, nil
}

// Load parses content and returns one document per string under the pointer.
func (l *JSONLoader) Load(source string, content []byte) ([]document.Document, error) {
	if !gjson.ValidBytes(content) {
		return nil, fmt.Errorf("invalid json")
	}
	value := gjson.GetBytes(content, l.path)
	if !value.Exists() {
		return nil, fmt.Errorf("json pointer %q not found", l.pointer)
	}

	var texts []string
	collectStrings(value, &texts)

	docs := make([]document.Document, 0, len(texts))
	for i, text := range texts {
		doc, err := document.New(source, text, map[string]string{
			document.MetaLine: strconv.Itoa(i + 1),
		})
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// collectStrings gathers string leaves depth-first in document order.
func collectStrings(v gjson.Result, out *[]string) {
	switch {
	case v.Type == gjson.String:
		*out = append(*out, v.Str)
	case v.IsArray(), v.IsObject():
		v.ForEach(func(_, child gjson.Result) bool {
			collectStrings(child, out)
			return true
		})
	}
}

// pointerToPath converts an RFC 6901 JSON pointer into a gjson path.
func pointerToPath(pointer string) (string, error) {
	if pointer == "" {
		return "@this", nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return "", fmt.Errorf("json pointer %q must start with '/'", pointer)
	}

	tokens := strings.Split(pointer[1:], "/")
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		tok = strings.ReplaceAll(tok, "~1", "/")
		tok = strings.ReplaceAll(tok, "~0", "~")
		parts[i] = escapePathComponent(tok)
	}
	return strings.Join(parts, "."), nil
}

func escapePathComponent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%', '(', ')', ',', '[', ']', '{', '}', '"', ':', '^':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
