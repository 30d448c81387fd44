package loader

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/transcriptqa/internal/domain/document"
)

var (
	_ Loader = TextLoader{}
	_ Loader = PDFLoader{}
)

// TextLoader loads a whole file as one document.
type TextLoader struct{}

// Load returns the file content as a single document.
func (TextLoader) Load(source string, content []byte) ([]document.Document, error) {
	doc, err := document.New(source, string(content), nil)
	if err != nil {
		return nil, err
	}
	return []document.Document{doc}, nil
}

// PDFLoader extracts plain text from a PDF, one document per non-empty page.
type PDFLoader struct{}

// Load returns one document per page with text, tagged with its 1-based page number.
func (PDFLoader) Load(source string, content []byte) ([]document.Document, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty pdf content")
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var docs []document.Document
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		doc, err := document.New(source, text, map[string]string{
			document.MetaLine: strconv.Itoa(i),
		})
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
