// Package loader turns transcript files on disk into documents.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/domain/document"
)

// Loader converts the raw content of one file into documents.
type Loader interface {
	Load(source string, content []byte) ([]document.Document, error)
}

// DirectoryLoader walks a directory tree and dispatches files to loaders by extension.
type DirectoryLoader struct {
	loaders map[string]Loader
	logger  *zap.Logger
}

// NewDirectoryLoader creates a directory loader. Extension keys are matched
// case-insensitively and include the leading dot (".json").
func NewDirectoryLoader(loaders map[string]Loader, logger *zap.Logger) *DirectoryLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	normalized := make(map[string]Loader, len(loaders))
	for ext, l := range loaders {
		normalized[normalizeExt(ext)] = l
	}
	return &DirectoryLoader{loaders: normalized, logger: logger}
}

// Load reads every supported file under dir in lexical order.
func (d *DirectoryLoader) Load(ctx context.Context, dir string) ([]document.Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var docs []document.Document
	// WalkDir visits entries in lexical order, which keeps ingestion deterministic.
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		l, ok := d.loaders[normalizeExt(filepath.Ext(path))]
		if !ok {
			d.logger.Debug("skipping unsupported file", zap.String("path", path))
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		loaded, err := l.Load(path, content)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		d.logger.Debug("file loaded", zap.String("path", path), zap.Int("documents", len(loaded)))
		docs = append(docs, loaded...)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return docs, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
