package cache_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/slm/internal/extract"
)

type extractorFunc func(ctx context.Context, path string) (extract.Result, error)

func (f extractorFunc) Extract(ctx context.Context, path string) (extract.Result, error) {
	return f(ctx, path)
}

func writeDoc(dir, name string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644)
}
