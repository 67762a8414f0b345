package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/joseph-ayodele/slm/internal/runner"
)

// TextLayer reads the text a PDF already carries, without OCR.
type TextLayer struct {
	cfg       Config
	runner    runner.Runner
	logger    *slog.Logger
	pageCount func(path string) (int, error)
}

func NewTextLayer(cfg Config, r runner.Runner, logger *slog.Logger) *TextLayer {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = runner.Exec{Logger: logger}
	}
	return &TextLayer{cfg: cfg.WithDefaults(), runner: r, logger: logger, pageCount: api.PageCountFile}
}

// Pages returns the text layer of each page in order; pages without text are "".
func (t *TextLayer) Pages(ctx context.Context, path string) ([]string, error) {
	n, err := t.pageCount(path)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if t.cfg.MaxPages > 0 && n > t.cfg.MaxPages {
		n = t.cfg.MaxPages
	}
	if n == 0 {
		return nil, nil
	}

	// pdftotext -layout -enc UTF-8 -eol unix -l N <path> -
	out, errb, err := t.runner.Run(ctx, t.cfg.Pdftotext,
		"-layout", "-enc", "UTF-8", "-eol", "unix", "-l", strconv.Itoa(n), path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w: %s", err, string(errb))
	}

	// a form-feed terminates every page
	parts := strings.Split(string(out), "\f")
	pages := make([]string, n)
	for i := 0; i < n && i < len(parts); i++ {
		pages[i] = cleanPageText(parts[i])
	}
	t.logger.Debug("ocr.textlayer.ok", "path", path, "pages", n, "bytes", len(out))
	return pages, nil
}
