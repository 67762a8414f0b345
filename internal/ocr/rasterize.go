package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/joseph-ayodele/slm/internal/runner"
)

var rePageImage = regexp.MustCompile(`-(\d+)\.png$`)

// Rasterizer renders every page of a document to an image file.
// Callers must call cleanup once they are done with the images.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string) (images []string, cleanup func(), err error)
}

// PDFRasterizer renders PDF pages with pdftoppm.
type PDFRasterizer struct {
	cfg    Config
	runner runner.Runner
	logger *slog.Logger
}

func NewPDFRasterizer(cfg Config, r runner.Runner, logger *slog.Logger) *PDFRasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = runner.Exec{Logger: logger}
	}
	return &PDFRasterizer{cfg: cfg.WithDefaults(), runner: r, logger: logger}
}

// Rasterize returns page images in page order. An empty slice means the
// document produced no images, which is not an error.
func (p *PDFRasterizer) Rasterize(ctx context.Context, path string) ([]string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "slm-pp-*")
	if err != nil {
		return nil, func() {}, err
	}
	cleanup := func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			p.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png [-l N] <in.pdf> <tmp/page>
	args := []string{"-r", strconv.Itoa(p.cfg.DPI), "-png"}
	if p.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(p.cfg.MaxPages))
	}
	args = append(args, path, prefix)
	if _, errb, err := p.runner.Run(ctx, p.cfg.Pdftoppm, args...); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("pdftoppm: %w: %s", err, string(errb))
	}

	images, err := collectPageImages(prefix)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	if p.cfg.MaxPages > 0 && len(images) > p.cfg.MaxPages {
		images = images[:p.cfg.MaxPages]
	}
	p.logger.Debug("ocr.rasterize.ok", "path", path, "pages", len(images), "dpi", p.cfg.DPI)
	return images, cleanup, nil
}

// collectPageImages finds prefix-N.png files and orders them by N.
// pdftoppm zero-pads N depending on the page count, so lexical order is not enough.
func collectPageImages(prefix string) ([]string, error) {
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}
	type page struct {
		n    int
		path string
	}
	pages := make([]page, 0, len(matches))
	for _, m := range matches {
		sm := rePageImage.FindStringSubmatch(m)
		if sm == nil {
			continue
		}
		n, err := strconv.Atoi(sm[1])
		if err != nil {
			continue
		}
		pages = append(pages, page{n: n, path: m})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })
	out := make([]string, len(pages))
	for i, pg := range pages {
		out[i] = pg.path
	}
	return out, nil
}
