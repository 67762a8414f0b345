package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/slm/constants"
	"github.com/joseph-ayodele/slm/internal/ocr"
)

// ErrUnsupportedFormat is returned for files that are neither PDFs nor images.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Converter turns a photo the recognizer cannot read into one it can.
type Converter interface {
	Convert(ctx context.Context, path string) (out string, cleanup func(), err error)
}

// OCROptions tune the OCR strategy.
type OCROptions struct {
	Concurrency int       // pages recognized at once; 1 keeps it sequential
	HEIC        Converter // nil leaves HEIC/HEIF unsupported
}

// OCRExtractor rasterizes every page and recognizes each image.
type OCRExtractor struct {
	raster ocr.Rasterizer
	rec    ocr.Recognizer
	cfg    ocr.Config
	opts   OCROptions
	logger *slog.Logger
}

func NewOCRExtractor(raster ocr.Rasterizer, rec ocr.Recognizer, cfg ocr.Config, opts OCROptions, logger *slog.Logger) *OCRExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &OCRExtractor{raster: raster, rec: rec, cfg: cfg, opts: opts, logger: logger}
}

func (e *OCRExtractor) Extract(ctx context.Context, path string) (Result, error) {
	var (
		images  []string
		cleanup = func() {}
		method  string
	)
	switch constants.MapExtToFormat(filepath.Ext(path)) {
	case constants.PDF:
		var err error
		images, cleanup, err = e.raster.Rasterize(ctx, path)
		if err != nil {
			return Result{}, fmt.Errorf("rasterize: %w", err)
		}
		method = "pdf-ocr"
	case constants.IMAGE:
		images = []string{path}
		method = "image-ocr"
	case constants.HEIC:
		if e.opts.HEIC == nil {
			return Result{}, fmt.Errorf("%w: %q (no HEIC converter)", ErrUnsupportedFormat, filepath.Ext(path))
		}
		png, done, err := e.opts.HEIC.Convert(ctx, path)
		if err != nil {
			return Result{}, fmt.Errorf("convert: %w", err)
		}
		images, cleanup = []string{png}, done
		method = "image-ocr"
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	defer cleanup()

	if len(images) == 0 {
		e.logger.Warn("extract.ocr.no_images", "path", path)
		return NewResult(nil, method), nil
	}

	texts, err := e.recognizeAll(ctx, images)
	if err != nil {
		return Result{}, err
	}
	return NewResult(texts, method), nil
}

// recognizeAll keeps texts[i] aligned with images[i] whatever the concurrency.
func (e *OCRExtractor) recognizeAll(ctx context.Context, images []string) ([]string, error) {
	prepDir := ""
	if e.cfg.Grayscale || e.cfg.MinWidth > 0 {
		dir, err := os.MkdirTemp("", "slm-prep-*")
		if err != nil {
			return nil, err
		}
		defer func() { _ = os.RemoveAll(dir) }()
		prepDir = dir
	}

	texts := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, img := range images {
		g.Go(func() error {
			start := time.Now()
			in := img
			if prepDir != "" {
				p, err := ocr.PreprocessFile(img, prepDir, e.cfg)
				if err != nil {
					return fmt.Errorf("page %d: preprocess: %w", i+1, err)
				}
				in = p
			}
			txt, err := e.rec.Recognize(gctx, in)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			if e.cfg.Normalize {
				txt = ocr.Normalize(txt)
			}
			texts[i] = txt
			e.logger.Debug("extract.page.ok", "page_no", i+1, "bytes", len(txt),
				"elapsed_ms", time.Since(start).Milliseconds())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
