package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/slm/constants"
)

// PageTexter returns the embedded text of each page of a PDF.
type PageTexter interface {
	Pages(ctx context.Context, path string) ([]string, error)
}

// TextExtractor reads the text layer only.
type TextExtractor struct {
	layer PageTexter
}

func NewTextExtractor(layer PageTexter) *TextExtractor {
	return &TextExtractor{layer: layer}
}

func (e *TextExtractor) Extract(ctx context.Context, path string) (Result, error) {
	if constants.MapExtToFormat(filepath.Ext(path)) != constants.PDF {
		return Result{}, fmt.Errorf("%w: text layer needs a PDF, got %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	texts, err := e.layer.Pages(ctx, path)
	if err != nil {
		return Result{}, err
	}
	return NewResult(texts, "pdf-text"), nil
}

// AutoExtractor prefers the text layer and falls back to OCR for pages
// whose text layer is blank. Images always go through OCR.
type AutoExtractor struct {
	text *TextExtractor
	ocr  Extractor
}

func NewAutoExtractor(text *TextExtractor, ocr Extractor) *AutoExtractor {
	return &AutoExtractor{text: text, ocr: ocr}
}

func (e *AutoExtractor) Extract(ctx context.Context, path string) (Result, error) {
	if constants.MapExtToFormat(filepath.Ext(path)) != constants.PDF {
		return e.ocr.Extract(ctx, path)
	}
	res, err := e.text.Extract(ctx, path)
	if err != nil {
		return Result{}, err
	}
	texts := res.Texts()
	blank := 0
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			blank++
		}
	}
	if blank == 0 {
		return res, nil
	}

	ocrRes, err := e.ocr.Extract(ctx, path)
	if err != nil {
		return Result{}, fmt.Errorf("ocr fallback: %w", err)
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" && i < len(ocrRes.Pages) {
			texts[i] = ocrRes.Pages[i].Text
		}
	}
	method := "pdf-auto"
	if blank == len(texts) {
		method = "pdf-ocr"
	}
	return NewResult(texts, method), nil
}
