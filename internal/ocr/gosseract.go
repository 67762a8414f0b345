//go:build gosseract

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Gosseract recognizes images in-process through libtesseract.
type Gosseract struct {
	cfg Config
}

func NewGosseract(cfg Config) (Recognizer, error) {
	return &Gosseract{cfg: cfg.WithDefaults()}, nil
}

// Recognize uses a fresh client per image so pages can be recognized in parallel.
// OEM is fixed by the library's default initialisation.
func (g *Gosseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := gosseract.NewClient()
	defer func() { _ = c.Close() }()

	if g.cfg.TessdataDir != "" {
		if err := c.SetTessdataPrefix(g.cfg.TessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := c.SetLanguage(g.cfg.Lang); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(g.cfg.PSM)); err != nil {
		return "", fmt.Errorf("set psm: %w", err)
	}
	if g.cfg.PreserveInterwordSpaces {
		if err := c.SetVariable(gosseract.SettableVariable("preserve_interword_spaces"), "1"); err != nil {
			return "", fmt.Errorf("set preserve_interword_spaces: %w", err)
		}
	}
	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return cleanPageText(text), nil
}
