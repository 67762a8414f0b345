package ocr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/slm/constants"
	"github.com/joseph-ayodele/slm/internal/runner"
)

// Recognizer turns one page image into text.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// NewRecognizer picks the engine named in cfg.Engine.
func NewRecognizer(cfg Config, r runner.Runner, logger *slog.Logger) (Recognizer, error) {
	cfg = cfg.WithDefaults()
	switch cfg.Engine {
	case constants.EngineTesseract:
		return NewTesseractCLI(cfg, r, logger), nil
	case constants.EngineGosseract:
		return NewGosseract(cfg)
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", cfg.Engine)
	}
}

// TesseractCLI runs the tesseract binary once per image.
type TesseractCLI struct {
	cfg    Config
	runner runner.Runner
	logger *slog.Logger
}

func NewTesseractCLI(cfg Config, r runner.Runner, logger *slog.Logger) *TesseractCLI {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = runner.Exec{Logger: logger}
	}
	return &TesseractCLI{cfg: cfg.WithDefaults(), runner: r, logger: logger}
}

// Args builds: tesseract <img> stdout -l <lang> --oem N --psm N [-c preserve_interword_spaces=1] [--tessdata-dir d]
func (t *TesseractCLI) Args(imagePath string) []string {
	args := []string{imagePath, "stdout", "-l", t.cfg.Lang}
	args = append(args, t.cfg.TesseractOptions()...)
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	return args
}

func (t *TesseractCLI) Recognize(ctx context.Context, imagePath string) (string, error) {
	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, t.Args(imagePath)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, string(errb))
	}
	return cleanPageText(string(out)), nil
}
