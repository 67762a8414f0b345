package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/slm/internal/runner"
)

// HEIC converter tools.
const (
	HeifConvert = "heif-convert"
	Magick      = "magick"
	Sips        = "sips"
)

// HEICConverter turns HEIC/HEIF photos into PNGs tesseract can read.
type HEICConverter struct {
	tool   string
	runner runner.Runner
	logger *slog.Logger
}

func NewHEICConverter(cfg Config, r runner.Runner, logger *slog.Logger) *HEICConverter {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = runner.Exec{Logger: logger}
	}
	return &HEICConverter{tool: cfg.WithDefaults().HeicConverter, runner: r, logger: logger}
}

// Convert returns the path of a PNG copy of in. The PNG lives in a temp dir
// that cleanup removes.
func (h *HEICConverter) Convert(ctx context.Context, in string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "slm-heic-*")
	if err != nil {
		return "", func() {}, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	out := filepath.Join(tmpDir, base+".png")

	var args []string
	switch h.tool {
	case HeifConvert, Magick:
		args = []string{in, out}
	case Sips:
		args = []string{"-s", "format", "png", in, "--out", out}
	default:
		cleanup()
		return "", func() {}, fmt.Errorf("HEIC not supported: converter must be one of %s | %s | %s", HeifConvert, Magick, Sips)
	}

	if _, errb, err := h.runner.Run(ctx, h.tool, args...); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("%s: %w: %s", h.tool, err, strings.TrimSpace(string(errb)))
	}
	if _, err := os.Stat(out); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("HEIC conversion produced no output: %w", err)
	}
	h.logger.Debug("ocr.heic.converted", "in", in, "out", out, "tool", h.tool)
	return out, cleanup, nil
}
