// Package ocr turns document pages into images and images into text.
//
// Rasterization shells out to poppler's pdftoppm, recognition to the
// tesseract CLI (or, with the gosseract build tag, to libtesseract in-process).
// The embedded text layer is read with pdftotext and paged with pdfcpu.
package ocr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/slm/constants"
)

// ErrEngineNotCompiled is returned when the selected engine was not built in.
var ErrEngineNotCompiled = errors.New("ocr engine not compiled into this binary")

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Engine                  string // "tesseract" (CLI) | "gosseract"
	Lang                    string // default "eng"
	OEM                     int    // 3 = default engine mode
	PSM                     int    // 6 = assume a single uniform block of text
	PreserveInterwordSpaces bool
	TessdataDir             string

	DPI      int // rasterization DPI, default 300
	MaxPages int // 0 = no limit

	Grayscale bool // convert page images to grayscale before recognition
	MinWidth  int  // upscale page images narrower than this many pixels; 0 = off
	Normalize bool // collapse whitespace in recognized text

	HeicConverter string // "heif-convert" (default) | "magick" | "sips"
}

// WithDefaults fills empty fields.
func (c Config) WithDefaults() Config {
	if c.Pdftotext == "" {
		c.Pdftotext = "pdftotext"
	}
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.Engine == "" {
		c.Engine = constants.EngineTesseract
	}
	if c.Lang == "" {
		c.Lang = "eng"
	}
	if c.DPI <= 0 {
		c.DPI = 300
	}
	if c.HeicConverter == "" {
		c.HeicConverter = HeifConvert
	}
	return c
}

// TesseractOptions renders the recognition settings the way the tesseract CLI takes them,
// e.g. "--oem 3 --psm 6 -c preserve_interword_spaces=1".
func (c Config) TesseractOptions() []string {
	opts := []string{"--oem", fmt.Sprint(c.OEM), "--psm", fmt.Sprint(c.PSM)}
	if c.PreserveInterwordSpaces {
		opts = append(opts, "-c", "preserve_interword_spaces=1")
	}
	return opts
}

// Fingerprint identifies every setting that changes recognized text.
func (c Config) Fingerprint() string {
	return strings.Join([]string{
		c.Engine, c.Lang, strings.Join(c.TesseractOptions(), " "),
		fmt.Sprintf("dpi=%d max=%d gray=%t minw=%d norm=%t", c.DPI, c.MaxPages, c.Grayscale, c.MinWidth, c.Normalize),
	}, "|")
}

// cleanPageText drops the trailing form feed tesseract emits and blank edges.
func cleanPageText(s string) string {
	return strings.Trim(s, "\f\r\n")
}
