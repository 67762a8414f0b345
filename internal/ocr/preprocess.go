package ocr

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Preprocess applies the grayscale/upscale settings from cfg to one image.
func Preprocess(src image.Image, cfg Config) image.Image {
	img := src
	b := img.Bounds()
	if cfg.MinWidth > 0 && b.Dx() > 0 && b.Dx() < cfg.MinWidth {
		scale := float64(cfg.MinWidth) / float64(b.Dx())
		dst := image.NewRGBA(image.Rect(0, 0, cfg.MinWidth, int(float64(b.Dy())*scale+0.5)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
		b = img.Bounds()
	}
	if cfg.Grayscale {
		gray := image.NewGray(b)
		draw.Draw(gray, b, img, b.Min, draw.Src)
		img = gray
	}
	return img
}

// PreprocessFile decodes path, preprocesses it and writes a PNG into dir.
// With nothing to do it returns path unchanged.
func PreprocessFile(path, dir string, cfg Config) (string, error) {
	if !cfg.Grayscale && cfg.MinWidth <= 0 {
		return path, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	src, _, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(dir, base+".prep.png")
	w, err := os.Create(out)
	if err != nil {
		return "", err
	}
	if err := png.Encode(w, Preprocess(src, cfg)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("encode %s: %w", filepath.Base(out), err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return out, nil
}
