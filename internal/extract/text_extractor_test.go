package extract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/slm/internal/extract"
)

func TestTextExtractor_PDF(t *testing.T) {
	ex := extract.NewTextExtractor(fakeTexter{pages: []string{"Hello", "World"}})

	res, err := ex.Extract(context.Background(), "sample.pdf")

	require.NoError(t, err)
	assert.Equal(t, " Hello World", res.FullText)
	assert.Equal(t, "pdf-text", res.Method)
}

func TestTextExtractor_RejectsImages(t *testing.T) {
	ex := extract.NewTextExtractor(fakeTexter{})

	_, err := ex.Extract(context.Background(), "scan.png")

	assert.ErrorIs(t, err, extract.ErrUnsupportedFormat)
}

func TestAutoExtractor_TextLayerComplete(t *testing.T) {
	ocrx := &countingExtractor{}
	ex := extract.NewAutoExtractor(extract.NewTextExtractor(fakeTexter{pages: []string{"a", "b"}}), ocrx)

	res, err := ex.Extract(context.Background(), "doc.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res.Texts())
	assert.Equal(t, "pdf-text", res.Method)
	assert.Zero(t, ocrx.calls.Load())
}

func TestAutoExtractor_FillsBlankPagesFromOCR(t *testing.T) {
	ocrx := &countingExtractor{res: extract.NewResult([]string{"ocr-1", "ocr-2", "ocr-3"}, "pdf-ocr")}
	ex := extract.NewAutoExtractor(extract.NewTextExtractor(fakeTexter{pages: []string{"text-1", "  ", "text-3"}}), ocrx)

	res, err := ex.Extract(context.Background(), "doc.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"text-1", "ocr-2", "text-3"}, res.Texts())
	assert.Equal(t, " text-1 ocr-2 text-3", res.FullText)
	assert.Equal(t, "pdf-auto", res.Method)
	assert.EqualValues(t, 1, ocrx.calls.Load())
}

func TestAutoExtractor_ScannedPDF(t *testing.T) {
	ocrx := &countingExtractor{res: extract.NewResult([]string{"Hello", "World"}, "pdf-ocr")}
	ex := extract.NewAutoExtractor(extract.NewTextExtractor(fakeTexter{pages: []string{"", ""}}), ocrx)

	res, err := ex.Extract(context.Background(), "scan.pdf")

	require.NoError(t, err)
	assert.Equal(t, " Hello World", res.FullText)
	assert.Equal(t, "pdf-ocr", res.Method)
}

func TestAutoExtractor_ImagesGoToOCR(t *testing.T) {
	ocrx := &countingExtractor{res: extract.NewResult([]string{"img"}, "image-ocr")}
	ex := extract.NewAutoExtractor(extract.NewTextExtractor(fakeTexter{}), ocrx)

	res, err := ex.Extract(context.Background(), "photo.jpg")

	require.NoError(t, err)
	assert.Equal(t, "image-ocr", res.Method)
	assert.EqualValues(t, 1, ocrx.calls.Load())
}
