package extract_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/slm/constants"
	"github.com/joseph-ayodele/slm/internal/common"
	"github.com/joseph-ayodele/slm/internal/extract"
	"github.com/joseph-ayodele/slm/internal/ocr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func helloWorldService(t *testing.T, dir string, opts ...extract.Option) (*extract.Service, *fakeRasterizer) {
	t.Helper()
	raster := &fakeRasterizer{pages: 2}
	rec := &fakeRecognizer{byIdx: []string{"Hello", "World"}}
	ocrx := extract.NewOCRExtractor(raster, rec, ocr.Config{}, extract.OCROptions{}, nil)
	opts = append([]extract.Option{extract.WithStrategy(constants.StrategyOCR, ocrx)}, opts...)
	return extract.NewService(dir, nil, opts...), raster
}

func TestService_Extract_SamplePDF(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.pdf", "%PDF-1.4")
	svc, _ := helloWorldService(t, dir)

	res, err := svc.Extract(context.Background(), "sample.pdf")

	require.NoError(t, err)
	assert.Equal(t, []extract.Page{{Text: "Hello", PageNo: 1}, {Text: "World", PageNo: 2}}, res.Pages)
	assert.Equal(t, " Hello World", res.FullText)
	assert.Equal(t, filepath.Join(dir, "sample.pdf"), res.Source)
}

func TestService_Extract_EmptyName(t *testing.T) {
	svc, raster := helloWorldService(t, t.TempDir())

	for _, name := range []string{"", "   "} {
		res, err := svc.Extract(context.Background(), name)

		require.NoError(t, err)
		assert.Empty(t, res.Pages)
		assert.Equal(t, "", res.FullText)
	}
	assert.Zero(t, raster.calls.Load())
}

func TestService_Extract_MissingFile(t *testing.T) {
	svc, _ := helloWorldService(t, t.TempDir())

	_, err := svc.Extract(context.Background(), "missing.pdf")

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestService_Extract_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0o755))
	svc, _ := helloWorldService(t, dir)

	_, err := svc.Extract(context.Background(), "folder.pdf")

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestService_Extract_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.pdf", "%PDF-1.4")
	svc, _ := helloWorldService(t, dir)

	first, err := svc.Extract(context.Background(), "sample.pdf")
	require.NoError(t, err)
	second, err := svc.Extract(context.Background(), "sample.pdf")
	require.NoError(t, err)

	assert.Equal(t, first.Pages, second.Pages)
	assert.Equal(t, first.FullText, second.FullText)
}

func TestService_Resolve(t *testing.T) {
	svc := extract.NewService("/data/pdfs", nil)

	assert.Equal(t, filepath.Join("/data/pdfs", "a.pdf"), svc.Resolve("a.pdf"))
	assert.Equal(t, "/elsewhere/b.pdf", svc.Resolve("/elsewhere/b.pdf"))
}

func TestService_UnknownStrategy(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.pdf", "%PDF-1.4")
	svc, _ := helloWorldService(t, dir)

	_, err := svc.ExtractWith(context.Background(), "sample.pdf", constants.StrategyText)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeConfig, appErr.Code)
}

func TestService_DefaultStrategy(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.pdf", "%PDF-1.4")
	text := extract.NewTextExtractor(fakeTexter{pages: []string{"layer"}})
	svc, raster := helloWorldService(t, dir,
		extract.WithStrategy(constants.StrategyText, text),
		extract.WithDefaultStrategy(constants.StrategyText))

	res, err := svc.Extract(context.Background(), "sample.pdf")

	require.NoError(t, err)
	assert.Equal(t, " layer", res.FullText)
	assert.Zero(t, raster.calls.Load())
}

func TestService_CacheHitSkipsExtraction(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.pdf", "%PDF-1.4")
	cache := newMemCache()
	svc, raster := helloWorldService(t, dir, extract.WithCache(cache, "fp"))

	first, err := svc.Extract(context.Background(), "sample.pdf")
	require.NoError(t, err)
	second, err := svc.Extract(context.Background(), "sample.pdf")
	require.NoError(t, err)

	assert.EqualValues(t, 1, raster.calls.Load())
	assert.Equal(t, 1, cache.puts)
	assert.Equal(t, first.FullText, second.FullText)
	assert.Equal(t, first.Pages, second.Pages)
	assert.Equal(t, first.Source, second.Source)
}

func TestService_CacheKeyTracksContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sample.pdf", "%PDF-1.4 v1")
	cache := newMemCache()
	svc, raster := helloWorldService(t, dir, extract.WithCache(cache, "fp"))

	_, err := svc.Extract(context.Background(), "sample.pdf")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 v2"), 0o644))
	_, err = svc.Extract(context.Background(), "sample.pdf")
	require.NoError(t, err)

	assert.EqualValues(t, 2, raster.calls.Load())
	assert.Len(t, cache.data, 2)
}

func TestService_CacheSeparatesNormalizeSetting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.pdf", "%PDF-1.4")
	cache := newMemCache()
	run := func(cfg ocr.Config) extract.Result {
		t.Helper()
		raster := &fakeRasterizer{pages: 1}
		rec := &fakeRecognizer{byIdx: []string{"Hello    World"}}
		ocrx := extract.NewOCRExtractor(raster, rec, cfg, extract.OCROptions{}, nil)
		svc := extract.NewService(dir, nil,
			extract.WithStrategy(constants.StrategyOCR, ocrx),
			extract.WithCache(cache, cfg.WithDefaults().Fingerprint()))
		res, err := svc.Extract(context.Background(), "sample.pdf")
		require.NoError(t, err)
		return res
	}

	raw := run(ocr.Config{})
	normalized := run(ocr.Config{Normalize: true})

	assert.Equal(t, " Hello    World", raw.FullText)
	assert.Equal(t, " Hello World", normalized.FullText)
	assert.Equal(t, 2, cache.puts)
}
