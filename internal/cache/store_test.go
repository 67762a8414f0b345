package cache_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/slm/constants"
	"github.com/joseph-ayodele/slm/internal/cache"
	"github.com/joseph-ayodele/slm/internal/extract"
)

func openStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.Open(context.Background(), filepath.Join(t.TempDir(), "nested", "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Miss(t *testing.T) {
	s := openStore(t)

	_, ok, err := s.Get(context.Background(), "nope")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_RoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	want := extract.NewResult([]string{"Hello", "World"}, "pdf-ocr")

	require.NoError(t, s.Put(ctx, "k1", want))
	got, ok, err := s.Get(ctx, "k1")

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Pages, got.Pages)
	assert.Equal(t, " Hello World", got.FullText)
	assert.Equal(t, "pdf-ocr", got.Method)
}

func TestStore_EmptyResultKeepsEmptyPages(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "empty", extract.NewResult(nil, "pdf-ocr")))
	got, ok, err := s.Get(ctx, "empty")

	require.NoError(t, err)
	require.True(t, ok)
	assert.NotNil(t, got.Pages)
	assert.Empty(t, got.Pages)
}

func TestStore_PutOverwrites(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", extract.NewResult([]string{"old"}, "")))
	require.NoError(t, s.Put(ctx, "k", extract.NewResult([]string{"new"}, "")))

	got, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, " new", got.FullText)
	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_ServesExtractService(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeDoc(dir, "sample.pdf"))
	s := openStore(t)
	calls := 0
	ex := extractorFunc(func(context.Context, string) (extract.Result, error) {
		calls++
		return extract.NewResult([]string{"Hello", "World"}, "pdf-ocr"), nil
	})
	svc := extract.NewService(dir, nil,
		extract.WithStrategy(constants.StrategyOCR, ex),
		extract.WithCache(s, "fp"))

	first, err := svc.Extract(context.Background(), "sample.pdf")
	require.NoError(t, err)
	second, err := svc.Extract(context.Background(), "sample.pdf")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Pages, second.Pages)
	assert.Equal(t, first.FullText, second.FullText)
}
