package extract_test

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joseph-ayodele/slm/internal/extract"
)

// fakeRasterizer hands out one image name per page text.
type fakeRasterizer struct {
	pages    int
	err      error
	calls    atomic.Int32
	cleanups atomic.Int32
}

func (f *fakeRasterizer) Rasterize(_ context.Context, path string) ([]string, func(), error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, func() {}, f.err
	}
	images := make([]string, f.pages)
	for i := range images {
		images[i] = filepath.Join("/tmp/fake", filepath.Base(path)+"-"+strconv.Itoa(i+1)+".png")
	}
	return images, func() { f.cleanups.Add(1) }, nil
}

// fakeRecognizer maps image names to text; delay makes earlier pages finish last.
type fakeRecognizer struct {
	mu    sync.Mutex
	texts map[string]string
	byIdx []string
	delay bool
	fail  string
	seen  []string
}

func (f *fakeRecognizer) Recognize(ctx context.Context, img string) (string, error) {
	f.mu.Lock()
	f.seen = append(f.seen, img)
	f.mu.Unlock()
	if img == f.fail && f.fail != "" {
		return "", errors.New("recognizer exploded")
	}
	idx := pageIndex(img)
	if f.delay {
		select {
		case <-time.After(time.Duration(len(f.byIdx)-idx) * 5 * time.Millisecond):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if t, ok := f.texts[img]; ok {
		return t, nil
	}
	if idx >= 0 && idx < len(f.byIdx) {
		return f.byIdx[idx], nil
	}
	return "", nil
}

type fakeTexter struct {
	pages []string
	err   error
}

func (f fakeTexter) Pages(context.Context, string) ([]string, error) {
	return append([]string(nil), f.pages...), f.err
}

type memCache struct {
	mu   sync.Mutex
	data map[string]extract.Result
	gets int
	puts int
}

func newMemCache() *memCache { return &memCache{data: map[string]extract.Result{}} }

func (m *memCache) Get(_ context.Context, key string) (extract.Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	r, ok := m.data[key]
	return r, ok, nil
}

func (m *memCache) Put(_ context.Context, key string, r extract.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.data[key] = r
	return nil
}

type countingExtractor struct {
	res   extract.Result
	calls atomic.Int32
}

func (c *countingExtractor) Extract(context.Context, string) (extract.Result, error) {
	c.calls.Add(1)
	return c.res, nil
}

// pageIndex parses the 0-based page index out of "<name>-N.png".
func pageIndex(img string) int {
	base := strings.TrimSuffix(filepath.Base(img), ".png")
	n, err := strconv.Atoi(base[strings.LastIndex(base, "-")+1:])
	if err != nil {
		return -1
	}
	return n - 1
}
