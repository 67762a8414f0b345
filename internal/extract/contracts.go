package extract

import (
	"context"
	"strings"
	"time"
)

// Page is the recognized text of one page. PageNo starts at 1.
type Page struct {
	Text   string `json:"text"`
	PageNo int    `json:"page_no"`
}

// Result is everything extracted from one document.
type Result struct {
	Pages    []Page        `json:"pages"`
	FullText string        `json:"full_text"`
	Method   string        `json:"method,omitempty"`
	Source   string        `json:"source,omitempty"`
	Duration time.Duration `json:"-"`
}

// Extractor is one way of getting page text out of a file.
type Extractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}

// Cache stores results by content key. Misses return ok=false and no error.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Put(ctx context.Context, key string, r Result) error
}

// NewResult numbers texts from 1 and joins them into FullText.
// Every page is prefixed with a single space, so FullText starts with one
// whenever there is at least one page.
func NewResult(texts []string, method string) Result {
	pages := make([]Page, 0, len(texts))
	var b strings.Builder
	for i, t := range texts {
		pages = append(pages, Page{Text: t, PageNo: i + 1})
		b.WriteString(" ")
		b.WriteString(t)
	}
	return Result{Pages: pages, FullText: b.String(), Method: method}
}

// Texts returns the page texts in order.
func (r Result) Texts() []string {
	out := make([]string, len(r.Pages))
	for i, p := range r.Pages {
		out[i] = p.Text
	}
	return out
}
