// Package render abstracts the page-rendering capability behind a narrow
// interface so the extraction and pagination logic can run against a real
// headless browser, a plain HTTP fetch, or static fixtures.
package render

import (
	"context"
	"time"
)

// WaitCondition tells the renderer what to wait for before reading the DOM.
// An empty Selector means "wait for document load only".
type WaitCondition struct {
	Selector string
	Timeout  time.Duration
}

// PageSnapshot is the rendered result of one navigation. It is owned by the
// caller for the duration of processing a single page.
type PageSnapshot struct {
	URL       string
	HTML      string
	FetchedAt time.Time
	// Partial is set when the wait condition timed out and the snapshot
	// carries whatever content was available at that point.
	Partial bool
}

// Renderer navigates to a URL and returns the rendered DOM.
type Renderer interface {
	Render(ctx context.Context, url string, wait WaitCondition) (*PageSnapshot, error)
	Close() error
}
