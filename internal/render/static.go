package render

import (
	"context"
	"sync"
	"time"

	"productworker/pkg/errors"
)

// StaticRenderer serves pages from an in-memory map. It backs tests and dry
// runs where no browser runtime is available.
type StaticRenderer struct {
	mu      sync.Mutex
	pages   map[string]string
	partial map[string]bool
	calls   map[string]int
	fail    map[string]error
}

// NewStaticRenderer creates a renderer serving the given URL -> HTML map.
func NewStaticRenderer(pages map[string]string) *StaticRenderer {
	copied := make(map[string]string, len(pages))
	for k, v := range pages {
		copied[k] = v
	}
	return &StaticRenderer{
		pages:   copied,
		partial: make(map[string]bool),
		calls:   make(map[string]int),
		fail:    make(map[string]error),
	}
}

// SetPage adds or replaces a page.
func (r *StaticRenderer) SetPage(url, html string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[url] = html
}

// MarkPartial makes the snapshot for url come back with Partial set.
func (r *StaticRenderer) MarkPartial(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partial[url] = true
}

// FailWith makes Render return err for url.
func (r *StaticRenderer) FailWith(url string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[url] = err
}

// Calls reports how many times url was rendered.
func (r *StaticRenderer) Calls(url string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[url]
}

// Render returns the configured page or a navigation error for unknown URLs.
func (r *StaticRenderer) Render(ctx context.Context, url string, wait WaitCondition) (*PageSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewNavigation(url, "context cancelled", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[url]++

	if err, ok := r.fail[url]; ok {
		return nil, err
	}

	html, ok := r.pages[url]
	if !ok {
		return nil, errors.NewNavigation(url, "page unreachable", nil)
	}

	return &PageSnapshot{
		URL:       url,
		HTML:      html,
		FetchedAt: time.Now(),
		Partial:   r.partial[url],
	}, nil
}

// Close is a no-op.
func (r *StaticRenderer) Close() error { return nil }
