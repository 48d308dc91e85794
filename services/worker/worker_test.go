package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productworker/internal/render"
	"productworker/internal/scrape"
	"productworker/internal/siteconfig"
	"productworker/services/task"
)

// capturePublisher records published batches in memory.
type capturePublisher struct {
	mu      sync.Mutex
	batches map[string][]scrape.ProductRecord
	trimmed bool
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{batches: make(map[string][]scrape.ProductRecord)}
}

func (p *capturePublisher) PublishProducts(host string, records []scrape.ProductRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches[host] = append(p.batches[host], records...)
	return nil
}

func (p *capturePublisher) TrimStreams() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trimmed = true
	return nil
}

func (p *capturePublisher) Close() error { return nil }

const workerSiteConfig = `{
	"shop.example": {
		"name": "Shop Example",
		"selectors": {
			"product_container": ["div.card"],
			"title": ["h3.name"],
			"price": ["span.cost"],
			"link": ["a.more"],
			"next_page": ["a.next"]
		},
		"max_pages": 3
	}
}`

func listingPage(start, n int, nextHref string) string {
	page := "<html><body>"
	for i := 0; i < n; i++ {
		id := start + i
		page += fmt.Sprintf(`
		<div class="card">
			<h3 class="name">Product %d</h3>
			<span class="cost">$%d.00</span>
			<a class="more" href="/products/%d">Details</a>
		</div>`, id, 10+id, id)
	}
	if nextHref != "" {
		page += fmt.Sprintf(`<a class="next" href="%s">Next</a>`, nextHref)
	}
	return page + "</body></html>"
}

func testEngine(t *testing.T, renderer render.Renderer) *scrape.Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.json")
	require.NoError(t, os.WriteFile(path, []byte(workerSiteConfig), 0o644))

	store := siteconfig.NewStore()
	require.NoError(t, store.LoadFile(path))

	return scrape.NewEngine(store, renderer, scrape.Options{
		MaxWorkers:  2,
		PageDelay:   time.Millisecond,
		WaitTimeout: time.Second,
	})
}

func TestRunnerHappyPath(t *testing.T) {
	renderer := render.NewStaticRenderer(map[string]string{
		"https://shop.example/list":        listingPage(1, 3, "/list?page=2"),
		"https://shop.example/list?page=2": listingPage(4, 3, ""),
	})

	pub := newCapturePublisher()
	registry := task.NewRegistry()
	runner := NewRunner(testEngine(t, renderer), registry, pub)

	id, result, err := runner.Run(context.Background(), scrape.ScrapeRequest{
		URLs:     []string{"https://shop.example/list"},
		MaxPages: 2,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Records, 6)

	got, err := registry.Get(id)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.Result)

	assert.Len(t, pub.batches["shop.example"], 6)
	assert.True(t, pub.trimmed)
}

func TestRunnerValidationFailureMarksTaskFailed(t *testing.T) {
	runner := NewRunner(testEngine(t, render.NewStaticRenderer(nil)), task.NewRegistry(), nil)

	id, result, err := runner.Run(context.Background(), scrape.ScrapeRequest{})
	assert.Error(t, err)
	assert.Nil(t, result)

	got, gerr := runner.registry.Get(id)
	require.NoError(t, gerr)
	assert.Equal(t, task.StatusFailed, got.Status)
	assert.NotEmpty(t, got.Error)
}

func TestRunnerWithoutPublisher(t *testing.T) {
	renderer := render.NewStaticRenderer(map[string]string{
		"https://shop.example/list": listingPage(1, 2, ""),
	})

	runner := NewRunner(testEngine(t, renderer), task.NewRegistry(), nil)

	_, result, err := runner.Run(context.Background(), scrape.ScrapeRequest{
		URLs: []string{"https://shop.example/list"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
}

func TestRunnerUnknownTask(t *testing.T) {
	runner := NewRunner(testEngine(t, render.NewStaticRenderer(nil)), task.NewRegistry(), nil)

	_, err := runner.Execute(context.Background(), "missing")
	assert.Error(t, err)
}
