package scrape

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productworker/internal/render"
)

// listingPage builds a page with n products offset by start, plus an
// optional next link.
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

func newTestDriver(renderer render.Renderer, maxPages int) (*Driver, *Aggregator) {
	agg := NewAggregator()
	return &Driver{
		Renderer:   renderer,
		Config:     testConfig(),
		Aggregator: agg,
		MaxPages:   maxPages,
		PageDelay:  0,
	}, agg
}

func TestCrawlStopsAtMaxPages(t *testing.T) {
	renderer := render.NewStaticRenderer(map[string]string{
		"https://shop.example/list":        listingPage(1, 5, "/list?page=2"),
		"https://shop.example/list?page=2": listingPage(6, 5, "/list?page=3"),
		"https://shop.example/list?page=3": listingPage(11, 5, ""),
	})

	driver, agg := newTestDriver(renderer, 2)

	reason, err := driver.Crawl(context.Background(), "https://shop.example/list")
	require.NoError(t, err)
	assert.Equal(t, StopMaxPages, reason)
	assert.Equal(t, 10, agg.Len())
	assert.Equal(t, 0, renderer.Calls("https://shop.example/list?page=3"))
}

func TestCrawlStopsOnCycle(t *testing.T) {
	// Three pages, then a next-link pointing back to page 1
	renderer := render.NewStaticRenderer(map[string]string{
		"https://shop.example/list":        listingPage(1, 3, "/list?page=2"),
		"https://shop.example/list?page=2": listingPage(4, 3, "/list?page=3"),
		"https://shop.example/list?page=3": listingPage(7, 3, "/list"),
	})

	driver, agg := newTestDriver(renderer, 10)

	reason, err := driver.Crawl(context.Background(), "https://shop.example/list")
	require.NoError(t, err)
	assert.Equal(t, StopNoNextLink, reason)
	assert.Equal(t, 9, agg.Len())
	assert.Equal(t, 1, renderer.Calls("https://shop.example/list"))
}

func TestCrawlStopsWithoutNextLink(t *testing.T) {
	renderer := render.NewStaticRenderer(map[string]string{
		"https://shop.example/list": listingPage(1, 4, ""),
	})

	driver, agg := newTestDriver(renderer, 5)

	reason, err := driver.Crawl(context.Background(), "https://shop.example/list")
	require.NoError(t, err)
	assert.Equal(t, StopNoNextLink, reason)
	assert.Equal(t, 4, agg.Len())
}

func TestCrawlStopsOnNoNewRecords(t *testing.T) {
	// Page 2 repeats page 1's products but advertises a fresh next link
	renderer := render.NewStaticRenderer(map[string]string{
		"https://shop.example/list":        listingPage(1, 3, "/list?page=2"),
		"https://shop.example/list?page=2": listingPage(1, 3, "/list?page=3"),
		"https://shop.example/list?page=3": listingPage(1, 3, "/list?page=4"),
	})

	driver, agg := newTestDriver(renderer, 10)

	reason, err := driver.Crawl(context.Background(), "https://shop.example/list")
	require.NoError(t, err)
	assert.Equal(t, StopNoNewRecords, reason)
	assert.Equal(t, 3, agg.Len())
	assert.Equal(t, 0, renderer.Calls("https://shop.example/list?page=3"))
}

func TestCrawlNavigationFailurePreservesPartialRecords(t *testing.T) {
	renderer := render.NewStaticRenderer(map[string]string{
		"https://shop.example/list": listingPage(1, 3, "/list?page=2"),
		// page 2 intentionally missing
	})

	driver, agg := newTestDriver(renderer, 5)

	reason, err := driver.Crawl(context.Background(), "https://shop.example/list")
	assert.Error(t, err)
	assert.Equal(t, StopError, reason)
	assert.Equal(t, 3, agg.Len(), "records gathered before the failure are preserved")
}

func TestCrawlPartialRenderStillExtracts(t *testing.T) {
	renderer := render.NewStaticRenderer(map[string]string{
		"https://shop.example/list": listingPage(1, 2, ""),
	})
	renderer.MarkPartial("https://shop.example/list")

	driver, agg := newTestDriver(renderer, 3)

	reason, err := driver.Crawl(context.Background(), "https://shop.example/list")
	require.NoError(t, err)
	assert.Equal(t, StopNoNextLink, reason)
	assert.Equal(t, 2, agg.Len())
}

func TestCrawlCancellation(t *testing.T) {
	renderer := render.NewStaticRenderer(map[string]string{
		"https://shop.example/list":        listingPage(1, 3, "/list?page=2"),
		"https://shop.example/list?page=2": listingPage(4, 3, ""),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver, agg := newTestDriver(renderer, 5)
	driver.Progress = func(done, total int) {
		if done == 1 {
			cancel()
		}
	}

	reason, err := driver.Crawl(ctx, "https://shop.example/list")
	require.NoError(t, err)
	assert.Equal(t, StopCancelled, reason)
	assert.Equal(t, 3, agg.Len())
	assert.Equal(t, 0, renderer.Calls("https://shop.example/list?page=2"))
}

func TestCrawlReportsProgress(t *testing.T) {
	renderer := render.NewStaticRenderer(map[string]string{
		"https://shop.example/list":        listingPage(1, 2, "/list?page=2"),
		"https://shop.example/list?page=2": listingPage(3, 2, ""),
	})

	driver, _ := newTestDriver(renderer, 2)

	var reports [][2]int
	driver.Progress = func(done, total int) {
		reports = append(reports, [2]int{done, total})
	}

	_, err := driver.Crawl(context.Background(), "https://shop.example/list")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, [2]int{1, 2}, reports[0])
	assert.Equal(t, [2]int{2, 2}, reports[1])
}

func TestCrawlUsesSiteCapWhenRequestSilent(t *testing.T) {
	pages := map[string]string{
		"https://shop.example/list": listingPage(1, 1, "/list?page=2"),
	}
	for i := 2; i <= 12; i++ {
		next := fmt.Sprintf("/list?page=%d", i+1)
		pages[fmt.Sprintf("https://shop.example/list?page=%d", i)] = listingPage(i, 1, next)
	}
	renderer := render.NewStaticRenderer(pages)

	cfg := testConfig()
	cfg.PageCap = 2

	agg := NewAggregator()
	driver := &Driver{
		Renderer:   renderer,
		Config:     cfg,
		Aggregator: agg,
		MaxPages:   0, // no request value
		PageDelay:  0,
	}

	reason, err := driver.Crawl(context.Background(), "https://shop.example/list")
	require.NoError(t, err)
	assert.Equal(t, StopMaxPages, reason)
	assert.Equal(t, 2, agg.Len())
}
