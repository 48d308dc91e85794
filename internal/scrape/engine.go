package scrape

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"productworker/internal/render"
	"productworker/internal/siteconfig"
	"productworker/logger"
)

// Options tunes engine behavior. Zero values fall back to the defaults the
// crawl was measured with: 2s delay between pages, 10s selector wait, three
// concurrent seed crawls.
type Options struct {
	MaxWorkers  int
	PageDelay   time.Duration
	WaitTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = 3
	}
	if o.PageDelay == 0 {
		o.PageDelay = 2 * time.Second
	}
	if o.WaitTimeout == 0 {
		o.WaitTimeout = 10 * time.Second
	}
	return o
}

// Engine turns a ScrapeRequest into a Result: it resolves a site profile
// per seed URL, runs one pagination driver per seed under a bounded worker
// pool, and aggregates deduplicated records globally.
type Engine struct {
	store    *siteconfig.Store
	renderer render.Renderer
	opts     Options
	metrics  *Metrics
	log      *logger.Logger
}

// NewEngine creates an engine over the given configuration store and
// rendering capability.
func NewEngine(store *siteconfig.Store, renderer render.Renderer, opts Options) *Engine {
	return &Engine{
		store:    store,
		renderer: renderer,
		opts:     opts.withDefaults(),
		metrics:  NewMetrics(),
		log:      logger.ForComponent("engine"),
	}
}

// Metrics exposes the engine's Prometheus registry.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Run executes the request and blocks until every seed crawl has finished
// or ctx is cancelled. Only request validation fails synchronously; every
// other error degrades into a per-seed stop reason with Partial set.
func (e *Engine) Run(ctx context.Context, req ScrapeRequest, progress ProgressFunc) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	agg := NewAggregator()
	stopReasons := make(map[string]StopReason, len(req.URLs))
	partial := false

	// Overall progress: pages done across all seeds over the summed caps.
	var pagesDone atomic.Int64
	pagesTotal := 0
	caps := make([]int, len(req.URLs))
	for i, seed := range req.URLs {
		pageCap := req.MaxPages
		if pageCap == 0 {
			pageCap = e.store.Resolve(seed).PageCap
		}
		caps[i] = pageCap
		pagesTotal += pageCap
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, e.opts.MaxWorkers)
	)

	for i, seed := range req.URLs {
		wg.Add(1)
		go func(seed string, maxPages int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			cfg := e.store.Resolve(seed)
			e.log.Info().
				Str("seed", seed).
				Str("site", cfg.Name).
				Int("max_pages", maxPages).
				Msg("Starting seed crawl")

			driver := &Driver{
				Renderer:    e.renderer,
				Config:      cfg,
				Aggregator:  agg,
				MaxPages:    maxPages,
				AutoDetect:  req.AutoDetect,
				PageDelay:   e.opts.PageDelay,
				WaitTimeout: e.opts.WaitTimeout,
				Metrics:     e.metrics,
				Progress: func(done, total int) {
					pagesDone.Add(1)
					if progress != nil {
						progress(int(pagesDone.Load()), pagesTotal)
					}
				},
			}

			start := time.Now()
			reason, err := driver.Crawl(ctx, seed)
			e.metrics.CrawlDuration.Observe(time.Since(start).Seconds())

			mu.Lock()
			stopReasons[seed] = reason
			if err != nil || reason == StopCancelled {
				partial = true
			}
			mu.Unlock()

			e.log.Info().
				Str("seed", seed).
				Str("stop_reason", string(reason)).
				Msg("Seed crawl finished")
		}(seed, caps[i])
	}

	wg.Wait()

	e.metrics.DuplicatesTotal.Add(float64(agg.Dropped()))

	return &Result{
		Records:     agg.Records(),
		StopReasons: stopReasons,
		Partial:     partial,
	}, nil
}
