package scrape

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraping engine.
type Metrics struct {
	Registry         *prometheus.Registry
	PagesRendered    prometheus.Counter
	RecordsExtracted prometheus.Counter
	DuplicatesTotal  prometheus.Counter
	ErrorsTotal      *prometheus.CounterVec
	CrawlDuration    prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	pages := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scraper_pages_rendered_total",
		Help: "Total pages rendered and handed to extraction.",
	})
	records := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scraper_records_extracted_total",
		Help: "Total product records accepted into result sets.",
	})
	duplicates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scraper_duplicates_dropped_total",
		Help: "Total records discarded by URL deduplication.",
	})
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total scraper errors by type.",
		},
		[]string{"error_type"},
	)
	crawlDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scraper_crawl_duration_seconds",
		Help:    "Wall-clock duration of one seed URL's crawl.",
		Buckets: prometheus.DefBuckets,
	})

	registry.MustRegister(pages, records, duplicates, errorsTotal, crawlDuration)

	return &Metrics{
		Registry:         registry,
		PagesRendered:    pages,
		RecordsExtracted: records,
		DuplicatesTotal:  duplicates,
		ErrorsTotal:      errorsTotal,
		CrawlDuration:    crawlDuration,
	}
}
