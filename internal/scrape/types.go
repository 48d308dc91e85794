// Package scrape implements the extraction core: resolving a site profile,
// driving a bounded paginated crawl over a rendering capability, extracting
// and normalizing product records, and aggregating deduplicated results.
package scrape

import (
	"net/url"

	"productworker/internal/siteconfig"
	"productworker/pkg/errors"
)

// ScrapeRequest is one scrape task as handed over by the task layer.
type ScrapeRequest struct {
	URLs       []string `json:"urls"`
	MaxPages   int      `json:"max_pages"`
	AutoDetect bool     `json:"auto_detect"`
}

// Validate rejects requests the crawl must never start for: an empty URL
// list or a seed that is not an absolute URL. MaxPages is clamped, not
// rejected; zero means "use the site profile's cap".
func (r *ScrapeRequest) Validate() error {
	if len(r.URLs) == 0 {
		return errors.NewValidation("request", "url list is empty")
	}
	for _, seed := range r.URLs {
		u, err := url.Parse(seed)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return errors.NewValidation(seed, "seed is not an absolute URL")
		}
	}
	r.MaxPages = siteconfig.ClampPages(r.MaxPages)
	return nil
}

// RawProductRecord carries the untyped strings pulled from one product
// container. Empty strings mean the field was absent.
type RawProductRecord struct {
	Title    string
	Price    string
	Discount string
	Image    string
	Link     string
}

// ProductRecord is the normalized, final form of one product.
type ProductRecord struct {
	Title      string   `json:"title"`
	Price      *float64 `json:"price"`
	Discount   *string  `json:"discount"`
	URL        *string  `json:"url"`
	Image      *string  `json:"image"`
	SourcePage int      `json:"source_page"`
}

// StopReason explains why a seed URL's crawl ended.
type StopReason string

const (
	StopNone         StopReason = ""
	StopMaxPages     StopReason = "max_pages_reached"
	StopNoNextLink   StopReason = "no_next_link"
	StopNoNewRecords StopReason = "no_new_records"
	StopError        StopReason = "error"
	StopCancelled    StopReason = "cancelled"
)

// PaginationState tracks one seed URL's crawl. Owned exclusively by its
// pagination driver.
type PaginationState struct {
	Page       int
	Visited    map[string]bool
	NewRecords int
	StopReason StopReason
}

// ProgressFunc reports crawl progress after each processed page.
type ProgressFunc func(pagesDone, pagesTotal int)

// Result is the outcome of one scrape request.
type Result struct {
	Records     []ProductRecord       `json:"results"`
	StopReasons map[string]StopReason `json:"stop_reasons"`
	Partial     bool                  `json:"partial"`
}
