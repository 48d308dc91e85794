package scrape

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"productworker/internal/render"
	"productworker/internal/siteconfig"
	"productworker/logger"
	"productworker/pkg/errors"
)

// driverState enumerates the pagination state machine.
type driverState int

const (
	stateLoading driverState = iota
	stateExtracting
	stateDeciding
	stateDone
	stateFailed
)

// Driver runs the paginated crawl for one seed URL. It owns its
// PaginationState exclusively; the aggregator is the only shared sink.
type Driver struct {
	Renderer    render.Renderer
	Config      siteconfig.SiteConfig
	Aggregator  *Aggregator
	MaxPages    int
	AutoDetect  bool
	PageDelay   time.Duration
	WaitTimeout time.Duration
	Progress    ProgressFunc
	Metrics     *Metrics

	log *logger.Logger
}

// Crawl walks pages starting at seedURL until a stop condition fires. The
// returned error is non-nil only for the unrecoverable FAILED exit; records
// gathered before the failure are already in the aggregator either way.
func (d *Driver) Crawl(ctx context.Context, seedURL string) (StopReason, error) {
	if d.log == nil {
		d.log = logger.ForSeed(seedURL)
	}
	maxPages := d.MaxPages
	if maxPages == 0 {
		maxPages = d.Config.PageCap
	}

	st := PaginationState{
		Page:    1,
		Visited: map[string]bool{seedURL: true},
	}
	currentURL := seedURL
	wait := render.WaitCondition{Selector: d.Config.WaitFor, Timeout: d.WaitTimeout}

	var (
		snap  *render.PageSnapshot
		doc   *goquery.Document
		added int
	)

	state := stateLoading
	for {
		switch state {
		case stateLoading:
			var err error
			snap, err = d.Renderer.Render(ctx, currentURL, wait)
			if err != nil {
				// Unrecoverable for this seed; partial records stay
				d.log.Error().Err(err).Int("page", st.Page).Msg("Navigation failed")
				d.observeError(err)
				st.StopReason = StopError
				return StopError, err
			}
			if snap.Partial {
				d.log.Warn().Int("page", st.Page).Msg("Partial render, extracting available content")
			}
			d.observePage()
			state = stateExtracting

		case stateExtracting:
			added = 0
			var err error
			doc, err = ParseSnapshot(snap)
			if err != nil {
				// Recoverable: treat as zero records this page
				d.log.Warn().Err(err).Int("page", st.Page).Msg("Extraction failed, continuing")
				d.observeError(err)
				doc = nil
			} else {
				raws := ExtractProducts(doc, d.Config, d.AutoDetect)
				batch := make([]ProductRecord, 0, len(raws))
				for _, raw := range raws {
					batch = append(batch, NormalizeRecord(raw, currentURL, st.Page))
				}
				added = d.Aggregator.Add(batch)
				d.observeRecords(added)
				d.log.Debug().
					Int("page", st.Page).
					Int("extracted", len(batch)).
					Int("new", added).
					Msg("Page extracted")
			}
			st.NewRecords += added
			state = stateDeciding

		case stateDeciding:
			if d.Progress != nil {
				d.Progress(st.Page, maxPages)
			}

			if ctx.Err() != nil {
				st.StopReason = StopCancelled
				d.log.Info().Int("page", st.Page).Msg("Crawl cancelled")
				return StopCancelled, nil
			}
			if st.Page >= maxPages {
				st.StopReason = StopMaxPages
				return StopMaxPages, nil
			}

			nextURL := ""
			if doc != nil {
				if href := NextPageURL(doc, d.Config); href != "" {
					if abs := AbsolutizeURL(currentURL, href); abs != nil {
						nextURL = *abs
					}
				}
			}
			if nextURL == "" || st.Visited[nextURL] {
				// No next control, or the link cycles back
				st.StopReason = StopNoNextLink
				return StopNoNextLink, nil
			}
			if added == 0 {
				// A page contributing nothing new is the implicit end of results
				st.StopReason = StopNoNewRecords
				return StopNoNewRecords, nil
			}

			st.Visited[nextURL] = true
			st.Page++
			currentURL = nextURL

			if !d.sleep(ctx) {
				st.StopReason = StopCancelled
				return StopCancelled, nil
			}
			state = stateLoading
		}
	}
}

// sleep waits the inter-page delay, returning false when cancelled.
func (d *Driver) sleep(ctx context.Context) bool {
	if d.PageDelay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d.PageDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (d *Driver) observePage() {
	if d.Metrics != nil {
		d.Metrics.PagesRendered.Inc()
	}
}

func (d *Driver) observeRecords(n int) {
	if d.Metrics != nil {
		d.Metrics.RecordsExtracted.Add(float64(n))
	}
}

func (d *Driver) observeError(err error) {
	if d.Metrics != nil {
		d.Metrics.ErrorsTotal.WithLabelValues(string(errors.TypeOf(err))).Inc()
	}
}
