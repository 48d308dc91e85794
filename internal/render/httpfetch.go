package render

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"productworker/helpers"
	"productworker/logger"
	"productworker/pkg/errors"
	"productworker/services/cache"
)

// HTTPRenderer fetches pages with a plain GET. It cannot execute JavaScript,
// so wait conditions are ignored; it serves static sites and acts as the
// fallback when no ChromeDB instance is configured.
type HTTPRenderer struct {
	cacheSvc  cache.CacheService
	blockTime time.Duration
	log       *logger.Logger
}

// NewHTTPRenderer creates a plain-HTTP renderer. When cacheSvc is non-nil,
// a host that throttles us is blocked for blockTime before the next attempt.
func NewHTTPRenderer(cacheSvc cache.CacheService, blockTime time.Duration) *HTTPRenderer {
	return &HTTPRenderer{
		cacheSvc:  cacheSvc,
		blockTime: blockTime,
		log:       logger.ForComponent("httpfetch"),
	}
}

func blockKey(host string) string {
	return "fetch_block:" + host
}

// Render fetches url and returns its body as a snapshot.
func (r *HTTPRenderer) Render(ctx context.Context, url string, wait WaitCondition) (*PageSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewNavigation(url, "context cancelled", err)
	}

	host, err := helpers.Hostname(url)
	if err != nil {
		return nil, errors.NewNavigation(url, "invalid URL", err)
	}

	if r.cacheSvc != nil {
		if _, err := r.cacheSvc.Get(blockKey(host)); err == nil {
			return nil, errors.NewNavigation(url,
				fmt.Sprintf("host %s blocked for %v after throttling", host, r.blockTime), nil)
		}
	}

	body, err := helpers.FetchWithRandomHeaders(url)
	if err != nil {
		var rateLimited helpers.ErrRateLimited
		if stderrors.As(err, &rateLimited) && r.cacheSvc != nil {
			if setErr := r.cacheSvc.Set(blockKey(host), []byte(rateLimited.RetryAfter), r.blockTime); setErr != nil {
				r.log.Warn().Err(setErr).Str("host", host).Msg("Failed to set throttle block")
			}
		}
		return nil, errors.NewNavigation(url, "fetch failed", err)
	}

	html, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.NewNavigation(url, "failed to read body", err)
	}

	return &PageSnapshot{
		URL:       url,
		HTML:      string(html),
		FetchedAt: time.Now(),
	}, nil
}

// Close is a no-op.
func (r *HTTPRenderer) Close() error { return nil }
