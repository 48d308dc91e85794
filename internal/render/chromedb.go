package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"productworker/logger"
	"productworker/pkg/errors"
)

// renderFunction is the puppeteer function executed by the ChromeDB
// /function endpoint. It navigates, optionally waits for a selector, lets
// deferred rendering settle, and returns the page content plus a flag
// telling whether the selector wait timed out.
const renderFunction = `module.exports = async ({ page, context }) => {
	await page.setViewport({ width: 1920, height: 1080 });
	await page.setUserAgent('Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36');

	await page.goto(context.url, { waitUntil: 'domcontentloaded', timeout: context.navTimeoutMs });

	let waitTimedOut = false;
	if (context.waitSelector) {
		try {
			await page.waitForSelector(context.waitSelector, { timeout: context.waitTimeoutMs });
		} catch (e) {
			waitTimedOut = true;
		}
	}

	await new Promise(resolve => setTimeout(resolve, context.settleMs));

	return {
		content: await page.content(),
		waitTimedOut: waitTimedOut,
	};
}`

// ChromeDBRenderer renders pages through a ChromeDB (browserless) instance.
type ChromeDBRenderer struct {
	addr       string
	settle     time.Duration
	navTimeout time.Duration
	client     *http.Client
	log        *logger.Logger
}

// NewChromeDBRenderer creates a renderer talking to the ChromeDB HTTP API at
// addr. settle is the extra delay after the wait condition to allow deferred
// rendering, matching the browser-side politeness of the rest of the crawl.
func NewChromeDBRenderer(addr string, settle time.Duration, client *http.Client) *ChromeDBRenderer {
	if client == nil {
		client = &http.Client{Timeout: 90 * time.Second}
	}
	return &ChromeDBRenderer{
		addr:       strings.TrimRight(addr, "/"),
		settle:     settle,
		navTimeout: 30 * time.Second,
		client:     client,
		log:        logger.ForComponent("chromedb"),
	}
}

type functionPayload struct {
	Code    string         `json:"code"`
	Context map[string]any `json:"context"`
}

type functionResult struct {
	Content      string `json:"content"`
	WaitTimedOut bool   `json:"waitTimedOut"`
	Data         string `json:"data"`
	Result       string `json:"result"`
}

// Render navigates to url and returns the rendered DOM. A wait-condition
// timeout is not an error: the snapshot comes back with Partial set.
func (r *ChromeDBRenderer) Render(ctx context.Context, url string, wait WaitCondition) (*PageSnapshot, error) {
	payload := functionPayload{
		Code: renderFunction,
		Context: map[string]any{
			"url":           url,
			"waitSelector":  wait.Selector,
			"waitTimeoutMs": wait.Timeout.Milliseconds(),
			"navTimeoutMs":  r.navTimeout.Milliseconds(),
			"settleMs":      r.settle.Milliseconds(),
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewNavigation(url, "failed to marshal render payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.addr+"/function", bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewNavigation(url, "failed to create render request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.NewNavigation(url, "render request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNavigation(url, fmt.Sprintf("chromedb returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNavigation(url, "failed to read render response", err)
	}
	if len(body) == 0 {
		return nil, errors.NewNavigation(url, "empty render response", nil)
	}

	html, partial := unwrapFunctionResponse(body)
	if html == "" {
		return nil, errors.NewNavigation(url, "render response carried no document", nil)
	}

	if partial {
		r.log.Warn().Str("url", url).Str("selector", wait.Selector).
			Msg("Wait condition timed out, using partial content")
	}

	return &PageSnapshot{
		URL:       url,
		HTML:      html,
		FetchedAt: time.Now(),
		Partial:   partial,
	}, nil
}

// Close is a no-op; each render call holds its own browser context on the
// ChromeDB side.
func (r *ChromeDBRenderer) Close() error { return nil }

// unwrapFunctionResponse handles the two response shapes ChromeDB emits:
// raw HTML, or a JSON envelope with the document under content/data/result.
func unwrapFunctionResponse(body []byte) (html string, partial bool) {
	text := string(body)
	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		return text, false
	}

	var result functionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return text, false
	}
	switch {
	case result.Content != "":
		return result.Content, result.WaitTimedOut
	case result.Data != "":
		return result.Data, result.WaitTimedOut
	case result.Result != "":
		return result.Result, result.WaitTimedOut
	}
	return "", false
}
