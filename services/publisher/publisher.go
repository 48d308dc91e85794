package publisher

import "productworker/internal/scrape"

// Publisher delivers scraped product batches to downstream consumers.
type Publisher interface {
	// PublishProducts publishes one source's records under its host key
	PublishProducts(host string, records []scrape.ProductRecord) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
