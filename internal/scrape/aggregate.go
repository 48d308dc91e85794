package scrape

import "sync"

// Aggregator merges per-page extraction batches into one ordered result
// set, deduplicating by product URL. It is shared by all seed crawls of a
// request, so dedup is global across seeds.
type Aggregator struct {
	mu      sync.Mutex
	seen    map[string]bool
	records []ProductRecord
	dropped int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{seen: make(map[string]bool)}
}

// Add appends the batch, dropping records whose URL was already seen.
// Records without a URL are always kept. Returns how many records were
// actually added.
func (a *Aggregator) Add(batch []ProductRecord) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	added := 0
	for _, record := range batch {
		if record.URL != nil {
			if a.seen[*record.URL] {
				a.dropped++
				continue
			}
			a.seen[*record.URL] = true
		}
		a.records = append(a.records, record)
		added++
	}
	return added
}

// Records returns a copy of the accumulated result sequence.
func (a *Aggregator) Records() []ProductRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ProductRecord, len(a.records))
	copy(out, a.records)
	return out
}

// Len returns the number of accumulated records.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Dropped returns the number of duplicate records discarded.
func (a *Aggregator) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}
