package crawl

import (
	"strings"
	"sync"

	"github.com/jvasek/prodcrawl"
	"github.com/jvasek/prodcrawl/bloom"
)

// Frontier is the goroutine-safe gate around a CrawlSession. All crawl
// workers mutate session state through it. A Bloom filter sits in front
// of the session's exact sets: a negative test proves a URL is new and
// skips the exact lookups, a positive falls through to them, so the
// session's exactness guarantees are unaffected.
type Frontier struct {
	mu      sync.Mutex
	session *prodcrawl.CrawlSession
	seen    *bloom.Filter
}

// frontierFalsePositiveRate is the acceptable Bloom false positive rate;
// false positives only cost an exact map lookup.
const frontierFalsePositiveRate = 0.01

// Bloom keys are prefixed by membership class. Page and product
// membership are independent: a URL queued as a category page must still
// be addable as a product, and vice versa.
const (
	seenPagePrefix    = "page\x00"
	seenProductPrefix = "product\x00"
)

// NewFrontier wraps a session, sizing the Bloom filter to the session's
// page and product budgets. URLs already known to the session (from a
// resumed checkpoint) are pre-loaded.
func NewFrontier(session *prodcrawl.CrawlSession) *Frontier {
	f := &Frontier{
		session: session,
		seen:    bloom.NewFilter(session.MaxPages+session.MaxProducts, frontierFalsePositiveRate),
	}
	for u := range session.VisitedPages {
		f.seen.Add(seenPagePrefix + u)
	}
	for u := range session.ProductURLs {
		f.seen.Add(seenProductPrefix + u)
	}
	for u := range session.ProcessedURLs {
		f.seen.Add(seenProductPrefix + u)
	}
	for _, u := range session.QueuedPages() {
		f.seen.Add(seenPagePrefix + u)
	}
	return f
}

// stripFragment removes the URL fragment; URLs differing only by
// fragment are duplicates.
func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}

// Push queues a URL for discovery. Returns false for duplicates and
// when the page budget is exhausted.
func (f *Frontier) Push(rawURL string) bool {
	url := stripFragment(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	ok := f.session.PushPage(url)
	if ok {
		f.seen.Add(seenPagePrefix + url)
	}
	return ok
}

// Pop removes and returns the next URL to visit.
// The bool result is false when the queue is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session.PopPage()
}

// MarkVisited records a discovery fetch for the URL, successful or not.
func (f *Frontier) MarkVisited(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session.MarkVisited(url)
}

// AddProduct records a confirmed product URL. Returns false for
// duplicates and when the product budget is exhausted.
func (f *Frontier) AddProduct(rawURL string) bool {
	url := stripFragment(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	ok := f.session.AddProductURL(url)
	if ok {
		f.seen.Add(seenProductPrefix + url)
	}
	return ok
}

// Seen reports whether the URL is already a member of the sets the link
// kind routes into: queued or visited for category and pagination links,
// confirmed or processed for product links. This runs once per
// discovered link on every category page visited, where most links
// repeat across pages; a negative Bloom test answers without touching
// the exact sets, and a positive is confirmed against them so a false
// positive never drops a new URL.
func (f *Frontier) Seen(rawURL string, kind prodcrawl.LinkKind) bool {
	url := stripFragment(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if kind == prodcrawl.LinkProduct {
		if !f.seen.Test(seenProductPrefix + url) {
			return false
		}
		return f.session.KnownProduct(url)
	}
	if !f.seen.Test(seenPagePrefix + url) {
		return false
	}
	return f.session.KnownPage(url)
}

// MarkProcessed records an extraction attempt for a product URL.
func (f *Frontier) MarkProcessed(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session.MarkProcessed(url)
}

// AddRecord appends an extracted record to the session.
func (f *Frontier) AddRecord(record *prodcrawl.ProductRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session.AddRecord(record)
}

// PendingProducts returns product URLs not yet attempted.
func (f *Frontier) PendingProducts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session.PendingProducts()
}

// QueueLen returns the number of URLs waiting for discovery.
func (f *Frontier) QueueLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session.QueueLen()
}

// Exhausted reports whether the discovery phase must halt.
func (f *Frontier) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session.DiscoveryExhausted()
}

// Stats returns the session's progress counters.
func (f *Frontier) Stats() prodcrawl.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session.Stats()
}

// WithSession runs fn with exclusive access to the underlying session.
// Used for checkpointing, where the store must see a consistent state.
func (f *Frontier) WithSession(fn func(session *prodcrawl.CrawlSession) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f.session)
}
