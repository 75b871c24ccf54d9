package prodcrawl

import "context"

// Default crawl bounds and cadence, matching the crawler's historical
// configuration.
const (
	DefaultMaxPages           = 1000
	DefaultMaxProducts        = 100000
	DefaultCheckpointInterval = 50
)

// CrawlSession is the explicit, serializable state of one crawl: the
// traversal frontier, the discovered product URLs, extraction progress,
// and the accumulated records. It owns the dedup invariants; all
// mutation goes through its methods. The struct itself is not
// goroutine-safe — the crawl driver guards it.
type CrawlSession struct {
	ID     string
	Target *CrawlTarget

	MaxPages    int
	MaxProducts int

	// toVisit is LIFO; traversal order does not affect correctness.
	toVisit []string
	queued  map[string]struct{}

	VisitedPages  map[string]struct{}
	ProductURLs   map[string]struct{}
	ProcessedURLs map[string]struct{}

	Records []*ProductRecord
}

// NewCrawlSession creates a session for the target with the given bounds
// and seeds the frontier with the target's seed URLs.
func NewCrawlSession(target *CrawlTarget, maxPages, maxProducts int) *CrawlSession {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if maxProducts <= 0 {
		maxProducts = DefaultMaxProducts
	}
	s := &CrawlSession{
		Target:        target,
		MaxPages:      maxPages,
		MaxProducts:   maxProducts,
		queued:        make(map[string]struct{}),
		VisitedPages:  make(map[string]struct{}),
		ProductURLs:   make(map[string]struct{}),
		ProcessedURLs: make(map[string]struct{}),
	}
	for _, u := range target.SeedURLs() {
		s.PushPage(u)
	}
	return s
}

// RestoreQueue reinstates the to-visit queue from a persisted snapshot.
// Visited URLs are skipped so the ToVisit/VisitedPages disjointness
// invariant holds after a restore.
func (s *CrawlSession) RestoreQueue(urls []string) {
	if s.queued == nil {
		s.queued = make(map[string]struct{})
	}
	for _, u := range urls {
		s.PushPage(u)
	}
}

// PushPage queues a URL for discovery. Returns false if the URL was
// already visited, already queued, or the page budget is exhausted.
func (s *CrawlSession) PushPage(url string) bool {
	if _, ok := s.VisitedPages[url]; ok {
		return false
	}
	if _, ok := s.queued[url]; ok {
		return false
	}
	if len(s.VisitedPages) >= s.MaxPages {
		return false
	}
	s.queued[url] = struct{}{}
	s.toVisit = append(s.toVisit, url)
	return true
}

// PopPage removes and returns the next URL to visit.
// The bool result is false when the queue is empty.
func (s *CrawlSession) PopPage() (string, bool) {
	for len(s.toVisit) > 0 {
		n := len(s.toVisit) - 1
		url := s.toVisit[n]
		s.toVisit = s.toVisit[:n]
		delete(s.queued, url)
		if _, ok := s.VisitedPages[url]; ok {
			continue
		}
		return url, true
	}
	return "", false
}

// QueuedPages returns a copy of the to-visit queue, for checkpointing.
func (s *CrawlSession) QueuedPages() []string {
	out := make([]string, len(s.toVisit))
	copy(out, s.toVisit)
	return out
}

// QueueLen returns the number of URLs waiting for discovery.
func (s *CrawlSession) QueueLen() int {
	return len(s.toVisit)
}

// KnownPage reports whether the URL is already queued or visited.
// Page and product membership are tracked independently: a URL can be
// both a category page and a product candidate.
func (s *CrawlSession) KnownPage(url string) bool {
	if _, ok := s.queued[url]; ok {
		return true
	}
	_, ok := s.VisitedPages[url]
	return ok
}

// KnownProduct reports whether the URL is already a confirmed or
// processed product.
func (s *CrawlSession) KnownProduct(url string) bool {
	if _, ok := s.ProductURLs[url]; ok {
		return true
	}
	_, ok := s.ProcessedURLs[url]
	return ok
}

// MarkVisited records that a URL has been fetched for discovery purposes,
// whether or not the fetch succeeded.
func (s *CrawlSession) MarkVisited(url string) {
	s.VisitedPages[url] = struct{}{}
	delete(s.queued, url)
}

// AddProductURL records a confirmed product candidate. Returns false if
// the URL is already known or the product budget is exhausted.
func (s *CrawlSession) AddProductURL(url string) bool {
	if _, ok := s.ProductURLs[url]; ok {
		return false
	}
	if len(s.ProductURLs) >= s.MaxProducts {
		return false
	}
	s.ProductURLs[url] = struct{}{}
	return true
}

// MarkProcessed records that extraction has been attempted for a product
// URL, regardless of outcome.
func (s *CrawlSession) MarkProcessed(url string) {
	s.ProcessedURLs[url] = struct{}{}
}

// PendingProducts returns the product URLs whose extraction has not yet
// been attempted.
func (s *CrawlSession) PendingProducts() []string {
	var pending []string
	for u := range s.ProductURLs {
		if _, ok := s.ProcessedURLs[u]; !ok {
			pending = append(pending, u)
		}
	}
	return pending
}

// DiscoveryExhausted reports whether discovery must halt: the queue is
// empty or a global bound has been reached.
func (s *CrawlSession) DiscoveryExhausted() bool {
	return len(s.toVisit) == 0 ||
		len(s.VisitedPages) >= s.MaxPages ||
		len(s.ProductURLs) >= s.MaxProducts
}

// NeedsDiscovery reports whether the session should run the discovery
// phase. A resumed session that already knows product URLs skips straight
// to extraction.
func (s *CrawlSession) NeedsDiscovery() bool {
	return len(s.ProductURLs) == 0
}

// AddRecord appends an extracted record. The caller is responsible for
// de-duplication.
func (s *CrawlSession) AddRecord(record *ProductRecord) {
	s.Records = append(s.Records, record)
}

// Stats summarizes session progress for reporting.
type Stats struct {
	VisitedPages int
	ProductURLs  int
	Processed    int
	Pending      int
	Records      int
	WithCode     int
	WithPrice    int
	Discounted   int
}

// Stats computes progress counters over the session.
func (s *CrawlSession) Stats() Stats {
	st := Stats{
		VisitedPages: len(s.VisitedPages),
		ProductURLs:  len(s.ProductURLs),
		Processed:    len(s.ProcessedURLs),
		Pending:      len(s.ProductURLs) - len(s.ProcessedURLs),
		Records:      len(s.Records),
	}
	for _, r := range s.Records {
		if r.Code != "" {
			st.WithCode++
		}
		if r.Price != "" {
			st.WithPrice++
		}
		if r.Discount != "" {
			st.Discounted++
		}
	}
	return st
}

// SessionStore persists crawl sessions across process restarts.
// Re-loading a session must preserve the no-duplicate-work guarantee:
// URLs in VisitedPages are never re-fetched for discovery and URLs in
// ProcessedURLs are never re-extracted.
type SessionStore interface {
	// CreateSession persists a new session and assigns its ID.
	CreateSession(ctx context.Context, session *CrawlSession) error

	// FindSessionByTarget loads the most recent session for a base URL.
	// Returns ENOTFOUND if no session exists.
	FindSessionByTarget(ctx context.Context, baseURL string) (*CrawlSession, error)

	// SaveSession checkpoints the session's full state.
	SaveSession(ctx context.Context, session *CrawlSession) error

	// DeleteSession removes a session and its records.
	// Returns ENOTFOUND if the session does not exist.
	DeleteSession(ctx context.Context, id string) error
}
