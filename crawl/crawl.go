// Package crawl orchestrates product crawling. A crawl runs in two
// phases over a shared session: discovery walks category and pagination
// pages collecting product URLs, then extraction fetches each product
// page and turns it into a record. Both phases checkpoint the session
// so an interrupted crawl resumes without repeating work.
package crawl

import (
	"context"

	"github.com/cespare/xxhash/v2"
	"github.com/jvasek/prodcrawl"
)

// Crawler wires the services a crawl needs. All fields except Sitemaps
// and Sessions are required; without Sessions the crawl still runs but
// never checkpoints.
type Crawler struct {
	Fetcher       prodcrawl.Fetcher
	Extractor     prodcrawl.ProductExtractor
	LinkSelectors prodcrawl.LinkSelectorRegistry
	RateLimiter   prodcrawl.DomainLimiter
	Sessions      prodcrawl.SessionStore
	Sitemaps      prodcrawl.SitemapService

	// Concurrency bounds parallel extraction workers. Discovery is
	// sequential; frontier order matters there.
	Concurrency int

	// CheckpointInterval is the number of page visits or extraction
	// attempts between session saves. Zero disables periodic
	// checkpoints; a final save still happens.
	CheckpointInterval int
}

// Result summarizes a finished (or interrupted) crawl.
type Result struct {
	PagesVisited int
	ProductURLs  int
	Extracted    int
	Skipped      int // pages with no extractable product
	Failed       int
}

// Phase identifies which crawl phase a progress event belongs to.
type Phase int

const (
	PhaseDiscovery Phase = iota
	PhaseExtraction
)

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Phase     Phase
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl runs the session to completion: discovery if the session has no
// product URLs yet, then extraction of everything pending. The progress
// callback, if provided, receives events as the crawl proceeds. On
// cancellation the session is checkpointed before returning, so the
// partial state is never lost.
func (c *Crawler) Crawl(ctx context.Context, session *prodcrawl.CrawlSession, progress ProgressFunc) (*Result, error) {
	frontier := NewFrontier(session)
	result := &Result{}

	var crawlErr error
	if session.NeedsDiscovery() {
		crawlErr = c.discover(ctx, frontier, session.Target, progress)
	}
	if crawlErr == nil {
		crawlErr = c.extract(ctx, frontier, session.Target, progress, result)
	}

	// The final save must survive the cancellation that may have ended
	// the crawl.
	if err := c.checkpoint(context.WithoutCancel(ctx), frontier); err != nil && crawlErr == nil {
		crawlErr = err
	}

	stats := frontier.Stats()
	result.PagesVisited = stats.VisitedPages
	result.ProductURLs = stats.ProductURLs

	return result, crawlErr
}

// checkpoint saves the session under the frontier lock, so the store
// sees queue, sets, and records from the same instant.
func (c *Crawler) checkpoint(ctx context.Context, frontier *Frontier) error {
	if c.Sessions == nil {
		return nil
	}
	return frontier.WithSession(func(session *prodcrawl.CrawlSession) error {
		return c.Sessions.SaveSession(ctx, session)
	})
}

// recordKey is the dedup identity of a record.
func recordKey(record *prodcrawl.ProductRecord) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(record.Name)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(record.SourceURL)
	return h.Sum64()
}
