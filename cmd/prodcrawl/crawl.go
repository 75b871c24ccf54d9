package main

import (
	"fmt"

	"github.com/jvasek/prodcrawl"
	"github.com/jvasek/prodcrawl/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	target, err := prodcrawl.NewCrawlTarget(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
		return err
	}

	session, err := c.loadOrCreateSession(deps, target)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
		return err
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			switch event.Phase {
			case crawl.PhaseDiscovery:
				fmt.Fprintf(deps.Stdout, "Discovering products on %s\n", target.Domain)
			case crawl.PhaseExtraction:
				fmt.Fprintf(deps.Stdout, "Extracting %d products\n", event.Total)
			}
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 60), event.Error)
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, session, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Visited %s pages, found %s product URLs\n",
		crawl.FormatCount(result.PagesVisited), crawl.FormatCount(result.ProductURLs))
	fmt.Fprintf(deps.Stdout, "Extracted %s records (%d skipped, %d failed)\n",
		crawl.FormatCount(result.Extracted), result.Skipped, result.Failed)

	stats := session.Stats()
	fmt.Fprintf(deps.Stdout, "Records: %d total, %d with EAN, %d with price, %d discounted\n",
		stats.Records, stats.WithCode, stats.WithPrice, stats.Discounted)

	if c.Output != "" {
		if err := deps.Reports.WriteReport(c.Output, session.Records); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s records to %s\n",
			crawl.FormatCount(len(session.Records)), c.Output)
	}

	return nil
}

// loadOrCreateSession resumes the most recent session for the target, or
// creates a fresh one. With --fresh any existing session is deleted first.
func (c *CrawlCmd) loadOrCreateSession(deps *Dependencies, target *prodcrawl.CrawlTarget) (*prodcrawl.CrawlSession, error) {
	existing, err := deps.Sessions.FindSessionByTarget(deps.Ctx, target.BaseURL)
	if err != nil && prodcrawl.ErrorCode(err) != prodcrawl.ENOTFOUND {
		return nil, err
	}

	if existing != nil {
		if !c.Fresh {
			stats := existing.Stats()
			fmt.Fprintf(deps.Stdout, "Resuming session %s (%d pages visited, %d products pending)\n",
				existing.ID, stats.VisitedPages, stats.Pending)
			return existing, nil
		}
		if err := deps.Sessions.DeleteSession(deps.Ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	session := prodcrawl.NewCrawlSession(target, c.MaxPages, c.MaxProducts)
	if err := deps.Sessions.CreateSession(deps.Ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
