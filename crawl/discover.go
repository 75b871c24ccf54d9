package crawl

import (
	"context"

	"github.com/jvasek/prodcrawl"
)

// discover runs the discovery phase: walk the frontier, extract links
// from every page, route product links to the product set and category
// or pagination links back to the frontier. Stops when the frontier
// drains or a session budget is reached.
//
// Pages are processed sequentially. Discovery is frontier-order
// sensitive and single-domain, so parallelism would only fight the
// per-domain rate limit.
func (c *Crawler) discover(ctx context.Context, frontier *Frontier, target *prodcrawl.CrawlTarget, progress ProgressFunc) error {
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Phase: PhaseDiscovery, Total: frontier.QueueLen()})
	}

	c.seedFromSitemap(ctx, frontier, target)

	sinceCheckpoint := 0
	completed := 0
	for !frontier.Exhausted() {
		if err := ctx.Err(); err != nil {
			return err
		}

		url, ok := frontier.Pop()
		if !ok {
			break
		}

		if err := c.RateLimiter.Wait(ctx, target.Domain); err != nil {
			return err
		}

		html, err := c.Fetcher.Fetch(ctx, url)
		// Visited means attempted; a dead page is not retried on resume.
		frontier.MarkVisited(url)
		completed++

		if err != nil {
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, Phase: PhaseDiscovery, Completed: completed, URL: url, Error: err})
			}
			continue
		}

		c.routeLinks(frontier, html, url)

		if progress != nil {
			progress(ProgressEvent{Type: ProgressCompleted, Phase: PhaseDiscovery, Completed: completed, URL: url})
		}

		sinceCheckpoint++
		if c.CheckpointInterval > 0 && sinceCheckpoint >= c.CheckpointInterval {
			if err := c.checkpoint(ctx, frontier); err != nil {
				return err
			}
			sinceCheckpoint = 0
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Phase: PhaseDiscovery, Completed: completed})
	}
	return nil
}

// routeLinks extracts the page's links with the platform-appropriate
// selector and routes each by kind. Links already known to the session
// are skipped before any routing work.
func (c *Crawler) routeLinks(frontier *Frontier, html string, pageURL string) {
	selector := c.LinkSelectors.GetForHTML(html)
	links, err := selector.ExtractLinks(html, pageURL)
	if err != nil {
		return
	}

	for _, link := range links {
		if frontier.Seen(link.URL, link.Kind) {
			continue
		}
		switch link.Kind {
		case prodcrawl.LinkProduct:
			frontier.AddProduct(link.URL)
		case prodcrawl.LinkCategory, prodcrawl.LinkPagination:
			frontier.Push(link.URL)
		}
	}
}

// seedFromSitemap augments the frontier with sitemap URLs when a
// sitemap service is configured. Sitemap failures are ignored; the
// crawl still has the target's seed URLs.
func (c *Crawler) seedFromSitemap(ctx context.Context, frontier *Frontier, target *prodcrawl.CrawlTarget) {
	if c.Sitemaps == nil {
		return
	}

	urls, err := c.Sitemaps.DiscoverURLs(ctx, target.BaseURL)
	if err != nil {
		return
	}

	classifier := prodcrawl.NewClassifier(target)
	for _, u := range urls {
		switch {
		case classifier.IsProductCandidate(u):
			frontier.AddProduct(u)
		case classifier.IsCategoryCandidate(u):
			frontier.Push(u)
		}
	}
}
