package main

import (
	"fmt"

	"github.com/jvasek/prodcrawl"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	target, err := prodcrawl.NewCrawlTarget(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
		return err
	}

	session, err := deps.Sessions.FindSessionByTarget(deps.Ctx, target.BaseURL)
	if err != nil {
		if prodcrawl.ErrorCode(err) == prodcrawl.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: no session for %q. Run 'prodcrawl crawl' first.\n", c.URL)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
		}
		return err
	}

	stats := session.Stats()
	fmt.Fprintf(deps.Stdout, "Session %s (%s)\n", session.ID, session.Target.BaseURL)
	fmt.Fprintf(deps.Stdout, "  Pages visited:   %d\n", stats.VisitedPages)
	fmt.Fprintf(deps.Stdout, "  Product URLs:    %d (%d pending)\n", stats.ProductURLs, stats.Pending)
	fmt.Fprintf(deps.Stdout, "  Records:         %d\n", stats.Records)
	fmt.Fprintf(deps.Stdout, "  With EAN code:   %d\n", stats.WithCode)
	fmt.Fprintf(deps.Stdout, "  With price:      %d\n", stats.WithPrice)
	fmt.Fprintf(deps.Stdout, "  Discounted:      %d\n", stats.Discounted)

	return nil
}
