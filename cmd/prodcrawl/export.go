package main

import (
	"fmt"

	"github.com/jvasek/prodcrawl"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
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

	if len(session.Records) == 0 {
		fmt.Fprintf(deps.Stderr, "error: session for %q has no records yet\n", c.URL)
		return prodcrawl.Errorf(prodcrawl.EINVALID, "session for %q has no records", c.URL)
	}

	if err := deps.Reports.WriteReport(c.Output, session.Records); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d records to %s\n", len(session.Records), c.Output)
	return nil
}
