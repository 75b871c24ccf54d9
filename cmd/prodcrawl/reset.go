package main

import (
	"fmt"

	"github.com/jvasek/prodcrawl"
)

// Run executes the reset command.
func (c *ResetCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return prodcrawl.Errorf(prodcrawl.EINVALID, "use --force to confirm deletion")
	}

	target, err := prodcrawl.NewCrawlTarget(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
		return err
	}

	session, err := deps.Sessions.FindSessionByTarget(deps.Ctx, target.BaseURL)
	if err != nil {
		if prodcrawl.ErrorCode(err) == prodcrawl.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: no session for %q\n", c.URL)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
		}
		return err
	}

	if err := deps.Sessions.DeleteSession(deps.Ctx, session.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", prodcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted session %s (%s)\n", session.ID, session.Target.BaseURL)
	return nil
}
