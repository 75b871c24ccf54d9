package crawl

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jvasek/prodcrawl"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency bounds parallel extraction workers when the
// Crawler does not set one.
const defaultConcurrency = 4

// extract runs the extraction phase over the session's pending product
// URLs with a bounded worker pool. Every URL is marked processed after
// its first attempt, whatever the outcome; only the resulting records
// differ between outcomes.
func (c *Crawler) extract(ctx context.Context, frontier *Frontier, target *prodcrawl.CrawlTarget, progress ProgressFunc, result *Result) error {
	pending := frontier.PendingProducts()
	total := len(pending)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Phase: PhaseExtraction, Total: total})
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	// Dedup identities of records already in the session, so a resumed
	// crawl never duplicates what a previous run extracted.
	seen := make(map[uint64]struct{})
	_ = frontier.WithSession(func(session *prodcrawl.CrawlSession) error {
		for _, r := range session.Records {
			seen[recordKey(r)] = struct{}{}
		}
		return nil
	})
	var seenMu sync.Mutex

	var completed, extracted, skipped, failed, sinceCheckpoint atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, url := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := c.RateLimiter.Wait(gctx, target.Domain); err != nil {
				return err
			}

			event := ProgressEvent{Type: ProgressCompleted, Phase: PhaseExtraction, URL: url}

			html, err := c.Fetcher.Fetch(gctx, url)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				event.Type, event.Error = ProgressFailed, err
			} else {
				record, err := c.Extractor.Extract(gctx, html, url)
				switch {
				case prodcrawl.ErrorCode(err) == prodcrawl.ENOTFOUND:
					// Not a product page after all; not an error.
					skipped.Add(1)
				case err != nil:
					failed.Add(1)
					event.Type, event.Error = ProgressFailed, err
				default:
					key := recordKey(record)
					seenMu.Lock()
					_, dup := seen[key]
					if !dup {
						seen[key] = struct{}{}
					}
					seenMu.Unlock()
					if dup {
						skipped.Add(1)
					} else {
						frontier.AddRecord(record)
						extracted.Add(1)
					}
				}
			}
			frontier.MarkProcessed(url)

			event.Completed = int(completed.Add(1))
			event.Total = total
			if progress != nil {
				progress(event)
			}

			if c.CheckpointInterval > 0 && sinceCheckpoint.Add(1)%int64(c.CheckpointInterval) == 0 {
				if err := c.checkpoint(gctx, frontier); err != nil {
					return err
				}
			}
			return nil
		})
	}

	err := g.Wait()

	result.Extracted = int(extracted.Load())
	result.Skipped = int(skipped.Load())
	result.Failed = int(failed.Load())

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Phase: PhaseExtraction, Completed: int(completed.Load()), Total: total})
	}
	return err
}
