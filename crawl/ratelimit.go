package crawl

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/jvasek/prodcrawl"
	"golang.org/x/time/rate"
)

var _ prodcrawl.DomainLimiter = (*DomainLimiter)(nil)

// Default politeness window between requests to the same domain.
const (
	DefaultDelayMin = 500 * time.Millisecond
	DefaultDelayMax = 1500 * time.Millisecond
)

// DomainLimiter paces requests per domain with a token bucket plus
// random jitter, so the gap between two requests to a domain falls
// uniformly in [minDelay, maxDelay]. Jittered pacing looks less like a
// bot than a fixed-interval one.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	minDelay time.Duration
	jitter   time.Duration
}

// NewDomainLimiter creates a limiter enforcing at least minDelay and at
// most maxDelay between requests to the same domain. Each domain gets
// its own token bucket with a burst of 1.
func NewDomainLimiter(minDelay, maxDelay time.Duration) *DomainLimiter {
	if minDelay <= 0 {
		minDelay = DefaultDelayMin
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		minDelay: minDelay,
		jitter:   maxDelay - minDelay,
	}
}

// Wait blocks until the domain may be fetched again.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(d.minDelay), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return err
	}

	if d.jitter > 0 {
		select {
		case <-time.After(time.Duration(rand.Int63n(int64(d.jitter)))):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
