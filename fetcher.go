package prodcrawl

import (
	"context"
	"time"
)

// Fetcher retrieves HTML documents over the network.
// Implementations own their retry behavior: a returned error means the
// page is unavailable for this crawl, not that another attempt might help.
type Fetcher interface {
	// Fetch performs a GET for the URL and returns the decoded body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases client resources.
	Close() error
}

// RetryPolicy describes how a fetcher backs off between attempts.
// Delays depend on the kind of failure: soft blocks escalate, rate
// limits wait long and flat, everything else retries quickly.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts per URL.
	MaxAttempts int

	// ForbiddenDelay is multiplied by the attempt number after an
	// HTTP 403, modeling anti-bot soft blocking.
	ForbiddenDelay time.Duration

	// RateLimitDelay is the flat wait after an HTTP 429.
	RateLimitDelay time.Duration

	// StatusDelay is the flat wait after any other non-200 status.
	StatusDelay time.Duration

	// TransportDelay is multiplied by the attempt number after a
	// transport-level failure (timeout, refused connection, DNS).
	TransportDelay time.Duration
}

// DefaultRetryPolicy returns the retry policy matching the crawler's
// historical behavior: 3 attempts, 5s×n on 403, 30s on 429, 2s on other
// statuses, 3s×n on transport errors.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		ForbiddenDelay: 5 * time.Second,
		RateLimitDelay: 30 * time.Second,
		StatusDelay:    2 * time.Second,
		TransportDelay: 3 * time.Second,
	}
}

// DomainLimiter paces requests per domain. Implementations decide the
// pacing scheme; callers only promise to Wait before every fetch.
type DomainLimiter interface {
	// Wait blocks until the domain may be fetched again, or the context
	// is canceled.
	Wait(ctx context.Context, domain string) error
}

// Delay returns the sleep before the next attempt given the outcome of
// attempt n (1-based). statusCode is zero for transport-level failures.
func (p RetryPolicy) Delay(statusCode int, attempt int) time.Duration {
	switch {
	case statusCode == 0:
		return p.TransportDelay * time.Duration(attempt)
	case statusCode == 403:
		return p.ForbiddenDelay * time.Duration(attempt)
	case statusCode == 429:
		return p.RateLimitDelay
	default:
		return p.StatusDelay
	}
}
