// Package http provides HTTP-based implementations of prodcrawl.Fetcher
// and prodcrawl.SitemapService for crawling shop sites that serve their
// catalog as static HTML.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/jvasek/prodcrawl"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for a single HTTP request.
// Shop category pages can be slow when they render large listings
// server-side, so this is generous.
const DefaultFetchTimeout = 30 * time.Second

// userAgents is the pool of browser identities rotated across retry
// attempts. Shops that throttle per user agent often serve the next
// attempt when the identity changes.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Ensure Fetcher implements prodcrawl.Fetcher at compile time.
var _ prodcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content over plain HTTP with retry and
// user-agent rotation. It does not execute JavaScript.
type Fetcher struct {
	client  *http.Client
	policy  prodcrawl.RetryPolicy
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRetryPolicy overrides the retry policy.
// Defaults to prodcrawl.DefaultRetryPolicy if not specified.
func WithRetryPolicy(policy prodcrawl.RetryPolicy) Option {
	return func(f *Fetcher) {
		f.policy = policy
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		policy:  prodcrawl.DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL, retrying per the
// configured policy with the delay schedule keyed to the failure class.
// Returns EUNAVAILABLE when all attempts are exhausted.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastStatus int
	var lastErr error

	for attempt := 1; attempt <= f.policy.MaxAttempts; attempt++ {
		html, status, err := f.fetchOnce(ctx, url, attempt)
		if err == nil {
			return html, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastStatus, lastErr = status, err

		if attempt == f.policy.MaxAttempts {
			break
		}
		select {
		case <-time.After(f.policy.Delay(status, attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if lastStatus != 0 {
		return "", prodcrawl.Errorf(prodcrawl.EUNAVAILABLE, "HTTP %d for %s after %d attempts", lastStatus, url, f.policy.MaxAttempts)
	}
	return "", prodcrawl.Errorf(prodcrawl.EUNAVAILABLE, "fetch %s failed after %d attempts: %v", url, f.policy.MaxAttempts, lastErr)
}

// fetchOnce performs a single attempt. The returned status is 0 for
// transport-level failures, letting the retry policy distinguish them
// from HTTP status failures.
func (f *Fetcher) fetchOnce(ctx context.Context, url string, attempt int) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, prodcrawl.Errorf(prodcrawl.EINVALID, "invalid URL %q: %v", url, err)
	}

	// Rotate identity per attempt; the rest of the headers stay fixed
	// to look like an ordinary browser session.
	req.Header.Set("User-Agent", userAgents[(attempt-1)%len(userAgents)])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "cs-CZ,cs;q=0.9,en;q=0.8")
	req.Header.Set("Connection", "keep-alive")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, prodcrawl.Errorf(prodcrawl.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return "", 0, err
	}

	return body, resp.StatusCode, nil
}

// decodeBody reads the response body converted to UTF-8. Czech shops
// still occasionally serve windows-1250 or iso-8859-2.
func decodeBody(resp *http.Response) (string, error) {
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Close releases resources held by the underlying HTTP client.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
