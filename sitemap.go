package prodcrawl

import "context"

// SitemapService discovers URLs from a site's sitemaps.
// Used as an optional discovery seed: sitemap URLs are classified like
// any other discovered link before entering the session.
type SitemapService interface {
	// DiscoverURLs finds all URLs listed in the site's sitemaps.
	// Returns an empty slice (not an error) when the site has none.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
