package prodcrawl

import (
	"net/url"
	"strings"
)

// CrawlTarget identifies the site a crawl session operates on.
// It is immutable for the lifetime of a session; all URL classification
// decisions are made relative to its domain.
type CrawlTarget struct {
	BaseURL string
	Domain  string
}

// NewCrawlTarget parses and normalizes a base URL into a CrawlTarget.
// Trailing slashes are stripped so that seeded category paths join cleanly.
func NewCrawlTarget(rawURL string) (*CrawlTarget, error) {
	normalized := strings.TrimRight(strings.TrimSpace(rawURL), "/")

	u, err := url.Parse(normalized)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid target URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "target URL must use http or https, got %q", rawURL)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "target URL %q has no host", rawURL)
	}

	return &CrawlTarget{
		BaseURL: normalized,
		Domain:  u.Host,
	}, nil
}

// KnownCategories maps domains to curated category path prefixes used to
// seed discovery. A match is substring-based so "www." prefixes and
// regional subdomains still hit.
var KnownCategories = map[string][]string{
	"aktin.cz": {
		"/proteiny", "/aminokyseliny", "/kreatin", "/sacharidy", "/gainery",
		"/spalovace-tuku", "/vitaminy-mineraly", "/zdravi", "/superfood",
		"/orechova-masla", "/snacky", "/napoje", "/potraviny", "/tycinky",
		"/kloubni-vyziva", "/imunita", "/trava-a-bylinky", "/pece-o-telo",
		"/pomucky", "/obleceni", "/balicky", "/novinky", "/sleva", "/vyprodej",
	},
	"brainmarket.cz": {
		"/brainmax-doplnky-stravy/", "/brainmax-pure/", "/doplnky-stravy/",
		"/potraviny-bm/", "/domov/", "/kosmetika-drogerie/", "/obleceni-3/",
		"/trainmax/", "/wellmax/", "/lauf/", "/blight/", "/usetri/", "/novinky/",
	},
}

// SeedURLs returns the starting URLs for discovery: the base URL plus any
// curated category paths registered for the target domain.
func (t *CrawlTarget) SeedURLs() []string {
	urls := []string{t.BaseURL}
	for domain, paths := range KnownCategories {
		if !strings.Contains(t.Domain, domain) {
			continue
		}
		for _, p := range paths {
			urls = append(urls, t.BaseURL+p)
		}
	}
	return urls
}
