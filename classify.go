package prodcrawl

import (
	"net/url"
	"strings"
)

// productExcludedPatterns lists path or full-URL substrings that disqualify
// a URL from product candidacy: cart/checkout/account flows, informational
// pages, technical endpoints, category and pagination markers, admin and
// static-asset paths, binary file extensions, and misc system pages.
// Czech terms are included because the crawler targets Czech shops first.
var productExcludedPatterns = []string{
	// Cart and orders
	"/kosik", "/cart", "/basket", "/checkout", "/objednavka", "/order", "/pokladna",
	// Account
	"/login", "/prihlaseni", "/registrace", "/register", "/ucet", "/account", "/profil",
	"/zapomenute-heslo", "/odhlaseni", "/logout",
	// Informational pages
	"/kontakt", "/contact", "/o-nas", "/about", "/o-spolecnosti", "/firma",
	"/blog", "/clanek", "/article", "/magazin", "/clanky", "/recepty",
	"/podminky", "/terms", "/gdpr", "/cookies", "/ochrana-udaju", "/privacy",
	"/faq", "/pomoc", "/help", "/otazky", "/zakaznicka-podpora",
	"/doprava", "/shipping", "/platba", "/payment", "/reklamace", "/return", "/vraceni",
	"/jak-nakupovat", "/obchodni-podminky", "/vse-o-nakupu",
	// Technical endpoints
	"/sitemap", "/feed", "/rss", "/xml", "/json", "/api", "/ajax", "/graphql",
	"/search", "/hledat", "/vyhledavani",
	"/tag", "/znacka", "/brand", "/vyrobce", "/manufacturer",
	"/kategorie", "/category", "/catalog", "/katalog",
	"/page/", "/strana-", "/stranka-", "?page=", "&page=",
	"/wp-admin", "/admin", "/wp-content", "/wp-includes", "/assets", "/static",
	// Files
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".svg", ".css", ".js", ".xml", ".ico",
	// Misc
	"/wishlist", "/porovnani", "/compare", "/hodnoceni", "/review",
	"/sluzby", "/services", "/prodejny", "/stores", "/pobocky",
	"/kariera", "/career", "/spoluprace", "/affiliate", "/partneri",
}

// categoryExcludedPatterns is the stricter, shorter denylist for category
// candidacy: only clearly non-navigational system pages are excluded so
// that unrecognized listing layouts still get crawled.
var categoryExcludedPatterns = []string{
	"/kosik", "/cart", "/checkout", "/login", "/registrace", "/account",
	"/kontakt", "/blog", "/clanek", "/podminky", "/gdpr", "/faq", "/sitemap",
	".pdf", ".jpg", ".png", "/wp-admin", "/admin", "/api",
	"/objednavka", "/order", "/prihlaseni", "/odhlaseni",
}

// minProductPathLen is the shortest path a product detail page can
// plausibly have; product URLs carry the product name as a slug.
const minProductPathLen = 5

// Classifier makes pure, deterministic URL candidacy decisions relative
// to a crawl target's domain. It holds no mutable state and is safe for
// concurrent use.
type Classifier struct {
	target *CrawlTarget
}

// NewClassifier creates a Classifier bound to the given target.
func NewClassifier(target *CrawlTarget) *Classifier {
	return &Classifier{target: target}
}

// IsProductCandidate reports whether the URL looks like a product detail
// page: http(s) on the target domain, a slug-length path, nothing from the
// exclusion list anywhere in the path or full URL, and at most one query
// parameter separator.
func (c *Classifier) IsProductCandidate(rawURL string) bool {
	u, ok := c.parseOnDomain(rawURL)
	if !ok {
		return false
	}

	path := strings.ToLower(u.Path)
	lower := strings.ToLower(rawURL)
	for _, excl := range productExcludedPatterns {
		if strings.Contains(path, excl) || strings.Contains(lower, excl) {
			return false
		}
	}

	if len(path) < minProductPathLen || path == "/" {
		return false
	}

	// Product URLs rarely carry more than one query parameter; listing
	// and filter URLs do.
	if strings.Count(rawURL, "?") > 1 {
		return false
	}

	return true
}

// IsCategoryCandidate reports whether the URL is worth visiting for link
// discovery. The filter is deliberately looser than product candidacy.
func (c *Classifier) IsCategoryCandidate(rawURL string) bool {
	u, ok := c.parseOnDomain(rawURL)
	if !ok {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, excl := range categoryExcludedPatterns {
		if strings.Contains(path, excl) {
			return false
		}
	}

	return true
}

// IsSameDomain reports whether the URL belongs to the target domain.
func (c *Classifier) IsSameDomain(rawURL string) bool {
	_, ok := c.parseOnDomain(rawURL)
	return ok
}

// parseOnDomain parses the URL and checks scheme and domain membership.
func (c *Classifier) parseOnDomain(rawURL string) (*url.URL, bool) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}
	if !strings.Contains(u.Host, c.target.Domain) {
		return nil, false
	}
	return u, true
}
