// Package goquery provides CSS-selector-based implementations of link
// discovery, platform detection, and product extraction.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jvasek/prodcrawl"
)

// DefaultFallbackThreshold is the minimum number of product links the
// selector cascade must yield before the all-anchors fallback scan kicks
// in. Kept configurable; 3 is the historical value.
const DefaultFallbackThreshold = 3

// SelectorGroup defines a CSS selector with the link kind it discovers
// and a source label for diagnostics.
type SelectorGroup struct {
	Selector string
	Kind     prodcrawl.LinkKind
	Source   string
}

// extractLinks applies the selector groups against the document and
// returns resolved, fragment-free, classified links. A selector that does
// not apply to the document yields no links; it never aborts discovery.
//
// If fewer than fallbackThreshold product links come out of the cascade,
// every anchor on the page is scanned and run through the product
// classifier. This recovers shops with unrecognized markup at the cost of
// higher false-positive risk, which the classifier's denylist controls.
func extractLinks(
	html string,
	baseURL string,
	classifier *prodcrawl.Classifier,
	groups []SelectorGroup,
	fallbackThreshold int,
) ([]prodcrawl.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	// Dedup is per kind: a URL claimed by a category or pagination group
	// must still reach the product classifier, both in the cascade and in
	// the fallback scan. Products that only appear inside nav or widget
	// markup would otherwise never be discovered.
	type linkKey struct {
		kind prodcrawl.LinkKind
		url  string
	}
	seen := make(map[linkKey]struct{})
	var links []prodcrawl.DiscoveredLink
	productCount := 0

	add := func(resolved string, kind prodcrawl.LinkKind, source string) {
		if _, ok := seen[linkKey{kind, resolved}]; ok {
			return
		}
		switch kind {
		case prodcrawl.LinkProduct:
			if !classifier.IsProductCandidate(resolved) {
				return
			}
			productCount++
		case prodcrawl.LinkCategory:
			if !classifier.IsCategoryCandidate(resolved) {
				return
			}
		case prodcrawl.LinkPagination:
			if !classifier.IsSameDomain(resolved) {
				return
			}
		}
		seen[linkKey{kind, resolved}] = struct{}{}
		links = append(links, prodcrawl.DiscoveredLink{
			URL:    resolved,
			Kind:   kind,
			Source: source,
		})
	}

	for _, group := range groups {
		doc.Find(group.Selector).Each(func(_ int, sel *goquery.Selection) {
			href, exists := sel.Attr("href")
			if !exists || href == "" || isNonHTTPLink(href) {
				return
			}
			resolved := resolveURL(base, href)
			if resolved == "" {
				return
			}
			add(resolved, group.Kind, group.Source)
		})
	}

	if productCount < fallbackThreshold {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, exists := sel.Attr("href")
			if !exists || href == "" || isNonHTTPLink(href) {
				return
			}
			resolved := resolveURL(base, href)
			if resolved == "" {
				return
			}
			add(resolved, prodcrawl.LinkProduct, "fallback")
		})
	}

	return links, nil
}

// resolveURL resolves a relative URL against a base URL and strips the
// fragment. Returns an empty string when the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// categoryGroups are the navigation selector groups shared by every
// platform selector; platform-specific ones are prepended where known.
var categoryGroups = []SelectorGroup{
	{Selector: "nav a[href]", Kind: prodcrawl.LinkCategory, Source: "nav"},
	{Selector: ".menu a[href]", Kind: prodcrawl.LinkCategory, Source: "menu"},
	{Selector: ".navigation a[href]", Kind: prodcrawl.LinkCategory, Source: "nav"},
	{Selector: ".navbar a[href]", Kind: prodcrawl.LinkCategory, Source: "nav"},
	{Selector: "header a[href]", Kind: prodcrawl.LinkCategory, Source: "header"},
	{Selector: ".main-menu a[href]", Kind: prodcrawl.LinkCategory, Source: "menu"},
	{Selector: ".primary-menu a[href]", Kind: prodcrawl.LinkCategory, Source: "menu"},
	{Selector: ".site-nav a[href]", Kind: prodcrawl.LinkCategory, Source: "nav"},
	{Selector: ".category a[href]", Kind: prodcrawl.LinkCategory, Source: "category"},
	{Selector: ".categories a[href]", Kind: prodcrawl.LinkCategory, Source: "category"},
	{Selector: "[class*=\"category\"] a[href]", Kind: prodcrawl.LinkCategory, Source: "category"},
	{Selector: ".cat-item a[href]", Kind: prodcrawl.LinkCategory, Source: "category"},
	{Selector: ".product-category a[href]", Kind: prodcrawl.LinkCategory, Source: "category"},
	{Selector: ".subcategory a[href]", Kind: prodcrawl.LinkCategory, Source: "category"},
	{Selector: ".sidebar a[href]", Kind: prodcrawl.LinkCategory, Source: "sidebar"},
	{Selector: ".widget a[href]", Kind: prodcrawl.LinkCategory, Source: "sidebar"},
	{Selector: ".aside a[href]", Kind: prodcrawl.LinkCategory, Source: "sidebar"},
	{Selector: ".nav a[href]", Kind: prodcrawl.LinkCategory, Source: "nav"},
	{Selector: "ul.menu a[href]", Kind: prodcrawl.LinkCategory, Source: "menu"},
	{Selector: "li.menu-item a[href]", Kind: prodcrawl.LinkCategory, Source: "menu"},
	{Selector: ".dropdown a[href]", Kind: prodcrawl.LinkCategory, Source: "menu"},
}

// paginationGroups are the pagination selector groups shared by every
// platform selector.
var paginationGroups = []SelectorGroup{
	{Selector: "a.next", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: "a[rel=\"next\"]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: ".next a[href]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: ".pagination-next a[href]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: "a[title*=\"další\"]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: "a[title*=\"Další\"]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: "a[title*=\"Next\"]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: "a[aria-label*=\"next\"]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: "a[aria-label*=\"další\"]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: ".pagination a[href]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: ".paging a[href]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: ".page-numbers a[href]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: ".paginator a[href]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: ".pages a[href]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	{Selector: "a.page-link", Kind: prodcrawl.LinkPagination, Source: "pagination"},
}

// genericProductGroups work across unrecognized shop layouts.
var genericProductGroups = []SelectorGroup{
	{Selector: ".product a[href]", Kind: prodcrawl.LinkProduct, Source: "product"},
	{Selector: ".products a[href]", Kind: prodcrawl.LinkProduct, Source: "product"},
	{Selector: "[class*=\"product\"] a[href]", Kind: prodcrawl.LinkProduct, Source: "product"},
	{Selector: ".item a[href]", Kind: prodcrawl.LinkProduct, Source: "item"},
	{Selector: ".card a[href]", Kind: prodcrawl.LinkProduct, Source: "card"},
	{Selector: ".grid-item a[href]", Kind: prodcrawl.LinkProduct, Source: "grid"},
	{Selector: "h2 a[href]", Kind: prodcrawl.LinkProduct, Source: "heading"},
	{Selector: "h3 a[href]", Kind: prodcrawl.LinkProduct, Source: "heading"},
	{Selector: "h4 a[href]", Kind: prodcrawl.LinkProduct, Source: "heading"},
	{Selector: "article a[href]", Kind: prodcrawl.LinkProduct, Source: "article"},
	{Selector: ".product-list a[href]", Kind: prodcrawl.LinkProduct, Source: "product"},
	{Selector: ".collection-product a[href]", Kind: prodcrawl.LinkProduct, Source: "collection"},
	{Selector: ".product-grid a[href]", Kind: prodcrawl.LinkProduct, Source: "grid"},
}
