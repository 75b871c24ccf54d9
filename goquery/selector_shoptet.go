package goquery

import (
	"github.com/jvasek/prodcrawl"
)

var _ prodcrawl.LinkSelector = (*ShoptetSelector)(nil)

// ShoptetSelector discovers links on Shoptet-based shops.
// Shoptet listing pages mark product anchors with p-name/p-item classes
// and carry a category tree in the sidebar.
type ShoptetSelector struct {
	classifier        *prodcrawl.Classifier
	FallbackThreshold int
}

// NewShoptetSelector creates a ShoptetSelector using the given classifier.
func NewShoptetSelector(classifier *prodcrawl.Classifier) *ShoptetSelector {
	return &ShoptetSelector{classifier: classifier, FallbackThreshold: DefaultFallbackThreshold}
}

// Name returns the selector's identifier.
func (s *ShoptetSelector) Name() string {
	return "shoptet"
}

// ExtractLinks parses HTML and returns classified candidate links.
func (s *ShoptetSelector) ExtractLinks(html string, baseURL string) ([]prodcrawl.DiscoveredLink, error) {
	groups := []SelectorGroup{
		{Selector: "a.p-name", Kind: prodcrawl.LinkProduct, Source: "p-name"},
		{Selector: "a.p-item-title", Kind: prodcrawl.LinkProduct, Source: "p-item"},
		{Selector: ".p-item a.p-name", Kind: prodcrawl.LinkProduct, Source: "p-item"},
		{Selector: ".p-info a[href]", Kind: prodcrawl.LinkProduct, Source: "p-info"},
		{Selector: ".product-name a[href]", Kind: prodcrawl.LinkProduct, Source: "product"},
		{Selector: "a.product-name", Kind: prodcrawl.LinkProduct, Source: "product"},
		{Selector: ".p h2 a[href]", Kind: prodcrawl.LinkProduct, Source: "heading"},
		{Selector: ".p h3 a[href]", Kind: prodcrawl.LinkProduct, Source: "heading"},
		{Selector: ".p-item h2 a[href]", Kind: prodcrawl.LinkProduct, Source: "heading"},
		{Selector: "a[data-product-name]", Kind: prodcrawl.LinkProduct, Source: "data-attr"},
		{Selector: "[data-product] a[href]", Kind: prodcrawl.LinkProduct, Source: "data-attr"},
	}
	groups = append(groups, genericProductGroups...)
	// Pagination before categories: broad nav selectors would otherwise
	// claim next-page links.
	groups = append(groups,
		SelectorGroup{Selector: ".paging-list a[href]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
		SelectorGroup{Selector: ".pagination-list a[href]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	)
	groups = append(groups, paginationGroups...)
	groups = append(groups,
		SelectorGroup{Selector: ".category-tree a[href]", Kind: prodcrawl.LinkCategory, Source: "category-tree"},
		SelectorGroup{Selector: ".p-category-list a[href]", Kind: prodcrawl.LinkCategory, Source: "category"},
		SelectorGroup{Selector: ".navigation-categories a[href]", Kind: prodcrawl.LinkCategory, Source: "category"},
	)
	groups = append(groups, categoryGroups...)

	return extractLinks(html, baseURL, s.classifier, groups, s.FallbackThreshold)
}
