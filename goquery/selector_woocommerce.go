package goquery

import (
	"github.com/jvasek/prodcrawl"
)

var _ prodcrawl.LinkSelector = (*WooCommerceSelector)(nil)

// WooCommerceSelector discovers links on WooCommerce-based shops.
type WooCommerceSelector struct {
	classifier        *prodcrawl.Classifier
	FallbackThreshold int
}

// NewWooCommerceSelector creates a WooCommerceSelector using the given classifier.
func NewWooCommerceSelector(classifier *prodcrawl.Classifier) *WooCommerceSelector {
	return &WooCommerceSelector{classifier: classifier, FallbackThreshold: DefaultFallbackThreshold}
}

// Name returns the selector's identifier.
func (s *WooCommerceSelector) Name() string {
	return "woocommerce"
}

// ExtractLinks parses HTML and returns classified candidate links.
func (s *WooCommerceSelector) ExtractLinks(html string, baseURL string) ([]prodcrawl.DiscoveredLink, error) {
	groups := []SelectorGroup{
		{Selector: ".woocommerce-loop-product__link", Kind: prodcrawl.LinkProduct, Source: "loop-product"},
		{Selector: ".woocommerce-LoopProduct-link", Kind: prodcrawl.LinkProduct, Source: "loop-product"},
		{Selector: "ul.products li.product a[href]", Kind: prodcrawl.LinkProduct, Source: "products-list"},
		{Selector: ".product-item-link", Kind: prodcrawl.LinkProduct, Source: "item-link"},
		{Selector: ".product a.product-item-link", Kind: prodcrawl.LinkProduct, Source: "item-link"},
	}
	groups = append(groups, genericProductGroups...)
	groups = append(groups,
		SelectorGroup{Selector: ".woocommerce-pagination a[href]", Kind: prodcrawl.LinkPagination, Source: "pagination"},
	)
	groups = append(groups, paginationGroups...)
	groups = append(groups, categoryGroups...)

	return extractLinks(html, baseURL, s.classifier, groups, s.FallbackThreshold)
}
