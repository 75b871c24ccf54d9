package goquery

import (
	"github.com/jvasek/prodcrawl"
)

var _ prodcrawl.LinkSelector = (*ShopifySelector)(nil)

// ShopifySelector discovers links on Shopify-based shops. Shopify themes
// vary widely, so the product groups cover the common card/grid patterns
// shared by the popular themes.
type ShopifySelector struct {
	classifier        *prodcrawl.Classifier
	FallbackThreshold int
}

// NewShopifySelector creates a ShopifySelector using the given classifier.
func NewShopifySelector(classifier *prodcrawl.Classifier) *ShopifySelector {
	return &ShopifySelector{classifier: classifier, FallbackThreshold: DefaultFallbackThreshold}
}

// Name returns the selector's identifier.
func (s *ShopifySelector) Name() string {
	return "shopify"
}

// ExtractLinks parses HTML and returns classified candidate links.
func (s *ShopifySelector) ExtractLinks(html string, baseURL string) ([]prodcrawl.DiscoveredLink, error) {
	groups := []SelectorGroup{
		{Selector: ".product-card a[href]", Kind: prodcrawl.LinkProduct, Source: "card"},
		{Selector: "a.product-card__link", Kind: prodcrawl.LinkProduct, Source: "card"},
		{Selector: ".product-item a[href]", Kind: prodcrawl.LinkProduct, Source: "item"},
		{Selector: "a.product-link", Kind: prodcrawl.LinkProduct, Source: "link"},
		{Selector: "a.grid-product__link", Kind: prodcrawl.LinkProduct, Source: "grid"},
		{Selector: "a.card__link", Kind: prodcrawl.LinkProduct, Source: "card"},
	}
	groups = append(groups, genericProductGroups...)
	groups = append(groups, paginationGroups...)
	groups = append(groups, categoryGroups...)

	return extractLinks(html, baseURL, s.classifier, groups, s.FallbackThreshold)
}
