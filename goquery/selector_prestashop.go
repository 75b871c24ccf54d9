package goquery

import (
	"github.com/jvasek/prodcrawl"
)

var _ prodcrawl.LinkSelector = (*PrestaShopSelector)(nil)

// PrestaShopSelector discovers links on PrestaShop-based shops.
type PrestaShopSelector struct {
	classifier        *prodcrawl.Classifier
	FallbackThreshold int
}

// NewPrestaShopSelector creates a PrestaShopSelector using the given classifier.
func NewPrestaShopSelector(classifier *prodcrawl.Classifier) *PrestaShopSelector {
	return &PrestaShopSelector{classifier: classifier, FallbackThreshold: DefaultFallbackThreshold}
}

// Name returns the selector's identifier.
func (s *PrestaShopSelector) Name() string {
	return "prestashop"
}

// ExtractLinks parses HTML and returns classified candidate links.
func (s *PrestaShopSelector) ExtractLinks(html string, baseURL string) ([]prodcrawl.DiscoveredLink, error) {
	groups := []SelectorGroup{
		{Selector: ".product-title a[href]", Kind: prodcrawl.LinkProduct, Source: "product-title"},
		{Selector: ".product_name a[href]", Kind: prodcrawl.LinkProduct, Source: "product-name"},
		{Selector: ".product-miniature a.thumbnail", Kind: prodcrawl.LinkProduct, Source: "miniature"},
		{Selector: ".product-container a.product-name", Kind: prodcrawl.LinkProduct, Source: "container"},
	}
	groups = append(groups, genericProductGroups...)
	groups = append(groups, paginationGroups...)
	groups = append(groups, categoryGroups...)

	return extractLinks(html, baseURL, s.classifier, groups, s.FallbackThreshold)
}
