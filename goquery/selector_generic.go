package goquery

import (
	"github.com/jvasek/prodcrawl"
)

var _ prodcrawl.LinkSelector = (*GenericSelector)(nil)

// GenericSelector discovers links on shops whose platform could not be
// identified. It relies on universal grid/card/heading patterns and leans
// harder on the all-anchors fallback than the platform selectors do.
type GenericSelector struct {
	classifier        *prodcrawl.Classifier
	FallbackThreshold int
}

// NewGenericSelector creates a GenericSelector using the given classifier.
func NewGenericSelector(classifier *prodcrawl.Classifier) *GenericSelector {
	return &GenericSelector{classifier: classifier, FallbackThreshold: DefaultFallbackThreshold}
}

// Name returns the selector's identifier.
func (s *GenericSelector) Name() string {
	return "generic"
}

// ExtractLinks parses HTML and returns classified candidate links.
func (s *GenericSelector) ExtractLinks(html string, baseURL string) ([]prodcrawl.DiscoveredLink, error) {
	groups := append([]SelectorGroup{}, genericProductGroups...)
	groups = append(groups, paginationGroups...)
	groups = append(groups, categoryGroups...)

	return extractLinks(html, baseURL, s.classifier, groups, s.FallbackThreshold)
}
