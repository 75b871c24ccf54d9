package mock

import (
	"github.com/jvasek/prodcrawl"
)

var _ prodcrawl.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of prodcrawl.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]prodcrawl.DiscoveredLink, error)
	NameFn         func() string
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]prodcrawl.DiscoveredLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}

func (s *LinkSelector) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}

var _ prodcrawl.PlatformDetector = (*PlatformDetector)(nil)

// PlatformDetector is a mock implementation of prodcrawl.PlatformDetector.
type PlatformDetector struct {
	DetectFn func(html string) prodcrawl.Platform
}

func (d *PlatformDetector) Detect(html string) prodcrawl.Platform {
	return d.DetectFn(html)
}

var _ prodcrawl.LinkSelectorRegistry = (*LinkSelectorRegistry)(nil)

// LinkSelectorRegistry is a mock implementation of prodcrawl.LinkSelectorRegistry.
type LinkSelectorRegistry struct {
	GetFn        func(platform prodcrawl.Platform) prodcrawl.LinkSelector
	GetForHTMLFn func(html string) prodcrawl.LinkSelector
	RegisterFn   func(platform prodcrawl.Platform, selector prodcrawl.LinkSelector)
	ListFn       func() []prodcrawl.Platform
}

func (r *LinkSelectorRegistry) Get(platform prodcrawl.Platform) prodcrawl.LinkSelector {
	return r.GetFn(platform)
}

func (r *LinkSelectorRegistry) GetForHTML(html string) prodcrawl.LinkSelector {
	return r.GetForHTMLFn(html)
}

func (r *LinkSelectorRegistry) Register(platform prodcrawl.Platform, selector prodcrawl.LinkSelector) {
	r.RegisterFn(platform, selector)
}

func (r *LinkSelectorRegistry) List() []prodcrawl.Platform {
	return r.ListFn()
}
