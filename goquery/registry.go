package goquery

import "github.com/jvasek/prodcrawl"

var _ prodcrawl.LinkSelectorRegistry = (*Registry)(nil)

// Registry manages platform-specific link selectors and auto-detects
// platforms from HTML content. It uses a PlatformDetector to identify
// the shop platform and returns the appropriate selector, falling back
// to a generic selector when the platform is unknown or no specific
// selector is registered.
type Registry struct {
	detector  prodcrawl.PlatformDetector
	fallback  prodcrawl.LinkSelector
	selectors map[prodcrawl.Platform]prodcrawl.LinkSelector
}

// NewRegistry creates a new Registry with the given detector and fallback
// selector.
func NewRegistry(detector prodcrawl.PlatformDetector, fallback prodcrawl.LinkSelector) *Registry {
	return &Registry{
		detector:  detector,
		fallback:  fallback,
		selectors: make(map[prodcrawl.Platform]prodcrawl.LinkSelector),
	}
}

// Get returns the selector for a specific platform.
// Returns nil if no selector is registered for the platform.
func (r *Registry) Get(platform prodcrawl.Platform) prodcrawl.LinkSelector {
	return r.selectors[platform]
}

// GetForHTML detects the platform from HTML and returns the appropriate
// selector. Falls back to the fallback selector if the platform is
// unknown or no selector is registered for it.
func (r *Registry) GetForHTML(html string) prodcrawl.LinkSelector {
	platform := r.detector.Detect(html)
	if selector, ok := r.selectors[platform]; ok {
		return selector
	}
	return r.fallback
}

// Register adds a selector for a platform.
// If a selector is already registered for the platform, it is replaced.
func (r *Registry) Register(platform prodcrawl.Platform, selector prodcrawl.LinkSelector) {
	r.selectors[platform] = selector
}

// List returns all registered platforms.
func (r *Registry) List() []prodcrawl.Platform {
	platforms := make([]prodcrawl.Platform, 0, len(r.selectors))
	for p := range r.selectors {
		platforms = append(platforms, p)
	}
	return platforms
}
