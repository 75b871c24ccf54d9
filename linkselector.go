package prodcrawl

// Platform identifies an e-commerce platform family.
type Platform string

// Supported platform families.
const (
	PlatformUnknown     Platform = ""
	PlatformShoptet     Platform = "shoptet"
	PlatformWooCommerce Platform = "woocommerce"
	PlatformPrestaShop  Platform = "prestashop"
	PlatformShopify     Platform = "shopify"
)

// LinkKind classifies a discovered link's role in the crawl.
type LinkKind int

// Link kinds, by what the crawler does with them: product links feed the
// extraction queue, category and pagination links feed the frontier.
const (
	LinkProduct LinkKind = iota
	LinkCategory
	LinkPagination
)

// DiscoveredLink is a URL found on a page, absolute and fragment-free.
type DiscoveredLink struct {
	URL    string
	Kind   LinkKind
	Source string // selector group that matched, e.g. "product-grid", "pagination"
}

// LinkSelector extracts candidate links from a listing or navigation page.
// Implementations apply an ordered cascade of structural selectors and are
// expected to be best-effort: a selector that does not apply to a document
// is skipped, never an error.
type LinkSelector interface {
	// ExtractLinks parses HTML and returns classified candidate links.
	// The baseURL resolves relative hrefs.
	ExtractLinks(html string, baseURL string) ([]DiscoveredLink, error)

	// Name returns the selector's identifier (e.g. "shoptet", "generic").
	Name() string
}

// PlatformDetector identifies e-commerce platforms from HTML.
type PlatformDetector interface {
	// Detect analyzes HTML and returns the identified platform.
	// Returns PlatformUnknown if none can be determined.
	Detect(html string) Platform
}

// LinkSelectorRegistry manages platform-specific selectors.
type LinkSelectorRegistry interface {
	// Get returns the selector for a specific platform.
	// Returns nil if no selector is registered for the platform.
	Get(platform Platform) LinkSelector

	// GetForHTML detects the platform from HTML and returns the
	// appropriate selector, falling back to a generic selector when the
	// platform is unknown.
	GetForHTML(html string) LinkSelector

	// Register adds a selector for a platform.
	Register(platform Platform, selector LinkSelector)

	// List returns all registered platforms.
	List() []Platform
}
