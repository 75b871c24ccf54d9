package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jvasek/prodcrawl"
)

var _ prodcrawl.PlatformDetector = (*Detector)(nil)

// Detector identifies e-commerce platforms from HTML content. It checks
// meta generator tags first, then platform-specific CSS classes and
// script markers.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified platform.
// Returns PlatformUnknown if the platform cannot be determined.
func (d *Detector) Detect(html string) prodcrawl.Platform {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return prodcrawl.PlatformUnknown
	}

	if platform := d.detectFromMetaGenerator(doc); platform != prodcrawl.PlatformUnknown {
		return platform
	}

	// Shoptet: p-* product classes and the shoptet script bundle.
	if d.hasSelector(doc, ".p-detail") ||
		d.hasSelector(doc, "a.p-name") ||
		d.hasSelector(doc, ".p-item-title") ||
		strings.Contains(html, "cdn.myshoptet.com") {
		return prodcrawl.PlatformShoptet
	}

	// WooCommerce: body class and loop product markup.
	if d.hasSelector(doc, "body.woocommerce") ||
		d.hasSelector(doc, ".woocommerce-loop-product__link") ||
		d.hasSelector(doc, ".woocommerce-Price-amount") ||
		strings.Contains(html, "wp-content/plugins/woocommerce") {
		return prodcrawl.PlatformWooCommerce
	}

	// PrestaShop: miniature markup and the prestashop JS global.
	if d.hasSelector(doc, ".product-miniature") ||
		d.hasSelector(doc, "#prestashop-app") ||
		strings.Contains(html, "var prestashop") {
		return prodcrawl.PlatformPrestaShop
	}

	// Shopify: CDN assets and the Shopify JS global.
	if d.hasSelector(doc, ".shopify-section") ||
		strings.Contains(html, "cdn.shopify.com") ||
		strings.Contains(html, "window.Shopify") {
		return prodcrawl.PlatformShopify
	}

	return prodcrawl.PlatformUnknown
}

// detectFromMetaGenerator checks the meta generator tag, the most
// reliable marker when present.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) prodcrawl.Platform {
	generator, exists := doc.Find("meta[name=\"generator\"]").Attr("content")
	if !exists {
		return prodcrawl.PlatformUnknown
	}
	generator = strings.ToLower(generator)
	switch {
	case strings.Contains(generator, "shoptet"):
		return prodcrawl.PlatformShoptet
	case strings.Contains(generator, "woocommerce"):
		return prodcrawl.PlatformWooCommerce
	case strings.Contains(generator, "prestashop"):
		return prodcrawl.PlatformPrestaShop
	case strings.Contains(generator, "shopify"):
		return prodcrawl.PlatformShopify
	}
	return prodcrawl.PlatformUnknown
}

// hasSelector returns true if the document contains at least one element
// matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
