package goquery

import "github.com/jvasek/prodcrawl"

// FieldProfile is an ordered list of CSS selectors per extracted field.
// Selectors are tried in order; the first valid match wins. Platform
// profiles lead with their own markup and fall through to the generic
// lists, so a mis-detected platform still extracts.
type FieldProfile struct {
	Name          []string
	MetaCode      []string
	DataCodeAttrs []string
	ParamTables   []string
	Price         []string
	OriginalPrice []string
	Availability  []string
}

// genericProfile covers the selector vocabulary shared across platforms.
var genericProfile = FieldProfile{
	Name: []string{
		"h1", "h1.product-title", "h1.product-name", "h1.product_title",
		"[itemprop=\"name\"]", ".p-detail-title", ".p-detail-inner h1",
		".product-title", ".product-name", ".entry-title",
		".product-detail h1", ".product-info h1", ".product-header h1",
		"h1.title", "h1.name", "[data-product-name]",
	},
	MetaCode: []string{
		"meta[itemprop=\"gtin13\"]", "meta[itemprop=\"gtin\"]", "meta[itemprop=\"gtin8\"]",
		"meta[itemprop=\"ean\"]", "meta[property=\"product:ean\"]", "meta[property=\"og:ean\"]",
		"meta[name=\"ean\"]", "meta[name=\"gtin\"]",
	},
	DataCodeAttrs: []string{
		"data-ean", "data-gtin", "data-gtin13", "data-barcode", "data-product-ean",
	},
	ParamTables: []string{
		"table", ".params", ".product-params", ".parameters",
		".specifications", ".attributes", "dl", ".p-params",
		".product-properties", ".product-attributes",
	},
	Price: []string{
		"[itemprop=\"price\"]", "meta[itemprop=\"price\"]",
		".price-final", ".p-final", ".p-detail-price", ".p-main-price",
		".current-price", ".product-price", ".price", ".price-box .price",
		".woocommerce-Price-amount", ".amount",
		".price-new", ".special-price", ".offer-price", ".sale-price",
		"ins .amount", ".price ins", ".final-price",
		"[data-price]", ".product-price-value",
	},
	OriginalPrice: []string{
		".price-standard", ".p-standard", ".p-before-price",
		".original-price", ".old-price", ".price-old", ".was-price",
		".regular-price", ".list-price", ".compare-price",
		"del .amount", ".price del", "del.price", "s.price", "s .amount",
		".price-before-discount", ".crossed-price",
	},
	Availability: []string{
		".availability", ".p-availability", ".stock", ".stock-status",
		"[itemprop=\"availability\"]", ".in-stock", ".out-of-stock",
		".product-availability", ".delivery-info", ".skladem", ".dostupnost",
		".stock-info", ".availability-status", ".product-stock",
		"[data-availability]", ".inventory-status",
	},
}

// platformProfiles lead with the selectors specific to each platform
// family. Adding a platform means adding a row here, not new code.
var platformProfiles = map[prodcrawl.Platform]FieldProfile{
	prodcrawl.PlatformShoptet: {
		Name:          []string{".p-detail-title", ".p-detail-inner h1"},
		Price:         []string{".price-final", ".p-final", ".p-detail-price", ".p-main-price"},
		OriginalPrice: []string{".price-standard", ".p-standard", ".p-before-price"},
		Availability:  []string{".p-availability", ".skladem", ".dostupnost"},
	},
	prodcrawl.PlatformWooCommerce: {
		Name:          []string{"h1.product_title", ".entry-title"},
		Price:         []string{"ins .amount", ".price ins", ".woocommerce-Price-amount"},
		OriginalPrice: []string{"del .amount", ".price del", "del.price"},
		Availability:  []string{".stock", ".in-stock", ".out-of-stock"},
	},
	prodcrawl.PlatformPrestaShop: {
		Name:          []string{"h1.product-name", ".product-detail-name"},
		Price:         []string{".current-price", ".product-price"},
		OriginalPrice: []string{".regular-price"},
		Availability:  []string{".product-availability", "#product-availability"},
	},
	prodcrawl.PlatformShopify: {
		Name:          []string{".product__title", ".product-single__title"},
		Price:         []string{".price-item--sale", ".product__price", ".price-item--regular"},
		OriginalPrice: []string{"s.price-item--regular", ".product__price--compare"},
		Availability:  []string{".product__inventory", ".inventory-status"},
	},
}

// ProfileFor returns the field profile for a platform: its own selectors
// first, the generic vocabulary appended as fallback.
func ProfileFor(platform prodcrawl.Platform) FieldProfile {
	specific, ok := platformProfiles[platform]
	if !ok {
		return genericProfile
	}
	return FieldProfile{
		Name:          append(append([]string{}, specific.Name...), genericProfile.Name...),
		MetaCode:      append(append([]string{}, specific.MetaCode...), genericProfile.MetaCode...),
		DataCodeAttrs: append(append([]string{}, specific.DataCodeAttrs...), genericProfile.DataCodeAttrs...),
		ParamTables:   append(append([]string{}, specific.ParamTables...), genericProfile.ParamTables...),
		Price:         append(append([]string{}, specific.Price...), genericProfile.Price...),
		OriginalPrice: append(append([]string{}, specific.OriginalPrice...), genericProfile.OriginalPrice...),
		Availability:  append(append([]string{}, specific.Availability...), genericProfile.Availability...),
	}
}
