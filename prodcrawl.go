// Package prodcrawl discovers and extracts structured product records
// (name, EAN/GTIN code, price, discount, availability) from e-commerce
// sites whose markup follows one of several common platform conventions
// (Shoptet, WooCommerce, PrestaShop, Shopify), without site-specific
// configuration beyond a starting URL.
//
// This package contains domain types, pure extraction logic, and
// interfaces following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, http/, sqlite/, excelize/).
package prodcrawl
