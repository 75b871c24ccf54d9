package goquery

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jvasek/prodcrawl"
)

// Name length bounds: shorter is a fragment, longer is a description
// that leaked into the title element.
const (
	minNameLen = 2
	maxNameLen = 500
)

var _ prodcrawl.ProductExtractor = (*Extractor)(nil)

// Extractor turns a product-page document into a ProductRecord by
// applying ordered per-field selector cascades. Every field except the
// name is optional; a selector that does not match is skipped, never an
// error. The whole pipeline degrades field by field.
type Extractor struct {
	detector prodcrawl.PlatformDetector
}

// NewExtractor creates an Extractor using the given platform detector.
func NewExtractor(detector prodcrawl.PlatformDetector) *Extractor {
	return &Extractor{detector: detector}
}

// Extract applies the per-field strategy cascade to the HTML.
// Returns ENOTFOUND when the page has no extractable product name.
func (e *Extractor) Extract(ctx context.Context, html string, sourceURL string) (*prodcrawl.ProductRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	profile := ProfileFor(e.detector.Detect(html))

	name, ok := extractName(doc, profile.Name)
	if !ok {
		return nil, prodcrawl.Errorf(prodcrawl.ENOTFOUND, "no product name found at %s", sourceURL)
	}

	record := &prodcrawl.ProductRecord{
		Name:      name,
		SourceURL: sourceURL,
	}

	record.Code = extractCode(doc, html, profile)
	record.Price = extractPrice(doc, profile.Price, true)
	record.OriginalPrice = extractPrice(doc, profile.OriginalPrice, false)
	record.Discount = prodcrawl.DiscountPercent(record.Price, record.OriginalPrice)
	record.Availability = extractAvailability(doc, profile.Availability)

	return record, nil
}

// extractName tries the name selectors in order, preferring a content or
// data attribute over element text, and accepts the first candidate whose
// trimmed length is plausible for a product title.
func extractName(doc *goquery.Document, selectors []string) (string, bool) {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := attrOrText(sel, "content", "data-product-name")
		// Length bounds count characters, not bytes; titles with
		// diacritics must hit the same bounds as plain ASCII.
		if n := utf8.RuneCountInString(text); n > minNameLen && n < maxNameLen {
			return prodcrawl.CleanText(text), true
		}
	}
	return "", false
}

// extractCode runs the five identifier-code strategies in strict order:
// structured-data scripts, meta tags, data attributes, parameter tables,
// and finally raw-text regex scanning.
func extractCode(doc *goquery.Document, html string, profile FieldProfile) string {
	// 1. JSON-LD structured data. Malformed blocks are skipped.
	var code string
	doc.Find("script[type=\"application/ld+json\"]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return true
		}
		var tree any
		if err := json.Unmarshal([]byte(raw), &tree); err != nil {
			return true
		}
		if found, ok := prodcrawl.FindCode(tree, prodcrawl.CodeKeys); ok {
			code = found
			return false
		}
		return true
	})
	if code != "" {
		return code
	}

	// 2. Meta tags.
	for _, selector := range profile.MetaCode {
		content, exists := doc.Find(selector).First().Attr("content")
		if !exists {
			continue
		}
		content = strings.TrimSpace(content)
		if prodcrawl.IsValidCode(content) {
			return content
		}
	}

	// 3. Data attributes on any element.
	for _, attr := range profile.DataCodeAttrs {
		val, exists := doc.Find("[" + attr + "]").First().Attr(attr)
		if !exists {
			continue
		}
		val = strings.TrimSpace(val)
		if prodcrawl.IsValidCode(val) {
			return val
		}
	}

	// 4. Parameter/specification tables with a labeled code.
	for _, selector := range profile.ParamTables {
		found := ""
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if labeled, ok := prodcrawl.FindLabeledCode(sel.Text()); ok {
				found = labeled
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}

	// 5. Raw document text.
	if found, ok := prodcrawl.FindCodeInText(html); ok {
		return found
	}

	return ""
}

// extractPrice tries the price selectors in order and returns the first
// normalized value that parses to a positive number. Attribute values are
// preferred over element text when preferAttrs is set; the old-price
// cascade reads element text only, matching how shops mark up
// strikethrough prices.
func extractPrice(doc *goquery.Document, selectors []string, preferAttrs bool) string {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		var raw string
		if preferAttrs {
			raw = attrOrText(sel, "content", "data-price")
		} else {
			raw = strings.TrimSpace(sel.Text())
		}
		normalized := prodcrawl.NormalizePrice(raw)
		if normalized == "" {
			continue
		}
		if _, ok := prodcrawl.ParsePositivePrice(normalized); ok {
			return normalized
		}
	}
	return ""
}

// extractAvailability returns the first matching availability text,
// length-capped.
func extractAvailability(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := attrOrText(sel, "content", "data-availability")
		if text != "" {
			return prodcrawl.TruncateAvailability(text)
		}
	}
	return ""
}

// attrOrText returns the first non-empty attribute value from attrs,
// falling back to the selection's trimmed text.
func attrOrText(sel *goquery.Selection, attrs ...string) string {
	for _, attr := range attrs {
		if val, exists := sel.Attr(attr); exists && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return strings.TrimSpace(sel.Text())
}
