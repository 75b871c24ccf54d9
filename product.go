package prodcrawl

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

// availabilityMaxLen caps the availability text; some shops put whole
// delivery paragraphs into the availability element.
const availabilityMaxLen = 100

// ProductRecord is one extracted product. Name and SourceURL are required;
// every other field may be empty. Records are never mutated after
// creation and are de-duplicated downstream on (Name, SourceURL).
type ProductRecord struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	Price         string `json:"price"`
	OriginalPrice string `json:"originalPrice"`
	Discount      string `json:"discount"`
	Availability  string `json:"availability"`
	SourceURL     string `json:"sourceUrl"`
}

// Validate returns an error if the record is missing required fields.
func (r *ProductRecord) Validate() error {
	if r.Name == "" {
		return Errorf(EINVALID, "product record name required")
	}
	if r.SourceURL == "" {
		return Errorf(EINVALID, "product record source URL required")
	}
	return nil
}

// controlChars matches characters that break spreadsheet cells.
var controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x9f]`)

// CleanText strips control characters and surrounding whitespace from a
// scraped text value.
func CleanText(text string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(text, ""))
}

// TruncateAvailability normalizes and length-caps an availability string.
// The cap counts runes; byte slicing would split multi-byte characters
// and leak invalid UTF-8 into records.
func TruncateAvailability(text string) string {
	cleaned := CleanText(text)
	if utf8.RuneCountInString(cleaned) <= availabilityMaxLen {
		return cleaned
	}
	runes := []rune(cleaned)
	return string(runes[:availabilityMaxLen])
}

// ReportWriter exports accumulated records to a durable tabular file.
type ReportWriter interface {
	// WriteReport writes all records to the given path, dropping
	// duplicates on (Name, SourceURL) and sorting by name.
	WriteReport(path string, records []*ProductRecord) error
}

// ProductExtractor turns a fetched product-page document into a record.
type ProductExtractor interface {
	// Extract applies the per-field strategy cascade to the HTML.
	// Returns ENOTFOUND when the page has no extractable product name,
	// which marks the URL as a non-product page rather than a failure.
	Extract(ctx context.Context, html string, sourceURL string) (*ProductRecord, error)
}
