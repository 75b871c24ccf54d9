package prodcrawl

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// codePattern matches an EAN/GTIN-class identifier: 8 to 14 digits.
var codePattern = regexp.MustCompile(`^\d{8,14}$`)

// CodeKeys are the structured-data key names searched for identifier
// codes, in no particular order; the tree walk decides which occurrence
// wins.
var CodeKeys = []string{
	"gtin13", "gtin", "gtin8", "gtin12", "gtin14", "ean", "mpn", "sku", "productID",
}

// IsValidCode reports whether a value matches the EAN/GTIN numeric form.
func IsValidCode(value string) bool {
	return codePattern.MatchString(value)
}

// FindCode walks a decoded JSON tree (maps, slices, scalars) and returns
// the first value under one of the candidate keys that validates as an
// identifier code. Within an object the candidate keys are checked in the
// order given before descending into child values, so a gtin13 on a node
// beats an sku buried deeper.
func FindCode(tree any, keys []string) (string, bool) {
	switch node := tree.(type) {
	case map[string]any:
		for _, key := range keys {
			v, ok := node[key]
			if !ok || v == nil {
				continue
			}
			if code, ok := scalarCode(v); ok {
				return code, true
			}
		}
		// Descend in sorted key order; map iteration order would make the
		// winner among sibling subtrees nondeterministic.
		childKeys := make([]string, 0, len(node))
		for k := range node {
			childKeys = append(childKeys, k)
		}
		sort.Strings(childKeys)
		for _, k := range childKeys {
			if code, ok := FindCode(node[k], keys); ok {
				return code, true
			}
		}
	case []any:
		for _, item := range node {
			if code, ok := FindCode(item, keys); ok {
				return code, true
			}
		}
	}
	return "", false
}

// scalarCode converts a scalar JSON value to a string and validates it.
// Numeric values are common: JSON-LD blocks often carry gtin as a number.
func scalarCode(v any) (string, bool) {
	var s string
	switch val := v.(type) {
	case string:
		s = strings.TrimSpace(val)
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return "", false
	}
	if !IsValidCode(s) {
		return "", false
	}
	return s, true
}

// inlineCodePatterns match identifier codes embedded in raw HTML when no
// structured source yields one: JSON-ish key/value pairs, data attributes,
// and labeled inline text.
var inlineCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"gtin13"\s*:\s*"?(\d{13})"?`),
	regexp.MustCompile(`"gtin"\s*:\s*"?(\d{8,14})"?`),
	regexp.MustCompile(`"ean"\s*:\s*"?(\d{8,14})"?`),
	regexp.MustCompile(`data-ean="(\d{8,14})"`),
	regexp.MustCompile(`data-gtin="(\d{8,14})"`),
	regexp.MustCompile(`>EAN[:\s]*(\d{8,14})<`),
}

// FindCodeInText scans raw document text for inline identifier code
// occurrences. This is the last-resort extraction strategy.
func FindCodeInText(html string) (string, bool) {
	for _, re := range inlineCodePatterns {
		if m := re.FindStringSubmatch(html); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// labeledCodePattern matches a parameter-table style label followed by a
// code, e.g. "EAN: 8594001234567" or a localized barcode label.
var labeledCodePattern = regexp.MustCompile(`(?i)(?:EAN|GTIN|Čárový\s*kód|Barcode)[:\s]*(\d{8,14})`)

// FindLabeledCode scans free text (typically a specification table) for a
// labeled identifier code.
func FindLabeledCode(text string) (string, bool) {
	if m := labeledCodePattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}
