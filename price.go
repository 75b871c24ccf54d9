package prodcrawl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizePrice reduces a scraped price string to a plain decimal form.
//
// Everything except digits, commas, and periods is stripped (currency
// symbols, spaces, non-breaking spaces). Commas become periods. If the
// final period is followed by at most two digits it is kept as the
// decimal separator and all earlier periods are treated as thousands
// separators; otherwise every period is a thousands separator and all
// are removed.
//
//	"1 234,50 Kč" -> "1234.50"
//	"999"         -> "999"
//	"12.345"      -> "12345"
//
// Returns an empty string when the input contains no digits.
func NormalizePrice(text string) string {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	price := strings.ReplaceAll(b.String(), ",", ".")

	if idx := strings.LastIndex(price, "."); idx != -1 {
		frac := price[idx+1:]
		if len(frac) <= 2 {
			whole := strings.ReplaceAll(price[:idx], ".", "")
			price = whole + "." + frac
		} else {
			price = strings.ReplaceAll(price, ".", "")
		}
	}

	if !strings.ContainsAny(price, "0123456789") {
		return ""
	}
	return price
}

// ParsePositivePrice parses a normalized price string and reports whether
// it is a valid positive amount.
func ParsePositivePrice(price string) (float64, bool) {
	v, err := strconv.ParseFloat(price, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// DiscountPercent derives the discount from a current and an original
// price, both in normalized decimal form. It returns a formatted integer
// percentage like "20%", or an empty string when either price is missing,
// unparsable, or the original is not strictly greater than the current
// price.
func DiscountPercent(price, originalPrice string) string {
	curr, ok := ParsePositivePrice(price)
	if !ok {
		return ""
	}
	orig, ok := ParsePositivePrice(originalPrice)
	if !ok {
		return ""
	}
	if orig <= curr {
		return ""
	}
	pct := math.Round((orig - curr) / orig * 100)
	return fmt.Sprintf("%.0f%%", pct)
}
