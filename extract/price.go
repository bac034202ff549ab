package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// amount matches a decimal money amount with optional thousands separators
// and an optional 2-digit cents part, e.g. "1,299.00", "49.99", "299".
const amount = `(?:[0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)(?:\.[0-9]{2})?`

// pricePatterns are tried in order; the first successful match wins.
var pricePatterns = []*regexp.Regexp{
	// Currency-symbol-prefixed: "$1,299.00", "£49.99", "€ 15"
	regexp.MustCompile(`[$£€]\s*(` + amount + `)`),
	// Amount followed by a currency symbol or word: "299 dollars", "49.99 USD"
	regexp.MustCompile(`(?i)(` + amount + `)\s*(?:[$£€]|dollars?|usd)`),
	// Bare decimal amount with cents: "1299.00"
	regexp.MustCompile(`((?:[0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)\.[0-9]{2})`),
	// Literal "Price:" prefix: "Price: 49.99"
	regexp.MustCompile(`(?i)price:\s*[$£€]?\s*(` + amount + `)`),
}

// ParsePrice extracts a numeric price from arbitrary text. Thousands
// separators are stripped before conversion. Returns nil when no pattern
// matches — absent, never zero.
func ParsePrice(text string) *float64 {
	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}

// parsePriceValue converts a JSON-LD price value — a number, or a string
// like "39.95" or "$39.95" — to a float64.
func parsePriceValue(v any) *float64 {
	switch val := v.(type) {
	case float64:
		f := val
		return &f
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
			return &f
		}
		return ParsePrice(s)
	}
	return nil
}
