package extract

import (
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/wishwell/wishwell/models"
)

// minDescriptionLen filters out breadcrumbs and labels that happen to carry
// a "description" class.
const minDescriptionLen = 20

var (
	titleClassPattern = regexp.MustCompile(`(?i)product.*title|title|name`)
	priceClassPattern = regexp.MustCompile(`(?i)price|amount`)
	imageClassPattern = regexp.MustCompile(`(?i)product.*image|main.*image|primary.*image`)
	descClassPattern  = regexp.MustCompile(`(?i)description`)
)

// extractGeneric is the last-resort heuristic pass: meta tags first, then
// class/id pattern scans. It returns whatever it finds — possibly nothing;
// the orchestrator decides whether that is enough.
func extractGeneric(doc *goquery.Document, base *url.URL) models.ProductRecord {
	var rec models.ProductRecord

	if title := genericTitle(doc); title != "" {
		rec.Title = strptr(title)
	}
	rec.Price = genericPrice(doc)
	if img := genericImage(doc, base); img != "" {
		rec.ImageURL = &img
	}
	if desc := genericDescription(doc); desc != "" {
		rec.Description = strptr(truncate(desc, models.MaxDescriptionLen))
	}

	return rec
}

func genericTitle(doc *goquery.Document) string {
	if v := metaContent(doc, `meta[property="og:title"]`); v != "" {
		return v
	}
	if v := metaContent(doc, `meta[name="twitter:title"]`); v != "" {
		return v
	}

	// Headings whose class or id looks product-ish.
	var title string
	doc.Find("h1, h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !attrMatches(s, titleClassPattern) {
			return true
		}
		if text := cleanText(s.Text()); text != "" {
			title = text
			return false
		}
		return true
	})
	if title != "" {
		return title
	}

	// Known marketplace pattern.
	if v := cleanText(doc.Find("span#productTitle").First().Text()); v != "" {
		return v
	}

	// Any first heading as last resort.
	return cleanText(doc.Find("h1").First().Text())
}

func genericPrice(doc *goquery.Document) *float64 {
	// Meta tags carrying a numeric price win outright.
	for _, sel := range []string{
		`meta[property="product:price:amount"]`,
		`meta[property="og:price:amount"]`,
		`meta[itemprop="price"]`,
	} {
		if v := metaContent(doc, sel); v != "" {
			if price := parsePriceValue(v); price != nil {
				return price
			}
		}
	}

	// Elements with a price-ish class, parsed from their combined text.
	var price *float64
	doc.Find("span, div, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		if !ok || !priceClassPattern.MatchString(class) {
			return true
		}
		if p := ParsePrice(cleanText(s.Text())); p != nil {
			price = p
			return false
		}
		return true
	})
	return price
}

func genericImage(doc *goquery.Document, base *url.URL) string {
	for _, sel := range []string{
		`meta[property="og:image"]`,
		`meta[property="product:image"]`,
		`meta[name="twitter:image"]`,
	} {
		if v := metaContent(doc, sel); v != "" {
			if abs := resolveURL(base, v); abs != "" {
				return abs
			}
		}
	}

	var result string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !attrMatches(s, imageClassPattern) && s.AttrOr("id", "") != "landingImage" {
			return true
		}
		for _, attr := range imageSrcAttrs {
			if v, ok := s.Attr(attr); ok {
				if abs := resolveURL(base, v); abs != "" {
					result = abs
					return false
				}
			}
		}
		return true
	})
	return result
}

func genericDescription(doc *goquery.Document) string {
	for _, sel := range []string{
		`meta[property="og:description"]`,
		`meta[name="description"]`,
		`meta[name="twitter:description"]`,
	} {
		if v := metaContent(doc, sel); v != "" {
			return v
		}
	}

	var desc string
	doc.Find("div, section, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !attrMatches(s, descClassPattern) {
			return true
		}
		if text := cleanText(s.Text()); len(text) > minDescriptionLen {
			desc = text
			return false
		}
		return true
	})
	return desc
}

// metaContent returns the trimmed content attribute of the first element
// matching sel.
func metaContent(doc *goquery.Document, sel string) string {
	return cleanText(doc.Find(sel).First().AttrOr("content", ""))
}

// attrMatches reports whether the element's class or id matches the pattern.
func attrMatches(s *goquery.Selection, re *regexp.Regexp) bool {
	if class, ok := s.Attr("class"); ok && re.MatchString(class) {
		return true
	}
	if id, ok := s.Attr("id"); ok && re.MatchString(id) {
		return true
	}
	return false
}
