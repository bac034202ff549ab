package extract

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/wishwell/wishwell/models"
)

// extractSite applies a SiteConfig's ordered selector lists. Each selector
// is tried until one yields a non-empty value; selector compile errors are
// swallowed and the next selector tried, so a bad table entry degrades to
// the generic fallback instead of failing the scrape.
func extractSite(doc *goquery.Document, base *url.URL, site *SiteConfig) (models.ProductRecord, bool) {
	var rec models.ProductRecord

	for _, sel := range site.TitleSelectors {
		text := selectText(doc, sel)
		if text != "" {
			rec.Title = strptr(text)
			break
		}
	}

	for _, sel := range site.PriceSelectors {
		text := selectText(doc, sel)
		if text == "" {
			continue
		}
		if price := ParsePrice(text); price != nil {
			rec.Price = price
			break
		}
	}

	for _, sel := range site.ImageSelectors {
		src := selectImageSrc(doc, base, sel)
		if src != "" {
			rec.ImageURL = &src
			break
		}
	}

	return rec, rec.HasSignal()
}

// selectText returns the cleaned text of the first element matching sel,
// or "" when the selector is invalid or matches nothing.
func selectText(doc *goquery.Document, sel string) string {
	matcher, err := cascadia.Compile(sel)
	if err != nil {
		return ""
	}
	return cleanText(doc.FindMatcher(matcher).First().Text())
}

// selectImageSrc returns the absolute image URL of the first element
// matching sel, reading src then lazy-load attributes and skipping
// inline data: URIs.
func selectImageSrc(doc *goquery.Document, base *url.URL, sel string) string {
	matcher, err := cascadia.Compile(sel)
	if err != nil {
		return ""
	}
	var result string
	doc.FindMatcher(matcher).EachWithBreak(func(_ int, s *goquery.Selection) bool {
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
