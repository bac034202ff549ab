// Package extract turns raw product-page HTML into a normalized
// ProductRecord. It is pure: no network I/O, no shared state, identical
// inputs always produce identical records.
//
// Strategies are tried in strict priority order — embedded JSON-LD product
// data, then per-domain selector rules, then generic heuristics — accepting
// the first that yields at least a title or a price.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/wishwell/wishwell/models"
)

// Extract parses rawHTML fetched from pageURL into a ProductRecord.
// site, when non-nil, supplies per-domain selectors tried before the
// generic fallback. The gallery is always collected from the whole page,
// whichever strategy produced the core fields.
func Extract(pageURL, rawHTML string, site *SiteConfig) models.ProductRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return models.ProductRecord{}
	}
	base, _ := url.Parse(pageURL)

	rec, ok := extractJSONLD(doc, base)
	if ok {
		rec.ScrapeMethod = models.MethodJSONLD
	}
	if !ok && site != nil {
		rec, ok = extractSite(doc, base, site)
		if ok {
			rec.ScrapeMethod = models.MethodSiteSpecific
		}
	}
	if !ok {
		rec = extractGeneric(doc, base)
		rec.ScrapeMethod = models.MethodGenericHTML
	}

	rec.AllImages = collectGallery(doc, base)
	return rec
}

// resolveURL resolves ref against base and returns an absolute http(s) URL,
// or "" for data: URIs, unresolvable relatives, and junk.
func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if parsed.Scheme == "data" {
		return ""
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}

// truncate bounds s to max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func strptr(s string) *string { return &s }

// cleanText collapses the whitespace of an element's combined text content.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
