package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/wishwell/wishwell/models"
)

// imageSrcAttrs are the src and lazy-load attribute variants checked in
// order on image elements.
var imageSrcAttrs = []string{"src", "data-src", "data-lazy-src", "data-original", "data-srcset"}

// nonProductSubstrings mark obvious non-product assets.
var nonProductSubstrings = []string{"icon", "logo"}

// collectGallery gathers every image referenced on the page — img/source
// elements plus JSON-LD product images — as absolute URLs, filters obvious
// non-product assets, deduplicates preserving first-seen order, and caps
// the list at MaxGalleryImages.
func collectGallery(doc *goquery.Document, base *url.URL) []string {
	var images []string

	doc.Find("img, source").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range imageSrcAttrs {
			v, ok := s.Attr(attr)
			if !ok || v == "" {
				continue
			}
			if attr == "data-srcset" {
				v = firstSrcsetURL(v)
			}
			if abs := resolveURL(base, v); abs != "" {
				images = append(images, abs)
				break
			}
		}
	})

	images = append(images, ldImages(doc, base)...)

	filtered := images[:0]
	for _, u := range images {
		if !looksNonProduct(u) {
			filtered = append(filtered, u)
		}
	}

	return DedupeImages(filtered)
}

// DedupeImages removes duplicates preserving first occurrence and caps the
// result at MaxGalleryImages. Shared with the merge layer so override
// galleries obey the same invariants.
func DedupeImages(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		if len(out) == models.MaxGalleryImages {
			break
		}
	}
	return out
}

func looksNonProduct(u string) bool {
	lower := strings.ToLower(u)
	for _, sub := range nonProductSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// firstSrcsetURL picks the first candidate URL out of a srcset value like
// "https://x/a.jpg 1x, https://x/b.jpg 2x".
func firstSrcsetURL(srcset string) string {
	first, _, _ := strings.Cut(srcset, ",")
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
