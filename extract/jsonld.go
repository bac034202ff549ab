package extract

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	jsoniter "github.com/json-iterator/go"
	"github.com/wishwell/wishwell/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// extractJSONLD scans <script type="application/ld+json"> blocks for a
// schema.org Product (or IndividualProduct) and reads name, description,
// image and offers.price from the first well-formed match. Malformed
// blocks are skipped silently.
func extractJSONLD(doc *goquery.Document, base *url.URL) (models.ProductRecord, bool) {
	var rec models.ProductRecord
	found := false

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.UnmarshalFromString(s.Text(), &raw); err != nil {
			return true // malformed block, keep scanning
		}
		for _, candidate := range unwrapLDNodes(raw) {
			if !isProductNode(candidate) {
				continue
			}
			rec = productFromLD(candidate, base)
			if rec.HasSignal() {
				found = true
				return false
			}
		}
		return true
	})

	return rec, found
}

// unwrapLDNodes flattens a decoded JSON-LD document into candidate object
// nodes: a bare object, a top-level array, or the contents of @graph.
func unwrapLDNodes(raw any) []map[string]any {
	var nodes []map[string]any
	switch v := raw.(type) {
	case map[string]any:
		nodes = append(nodes, v)
		if graph, ok := v["@graph"].([]any); ok {
			for _, g := range graph {
				if m, ok := g.(map[string]any); ok {
					nodes = append(nodes, m)
				}
			}
		}
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				nodes = append(nodes, m)
			}
		}
	}
	return nodes
}

// isProductNode checks @type, which may be a string or a list of strings.
func isProductNode(node map[string]any) bool {
	switch t := node["@type"].(type) {
	case string:
		return t == "Product" || t == "IndividualProduct"
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && (s == "Product" || s == "IndividualProduct") {
				return true
			}
		}
	}
	return false
}

// productFromLD maps a Product node to a ProductRecord.
func productFromLD(node map[string]any, base *url.URL) models.ProductRecord {
	var rec models.ProductRecord

	if name, ok := node["name"].(string); ok && name != "" {
		rec.Title = strptr(cleanText(name))
	}
	if desc, ok := node["description"].(string); ok && desc != "" {
		rec.Description = strptr(truncate(cleanText(desc), models.MaxDescriptionLen))
	}
	if img := firstLDImage(node["image"]); img != "" {
		if abs := resolveURL(base, img); abs != "" {
			rec.ImageURL = &abs
		}
	}
	if offers := unwrapOffers(node["offers"]); offers != nil {
		rec.Price = parsePriceValue(offers["price"])
	}

	return rec
}

// unwrapOffers handles offers appearing as a single object or as the first
// element of a list.
func unwrapOffers(v any) map[string]any {
	switch offers := v.(type) {
	case map[string]any:
		return offers
	case []any:
		if len(offers) > 0 {
			if m, ok := offers[0].(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// firstLDImage picks the primary image from a string, an ImageObject, or a
// list of either.
func firstLDImage(v any) string {
	switch img := v.(type) {
	case string:
		return img
	case map[string]any:
		if u, ok := img["url"].(string); ok {
			return u
		}
	case []any:
		for _, item := range img {
			if s := firstLDImage(item); s != "" {
				return s
			}
		}
	}
	return ""
}

// ldImages collects every image URL referenced by Product blocks, for the
// gallery.
func ldImages(doc *goquery.Document, base *url.URL) []string {
	var out []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var raw any
		if err := json.UnmarshalFromString(s.Text(), &raw); err != nil {
			return
		}
		for _, node := range unwrapLDNodes(raw) {
			if !isProductNode(node) {
				continue
			}
			for _, img := range allLDImages(node["image"]) {
				if abs := resolveURL(base, img); abs != "" {
					out = append(out, abs)
				}
			}
		}
	})
	return out
}

func allLDImages(v any) []string {
	switch img := v.(type) {
	case string:
		return []string{img}
	case map[string]any:
		if u, ok := img["url"].(string); ok {
			return []string{u}
		}
	case []any:
		var out []string
		for _, item := range img {
			out = append(out, allLDImages(item)...)
		}
		return out
	}
	return nil
}
