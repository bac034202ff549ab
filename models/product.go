package models

// Scrape method tags recorded on ProductRecord.ScrapeMethod. The "-rendered"
// variants mean the HTML came from the headless-browser tier.
const (
	MethodJSONLD         = "json-ld"
	MethodSiteSpecific   = "site-specific"
	MethodGenericHTML    = "generic-html"
	MethodRenderedSuffix = "-rendered"
	MethodFailed         = "failed"
)

// MaxGalleryImages caps ProductRecord.AllImages.
const MaxGalleryImages = 20

// MaxDescriptionLen bounds ProductRecord.Description to keep storage small.
const MaxDescriptionLen = 500

// ProductRecord is the normalized result of scraping a product page.
//
// Optional fields are pointers so "not found" (nil) stays distinguishable
// from "found empty" — callers must never see a defaulted zero value.
type ProductRecord struct {
	Title       *string  `json:"title,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	AllImages   []string `json:"all_images,omitempty"`
	Description *string  `json:"description,omitempty"`

	// ScrapeMethod identifies which extraction strategy produced the record.
	ScrapeMethod string `json:"scrape_method"`

	// Error carries a diagnostic message when extraction failed or was
	// incomplete.
	Error *string `json:"error,omitempty"`
}

// HasSignal reports whether the record carries at least a title or a price.
// The orchestrator escalates to the next fetch strategy until this is true.
func (r *ProductRecord) HasSignal() bool {
	return r != nil && (r.Title != nil || r.Price != nil)
}

// ManualOverride holds caller-supplied fields that take precedence over
// scraped values whenever present.
type ManualOverride struct {
	Title       *string  `json:"title,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
	AllImages   []string `json:"all_images,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// ErrorDetail is the aggregated diagnostics payload returned when every
// fetch strategy has been exhausted.
type ErrorDetail struct {
	URL          string            `json:"url"`
	MethodsTried []string          `json:"methods_tried"`
	MethodErrors map[string]string `json:"method_errors"`
}
