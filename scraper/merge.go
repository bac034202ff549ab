package scraper

import (
	"github.com/wishwell/wishwell/extract"
	"github.com/wishwell/wishwell/models"
)

// Merge combines a scraped record with caller-supplied overrides, manual
// values winning field by field whenever present. Absence of an override
// field never erases a scraped value.
//
// AllImages is the exception: override images are prepended to the scraped
// list, then the whole list is deduplicated preserving first occurrence.
func Merge(scraped models.ProductRecord, manual *models.ManualOverride) models.ProductRecord {
	if manual == nil {
		return scraped
	}

	out := scraped
	if manual.Title != nil && *manual.Title != "" {
		out.Title = manual.Title
	}
	if manual.Price != nil {
		out.Price = manual.Price
	}
	if manual.ImageURL != nil && *manual.ImageURL != "" {
		out.ImageURL = manual.ImageURL
	}
	if manual.Description != nil && *manual.Description != "" {
		out.Description = manual.Description
	}
	if len(manual.AllImages) > 0 {
		combined := make([]string, 0, len(manual.AllImages)+len(scraped.AllImages))
		combined = append(combined, manual.AllImages...)
		combined = append(combined, scraped.AllImages...)
		out.AllImages = extract.DedupeImages(combined)
	}

	return out
}
