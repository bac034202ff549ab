package scraper

import (
	"reflect"
	"testing"

	"github.com/wishwell/wishwell/models"
)

func strptr(s string) *string   { return &s }
func f64ptr(f float64) *float64 { return &f }

func TestMerge_NilOverrideIsIdentity(t *testing.T) {
	scraped := models.ProductRecord{
		Title:     strptr("Lamp"),
		Price:     f64ptr(39.95),
		AllImages: []string{"https://x/a.jpg"},
	}

	got := Merge(scraped, nil)

	if !reflect.DeepEqual(got, scraped) {
		t.Errorf("Merge(scraped, nil) = %+v, want unchanged %+v", got, scraped)
	}
}

func TestMerge_OverrideFieldsWin(t *testing.T) {
	scraped := models.ProductRecord{
		Title:       strptr("Scraped Title"),
		Price:       f64ptr(10),
		Description: strptr("scraped description"),
	}
	manual := &models.ManualOverride{
		Title: strptr("Manual Title"),
		Price: f64ptr(25),
	}

	got := Merge(scraped, manual)

	if *got.Title != "Manual Title" {
		t.Errorf("Title = %q, want Manual Title", *got.Title)
	}
	if *got.Price != 25 {
		t.Errorf("Price = %v, want 25", *got.Price)
	}
	// Absent override fields never erase scraped values.
	if got.Description == nil || *got.Description != "scraped description" {
		t.Errorf("Description = %v, want scraped value preserved", got.Description)
	}
}

func TestMerge_EmptyStringOverrideIgnored(t *testing.T) {
	scraped := models.ProductRecord{Title: strptr("Scraped Title")}
	manual := &models.ManualOverride{Title: strptr("")}

	got := Merge(scraped, manual)

	if got.Title == nil || *got.Title != "Scraped Title" {
		t.Errorf("Title = %v, want scraped value kept over empty override", got.Title)
	}
}

func TestMerge_ImagesPrependedAndDeduped(t *testing.T) {
	scraped := models.ProductRecord{
		AllImages: []string{"https://x/a.jpg", "https://x/b.jpg"},
	}
	manual := &models.ManualOverride{
		AllImages: []string{"https://x/manual.jpg", "https://x/a.jpg"},
	}

	got := Merge(scraped, manual)

	want := []string{"https://x/manual.jpg", "https://x/a.jpg", "https://x/b.jpg"}
	if !reflect.DeepEqual(got.AllImages, want) {
		t.Errorf("AllImages = %v, want %v", got.AllImages, want)
	}
}

func TestMerge_NoOverrideImagesKeepsScraped(t *testing.T) {
	scraped := models.ProductRecord{AllImages: []string{"https://x/a.jpg"}}

	got := Merge(scraped, &models.ManualOverride{Title: strptr("T")})

	if !reflect.DeepEqual(got.AllImages, scraped.AllImages) {
		t.Errorf("AllImages = %v, want scraped list untouched", got.AllImages)
	}
}

func TestMerge_GalleryCapHolds(t *testing.T) {
	var scrapedImages, manualImages []string
	for i := 0; i < 15; i++ {
		scrapedImages = append(scrapedImages, "https://x/s"+string(rune('a'+i))+".jpg")
		manualImages = append(manualImages, "https://x/m"+string(rune('a'+i))+".jpg")
	}

	got := Merge(
		models.ProductRecord{AllImages: scrapedImages},
		&models.ManualOverride{AllImages: manualImages},
	)

	if len(got.AllImages) != models.MaxGalleryImages {
		t.Errorf("len(AllImages) = %d, want cap %d", len(got.AllImages), models.MaxGalleryImages)
	}
	// Manual images come first.
	if got.AllImages[0] != manualImages[0] {
		t.Errorf("AllImages[0] = %q, want override image first", got.AllImages[0])
	}
}
