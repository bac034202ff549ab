package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/wishwell/wishwell/models"
)

const jsonLDPage = `<!DOCTYPE html>
<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Product",
  "name": "Lamp",
  "description": "A very nice lamp for the living room.",
  "image": "https://x/a.jpg",
  "offers": {"@type": "Offer", "price": "39.95", "priceCurrency": "USD"}
}
</script>
</head><body><h1 class="product-title">Something Else</h1></body></html>`

func TestExtract_JSONLD(t *testing.T) {
	rec := Extract("https://shop.example/lamp", jsonLDPage, nil)

	if rec.ScrapeMethod != models.MethodJSONLD {
		t.Fatalf("ScrapeMethod = %q, want %q", rec.ScrapeMethod, models.MethodJSONLD)
	}
	if rec.Title == nil || *rec.Title != "Lamp" {
		t.Errorf("Title = %v, want Lamp", rec.Title)
	}
	if rec.Price == nil || *rec.Price != 39.95 {
		t.Errorf("Price = %v, want 39.95", rec.Price)
	}
	if rec.ImageURL == nil || *rec.ImageURL != "https://x/a.jpg" {
		t.Errorf("ImageURL = %v, want https://x/a.jpg", rec.ImageURL)
	}
}

func TestExtract_JSONLD_OffersList(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
	{"@type": "IndividualProduct", "name": "Vase",
	 "offers": [{"price": 12.5}, {"price": 99}]}
	</script></head><body></body></html>`

	rec := Extract("https://shop.example/vase", page, nil)

	if rec.ScrapeMethod != models.MethodJSONLD {
		t.Fatalf("ScrapeMethod = %q, want %q", rec.ScrapeMethod, models.MethodJSONLD)
	}
	if rec.Price == nil || *rec.Price != 12.5 {
		t.Errorf("Price = %v, want first offer's 12.5", rec.Price)
	}
}

func TestExtract_JSONLD_SkipsMalformedBlocks(t *testing.T) {
	page := `<html><head>
	<script type="application/ld+json">{not valid json</script>
	<script type="application/ld+json">{"@type": "BreadcrumbList"}</script>
	<script type="application/ld+json">{"@type": "Product", "name": "Mug"}</script>
	</head><body></body></html>`

	rec := Extract("https://shop.example/mug", page, nil)

	if rec.Title == nil || *rec.Title != "Mug" {
		t.Fatalf("Title = %v, want Mug (malformed and non-product blocks skipped)", rec.Title)
	}
	if rec.ScrapeMethod != models.MethodJSONLD {
		t.Errorf("ScrapeMethod = %q, want %q", rec.ScrapeMethod, models.MethodJSONLD)
	}
}

func TestExtract_Generic(t *testing.T) {
	page := `<html><head>
	<meta property="og:title" content="Widget">
	</head><body>
	<span class="price-current">$19.99</span>
	</body></html>`

	rec := Extract("https://shop.example/widget", page, nil)

	if rec.ScrapeMethod != models.MethodGenericHTML {
		t.Fatalf("ScrapeMethod = %q, want %q", rec.ScrapeMethod, models.MethodGenericHTML)
	}
	if rec.Title == nil || *rec.Title != "Widget" {
		t.Errorf("Title = %v, want Widget", rec.Title)
	}
	if rec.Price == nil || *rec.Price != 19.99 {
		t.Errorf("Price = %v, want 19.99", rec.Price)
	}
	if rec.ImageURL != nil {
		t.Errorf("ImageURL = %q, want absent", *rec.ImageURL)
	}
	if rec.Description != nil {
		t.Errorf("Description = %q, want absent", *rec.Description)
	}
}

func TestExtract_NothingFound_AllFieldsAbsent(t *testing.T) {
	page := `<html><head></head><body><article>just an article</article></body></html>`

	rec := Extract("https://blog.example/post", page, nil)

	if rec.Title != nil {
		t.Errorf("Title = %q, want nil", *rec.Title)
	}
	if rec.Price != nil {
		t.Errorf("Price = %v, want nil", *rec.Price)
	}
	if rec.ImageURL != nil {
		t.Errorf("ImageURL = %q, want nil", *rec.ImageURL)
	}
	if rec.Description != nil {
		t.Errorf("Description = %q, want nil", *rec.Description)
	}
	if len(rec.AllImages) != 0 {
		t.Errorf("AllImages = %v, want empty", rec.AllImages)
	}
	if rec.HasSignal() {
		t.Error("HasSignal() = true for an empty record")
	}
}

func TestExtract_Idempotent(t *testing.T) {
	first := Extract("https://shop.example/lamp", jsonLDPage, nil)
	second := Extract("https://shop.example/lamp", jsonLDPage, nil)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestExtract_SiteSpecific(t *testing.T) {
	page := `<html><body>
	<span id="productTitle">  Cordless Drill  </span>
	<span class="a-price"><span class="a-offscreen">$89.00</span></span>
	<img id="landingImage" src="/images/drill-main.jpg">
	</body></html>`

	site := SiteFor("www.amazon.com")
	if site == nil {
		t.Fatal("SiteFor(www.amazon.com) = nil")
	}

	rec := Extract("https://www.amazon.com/dp/B0TEST", page, site)

	if rec.ScrapeMethod != models.MethodSiteSpecific {
		t.Fatalf("ScrapeMethod = %q, want %q", rec.ScrapeMethod, models.MethodSiteSpecific)
	}
	if rec.Title == nil || *rec.Title != "Cordless Drill" {
		t.Errorf("Title = %v, want Cordless Drill", rec.Title)
	}
	if rec.Price == nil || *rec.Price != 89.00 {
		t.Errorf("Price = %v, want 89.00", rec.Price)
	}
	if rec.ImageURL == nil || *rec.ImageURL != "https://www.amazon.com/images/drill-main.jpg" {
		t.Errorf("ImageURL = %v, want resolved absolute URL", rec.ImageURL)
	}
}

func TestExtract_JSONLDBeatsSiteAndGeneric(t *testing.T) {
	page := `<html><head>
	<meta property="og:title" content="Generic Title">
	<script type="application/ld+json">
	{"@type": "Product", "name": "Structured Title", "offers": {"price": "10.00"}}
	</script>
	</head><body><span id="productTitle">Site Title</span></body></html>`

	rec := Extract("https://www.amazon.com/dp/B0TEST", page, SiteFor("www.amazon.com"))

	if rec.Title == nil || *rec.Title != "Structured Title" {
		t.Errorf("Title = %v, want Structured Title (JSON-LD has priority)", rec.Title)
	}
	if rec.ScrapeMethod != models.MethodJSONLD {
		t.Errorf("ScrapeMethod = %q, want %q", rec.ScrapeMethod, models.MethodJSONLD)
	}
}

func TestExtract_DescriptionTruncated(t *testing.T) {
	long := strings.Repeat("very long product description ", 40) // ~1200 chars
	page := `<html><head><meta property="og:title" content="Sofa">
	<meta property="og:description" content="` + long + `">
	</head><body></body></html>`

	rec := Extract("https://shop.example/sofa", page, nil)

	if rec.Description == nil {
		t.Fatal("Description = nil, want truncated text")
	}
	if got := len([]rune(*rec.Description)); got > models.MaxDescriptionLen {
		t.Errorf("len(Description) = %d, want <= %d", got, models.MaxDescriptionLen)
	}
}

func TestExtract_ShortDescriptionBlocksSkipped(t *testing.T) {
	page := `<html><body>
	<meta property="og:title" content="Chair">
	<div class="description">short</div>
	<div class="product-description">This chair is comfortable and sturdy.</div>
	</body></html>`

	rec := Extract("https://shop.example/chair", page, nil)

	if rec.Description == nil || !strings.Contains(*rec.Description, "comfortable") {
		t.Errorf("Description = %v, want the longer block", rec.Description)
	}
}

func TestSiteFor(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"www.amazon.com", true},
		{"www.amazon.co.uk", true},
		{"www.etsy.com", true},
		{"www.bestbuy.com", true},
		{"shop.example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		got := SiteFor(tt.host)
		if (got != nil) != tt.want {
			t.Errorf("SiteFor(%q) = %v, want match=%v", tt.host, got, tt.want)
		}
	}
}
