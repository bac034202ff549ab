package extract

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/wishwell/wishwell/models"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestCollectGallery(t *testing.T) {
	page := `<html><body>
	<img src="/img/a.jpg">
	<img src="/img/a.jpg">
	<img data-src="/img/lazy.jpg">
	<img src="https://cdn.example/logo.png">
	<img src="/assets/favicon-icon.png">
	<img src="data:image/png;base64,AAAA">
	<source data-srcset="/img/c.jpg 1x, /img/c-2x.jpg 2x">
	</body></html>`

	rec := Extract("https://shop.example/p", page, nil)

	want := []string{
		"https://shop.example/img/a.jpg",
		"https://shop.example/img/lazy.jpg",
		"https://shop.example/img/c.jpg",
	}
	if len(rec.AllImages) != len(want) {
		t.Fatalf("AllImages = %v, want %v", rec.AllImages, want)
	}
	for i, u := range want {
		if rec.AllImages[i] != u {
			t.Errorf("AllImages[%d] = %q, want %q", i, rec.AllImages[i], u)
		}
	}
}

func TestCollectGallery_Cap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, `<img src="/img/%d.jpg">`, i)
	}
	sb.WriteString("</body></html>")

	rec := Extract("https://shop.example/p", sb.String(), nil)

	if len(rec.AllImages) != models.MaxGalleryImages {
		t.Fatalf("len(AllImages) = %d, want cap %d", len(rec.AllImages), models.MaxGalleryImages)
	}
	seen := make(map[string]struct{})
	for _, u := range rec.AllImages {
		if _, dup := seen[u]; dup {
			t.Errorf("duplicate URL in gallery: %s", u)
		}
		seen[u] = struct{}{}
	}
}

func TestCollectGallery_IncludesJSONLDImages(t *testing.T) {
	page := `<html><head><script type="application/ld+json">
	{"@type": "Product", "name": "Lamp", "image": ["https://x/a.jpg", "https://x/b.jpg"]}
	</script></head><body><img src="https://x/c.jpg"></body></html>`

	rec := Extract("https://shop.example/p", page, nil)

	// DOM images first, then structured-data images, deduplicated.
	want := []string{"https://x/c.jpg", "https://x/a.jpg", "https://x/b.jpg"}
	if len(rec.AllImages) != len(want) {
		t.Fatalf("AllImages = %v, want %v", rec.AllImages, want)
	}
	for i, u := range want {
		if rec.AllImages[i] != u {
			t.Errorf("AllImages[%d] = %q, want %q", i, rec.AllImages[i], u)
		}
	}
}

func TestDedupeImages(t *testing.T) {
	in := []string{"https://x/a.jpg", "https://x/b.jpg", "https://x/a.jpg", ""}
	got := DedupeImages(in)

	want := []string{"https://x/a.jpg", "https://x/b.jpg"}
	if len(got) != len(want) {
		t.Fatalf("DedupeImages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DedupeImages[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveURL(t *testing.T) {
	base := mustParse(t, "https://shop.example/products/1")

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"absolute", "https://cdn.example/a.jpg", "https://cdn.example/a.jpg"},
		{"relative", "/img/a.jpg", "https://shop.example/img/a.jpg"},
		{"relative no slash", "a.jpg", "https://shop.example/products/a.jpg"},
		{"data uri rejected", "data:image/png;base64,AAAA", ""},
		{"empty", "", ""},
		{"javascript rejected", "javascript:void(0)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveURL(base, tt.ref); got != tt.want {
				t.Errorf("resolveURL(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
