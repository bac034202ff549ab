// Package scraper orchestrates the fetch and extraction tiers: strategies
// are tried strictly in order of increasing cost, stopping at the first
// whose HTML yields a title or a price.
package scraper

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/wishwell/wishwell/config"
	"github.com/wishwell/wishwell/extract"
	"github.com/wishwell/wishwell/fetch"
	"github.com/wishwell/wishwell/models"
)

// Scraper runs the escalating scrape pipeline. It holds no per-URL state;
// concurrent Scrape calls are independent.
type Scraper struct {
	fetchers []fetch.Fetcher
}

// New builds a Scraper with the standard strategy order: plain session,
// stealth client, then — when the browser tier is enabled — headless
// rendering.
func New(fetchCfg config.FetchConfig, browserCfg config.BrowserConfig) *Scraper {
	fetchers := []fetch.Fetcher{
		fetch.NewSessionFetcher(fetchCfg),
		fetch.NewStealthFetcher(fetchCfg),
	}
	if browserCfg.Enabled {
		fetchers = append(fetchers, fetch.NewBrowserFetcher(browserCfg))
	}
	return &Scraper{fetchers: fetchers}
}

// NewWithFetchers builds a Scraper over an explicit strategy list. Used by
// tests to substitute stub fetchers.
func NewWithFetchers(fetchers ...fetch.Fetcher) *Scraper {
	return &Scraper{fetchers: fetchers}
}

// Scrape fetches and extracts product data for url, then applies manual
// overrides. The returned error is non-nil only on total failure; its Detail
// carries every strategy attempted with its coded failure reason. Strategy-
// level errors never escape this boundary on a successful scrape.
func (s *Scraper) Scrape(ctx context.Context, rawURL string, manual *models.ManualOverride) (*models.ProductRecord, *models.ScrapeError) {
	var site *extract.SiteConfig
	if u, err := url.Parse(rawURL); err == nil {
		site = extract.SiteFor(u.Hostname())
	}

	methodsTried := make([]string, 0, len(s.fetchers))
	methodErrors := make(map[string]string, len(s.fetchers))
	var best models.ProductRecord

	for _, f := range s.fetchers {
		methodsTried = append(methodsTried, f.Name())

		html, err := f.Fetch(ctx, rawURL)
		if err != nil {
			slog.Warn("fetch strategy failed",
				"strategy", f.Name(), "url", rawURL, "error", err)
			methodErrors[f.Name()] = err.Error()
			continue
		}

		rec := extract.Extract(rawURL, html, site)
		if rec.HasSignal() {
			if f.Name() == fetch.NameBrowser {
				rec.ScrapeMethod += models.MethodRenderedSuffix
			}
			slog.Info("scrape succeeded",
				"url", rawURL, "strategy", f.Name(), "method", rec.ScrapeMethod)
			merged := Merge(rec, manual)
			return &merged, nil
		}

		// Fetch worked but the page gave no usable signal — escalate to
		// the next, costlier strategy and keep the richest partial so far.
		slog.Debug("no title or price extracted, escalating",
			"strategy", f.Name(), "url", rawURL)
		methodErrors[f.Name()] = "fetched page but no title or price extracted"
		if fieldCount(rec) > fieldCount(best) {
			best = rec
		}
	}

	best.ScrapeMethod = models.MethodFailed
	msg := "all fetch strategies exhausted"
	best.Error = &msg
	merged := Merge(best, manual)

	slog.Error("scrape failed", "url", rawURL, "methods_tried", methodsTried)
	serr := models.NewScrapeError(models.ErrCodeScrapeFailed, msg, nil)
	serr.Detail = &models.ErrorDetail{
		URL:          rawURL,
		MethodsTried: methodsTried,
		MethodErrors: methodErrors,
	}
	return &merged, serr
}

// fieldCount ranks partial records so total failure returns the best
// available one.
func fieldCount(r models.ProductRecord) int {
	n := 0
	if r.Title != nil {
		n++
	}
	if r.Price != nil {
		n++
	}
	if r.ImageURL != nil {
		n++
	}
	if r.Description != nil {
		n++
	}
	if len(r.AllImages) > 0 {
		n++
	}
	return n
}
