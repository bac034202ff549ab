package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wishwell/wishwell/cache"
	"github.com/wishwell/wishwell/models"
	"github.com/wishwell/wishwell/scraper"
)

// ProductScraper is the orchestration dependency of the scrape handler,
// an interface so tests can substitute a stub.
type ProductScraper interface {
	Scrape(ctx context.Context, url string, manual *models.ManualOverride) (*models.ProductRecord, *models.ScrapeError)
}

// Scrape returns a handler for POST /api/v1/scrape.
//
// Flow:
//  1. Parse & validate request (absolute URL required).
//  2. Cache lookup — only for requests without a manual override, since
//     the cache stores pure scraped records; overrides are merged on hit.
//  3. Scraper.Scrape → record, plus a coded error on total failure.
//  4. Total failure maps to 502 with the error detail in the body. The
//     record still ships: a manual override makes even a failed scrape a
//     usable wishlist item.
func Scrape(sc ProductScraper, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Success: false,
				Error: &models.APIError{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
				TotalMs: time.Since(start).Milliseconds(),
			})
			return
		}

		if cc != nil && req.MaxAgeMs > 0 {
			maxAge := time.Duration(req.MaxAgeMs) * time.Millisecond
			if cached, hit := cc.Get(req.URL, maxAge); hit {
				merged := scraper.Merge(*cached, req.ManualOverride)
				c.JSON(http.StatusOK, models.ScrapeResponse{
					Success:     true,
					Product:     &merged,
					CacheStatus: "hit",
					TotalMs:     time.Since(start).Milliseconds(),
				})
				return
			}
		}

		record, serr := sc.Scrape(c.Request.Context(), req.URL, req.ManualOverride)

		if serr != nil {
			c.JSON(http.StatusBadGateway, models.ScrapeResponse{
				Success:     false,
				Product:     record,
				ErrorDetail: serr.Detail,
				Error:       serr.ToAPIError(),
				TotalMs:     time.Since(start).Milliseconds(),
			})
			return
		}

		resp := models.ScrapeResponse{
			Success: true,
			Product: record,
			TotalMs: time.Since(start).Milliseconds(),
		}
		if cc != nil {
			if req.ManualOverride == nil {
				cc.Set(req.URL, record)
			}
			if req.MaxAgeMs > 0 {
				resp.CacheStatus = "miss"
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}
