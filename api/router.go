package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wishwell/wishwell/api/handler"
	"github.com/wishwell/wishwell/api/middleware"
	"github.com/wishwell/wishwell/cache"
	"github.com/wishwell/wishwell/config"
	"github.com/wishwell/wishwell/models"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	Scrape:  RateLimit
//
// Health endpoint is intentionally outside the rate limit so monitoring
// probes always work.
func NewRouter(sc handler.ProductScraper, cc *cache.Cache, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	// Panics surface as the same structured error envelope the handlers use,
	// never as an empty 500.
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ScrapeResponse{
			Success: false,
			Error: &models.APIError{
				Code:    models.ErrCodeInternal,
				Message: "internal server error",
			},
		})
	}))
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(startTime))

	limited := v1.Group("")
	limited.Use(middleware.RateLimit(cfg.RateLimit))
	limited.POST("/scrape", handler.Scrape(sc, cc))

	return r
}
