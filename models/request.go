package models

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// URL is the product page to scrape. Must be an absolute http(s) URL.
	URL string `json:"url" binding:"required,url"`

	// ManualOverride carries user-entered fields that win over scraped
	// values. A failed scrape plus a full override is still a usable item.
	ManualOverride *ManualOverride `json:"manual_override,omitempty"`

	// MaxAgeMs allows serving a cached record no older than this.
	// 0 disables the cache lookup for this request.
	MaxAgeMs int `json:"max_age_ms,omitempty" binding:"omitempty,min=0"`
}

// ScrapeResponse is the body for POST /api/v1/scrape.
type ScrapeResponse struct {
	Success     bool           `json:"success"`
	Product     *ProductRecord `json:"product,omitempty"`
	ErrorDetail *ErrorDetail   `json:"error_detail,omitempty"`
	Error       *APIError      `json:"error,omitempty"`
	CacheStatus string         `json:"cache_status,omitempty"`
	TotalMs     int64          `json:"total_ms"`
}

// HealthResponse is the body for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
