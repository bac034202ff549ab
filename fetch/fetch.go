package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/wishwell/wishwell/models"
	"golang.org/x/net/html"
)

// Strategy names, also used as keys in the per-method error map.
const (
	NameSession = "session"
	NameStealth = "stealth"
	NameBrowser = "browser"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Fetcher is the interface every fetch strategy implements.
//
// Fetch returns the page HTML or an error; it never panics and never leaks
// resources past its own return. The orchestrator escalates to the next
// strategy on error.
type Fetcher interface {
	// Name returns the strategy identifier ("session", "stealth", "browser").
	Name() string

	// Fetch retrieves the raw HTML for the given URL.
	Fetch(ctx context.Context, url string) (string, error)
}

// statusError is an HTTP failure carrying the status code, so the retry
// logic can tell transient (429/5xx) from permanent (other 4xx) failures.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.code, e.url)
}

// transientStatus reports whether an HTTP status is worth retrying.
func transientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// classify wraps a strategy failure in a coded ScrapeError, so per-method
// diagnostics distinguish timeouts from other fetch failures. Every strategy
// returns its terminal errors through this.
func classify(err error) *models.ScrapeError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return models.NewScrapeError(models.ErrCodeTimeout, "fetch timed out", err)
	}
	return models.NewScrapeError(models.ErrCodeFetchFailed, "fetch failed", err)
}

// isTransient classifies a fetch error. Timeouts and connection resets are
// retried; DNS failures, TLS failures and non-429 4xx are not.
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return transientStatus(se.code)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET)
}

// browserHeaders applies a realistic browser-identifying header set.
func browserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Connection", "keep-alive")
}

// isHTMLContentType returns true if the content-type header looks like HTML.
func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return ct == "" || strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

// extractTitle finds the first <title> element in raw HTML. Used only for
// debug logging of fetch results.
func extractTitle(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}

// googleReferer builds a plausible Referer for the target host.
func googleReferer(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
}
