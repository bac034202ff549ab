package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/wishwell/wishwell/config"
)

// maxBodyBytes caps the response body read to prevent unbounded memory use.
const maxBodyBytes = 10 << 20 // 10 MB

// SessionFetcher is the cheapest strategy: a plain HTTP GET with a browser
// header set and bounded exponential-backoff retry on transient failures.
//
// The http.Client and its transport are built fresh inside every Fetch call,
// so concurrent scrapes never share cookies or pooled connections.
type SessionFetcher struct {
	timeout time.Duration
	retries int
	backoff time.Duration
}

// NewSessionFetcher creates a SessionFetcher from fetch config.
func NewSessionFetcher(cfg config.FetchConfig) *SessionFetcher {
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return &SessionFetcher{
		timeout: cfg.Timeout,
		retries: retries,
		backoff: cfg.RetryBackoff,
	}
}

func (f *SessionFetcher) Name() string { return NameSession }

// Fetch performs the GET, retrying only on transient errors (HTTP 429/5xx,
// timeouts, connection resets). Permanent failures — other 4xx, DNS errors,
// malformed URLs — fail immediately so the orchestrator can escalate.
func (f *SessionFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	// A fresh transport and client per call: each scrape gets its own
	// connection pool, torn down when the call returns.
	transport := &http.Transport{}
	defer transport.CloseIdleConnections()
	client := &http.Client{
		Transport: transport,
		Timeout:   f.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	var lastErr error

	for attempt := 1; attempt <= f.retries; attempt++ {
		if attempt > 1 {
			// Exponential backoff: backoff, 2*backoff, 4*backoff, ...
			delay := f.backoff << (attempt - 2)
			select {
			case <-ctx.Done():
				return "", classify(ctx.Err())
			case <-time.After(delay):
			}
			slog.Debug("session fetch retry", "url", targetURL, "attempt", attempt)
		}

		html, err := f.fetchOnce(ctx, client, targetURL)
		if err == nil {
			return html, nil
		}
		lastErr = err
		if !isTransient(err) {
			return "", classify(err)
		}
	}

	return "", classify(fmt.Errorf("session: retries exhausted: %w", lastErr))
}

func (f *SessionFetcher) fetchOnce(ctx context.Context, client *http.Client, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", fmt.Errorf("session: build request: %w", err)
	}
	browserHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &statusError{code: resp.StatusCode, url: targetURL}
	}
	if ct := resp.Header.Get("Content-Type"); !isHTMLContentType(ct) {
		return "", fmt.Errorf("session: non-html content-type %q for %s", ct, targetURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("session: read body: %w", err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("session: empty response body for %s", targetURL)
	}

	slog.Debug("session fetch ok",
		"url", targetURL,
		"status", resp.StatusCode,
		"title", extractTitle(body),
	)
	return string(body), nil
}
