package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	tls "github.com/refraction-networking/utls"
	"github.com/wishwell/wishwell/config"
)

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		// Should never happen with a valid utls version; the zero spec
		// makes ApplyPreset fail, which surfaces as a fetch error.
		return
	}
	// Replace h2 with http/1.1 only in the ALPN extension so the server
	// never negotiates HTTP/2 (which Go's http.Transport cannot handle
	// over a utls connection).
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// StealthFetcher presents a real-Chrome TLS fingerprint via utls, getting
// past bot challenges that key on Go's default ClientHello. Single attempt;
// if this tier fails the orchestrator escalates to the browser.
type StealthFetcher struct {
	timeout time.Duration
}

// NewStealthFetcher creates a StealthFetcher from fetch config.
func NewStealthFetcher(cfg config.FetchConfig) *StealthFetcher {
	return &StealthFetcher{timeout: cfg.Timeout}
}

func (f *StealthFetcher) Name() string { return NameStealth }

func (f *StealthFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// A fresh transport per call: no cross-request cookie or session reuse.
	transport := &http.Transport{
		DialTLSContext:    dialTLSChrome,
		ForceAttemptHTTP2: false,
	}
	client := &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", classify(fmt.Errorf("stealth: build request: %w", err))
	}
	browserHeaders(req)
	if ref := googleReferer(targetURL); ref != "" {
		req.Header.Set("Referer", ref)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", classify(fmt.Errorf("stealth: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", classify(&statusError{code: resp.StatusCode, url: targetURL})
	}
	if ct := resp.Header.Get("Content-Type"); !isHTMLContentType(ct) {
		return "", classify(fmt.Errorf("stealth: non-html content-type %q for %s", ct, targetURL))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", classify(fmt.Errorf("stealth: read body: %w", err))
	}
	if len(body) == 0 {
		return "", classify(fmt.Errorf("stealth: empty response body for %s", targetURL))
	}
	return string(body), nil
}

// dialTLSChrome establishes a TLS connection using the precomputed Chrome
// fingerprint.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("stealth: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}
