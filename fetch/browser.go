package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/wishwell/wishwell/config"
	"github.com/ysmood/gson"
)

// browserSession is one isolated headless-browser process, used for exactly
// one navigation and then torn down. The seam exists so tests can assert
// teardown without launching Chromium.
type browserSession interface {
	// Render navigates to the URL and returns the fully rendered HTML.
	Render(ctx context.Context, url string) (string, error)

	// Close tears the browser process down. Safe to call after a failed
	// Render; must be called exactly once per session.
	Close()
}

// BrowserFetcher is the costliest strategy: it launches a fresh sandboxed
// headless browser per call, renders the page (executing its JavaScript),
// and extracts the resulting DOM.
//
// No browser state is shared between calls, so concurrent scrapes cannot
// leak cookies or sessions into each other.
type BrowserFetcher struct {
	cfg        config.BrowserConfig
	newSession func(cfg config.BrowserConfig) (browserSession, error)
}

// NewBrowserFetcher creates a BrowserFetcher from browser config.
func NewBrowserFetcher(cfg config.BrowserConfig) *BrowserFetcher {
	return &BrowserFetcher{cfg: cfg, newSession: newRodSession}
}

func (f *BrowserFetcher) Name() string { return NameBrowser }

// Fetch launches, renders, and unconditionally tears down the browser.
//
// Lifecycle:
//  1. Deadline guard — launch + navigation + render bounded together
//  2. Launch session — isolated Chromium process
//  3. DEFER: Close   — teardown on every exit path, including render errors
//  4. Render         — navigate, wait for DOM stable, extract HTML
func (f *BrowserFetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.NavigationTimeout)
	defer cancel()

	sess, err := f.newSession(f.cfg)
	if err != nil {
		return "", classify(fmt.Errorf("browser: launch: %w", err))
	}
	defer sess.Close()

	html, err := sess.Render(ctx, targetURL)
	if err != nil {
		return "", classify(fmt.Errorf("browser: %w", err))
	}
	if html == "" {
		return "", classify(fmt.Errorf("browser: empty rendered page for %s", targetURL))
	}
	return html, nil
}

// rodSession is the real browserSession backed by go-rod.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	blocked  []string
}

// newRodSession launches an isolated headless Chromium and connects to it.
func newRodSession(cfg config.BrowserConfig) (browserSession, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(cfg.NoSandbox)

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	// Mask the most common automation tells before the page ever loads.
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, err
	}

	return &rodSession{launcher: l, browser: browser, blocked: cfg.BlockedResourceTypes}, nil
}

func (s *rodSession) Close() {
	if err := s.browser.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
	s.launcher.Kill()
}

// Render navigates to the URL and returns the rendered HTML.
//
// Order matters: stealth JS and the resource-blocking hijack only apply to
// navigations that happen after they are installed.
func (s *rodSession) Render(ctx context.Context, targetURL string) (string, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}

	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}

	router := setupHijack(page, s.blocked)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	if ref := googleReferer(targetURL); ref != "" {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{"Referer": gson.New(ref)},
		}.Call(page)
	}

	p := page.Context(ctx)

	if err := p.Navigate(targetURL); err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}

	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"url", targetURL, "error", err)
	}

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("extract html: %w", err)
	}
	return html, nil
}

// configToProto maps human-readable config strings to Rod resource types.
var configToProto = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
	"Script":     proto.NetworkResourceTypeScript,
}

// setupHijack installs a request interceptor that blocks the configured
// heavy resource types to speed up rendering. Returns the running router so
// the caller can defer router.Stop(), or nil if nothing is blocked.
func setupHijack(page *rod.Page, blockedTypes []string) *rod.HijackRouter {
	blocked := make(map[proto.NetworkResourceType]struct{}, len(blockedTypes))
	for _, name := range blockedTypes {
		if rt, ok := configToProto[name]; ok {
			blocked[rt] = struct{}{}
		}
	}
	if len(blocked) == 0 {
		return nil
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if _, shouldBlock := blocked[ctx.Request.Type()]; shouldBlock {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// router.Run() blocks, so it must live in its own goroutine.
	// It exits when router.Stop() is called.
	go router.Run()

	return router
}
