// Package browser launches viewport-sized browser sessions against the
// Hackathon Ideas Hub and drives them.
package browser

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-logr/logr"
	"github.com/playwright-community/playwright-go"

	"github.com/hackideas/ideashub-e2e/internal/config"
)

// Driver owns the playwright driver process. Each session gets its own
// browser instance; only the driver process is shared.
type Driver struct {
	cfg *config.Config
	log logr.Logger

	mu sync.Mutex
	pw *playwright.Playwright
}

// SessionOption customises a single session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	log *logr.Logger
}

// WithLogger sends the session's log lines to log instead of the driver's.
func WithLogger(log logr.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.log = &log
	}
}

func NewDriver(cfg *config.Config, log logr.Logger) *Driver {
	return &Driver{cfg: cfg, log: log}
}

func (d *Driver) start() (*playwright.Playwright, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pw != nil {
		return d.pw, nil
	}
	if d.cfg.Browser.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	d.pw = pw
	d.log.V(1).Info("playwright driver started")
	return pw, nil
}

// NewSession launches a browser sized to profile and opens a page with the
// implicit wait applied. A failed launch releases whatever was acquired.
func (d *Driver) NewSession(profile config.Viewport, opts ...SessionOption) (*Session, error) {
	o := sessionOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	log := d.log
	if o.log != nil {
		log = *o.log
	}

	pw, err := d.start()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(d.cfg.Screenshots.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating screenshots directory: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(d.cfg.Browser.Headless),
		SlowMo:   playwright.Float(float64(d.cfg.Browser.SlowMo.Milliseconds())),
		Args:     LaunchArgs(d.cfg.Browser.LaunchArgs, profile),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch browser for %s: %w", profile.Name, err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  profile.Width,
			Height: profile.Height,
		},
	})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("could not create context for %s: %w", profile.Name, err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		return nil, fmt.Errorf("could not create page for %s: %w", profile.Name, err)
	}
	page.SetDefaultTimeout(float64(d.cfg.Browser.ImplicitWait.Milliseconds()))

	s := Attach(d.cfg, profile, page, log,
		func() error { return page.Close() },
		func() error { return bctx.Close() },
		func() error { return browser.Close() },
	)
	s.log.Info("session started", "size", fmt.Sprintf("%dx%d", profile.Width, profile.Height))
	return s, nil
}

// Stop terminates the driver process. Sessions must be closed first.
func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pw == nil {
		return nil
	}
	err := d.pw.Stop()
	d.pw = nil
	if err != nil {
		return fmt.Errorf("stopping playwright: %w", err)
	}
	return nil
}

// LaunchArgs returns the configured Chromium flags with the window size of
// profile and the anti-automation flag always present.
func LaunchArgs(configured []string, profile config.Viewport) []string {
	args := make([]string, 0, len(configured)+2)
	hasAntiAutomation := false
	for _, a := range configured {
		if a == config.AntiAutomationArg {
			hasAntiAutomation = true
		}
		args = append(args, a)
	}
	if !hasAntiAutomation {
		args = append(args, config.AntiAutomationArg)
	}
	return append(args, fmt.Sprintf("--window-size=%d,%d", profile.Width, profile.Height))
}
