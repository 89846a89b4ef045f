package browser

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-logr/logr"
	"github.com/playwright-community/playwright-go"

	"github.com/hackideas/ideashub-e2e/internal/config"
)

// ErrSessionClosed is returned by operations on a torn down session.
var ErrSessionClosed = errors.New("session is closed")

// Session is one browser instance bound to a single viewport profile for
// the lifetime of one test. Its profile and screenshot directory never
// change after creation.
type Session struct {
	profile config.Viewport
	dir     string
	cfg     *config.Config
	page    playwright.Page
	log     logr.Logger
	diag    *diagnostics

	mu      sync.Mutex
	closers []func() error
	closed  bool
}

func newSession(cfg *config.Config, profile config.Viewport, page playwright.Page, log logr.Logger, closers ...func() error) *Session {
	return &Session{
		profile: profile,
		dir:     cfg.Screenshots.Dir,
		cfg:     cfg,
		page:    page,
		log:     log.WithValues("profile", profile.Name),
		diag:    newDiagnostics(),
		closers: closers,
	}
}

// Attach wraps a page opened elsewhere in a Session sized for profile.
// Console and page-error capture start immediately; closers run on Close in
// order.
func Attach(cfg *config.Config, profile config.Viewport, page playwright.Page, log logr.Logger, closers ...func() error) *Session {
	s := newSession(cfg, profile, page, log, closers...)
	s.diag.attach(page)
	return s
}

// Profile returns the viewport the session was created for.
func (s *Session) Profile() config.Viewport { return s.profile }

// ScreenshotDir returns the directory screenshots are written to.
func (s *Session) ScreenshotDir() string { return s.dir }

// Config returns the configuration the session was launched with.
func (s *Session) Config() *config.Config { return s.cfg }

// Page exposes the underlying playwright page for checks the session does
// not wrap.
func (s *Session) Page() playwright.Page { return s.page }

// Logger returns the session logger.
func (s *Session) Logger() logr.Logger { return s.log }

// Close tears down page, context and browser in that order. It is safe to
// call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	s.log.V(1).Info("session closed")
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("closing session: %w", err)
	}
	return nil
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Navigate loads a route relative to the configured base URL.
func (s *Session) Navigate(route string) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	url := s.cfg.URL(route)
	s.log.V(1).Info("navigating", "url", url)
	if _, err := s.page.Goto(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// URL returns the page's current URL.
func (s *Session) URL() string {
	return s.page.URL()
}

// Locator returns a locator for selector on the current page.
func (s *Session) Locator(selector string) playwright.Locator {
	return s.page.Locator(selector)
}

// Click clicks the first element matching selector.
func (s *Session) Click(selector string) error {
	if err := s.page.Locator(selector).First().Click(); err != nil {
		return fmt.Errorf("clicking %s: %w", selector, err)
	}
	return nil
}

// Fill replaces the value of the first input matching selector.
func (s *Session) Fill(selector, value string) error {
	if err := s.page.Locator(selector).First().Fill(value); err != nil {
		return fmt.Errorf("filling %s: %w", selector, err)
	}
	return nil
}

// Count returns the number of elements matching selector.
func (s *Session) Count(selector string) (int, error) {
	n, err := s.page.Locator(selector).Count()
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", selector, err)
	}
	return n, nil
}

// Visible reports whether the first element matching selector is rendered
// with a non-empty box.
func (s *Session) Visible(selector string) (bool, error) {
	loc := s.page.Locator(selector).First()
	ok, err := loc.IsVisible()
	if err != nil || !ok {
		return false, err
	}
	box, err := loc.BoundingBox()
	if err != nil {
		return false, fmt.Errorf("measuring %s: %w", selector, err)
	}
	return box != nil && box.Width > 0 && box.Height > 0, nil
}

// HTML returns the serialized page markup.
func (s *Session) HTML() (string, error) {
	html, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("reading page content: %w", err)
	}
	return html, nil
}

// Contains reports whether the page markup contains sub.
func (s *Session) Contains(sub string) (bool, error) {
	html, err := s.HTML()
	if err != nil {
		return false, err
	}
	return strings.Contains(html, sub), nil
}

// ContainsAny reports whether the page markup contains any of subs,
// ignoring case.
func (s *Session) ContainsAny(subs ...string) (bool, error) {
	html, err := s.HTML()
	if err != nil {
		return false, err
	}
	lower := strings.ToLower(html)
	for _, sub := range subs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true, nil
		}
	}
	return false, nil
}

// Text returns the rendered body text without scripts and styles.
func (s *Session) Text() (string, error) {
	html, err := s.HTML()
	if err != nil {
		return "", err
	}
	return bodyText(html)
}

func bodyText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing page content: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
}

// ViewportWidth returns window.innerWidth as reported by the page.
func (s *Session) ViewportWidth() (float64, error) {
	v, err := s.page.Evaluate("() => window.innerWidth")
	if err != nil {
		return 0, fmt.Errorf("reading viewport width: %w", err)
	}
	return toFloat(v)
}

// BodyWidth returns the rendered width of the document body.
func (s *Session) BodyWidth() (float64, error) {
	box, err := s.page.Locator(Body).BoundingBox()
	if err != nil {
		return 0, fmt.Errorf("measuring body: %w", err)
	}
	if box == nil {
		return 0, errors.New("body has no layout box")
	}
	return box.Width, nil
}

// PressEscape sends the Escape key to the focused element.
func (s *Session) PressEscape() error {
	if err := s.page.Keyboard().Press("Escape"); err != nil {
		return fmt.Errorf("pressing Escape: %w", err)
	}
	return nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected numeric value %T(%v)", v, v)
	}
}
