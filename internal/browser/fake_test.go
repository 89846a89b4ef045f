package browser

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/playwright-community/playwright-go"

	"github.com/hackideas/ideashub-e2e/internal/config"
)

const testBaseURL = "http://ideas.test:5173"

type fakeElement struct {
	visible bool
	box     *playwright.Rect
	value   string
	text    string
	count   int
}

// fakePage implements the subset of playwright.Page the session uses.
// Calling anything else panics through the nil embedded interface.
type fakePage struct {
	playwright.Page

	mu         sync.Mutex
	url        string
	content    string
	shot       []byte
	shotErr    error
	gotoErr    error
	visits     []string
	elements   map[string]*fakeElement
	onClick    map[string]func(p *fakePage)
	innerWidth interface{}
	pressed    []string
	closed     bool
}

func newFakePage() *fakePage {
	return &fakePage{
		url:        "about:blank",
		shot:       []byte("\x89PNG"),
		elements:   map[string]*fakeElement{},
		onClick:    map[string]func(p *fakePage){},
		innerWidth: 375,
	}
}

func (p *fakePage) setURL(u string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = u
}

func (p *fakePage) add(selector string, el *fakeElement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[selector] = el
}

func (p *fakePage) element(selector string) *fakeElement {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elements[selector]
}

func (p *fakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visits = append(p.visits, url)
	if p.gotoErr != nil {
		return nil, p.gotoErr
	}
	p.url = url
	return nil, nil
}

func (p *fakePage) Content() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content, nil
}

func (p *fakePage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	return p.shot, p.shotErr
}

func (p *fakePage) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return &fakeLocator{page: p, selector: selector}
}

func (p *fakePage) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	return p.innerWidth, nil
}

func (p *fakePage) Keyboard() playwright.Keyboard {
	return &fakeKeyboard{page: p}
}

func (p *fakePage) Close(options ...playwright.PageCloseOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// pwLocator aliases playwright.Locator so the embedded field is not named
// Locator, which would shadow the interface's Locator method.
type pwLocator = playwright.Locator

type fakeLocator struct {
	pwLocator

	page     *fakePage
	selector string
}

func (l *fakeLocator) First() playwright.Locator { return l }

func (l *fakeLocator) Count() (int, error) {
	el := l.page.element(l.selector)
	if el == nil {
		return 0, nil
	}
	if el.count == 0 {
		return 1, nil
	}
	return el.count, nil
}

func (l *fakeLocator) IsVisible(options ...playwright.LocatorIsVisibleOptions) (bool, error) {
	el := l.page.element(l.selector)
	return el != nil && el.visible, nil
}

func (l *fakeLocator) BoundingBox(options ...playwright.LocatorBoundingBoxOptions) (*playwright.Rect, error) {
	el := l.page.element(l.selector)
	if el == nil {
		return nil, nil
	}
	return el.box, nil
}

func (l *fakeLocator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	el := l.page.element(l.selector)
	if el == nil {
		return fmt.Errorf("no element %s", l.selector)
	}
	l.page.mu.Lock()
	el.value = value
	l.page.mu.Unlock()
	return nil
}

func (l *fakeLocator) Click(options ...playwright.LocatorClickOptions) error {
	if l.page.element(l.selector) == nil {
		return fmt.Errorf("no element %s", l.selector)
	}
	l.page.mu.Lock()
	fn := l.page.onClick[l.selector]
	l.page.mu.Unlock()
	if fn != nil {
		fn(l.page)
	}
	return nil
}

func (l *fakeLocator) TextContent(options ...playwright.LocatorTextContentOptions) (string, error) {
	el := l.page.element(l.selector)
	if el == nil {
		return "", errors.New("no element")
	}
	return el.text, nil
}

type fakeKeyboard struct {
	playwright.Keyboard

	page *fakePage
}

func (k *fakeKeyboard) Press(key string, options ...playwright.KeyboardPressOptions) error {
	k.page.mu.Lock()
	defer k.page.mu.Unlock()
	k.page.pressed = append(k.page.pressed, key)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{BaseURL: testBaseURL},
		Browser: config.BrowserConfig{
			ImplicitWait: 3 * time.Second,
		},
		Wait: config.WaitConfig{
			Timeout:      300 * time.Millisecond,
			PollInterval: 10 * time.Millisecond,
		},
		Screenshots: config.ScreenshotsConfig{Dir: t.TempDir()},
	}
}

func testSession(t *testing.T, page *fakePage, closers ...func() error) *Session {
	t.Helper()
	profile, err := config.Lookup(config.Mobile)
	if err != nil {
		t.Fatal(err)
	}
	return newSession(testConfig(t), profile, page, testr.New(t), closers...)
}

// withLoginForm wires a login form that accepts only the admin pair.
func withLoginForm(p *fakePage) {
	visible := &playwright.Rect{Width: 300, Height: 40}
	p.add(LoginUsername, &fakeElement{visible: true, box: visible})
	p.add(LoginPassword, &fakeElement{visible: true, box: visible})
	p.add(LoginSubmit, &fakeElement{visible: true, box: visible})
	p.onClick[LoginSubmit] = func(p *fakePage) {
		user := p.element(LoginUsername).value
		pass := p.element(LoginPassword).value
		if user == "admin" && pass == "chiru" {
			p.setURL(testBaseURL + RouteDashboard)
			return
		}
		p.add(LoginError, &fakeElement{visible: true, text: " Invalid credentials. Please try again. "})
	}
}
