package browser

import (
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	maxConsoleMessages = 100
	maxPageErrors      = 50
)

// ConsoleMessage is a browser console line captured during a test.
type ConsoleMessage struct {
	Type      string
	Text      string
	Timestamp time.Time
}

// PageError is an uncaught exception thrown by the page.
type PageError struct {
	Message   string
	Timestamp time.Time
}

type diagnostics struct {
	mu      sync.Mutex
	console []ConsoleMessage
	errors  []PageError
}

func newDiagnostics() *diagnostics {
	return &diagnostics{}
}

func (d *diagnostics) attach(page playwright.Page) {
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		d.recordConsole(msg.Type(), msg.Text())
	})
	page.OnPageError(func(err error) {
		d.recordError(err.Error())
	})
}

func (d *diagnostics) recordConsole(kind, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.console = append(d.console, ConsoleMessage{Type: kind, Text: text, Timestamp: time.Now()})
	if len(d.console) > maxConsoleMessages {
		d.console = d.console[len(d.console)-maxConsoleMessages:]
	}
}

func (d *diagnostics) recordError(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.errors = append(d.errors, PageError{Message: msg, Timestamp: time.Now()})
	if len(d.errors) > maxPageErrors {
		d.errors = d.errors[len(d.errors)-maxPageErrors:]
	}
}

// ConsoleMessages returns the captured console lines, oldest first.
func (s *Session) ConsoleMessages() []ConsoleMessage {
	s.diag.mu.Lock()
	defer s.diag.mu.Unlock()
	out := make([]ConsoleMessage, len(s.diag.console))
	copy(out, s.diag.console)
	return out
}

// PageErrors returns the captured uncaught page errors, oldest first.
func (s *Session) PageErrors() []PageError {
	s.diag.mu.Lock()
	defer s.diag.mu.Unlock()
	out := make([]PageError, len(s.diag.errors))
	copy(out, s.diag.errors)
	return out
}

// Diagnostics renders page errors and console errors/warnings as log lines.
func (s *Session) Diagnostics() []string {
	var lines []string
	for _, e := range s.PageErrors() {
		lines = append(lines, fmt.Sprintf("page error: %s", e.Message))
	}
	for _, m := range s.ConsoleMessages() {
		if m.Type == "error" || m.Type == "warning" {
			lines = append(lines, fmt.Sprintf("console %s: %s", m.Type, m.Text))
		}
	}
	return lines
}
