package browser

import (
	"fmt"
	"sync"
	"time"

	"github.com/hackideas/ideashub-e2e/internal/report"
)

// Soft runs best-effort checks against optional UI. A failing check is
// recorded with a diagnostic screenshot and execution continues; the caller
// decides at the end whether findings fail the test.
type Soft struct {
	session *Session
	test    string

	mu       sync.Mutex
	findings []report.Finding
}

// NewSoft returns a recorder for checks made by test on s.
func NewSoft(s *Session, test string) *Soft {
	return &Soft{session: s, test: test}
}

// Check runs fn and records its error or panic as a finding. It reports
// whether the check passed. fn must report failure by returning an error.
func (sa *Soft) Check(name string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			sa.record(name, fmt.Errorf("panic: %v", r))
			ok = false
		}
	}()

	if err := fn(); err != nil {
		sa.record(name, err)
		return false
	}
	return true
}

// Checkf records a finding when cond is false.
func (sa *Soft) Checkf(name string, cond bool, format string, args ...interface{}) bool {
	return sa.Check(name, func() error {
		if !cond {
			return fmt.Errorf(format, args...)
		}
		return nil
	})
}

func (sa *Soft) record(name string, err error) {
	f := report.Finding{
		Test:    sa.test,
		Profile: sa.session.Profile().Name,
		Check:   name,
		Message: err.Error(),
		Time:    time.Now().UTC(),
	}
	path, shotErr := sa.session.Screenshot(sa.test + "_" + name + "_issue")
	if shotErr != nil {
		f.Message += fmt.Sprintf(" (screenshot failed: %v)", shotErr)
	} else {
		f.Screenshot = path
	}
	sa.session.Logger().Info("soft check failed", "test", sa.test, "check", name, "error", err.Error())

	sa.mu.Lock()
	sa.findings = append(sa.findings, f)
	sa.mu.Unlock()
}

// Findings returns the failed checks so far.
func (sa *Soft) Findings() []report.Finding {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	out := make([]report.Finding, len(sa.findings))
	copy(out, sa.findings)
	return out
}

// Failed reports whether any check failed.
func (sa *Soft) Failed() bool {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	return len(sa.findings) > 0
}
