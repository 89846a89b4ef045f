package helpers

import (
	"testing"

	"github.com/hackideas/ideashub-e2e/internal/browser"
	"github.com/hackideas/ideashub-e2e/internal/report"
)

// Soft returns a best-effort checker for optional UI on s. When t finishes,
// failed checks are logged as warnings and appended to the findings report.
// They fail the test only with soft.strict enabled.
func Soft(t *testing.T, s *browser.Session) *browser.Soft {
	t.Helper()
	c := Config(t)
	sa := browser.NewSoft(s, t.Name())
	t.Cleanup(func() {
		reportSoft(t, sa, recorder, c.Soft.Strict)
	})
	return sa
}

func reportSoft(t reporter, sa *browser.Soft, rec *report.Recorder, strict bool) {
	findings := sa.Findings()
	if len(findings) == 0 {
		return
	}
	for _, f := range findings {
		t.Logf("SOFT [%s] %s: %s", f.Profile, f.Check, f.Message)
	}
	if err := rec.Record(findings...); err != nil {
		t.Logf("failed to record soft findings: %v", err)
	} else {
		t.Logf("soft findings recorded in %s (run %s)", rec.Path(), rec.RunID())
	}
	if strict {
		t.Errorf("%d soft check(s) failed and soft.strict is enabled", len(findings))
	}
}
