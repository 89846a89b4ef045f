// Package helpers provides the per-test browser fixtures of the e2e suite.
package helpers

import (
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackideas/ideashub-e2e/internal/browser"
	"github.com/hackideas/ideashub-e2e/internal/config"
	"github.com/hackideas/ideashub-e2e/internal/report"
)

var (
	setupOnce sync.Once
	cfg       *config.Config
	cfgErr    error
	driver    *browser.Driver
	recorder  *report.Recorder
)

func setup() {
	cfg, cfgErr = config.Get()
	if cfgErr != nil {
		return
	}
	driver = browser.NewDriver(cfg, logr.Discard())
	recorder = report.NewRecorder(cfg.ReportPath())
}

// Config returns the suite configuration, failing the test if it is invalid.
func Config(t *testing.T) *config.Config {
	t.Helper()
	setupOnce.Do(setup)
	require.NoError(t, cfgErr, "Failed to load e2e configuration")
	return cfg
}

// NewSession launches a browser for profile and guarantees it is torn down
// when t finishes, whatever the outcome. A launch failure fails the test
// before the test body runs.
func NewSession(t *testing.T, profile config.Viewport) *browser.Session {
	t.Helper()
	c := Config(t)
	if c.SkipBrowser {
		t.Skip("Skipping browser test")
	}

	s, err := driver.NewSession(profile, browser.WithLogger(testr.New(t)))
	require.NoError(t, err, "Failed to launch browser for %s", profile)

	manageSession(t, s, c.Screenshots.OnFailure)
	return s
}

// reporter is the part of testing.TB the fixture cleanups report through.
type reporter interface {
	Helper()
	Log(args ...any)
	Logf(format string, args ...any)
	Errorf(format string, args ...any)
	Failed() bool
	Name() string
	Cleanup(func())
}

// manageSession closes s when t finishes. If t failed, the session's
// diagnostics are logged and, with onFailure set, a screenshot is taken
// first, while the page is still open.
func manageSession(t reporter, s *browser.Session, onFailure bool) {
	t.Helper()
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close session: %v", err)
		}
	})
	// Registered last so it runs first.
	t.Cleanup(func() {
		captureFailure(t, s, onFailure)
	})
}

func captureFailure(t reporter, s *browser.Session, onFailure bool) {
	if !t.Failed() {
		return
	}
	for _, line := range s.Diagnostics() {
		t.Log(line)
	}
	if !onFailure {
		return
	}
	path, err := s.Screenshot("failure_" + t.Name())
	if err != nil {
		t.Logf("failed to take screenshot: %v", err)
		return
	}
	t.Logf("failure screenshot: %s", path)
}

// ForEachProfile runs fn once per selected viewport profile, each run in
// its own subtest with a fresh, unauthenticated session.
func ForEachProfile(t *testing.T, fn func(t *testing.T, s *browser.Session)) {
	t.Helper()
	profiles, err := Config(t).SelectedProfiles()
	require.NoError(t, err)

	for _, p := range profiles {
		p := p
		t.Run(p.Name, func(t *testing.T) {
			fn(t, NewSession(t, p))
		})
	}
}

// ForProfile runs fn for a single profile, skipping when the profile is
// filtered out by configuration.
func ForProfile(t *testing.T, name string, fn func(t *testing.T, s *browser.Session)) {
	t.Helper()
	profile, err := config.Lookup(name)
	require.NoError(t, err)

	profiles, err := Config(t).SelectedProfiles()
	require.NoError(t, err)
	for _, p := range profiles {
		if p.Name == profile.Name {
			t.Run(p.Name, func(t *testing.T) {
				fn(t, NewSession(t, p))
			})
			return
		}
	}
	t.Skipf("profile %s not selected", name)
}

// Screenshot saves a labelled screenshot. A failed save is reported but
// does not stop the test.
func Screenshot(t *testing.T, s *browser.Session, label string) {
	t.Helper()
	_, err := s.Screenshot(label)
	assert.NoError(t, err, "screenshot %s", label)
}

// Shutdown stops the shared playwright driver. Call it from TestMain after
// the tests ran.
func Shutdown() error {
	if driver == nil {
		return nil
	}
	return driver.Stop()
}
