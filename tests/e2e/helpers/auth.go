package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hackideas/ideashub-e2e/internal/browser"
	"github.com/hackideas/ideashub-e2e/internal/config"
)

// LoginAdmin signs s in as the admin demo user. The test fails immediately
// if the browser does not land on the dashboard.
func LoginAdmin(t *testing.T, s *browser.Session) *browser.Session {
	t.Helper()
	return loginAs(t, s, config.RoleAdmin)
}

// LoginHacker signs s in as the hacker demo user.
func LoginHacker(t *testing.T, s *browser.Session) *browser.Session {
	t.Helper()
	return loginAs(t, s, config.RoleHacker)
}

func loginAs(t *testing.T, s *browser.Session, role config.Role) *browser.Session {
	t.Helper()
	err := s.LoginAs(role)
	require.NoError(t, err, "Login as %s should reach the dashboard", role)
	require.Contains(t, s.URL(), browser.RouteDashboard)
	return s
}

// ForEachProfileAs runs fn once per selected profile with a session already
// signed in as role.
func ForEachProfileAs(t *testing.T, role config.Role, fn func(t *testing.T, s *browser.Session)) {
	t.Helper()
	ForEachProfile(t, func(t *testing.T, s *browser.Session) {
		fn(t, loginAs(t, s, role))
	})
}
