package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hackideas/ideashub-e2e/internal/config"
)

// ErrLoginFailed is returned when a login does not reach the dashboard.
var ErrLoginFailed = errors.New("login failed")

// SubmitLogin fills and submits the login form without checking where the
// browser ends up.
func (s *Session) SubmitLogin(username, password string) error {
	if err := s.Navigate(RouteLogin); err != nil {
		return fmt.Errorf("failed to navigate to login: %w", err)
	}
	if err := s.WaitForVisible(LoginUsername); err != nil {
		return fmt.Errorf("username input not found: %w", err)
	}
	if err := s.Fill(LoginUsername, username); err != nil {
		return err
	}
	if err := s.Fill(LoginPassword, password); err != nil {
		return err
	}
	return s.Click(LoginSubmit)
}

// Login signs in with creds and requires the redirect to the dashboard.
// There is no retry: a login that does not land on the dashboard within the
// wait timeout is an error carrying any message the form rendered.
func (s *Session) Login(creds config.Credentials) error {
	if err := s.SubmitLogin(creds.Username, creds.Password); err != nil {
		return err
	}
	if err := s.WaitForURLContains(RouteDashboard); err != nil {
		if msg := s.LoginErrorMessage(); msg != "" {
			return fmt.Errorf("%w as %s: %s", ErrLoginFailed, creds.Username, msg)
		}
		return fmt.Errorf("%w as %s: %w", ErrLoginFailed, creds.Username, err)
	}
	s.log.Info("logged in", "user", creds.Username)
	return nil
}

// LoginAs signs in with the demo credentials of role.
func (s *Session) LoginAs(role config.Role) error {
	creds, err := config.CredentialsFor(role)
	if err != nil {
		return err
	}
	return s.Login(creds)
}

// LoginErrorMessage returns the text of the login form's error box, or ""
// if none is rendered.
func (s *Session) LoginErrorMessage() string {
	loc := s.page.Locator(LoginError)
	if n, _ := loc.Count(); n == 0 {
		return ""
	}
	text, err := loc.First().TextContent()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// Logout opens the user menu for username and clicks Logout, then waits for
// the login page.
func (s *Session) Logout(username string) error {
	if err := s.Click(fmt.Sprintf("nav button:has-text('%s')", username)); err != nil {
		return fmt.Errorf("opening user menu: %w", err)
	}
	if err := s.Click(MenuLogout); err != nil {
		return fmt.Errorf("clicking logout: %w", err)
	}
	return s.WaitForURLContains(RouteLogin)
}

// LoggedOut reports whether the navbar offers the Login affordance.
func (s *Session) LoggedOut() (bool, error) {
	n, err := s.Count(NavLogin)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
