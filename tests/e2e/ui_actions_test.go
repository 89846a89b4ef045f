//go:build e2e

package e2e

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hackideas/ideashub-e2e/internal/browser"
)

// waitForIdeas blocks until at least one idea card is rendered.
func waitForIdeas(t *testing.T, s *browser.Session) {
	t.Helper()
	require.NoError(t, s.WaitForVisible(browser.IdeaCard), "Dashboard should render idea cards")
}

// openFirstIdea clicks the first idea card and waits for the viewer.
func openFirstIdea(t *testing.T, s *browser.Session) {
	t.Helper()
	waitForIdeas(t, s)
	require.NoError(t, s.Click(browser.IdeaCard))
	require.NoError(t, s.WaitForURLContains(browser.RouteIdea), "Clicking a card should open the idea viewer")
}

// openIdea clicks the card titled name.
func openIdea(t *testing.T, s *browser.Session, name string) error {
	t.Helper()
	if err := s.Click(fmt.Sprintf("text=%s", name)); err != nil {
		return err
	}
	return s.WaitForURLContains(browser.RouteIdea)
}

// search types query into the dashboard search box.
func search(t *testing.T, s *browser.Session, query string) {
	t.Helper()
	require.NoError(t, s.WaitForVisible(browser.DashboardSearch), "Dashboard should have a search input")
	require.NoError(t, s.Fill(browser.DashboardSearch, query))
}

// visibleCardTexts returns the rendered text of every visible idea card.
func visibleCardTexts(s *browser.Session) ([]string, error) {
	cards, err := s.Locator(browser.IdeaCard).All()
	if err != nil {
		return nil, err
	}
	var texts []string
	for _, c := range cards {
		visible, err := c.IsVisible()
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}
		text, err := c.InnerText()
		if err != nil {
			return nil, err
		}
		texts = append(texts, strings.TrimSpace(text))
	}
	return texts, nil
}

// shot saves a screenshot from inside a soft check, where a failed save
// becomes a finding instead of failing the test.
func shot(s *browser.Session, label string) error {
	_, err := s.Screenshot(label)
	return err
}
