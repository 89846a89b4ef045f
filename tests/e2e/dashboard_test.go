//go:build e2e

package e2e

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackideas/ideashub-e2e/internal/browser"
	"github.com/hackideas/ideashub-e2e/internal/config"
	"github.com/hackideas/ideashub-e2e/tests/e2e/helpers"
)

func TestDashboardPublicAccess(t *testing.T) {
	helpers.ForEachProfile(t, func(t *testing.T, s *browser.Session) {
		require.NoError(t, s.Navigate(browser.RouteDashboard))
		require.NoError(t, s.WaitForContent(browser.TextDashboardTitle))
		helpers.Screenshot(t, s, "dashboard_01_public_access")

		assert.Contains(t, s.URL(), browser.RouteDashboard, "Anonymous users should not be redirected")

		loggedOut, err := s.LoggedOut()
		require.NoError(t, err)
		assert.True(t, loggedOut, "A login affordance should be offered")
	})
}

func TestDashboardLoads(t *testing.T) {
	helpers.ForEachProfileAs(t, config.RoleAdmin, func(t *testing.T, s *browser.Session) {
		require.NoError(t, s.WaitForContent(browser.TextDashboardTitle))
		helpers.Screenshot(t, s, "dashboard_02_loaded")

		count, err := s.Count(browser.DashboardSearch)
		require.NoError(t, err)
		assert.Greater(t, count, 0, "Dashboard should have a search input")
	})
}

func TestDashboardDisplaysIdeas(t *testing.T) {
	helpers.ForEachProfileAs(t, config.RoleAdmin, func(t *testing.T, s *browser.Session) {
		waitForIdeas(t, s)
		helpers.Screenshot(t, s, "dashboard_03_ideas_displayed")

		ok, err := s.ContainsAny(browser.SeedIdeas...)
		require.NoError(t, err)
		assert.True(t, ok, "At least one seed idea should be listed")
	})
}

func TestDashboardShowsDescriptions(t *testing.T) {
	helpers.ForEachProfile(t, func(t *testing.T, s *browser.Session) {
		require.NoError(t, s.Navigate(browser.RouteDashboard))
		waitForIdeas(t, s)
		helpers.Screenshot(t, s, "dashboard_04_descriptions")

		ok, err := s.ContainsAny("ai-powered", "educational", "carbon")
		require.NoError(t, err)
		assert.True(t, ok, "Idea cards should show their descriptions")
	})
}

func TestDashboardSearch(t *testing.T) {
	helpers.ForEachProfileAs(t, config.RoleAdmin, func(t *testing.T, s *browser.Session) {
		waitForIdeas(t, s)
		search(t, s, "Campus")

		err := s.WaitFor(func() (bool, error) {
			texts, err := visibleCardTexts(s)
			if err != nil || len(texts) == 0 {
				return false, err
			}
			for _, text := range texts {
				if !strings.Contains(text, "Campus") {
					return false, nil
				}
			}
			return true, nil
		})
		helpers.Screenshot(t, s, "dashboard_05_search")
		require.NoError(t, err, "Only matching ideas should remain visible")

		text, err := s.Text()
		require.NoError(t, err)
		assert.Contains(t, text, "Smart Campus Navigator")
		assert.NotContains(t, text, "Educational Reels Generator")
	})
}

func TestDashboardSearchNoResults(t *testing.T) {
	helpers.ForEachProfileAs(t, config.RoleAdmin, func(t *testing.T, s *browser.Session) {
		waitForIdeas(t, s)
		search(t, s, "NonExistentIdea12345")

		err := s.WaitFor(func() (bool, error) {
			texts, err := visibleCardTexts(s)
			return len(texts) == 0, err
		})
		helpers.Screenshot(t, s, "dashboard_06_no_results")
		require.NoError(t, err, "No idea cards should remain visible")

		text, err := s.Text()
		require.NoError(t, err)
		for _, name := range browser.SeedIdeas {
			assert.NotContains(t, text, name)
		}
		assert.Contains(t, text, browser.TextNoIdeas)
	})
}

func TestDashboardClickIdea(t *testing.T) {
	helpers.ForEachProfileAs(t, config.RoleAdmin, func(t *testing.T, s *browser.Session) {
		openFirstIdea(t, s)
		helpers.Screenshot(t, s, "dashboard_07_idea_clicked")
	})
}

func TestDashboardHackerSeesApprovedIdeas(t *testing.T) {
	helpers.ForEachProfileAs(t, config.RoleHacker, func(t *testing.T, s *browser.Session) {
		waitForIdeas(t, s)
		helpers.Screenshot(t, s, "dashboard_08_hacker_view")

		ok, err := s.ContainsAny(browser.SeedIdeas...)
		require.NoError(t, err)
		assert.True(t, ok, "Hackers should see approved ideas")
	})
}
