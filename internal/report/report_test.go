package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackideas/ideashub-e2e/internal/config"
)

func TestRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soft-findings.yaml")

	t.Run("no findings writes nothing", func(t *testing.T) {
		r := NewRecorder(path)
		require.NoError(t, r.Record())
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	first := NewRecorder(path)
	require.NotEmpty(t, first.RunID())

	require.NoError(t, first.Record(Finding{Test: "TestTheme", Profile: "mobile", Check: "theme menu", Message: "not found"}))
	require.NoError(t, first.Record(Finding{Test: "TestLogo", Profile: "mobile", Check: "logo", Message: "timeout"}))

	f, err := Read(path)
	require.NoError(t, err)
	require.Len(t, f.Runs, 1, "findings of one run share an entry")
	assert.Equal(t, first.RunID(), f.Runs[0].ID)
	assert.Len(t, f.Runs[0].Findings, 2)

	second := NewRecorder(path)
	require.NoError(t, second.Record(Finding{Test: "TestTheme", Profile: "desktop", Check: "theme menu"}))

	f, err = Read(path)
	require.NoError(t, err)
	require.Len(t, f.Runs, 2, "runs accumulate across processes")
	assert.Equal(t, second.RunID(), f.Latest().ID)
}

func TestReadMissingFile(t *testing.T) {
	f, err := Read(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Nil(t, f.Latest())
}

func TestReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs: [: nope"), 0o644))

	_, err := Read(path)
	assert.Error(t, err)
}

func TestGallery(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"desktop_auth_01_login_page.png",
		"desktop_dashboard_01_loaded.png",
		"mobile_responsive_05_mobile_usability.png",
		"stray.png",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644))
	}

	findings := filepath.Join(dir, "soft-findings.yaml")
	rec := NewRecorder(findings)
	require.NoError(t, rec.Record(Finding{
		Test: "TestUIFeatures/mobile", Profile: "mobile", Check: "theme menu",
		Message: "a | b", Time: time.Now(),
	}))

	g, err := Scan(dir, findings)
	require.NoError(t, err)

	assert.Equal(t, 4, g.Count())
	require.Len(t, g.Shots["desktop"], 2)
	assert.Equal(t, "auth_01_login_page", g.Shots["desktop"][0].Label)
	require.Len(t, g.Other, 1)
	assert.Equal(t, "stray", g.Other[0].Label)

	md := g.Markdown()
	assert.Contains(t, md, "## desktop (2560x1600)")
	assert.Contains(t, md, "## mobile (375x812)")
	assert.NotContains(t, md, "## laptop")
	assert.Contains(t, md, "![mobile responsive_05_mobile_usability](mobile_responsive_05_mobile_usability.png)")
	assert.Contains(t, md, rec.RunID())
	assert.Contains(t, md, `a \| b`)

	require.NoError(t, g.WriteIndex())
	page, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<table>")
	assert.Contains(t, string(page), `<img src="desktop_auth_01_login_page.png"`)
	assert.FileExists(t, filepath.Join(dir, "index.md"))
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), "")
	assert.Error(t, err)
}

func TestGalleryHTMLSanitizesFindings(t *testing.T) {
	g := &Gallery{
		Dir: t.TempDir(),
		Shots: map[string][]Shot{
			"mobile": {{Profile: "mobile", Label: "login", File: "mobile_login.png"}},
		},
		Profiles: []config.Viewport{{Name: "mobile", Width: 375, Height: 812}},
		Findings: &Run{
			ID: "run-1",
			Findings: []Finding{
				{Test: "TestLoginModal/mobile", Profile: "mobile", Check: "login modal",
					Message: `none of ["<img src=x onerror=alert(1)>"] rendered`},
				{Test: "TestCreateModal/mobile", Profile: "mobile", Check: "create modal",
					Message: `<script>alert(2)</script> timed out`},
			},
		},
	}

	page, err := g.HTML()
	require.NoError(t, err)

	html := string(page)
	assert.NotContains(t, html, "onerror")
	assert.NotContains(t, html, "<script>alert")
	assert.NotContains(t, html, "alert(")
	assert.Contains(t, html, "timed out", "surrounding text should survive")
	assert.Contains(t, html, `<img src="mobile_login.png"`, "gallery images should survive")
	assert.Contains(t, html, "<table>")
}
