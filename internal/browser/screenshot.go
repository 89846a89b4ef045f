package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"
)

var labelReplacer = strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")

// ScreenshotName is the file name for a profile and caller label.
func ScreenshotName(profile, label string) string {
	return profile + "_" + labelReplacer.Replace(label) + ".png"
}

// Screenshot saves the current page as <profile>_<label>.png in the
// session's screenshot directory and returns the file path. Driver and
// filesystem errors are returned.
func (s *Session) Screenshot(label string) (string, error) {
	if strings.TrimSpace(label) == "" {
		return "", errors.New("screenshot label is empty")
	}
	if s.Closed() {
		return "", ErrSessionClosed
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating screenshots directory: %w", err)
	}

	buf, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(s.cfg.Screenshots.FullPage),
	})
	if err != nil {
		return "", fmt.Errorf("capturing screenshot %q: %w", label, err)
	}

	path := filepath.Join(s.dir, ScreenshotName(s.profile.Name, label))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("writing screenshot: %w", err)
	}
	s.log.Info("screenshot", "file", filepath.Base(path))
	return path, nil
}
