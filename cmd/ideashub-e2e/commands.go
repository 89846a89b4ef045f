package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hackideas/ideashub-e2e/internal/browser"
	"github.com/hackideas/ideashub-e2e/internal/config"
	"github.com/hackideas/ideashub-e2e/internal/report"
	"github.com/hackideas/ideashub-e2e/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(version.GetInfo())
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the viewport profiles the suite runs against",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		profiles, err := cfg.SelectedProfiles()
		if err != nil {
			return err
		}
		return yaml.NewEncoder(cmd.OutOrStdout()).Encode(profileList(profiles))
	},
}

type profileEntry struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Narrow bool   `yaml:"narrow,omitempty"`
}

func profileList(profiles []config.Viewport) []profileEntry {
	out := make([]profileEntry, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, profileEntry{Name: p.Name, Width: p.Width, Height: p.Height, Narrow: p.Narrow()})
	}
	return out
}

var probeTimeoutFlag time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that the application under test is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeoutFlag)
		defer cancel()
		if err := config.Reachable(ctx, cfg.App.BaseURL); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is reachable\n", cfg.App.BaseURL)
		return nil
	},
}

var (
	captureProfilesFlag []string
	captureLoginFlag    string
)

var captureCmd = &cobra.Command{
	Use:   "capture [route...]",
	Short: "Screenshot routes in every selected viewport profile",
	Long: `Capture opens a fresh browser session per profile, optionally signs in
as one of the demo roles, and saves one screenshot per route into the
configured screenshots directory. Routes default to /login and /dashboard.`,
	Example: `  ideashub-e2e capture
  ideashub-e2e capture --login admin --profile mobile /dashboard`,
	RunE: runCapture,
}

func init() {
	probeCmd.Flags().DurationVar(&probeTimeoutFlag, "timeout", 5*time.Second, "Probe timeout")

	captureCmd.Flags().StringSliceVarP(&captureProfilesFlag, "profile", "p", nil, "Viewport profile(s) to capture (default: configured profiles)")
	captureCmd.Flags().StringVar(&captureLoginFlag, "login", "", "Sign in as this role first (admin or hacker)")
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.SkipBrowser {
		return errors.New("browser is disabled by skip_browser")
	}

	routes := args
	if len(routes) == 0 {
		routes = []string{browser.RouteLogin, browser.RouteDashboard}
	}

	profiles, err := cfg.SelectedProfiles()
	if len(captureProfilesFlag) > 0 {
		profiles, err = config.Select(captureProfilesFlag...)
	}
	if err != nil {
		return err
	}

	var role config.Role
	if captureLoginFlag != "" {
		role = config.Role(captureLoginFlag)
		if _, err := config.CredentialsFor(role); err != nil {
			return err
		}
	}

	driver := browser.NewDriver(cfg, logger.WithName("driver"))
	defer func() {
		if err := driver.Stop(); err != nil {
			logger.Error(err, "failed to stop playwright")
		}
	}()

	var errs []error
	for _, p := range profiles {
		if err := captureProfile(cmd, driver, p, role, routes); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
		}
	}
	return errors.Join(errs...)
}

func captureProfile(cmd *cobra.Command, driver *browser.Driver, p config.Viewport, role config.Role, routes []string) error {
	s, err := driver.NewSession(p, browser.WithLogger(logger.WithValues("profile", p.Name)))
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Error(err, "failed to close session", "profile", p.Name)
		}
	}()

	if role != "" {
		if err := s.LoginAs(role); err != nil {
			return err
		}
	}

	var errs []error
	for _, route := range routes {
		if err := s.Navigate(route); err != nil {
			errs = append(errs, err)
			continue
		}
		path, err := s.Screenshot(captureLabel(role, route))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return errors.Join(errs...)
}

// captureLabel names a capture after the route and the signed-in role.
func captureLabel(role config.Role, route string) string {
	label := "capture_" + strings.Trim(route, "/")
	if label == "capture_" {
		label = "capture_root"
	}
	if role != "" {
		label += "_" + string(role)
	}
	return label
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the screenshot gallery and summarise soft findings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		g, err := report.NewWatcher(cfg.Screenshots.Dir, cfg.ReportPath(), logger).Build()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d screenshot(s) indexed in %s\n", g.Count(), cfg.Screenshots.Dir)
		if g.Findings == nil || len(g.Findings.Findings) == 0 {
			fmt.Fprintln(out, "no soft findings")
			return nil
		}
		fmt.Fprintf(out, "%d soft finding(s) in run %s:\n", len(g.Findings.Findings), g.Findings.ID)
		for _, f := range g.Findings.Findings {
			fmt.Fprintf(out, "  [%s] %s / %s: %s\n", f.Profile, f.Test, f.Check, f.Message)
		}
		return nil
	},
}

var watchDebounceFlag time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rebuild the screenshot gallery whenever screenshots change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir := cfg.Screenshots.Dir
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := report.NewWatcher(dir, cfg.ReportPath(), logger.WithName("watch"))
		w.Debounce = watchDebounceFlag
		logger.Info("watching screenshots", "dir", dir)
		return w.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounceFlag, "debounce", report.DefaultDebounce, "Quiet period before rebuilding")
}
