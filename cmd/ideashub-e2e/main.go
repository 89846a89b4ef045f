package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"

	"github.com/hackideas/ideashub-e2e/internal/config"
	"github.com/hackideas/ideashub-e2e/internal/version"
)

var (
	configFlag  string
	verboseFlag int
	logger      logr.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ideashub-e2e",
	Short: "Browser tooling for the Hackathon Ideas Hub end-to-end suite",
	Long: `ideashub-e2e drives the Hackathon Ideas Hub UI with Playwright.

It shares its configuration (e2e.yaml, E2E_* environment variables and .env)
with the go test suite under tests/e2e, and can capture screenshots, probe
the application and build a gallery of everything the suite captured.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		stdr.SetVerbosity(verboseFlag)
		logger = stdr.New(log.New(os.Stderr, "", log.LstdFlags))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to e2e.yaml (default: ./e2e.yaml if present)")
	rootCmd.PersistentFlags().IntVarP(&verboseFlag, "verbose", "v", 0, "Log verbosity")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
