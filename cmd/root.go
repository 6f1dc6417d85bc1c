// Package cmd contains the CLI commands exposed to the user: the unified
// update check, the download-and-apply flow, and version reporting.
package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"healthform/config"
)

var (
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "healthform",
		Short: "HealthForm update companion",
		Long: `healthform checks for, downloads, and installs HealthForm releases.

Installing an update stages the new binary next to the running one and
restarts through it; the swap itself happens after this process exits.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI. The argument vector arrives with the replacement
// protocol flags already stripped by main.
func Execute(args []string) error {
	rootCmd.SetArgs(args)
	return fang.Execute(context.Background(), rootCmd, fang.WithVersion(config.Version))
}

// gitCheckoutDir reports whether the executable sits inside a git
// checkout, which marks a developer installation: those update via git,
// not via the release manifest.
func gitCheckoutDir() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	dir := filepath.Dir(exe)
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return dir, true
	}
	return "", false
}
