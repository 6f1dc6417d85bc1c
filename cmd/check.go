package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"healthform/config"
	"healthform/updates"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a newer HealthForm release is available",
	Long: `Check fetches the release manifest and compares it against the running
version. Developer installations (a git checkout) are detected and pointed
at git instead of the manifest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if dir, ok := gitCheckoutDir(); ok {
			cmd.Printf("This installation is a git checkout: %s\n", dir)
			cmd.Println("Update with: git pull --ff-only")
			return nil
		}

		return runCheck(cmd.OutOrStdout(), cfg)
	},
}

// runCheck is the manifest-based check, separated from cobra so it can be
// driven against a test manifest server.
func runCheck(out io.Writer, cfg config.Config) error {
	check, err := updates.NewUpdateService(cfg).Check()
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}

	fmt.Fprintf(out, "Current version: %s\n", cfg.Version)
	fmt.Fprintf(out, "Latest version:  %s\n", check.LatestRaw)

	if !check.Available {
		fmt.Fprintf(out, "\n%s %s is the latest.\n", cfg.AppName, cfg.Version)
		return nil
	}

	if check.Platform == nil || check.Platform.URL == "" {
		fmt.Fprintln(out, WarnStyle.Render(fmt.Sprintf(
			"%s is available, but there is no download for this platform (%s).",
			check.LatestRaw, cfg.PlatformKey())))
		return nil
	}

	fmt.Fprintf(out, "\nAn update is available: %s -> %s\n", cfg.Version, check.LatestRaw)
	if check.Changelog != "" {
		fmt.Fprintf(out, "\n%s\n", check.Changelog)
	}
	fmt.Fprintln(out, "\nRun 'healthform update' to install.")
	return nil
}
