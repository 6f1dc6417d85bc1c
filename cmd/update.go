package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"healthform/config"
	"healthform/selfreplace"
	"healthform/shortcut"
	"healthform/updates"
)

// applyUpdate is a seam so tests can exercise the command flow without
// spawning a staged process.
var applyUpdate = selfreplace.Apply

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download and install the latest HealthForm release",
	Long: `Update fetches the release manifest and, when a newer version exists,
downloads the artifact, verifies its sha256 digest, and restarts through a
staged copy that swaps the executable in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		yes, _ := cmd.Flags().GetBool("yes")

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if dir, ok := gitCheckoutDir(); ok {
			cmd.Printf("This installation is a git checkout: %s\n", dir)
			cmd.Println("Update with: git pull --ff-only")
			return nil
		}

		return runUpdate(cmd.Context(), updateParams{
			cfg: cfg,
			in:  cmd.InOrStdin(),
			out: cmd.OutOrStdout(),
			yes: yes,
		})
	},
}

func init() {
	updateCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
}

// updateParams bundles the flow's dependencies so runUpdate can be tested
// against a manifest server and a scripted stdin.
type updateParams struct {
	cfg config.Config
	in  io.Reader
	out io.Writer
	yes bool
}

func runUpdate(ctx context.Context, p updateParams) error {
	check, err := updates.NewUpdateService(p.cfg).Check()
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}

	fmt.Fprintf(p.out, "Current version: %s\n", p.cfg.Version)
	fmt.Fprintf(p.out, "Latest version:  %s\n", check.LatestRaw)

	if !check.Available {
		fmt.Fprintf(p.out, "\n%s %s is the latest.\n", p.cfg.AppName, p.cfg.Version)
		return nil
	}

	if check.Platform == nil || check.Platform.URL == "" {
		fmt.Fprintln(p.out, WarnStyle.Render(fmt.Sprintf(
			"%s is available, but there is no download for this platform (%s).",
			check.LatestRaw, p.cfg.PlatformKey())))
		return nil
	}

	if !p.yes && !confirm(p.in, p.out, fmt.Sprintf("Install %s %s and restart?", p.cfg.AppName, check.LatestRaw)) {
		return nil
	}

	fmt.Fprintf(p.out, "\nDownloading %s %s...\n", p.cfg.AppName, check.LatestRaw)

	artifact, err := updates.NewDownloader(p.cfg).Download(ctx, check.Platform.URL, check.Platform.SHA256)
	if err != nil {
		var integrityErr *updates.IntegrityError
		if errors.As(err, &integrityErr) {
			fmt.Fprintln(p.out, WarnStyle.Render(fmt.Sprintf(
				"The download from %s failed verification and was discarded.\nExpected: %s\nGot:      %s",
				integrityErr.URL, integrityErr.Expected, integrityErr.Got)))
		}
		return fmt.Errorf("download failed: %w", err)
	}

	if artifact.Verified {
		fmt.Fprintln(p.out, "Verifying sha256... OK")
	} else {
		fmt.Fprintln(p.out, WarnStyle.Render("The manifest provides no sha256 for this artifact; installing unverified."))
	}

	if err := applyUpdate(artifact.Path, shortcut.New(p.cfg.AppName)); err != nil {
		return fmt.Errorf("applying update: %w", err)
	}

	fmt.Fprintln(p.out, SuccessStyle.Render(fmt.Sprintf("Update staged; restarting as %s %s.", p.cfg.AppName, check.LatestRaw)))
	return nil
}

// confirm asks a y/N question on in and treats anything but an explicit
// yes as a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
