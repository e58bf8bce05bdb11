package util

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/squadready/squadready/internal/build"
	"github.com/squadready/squadready/internal/cli/shared"
	"github.com/squadready/squadready/internal/update"
)

// checkUpdateTimeout bounds the interactive check; the daemon uses the
// checker's shorter default.
const checkUpdateTimeout = 15 * time.Second

// newChecker builds the release checker. Tests replace it to point at a
// local server.
var newChecker = func() *update.Checker {
	return update.NewChecker(checkUpdateTimeout)
}

var checkUpdateCmd = &cobra.Command{
	Use:   "check-update",
	Short: "Check for a newer squadready release",
	Long: `Check GitHub for a newer squadready release.

Prereleases are considered when include_prereleases is true or --pre is
given. Nothing is downloaded or installed.`,
	Example: `  squadready check-update
  squadready check-update --pre`,
	Args: shared.ExactArgs(0),
	RunE: runCheckUpdate,
}

func init() {
	checkUpdateCmd.GroupID = shared.GroupInfo
	checkUpdateCmd.Flags().Bool("pre", false, "Include prereleases")
}

func runCheckUpdate(cmd *cobra.Command, _ []string) error {
	settings, _, err := shared.LoadSettings(cmd)
	if err != nil {
		return err
	}
	includePre, _ := cmd.Flags().GetBool("pre")
	includePre = includePre || settings.IncludePrereleases

	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if build.IsDevBuild() {
		fmt.Fprintf(out, "%s Development build; update checks only apply to releases.\n", yellow("!"))
		return nil
	}

	var spin *spinner.Spinner
	if shared.IsTerminalWriter(cmd.ErrOrStderr()) {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		spin.Suffix = " Checking for updates..."
		spin.Start()
	}
	check, err := newChecker().CheckForUpdate(cmd.Context(), build.Version, includePre)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return fmt.Errorf("checking for update: %w", err)
	}

	if !check.UpdateAvailable {
		fmt.Fprintf(out, "%s Already running the latest version (%s)\n", green("✓"), check.CurrentVersion)
		return nil
	}
	fmt.Fprintf(out, "%s New version available: %s → %s\n", yellow("→"), check.CurrentVersion, green(check.LatestVersion))
	if check.ReleaseURL != "" {
		fmt.Fprintf(out, "  %s\n", check.ReleaseURL)
	}
	return nil
}
