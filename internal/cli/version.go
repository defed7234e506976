package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/narvanalabs/scalingo-dashboard/internal/updater"
)

func (c *CLI) newVersionCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the scalingoctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(c.out, "scalingoctl %s (%s, %s/%s)\n", c.version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			if !check {
				return nil
			}

			info, err := c.newUpdater().CheckForUpdates(cmd.Context())
			if err != nil {
				return fmt.Errorf("checking for updates: %w", err)
			}
			switch {
			case info.UpdateAvailable:
				fmt.Fprintln(c.out, color.YellowString("scalingoctl %s is available: %s", info.LatestVersion, info.ReleaseURL))
			case info.LatestVersion == "":
				fmt.Fprintln(c.out, "No published release to compare with.")
			default:
				fmt.Fprintln(c.out, "scalingoctl is up to date.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

func (c *CLI) defaultUpdater() *updater.Service {
	return updater.NewService(c.version, updater.DefaultRepo, c.logger().Logger)
}
