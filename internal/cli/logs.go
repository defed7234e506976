package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/narvanalabs/scalingo-dashboard/internal/logs"
	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

const maxLogLines = 1000

type logsOptions struct {
	lines  int
	follow bool
}

func (c *CLI) newLogsCommand() *cobra.Command {
	opts := &logsOptions{}

	cmd := &cobra.Command{
		Use:   "logs <app-id>",
		Short: "Print the recent log lines of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lines") {
				opts.lines = c.v.GetInt("log_lines")
			}
			if opts.lines < 1 || opts.lines > maxLogLines {
				return fmt.Errorf("--lines must be between 1 and %d", maxLogLines)
			}

			api, err := c.newAPI()
			if err != nil {
				return err
			}

			if opts.follow {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return c.followLogs(ctx, api, args[0], opts.lines)
			}

			entries, err := api.Logs(cmd.Context(), args[0], opts.lines)
			if err != nil {
				return err
			}
			for _, e := range entries {
				writeLogEntry(c.out, e)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 100, "number of lines to fetch")
	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "keep polling and print new lines as they arrive")
	return cmd
}

// followLogs prints new entries of appID until ctx is done, polling through a
// log broker so repeated lines between two fetches are printed once.
func (c *CLI) followLogs(ctx context.Context, api API, appID string, lines int) error {
	broker := logs.NewBroker(api, logs.Config{
		PollInterval: c.v.GetDuration("poll_interval"),
		Lines:        lines,
	}, c.logger().WithComponent("logs").Logger)
	defer broker.Close()

	sub, backlog := broker.Subscribe(appID)
	if sub == nil {
		return nil
	}
	for _, e := range backlog {
		writeLogEntry(c.out, e)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-sub.Ch:
			if !ok {
				return nil
			}
			writeLogEntry(c.out, e)
		}
	}
}

func writeLogEntry(w io.Writer, e models.LogEntry) {
	fmt.Fprintf(w, "%s %s %s %s\n",
		e.Timestamp,
		e.Source,
		levelString(e.Level),
		e.Message,
	)
}
