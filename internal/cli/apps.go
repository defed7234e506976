package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

func (c *CLI) newAppsCommand() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List your applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := c.newAPI()
			if err != nil {
				return err
			}

			apps, err := api.ListApps(cmd.Context())
			if err != nil {
				return err
			}
			apps = models.FilterApplications(apps, search)
			if len(apps) == 0 {
				fmt.Fprintln(c.out, "No applications found.")
				return nil
			}

			fmt.Fprintln(c.out, formatApps(apps))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "q", "", "only show applications whose name contains this term")
	return cmd
}

func formatApps(apps []models.Application) string {
	rows := make([][]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, []string{
			app.ID,
			app.Name,
			statusString(app.Status),
			app.Region,
			relative(app.CreatedAt),
			relativePtr(app.LastDeployedAt),
		})
	}
	return table([]string{"ID", "NAME", "STATUS", "REGION", "CREATED", "LAST DEPLOYMENT"}, rows)
}

func (c *CLI) newAppCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "app <app-id>",
		Short: "Show the details of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := c.newAPI()
			if err != nil {
				return err
			}

			app, err := api.GetApp(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, formatApp(app))
			return nil
		},
	}
}

func formatApp(app *models.Application) string {
	actions := make([]string, 0, 2)
	for _, a := range app.Status.AvailableActions() {
		actions = append(actions, a.String())
	}

	rows := [][]string{
		{"ID", app.ID},
		{"Name", app.Name},
		{"Status", statusString(app.Status)},
		{"Region", app.Region},
		{"URL", app.URL},
		{"Git URL", app.GitURL},
		{"Stack", app.Stack},
		{"Instances", strconv.Itoa(app.Instances)},
		{"Created", relative(app.CreatedAt)},
		{"Last deployment", relativePtr(app.LastDeployedAt)},
		{"Actions", strings.Join(actions, ", ")},
	}
	return columns(rows)
}
