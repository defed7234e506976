package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

func (c *CLI) newDeploymentsCommand() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "deployments <app-id>",
		Short: "List the deployments of an application, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be positive, got %d", page)
			}

			api, err := c.newAPI()
			if err != nil {
				return err
			}

			result, err := api.ListDeployments(cmd.Context(), args[0], page)
			if err != nil {
				return err
			}
			if len(result.Deployments) == 0 {
				fmt.Fprintln(c.out, "No deployments found.")
				return nil
			}

			fmt.Fprintln(c.out, formatDeployments(result.Deployments))
			fmt.Fprintln(c.out, pageSummary(result.Meta.Pagination))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page of deployments to show")
	return cmd
}

func formatDeployments(deployments []models.Deployment) string {
	rows := make([][]string, 0, len(deployments))
	for _, d := range deployments {
		size := "N/A"
		if d.ImageSize > 0 {
			size = humanize.Bytes(uint64(d.ImageSize))
		}
		pusher := d.Pusher.Username
		if pusher == "" {
			pusher = d.Pusher.Email
		}
		rows = append(rows, []string{
			d.ID,
			deploymentStatusString(d.Status),
			shortRef(d.GitRef),
			pusher,
			size,
			relative(d.CreatedAt),
		})
	}
	return table([]string{"ID", "STATUS", "GIT REF", "PUSHER", "IMAGE SIZE", "CREATED"}, rows)
}

func pageSummary(p models.Pagination) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Page %d of %d (%d deployments)", p.CurrentPage, p.TotalPages, p.TotalCount)
	if p.NextPage != nil {
		fmt.Fprintf(&b, ", next: --page %d", *p.NextPage)
	}
	return b.String()
}

func shortRef(ref string) string {
	if len(ref) > 8 {
		return ref[:8]
	}
	return ref
}

func (c *CLI) newOutputCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "output <app-id> <deployment-id>",
		Short: "Print the build output of a deployment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := c.newAPI()
			if err != nil {
				return err
			}

			out, err := api.DeploymentOutput(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprint(c.out, out.Output)
			if !strings.HasSuffix(out.Output, "\n") {
				fmt.Fprintln(c.out)
			}
			return nil
		},
	}
}
