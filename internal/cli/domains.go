package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

func (c *CLI) newDomainsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "domains <app-id>",
		Short: "List the custom domains of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := c.newAPI()
			if err != nil {
				return err
			}

			domains, err := api.ListDomains(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(domains) == 0 {
				fmt.Fprintln(c.out, "No custom domains.")
				return nil
			}

			fmt.Fprintln(c.out, formatDomains(domains))
			return nil
		},
	}
}

func formatDomains(domains []models.Domain) string {
	primary := models.PrimaryDomain(domains)

	rows := make([][]string, 0, len(domains))
	for i := range domains {
		d := domains[i]
		name := d.Name
		if primary != nil && primary.ID == d.ID && primary.Name == d.Name {
			name = "*" + name
		}
		rows = append(rows, []string{name, yesNo(d.SSL), yesNo(d.Canonical), d.URL()})
	}
	return table([]string{"NAME", "SSL", "CANONICAL", "URL"}, rows)
}
