package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/narvanalabs/scalingo-dashboard/internal/models"
)

var actionShort = map[models.AppAction]string{
	models.AppActionRestart: "Restart every container of an application",
	models.AppActionStop:    "Scale an application down to zero containers",
	models.AppActionStart:   "Scale a stopped application back up",
}

func (c *CLI) newActionCommand(action models.AppAction) *cobra.Command {
	return &cobra.Command{
		Use:   action.String() + " <app-id>",
		Short: actionShort[action],
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := c.newAPI()
			if err != nil {
				return err
			}

			if err := api.PerformAction(cmd.Context(), args[0], action); err != nil {
				return err
			}
			fmt.Fprintln(c.out, color.GreenString("%s requested for %s", action, args[0]))
			return nil
		},
	}
}
