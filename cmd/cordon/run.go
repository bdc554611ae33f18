package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRunCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "run <command>",
		Short: "Execute a single command and print its result",
		Example: `  cordon run "calendar.addEvent({title: 'Standup'})"
  cordon run "calendar.listEvents()"
  cordon run "new Event('party')"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := app.buildInterpreter()
			if err != nil {
				return err
			}

			out, err := app.execute(i, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
