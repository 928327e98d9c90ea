package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "chrysalis",
		Short:         "chrysalis reconciles a ChRIS backend (CUBE) against a declarative manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newPlanCmd(app))
	cmd.AddCommand(newApplyCmd(app, flags))

	return cmd
}
