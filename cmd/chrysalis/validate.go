package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrysalis-cube/chrysalis/internal/logging"
	"github.com/chrysalis-cube/chrysalis/internal/manifest"
)

func newValidateCmd(app *AppContext) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a manifest without building a reconciliation plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "validate")

			path, err := resolveManifestPath(configPath)
			if err != nil {
				return err
			}

			m, err := manifest.Load(path)
			if err != nil {
				return err
			}

			logger = logger.With("cube_instance", logging.NormalizeCubeInstance(m.Global.CubeURL))
			logger.Info(ctx, "manifest valid", "version", m.Version, "users", len(m.Users), "plugins", len(m.Plugins))
			fmt.Fprintf(cmd.OutOrStdout(), "manifest %s is valid\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "manifest", "m", "", "path to the manifest file")
	cmd.MarkFlagRequired("manifest") //nolint:errcheck

	return cmd
}
