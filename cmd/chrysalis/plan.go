package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrysalis-cube/chrysalis/internal/logging"
	"github.com/chrysalis-cube/chrysalis/internal/manifest"
	"github.com/chrysalis-cube/chrysalis/internal/planner"
	"github.com/chrysalis-cube/chrysalis/internal/reconcile"
)

func newPlanCmd(app *AppContext) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build the reconciliation DAG and print its level structure, issuing no HTTP requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "plan")

			path, err := resolveManifestPath(configPath)
			if err != nil {
				return err
			}

			m, err := manifest.Load(path)
			if err != nil {
				return err
			}

			plan, err := planner.Build(m)
			if err != nil {
				return err
			}

			logger = logger.With("cube_instance", logging.NormalizeCubeInstance(m.Global.CubeURL))
			logger.Info(ctx, "plan built", "steps", plan.DAG.Size(), "seed", len(plan.Seed))
			printLevels(cmd, plan.DAG)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "manifest", "m", "", "path to the manifest file")
	cmd.MarkFlagRequired("manifest") //nolint:errcheck

	return cmd
}

// printLevels walks dag structurally — no Evaluate or HTTP calls — treating
// every node at a level as immediately resolved purely to report the
// would-be step count per level (dry-run has no dependency values to
// evaluate against).
func printLevels(cmd *cobra.Command, dag *reconcile.DAG) {
	total := dag.Size()
	level := 0
	frontier := dag.Roots()
	for len(frontier) > 0 {
		ids := make([]string, 0, len(frontier))
		for _, n := range frontier {
			ids = append(ids, n.ID)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "level %d: %d step(s): %v\n", level, len(ids), ids)

		next := frontier[:0:0]
		for _, n := range frontier {
			next = append(next, dag.Complete(n.ID)...)
		}
		frontier = next
		level++
	}
	fmt.Fprintf(cmd.OutOrStdout(), "total steps: %d\n", total)
}
