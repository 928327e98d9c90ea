package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/chrysalis-cube/chrysalis/internal/logging"
	"github.com/chrysalis-cube/chrysalis/internal/manifest"
	"github.com/chrysalis-cube/chrysalis/internal/planner"
	"github.com/chrysalis-cube/chrysalis/internal/ports"
	"github.com/chrysalis-cube/chrysalis/internal/reconcile"
)

func newApplyCmd(app *AppContext, root *rootFlags) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile CUBE against a manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "apply")
			if root.verbose {
				logger = logger.With("verbose", true)
			}

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
			return runApply(ctx, cmd, app, logger, plan)
		},
	}

	cmd.Flags().StringVarP(&configPath, "manifest", "m", "", "path to the manifest file")
	cmd.MarkFlagRequired("manifest") //nolint:errcheck

	return cmd
}

func runApply(ctx context.Context, cmd *cobra.Command, app *AppContext, logger ports.Logger, plan *planner.Plan) error {
	executor := reconcile.NewTreeExecutor(app.Transport, app.Logger.With("component", "tree_executor"))

	// Capture the node count before RunSeeded starts mutating dag on its own
	// goroutine — DAG is not safe for concurrent read/write.
	totalSteps := plan.DAG.Size()
	outcomes := executor.RunSeeded(ctx, plan.DAG, plan.Seed)
	byTarget, counts := drainWithProgress(totalSteps, outcomes)

	printSummary(cmd, byTarget, counts)
	logger.Info(ctx, "reconciliation complete",
		"created", counts.Created, "modified", counts.Modified,
		"unmodified", counts.Unmodified, "unfulfilled", counts.Unfulfilled,
		"error", counts.Error)

	if !counts.AllOK() {
		return errExitNonZero{counts: counts}
	}
	return nil
}

// errExitNonZero signals a clean, already-reported failure: main.go prints
// nothing further for it, cobra's SilenceErrors keeps the summary the only
// output, and the process still exits nonzero via Execute's returned error.
type errExitNonZero struct {
	counts reconcile.Counts
}

func (e errExitNonZero) Error() string {
	return "reconciliation finished with unfulfilled or errored targets"
}
