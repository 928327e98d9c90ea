package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/chrysalis-cube/chrysalis/internal/reconcile"
)

// drainWithProgress consumes outcomes to completion, ticking a progress bar
// once per outcome, while building the same per-target importance-ordered
// map reconcile.Aggregate would — done inline here rather than via
// Aggregate so the progress bar can tick as outcomes arrive instead of only
// after the whole stream has drained.
func drainWithProgress(totalSteps int, outcomes <-chan reconcile.Outcome) (map[reconcile.Target]reconcile.Effect, reconcile.Counts) {
	bar := progressbar.Default(int64(totalSteps), "reconciling")
	byTarget := make(map[reconcile.Target]reconcile.Effect)

	for o := range outcomes {
		current, exists := byTarget[o.Target]
		if !exists || current.Less(o.Effect) {
			byTarget[o.Target] = o.Effect
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return byTarget, reconcile.Tally(byTarget)
}

// printSummary renders the per-category counts in the teacher's colorized
// CLI-output style, plus a per-user rollup: spec.md's informal
// "User(alice)" notation has no single engine Target, so the CLI groups
// every user-scoped key back under its username for display only.
func printSummary(cmd *cobra.Command, byTarget map[reconcile.Target]reconcile.Effect, counts reconcile.Counts) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, color.New(color.Bold).Sprint("reconciliation summary"))
	fmt.Fprintf(out, "  %s %d\n", color.GreenString("created:"), counts.Created)
	fmt.Fprintf(out, "  %s %d\n", color.CyanString("modified:"), counts.Modified)
	fmt.Fprintf(out, "  %s %d\n", color.HiBlackString("unmodified:"), counts.Unmodified)
	fmt.Fprintf(out, "  %s %d\n", color.YellowString("unfulfilled:"), counts.Unfulfilled)
	fmt.Fprintf(out, "  %s %d\n", color.RedString("error:"), counts.Error)

	byUser := rollupByUsername(byTarget)
	usernames := make([]string, 0, len(byUser))
	for u := range byUser {
		usernames = append(usernames, u)
	}
	sort.Strings(usernames)
	for _, u := range usernames {
		fmt.Fprintf(out, "  user(%s): %s\n", u, byUser[u].String())
	}
}

// rollupByUsername groups every user-scoped Target under its username,
// keeping the most important Effect seen across that user's whole chain —
// the same "max wins" rule Aggregate applies per-key, applied again across
// keys belonging to the same user for a single summary line.
func rollupByUsername(byTarget map[reconcile.Target]reconcile.Effect) map[string]reconcile.EffectKind {
	result := make(map[string]reconcile.EffectKind)
	for target, effect := range byTarget {
		username := target.Key.Username
		if username == "" {
			continue
		}
		if current, ok := result[username]; !ok || current < effect.Kind {
			result[username] = effect.Kind
		}
	}
	return result
}
