package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/index"
	"github.com/suykerbuyk/recap/internal/trends"
)

var (
	trendsProject string
	trendsWeeks   int
)

var trendsCmd = newCommand(help.CmdTrends, runTrends)

func init() {
	trendsCmd.Args = cobra.NoArgs
	f := trendsCmd.Flags()
	f.StringVar(&trendsProject, "project", "", "Only count runs for this project")
	f.IntVar(&trendsWeeks, "weeks", 12, "Weeks to display")
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(cmd *cobra.Command, args []string) error {
	if !cfg.History.Enabled {
		return errors.New("history is disabled (history.enabled = false)")
	}
	idx, err := index.Open(cfg.StateDir, logger)
	if err != nil {
		return err
	}
	defer idx.Close()

	// Enough history to fill the display window plus the direction baseline.
	entries, err := idx.Recent(cmd.Context(), trendsProject, 5000)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), trends.Format(trends.Compute(entries, trendsProject, trendsWeeks)))
	return nil
}
