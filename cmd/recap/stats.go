package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/index"
	"github.com/suykerbuyk/recap/internal/stats"
)

var (
	statsProject string
	statsLimit   int
)

var statsCmd = newCommand(help.CmdStats, runStats)

func init() {
	statsCmd.Args = cobra.NoArgs
	f := statsCmd.Flags()
	f.StringVar(&statsProject, "project", "", "Only count runs for this project")
	f.IntVar(&statsLimit, "limit", 1000, "Maximum runs to aggregate")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if !cfg.History.Enabled {
		return errors.New("history is disabled (history.enabled = false)")
	}
	idx, err := index.Open(cfg.StateDir, logger)
	if err != nil {
		return err
	}
	defer idx.Close()

	entries, err := idx.Recent(cmd.Context(), statsProject, statsLimit)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), stats.Format(stats.Compute(entries, statsProject), statsProject))
	return nil
}
