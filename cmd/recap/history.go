package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/index"
	"github.com/suykerbuyk/recap/internal/render"
)

var (
	historyProject   string
	historyLimit     int
	historyPruneDays int
)

var historyCmd = newCommand(help.CmdHistory, runHistory)

func init() {
	historyCmd.Args = cobra.NoArgs
	f := historyCmd.Flags()
	f.StringVar(&historyProject, "project", "", "Only list runs for this project")
	f.IntVar(&historyLimit, "limit", 20, "Maximum runs to list")
	f.IntVar(&historyPruneDays, "prune-days", 0, "Delete runs and archives older than n days first")
	addFormatFlag(historyCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(runFormat)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return errors.New("history is disabled (history.enabled = false)")
	}

	ctx := cmd.Context()
	idx, err := index.Open(cfg.StateDir, logger)
	if err != nil {
		return err
	}
	defer idx.Close()

	if historyPruneDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -historyPruneDays)
		archives, err := idx.Prune(ctx, cutoff)
		if err != nil {
			return err
		}
		removed := 0
		for _, p := range archives {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				logger.Warn("remove archive", zap.String("path", p), zap.Error(err))
				continue
			}
			removed++
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "pruned runs older than %d days (%d archives removed)\n", historyPruneDays, removed)
	}

	entries, err := idx.Recent(ctx, historyProject, historyLimit)
	if err != nil {
		return err
	}
	reports := make([]render.Report, 0, len(entries))
	for _, e := range entries {
		reports = append(reports, reportFromEntry(e))
	}
	return render.WriteList(cmd.OutOrStdout(), format, reports)
}
