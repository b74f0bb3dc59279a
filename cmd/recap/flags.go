package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/config"
	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/index"
	"github.com/suykerbuyk/recap/internal/render"
	"github.com/suykerbuyk/recap/internal/session"
)

// Flag values shared by the commands that run the pipeline. Only one
// command runs per process.
var (
	runLookBack  int
	runDetail    string
	runBackend   string
	runDir       string
	runNoRewrite bool
	runFormat    string
)

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&runLookBack, "lookback", 0, "Number of commits to look back (default: analysis.look_back)")
	f.StringVar(&runDetail, "detail", "", "Narrative detail: low, medium or high")
	f.StringVar(&runBackend, "backend", "", "Revision backend: git or gogit")
	f.StringVar(&runDir, "dir", "", "Working tree to analyze (default: current directory)")
	f.BoolVar(&runNoRewrite, "no-rewrite", false, "Keep the heuristic narrative even when a narrator is enabled")
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runFormat, "format", string(render.FormatHuman), "Output format: human, json, yaml or markdown")
}

// newCommand builds a cobra command from its help reference.
func newCommand(ref help.Command, run func(*cobra.Command, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   ref.Name,
		Short: ref.Brief,
		Long:  ref.Description,
		RunE:  run,
	}
}

// runConfig applies command-line overrides to the loaded config.
func runConfig(cmd *cobra.Command) config.Config {
	rc := cfg
	f := cmd.Flags()
	if f.Changed("backend") {
		rc.Analysis.Backend = runBackend
	}
	if f.Changed("lookback") {
		rc.Analysis.LookBack = runLookBack
	}
	if f.Changed("detail") {
		rc.Analysis.Detail = runDetail
	}
	return rc
}

func runOptions(rc config.Config) session.Options {
	return session.Options{
		CWD:      runDir,
		LookBack: rc.Analysis.LookBack,
		Detail:   rc.Analysis.Detail,
		Rewrite:  rc.Narrator.Enabled && !runNoRewrite,
		Logger:   logger,
	}
}

// openIndex opens the history database, or returns nil when history is
// disabled or unavailable.
func openIndex(rc config.Config) *index.Index {
	if !rc.History.Enabled {
		return nil
	}
	idx, err := index.Open(rc.StateDir, logger)
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		return nil
	}
	return idx
}

// relatedRuns links e to earlier runs of its project.
func relatedRuns(ctx context.Context, idx *index.Index, e index.Entry) []render.RelatedRun {
	if idx == nil {
		return nil
	}
	related, err := idx.Related(ctx, e)
	if err != nil {
		logger.Warn("find related runs", zap.Error(err))
		return nil
	}
	out := make([]render.RelatedRun, 0, len(related))
	for _, r := range related {
		out = append(out, render.RelatedRun{
			RunID:    r.Entry.RunID,
			Headline: r.Entry.Headline,
			Score:    r.Score,
			Reason:   r.Entry.CreatedAt.Local().Format(time.DateOnly),
		})
	}
	return out
}
