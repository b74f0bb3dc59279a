package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/analysis"
	"github.com/suykerbuyk/recap/internal/archive"
	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/index"
	"github.com/suykerbuyk/recap/internal/narrative"
	"github.com/suykerbuyk/recap/internal/project"
	"github.com/suykerbuyk/recap/internal/render"
	"github.com/suykerbuyk/recap/internal/revision"
	"github.com/suykerbuyk/recap/internal/session"
)

var showDetail string

var showCmd = newCommand(help.CmdShow, runShow)

func init() {
	showCmd.Use = "show <run-id>"
	showCmd.Args = cobra.ExactArgs(1)
	showCmd.Flags().StringVar(&showDetail, "detail", "", "Re-narrate the archived diff at this detail level")
	addFormatFlag(showCmd)
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(runFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	idx, err := index.Open(cfg.StateDir, logger)
	if err != nil {
		return err
	}
	defer idx.Close()

	e, err := idx.Find(ctx, args[0])
	if err != nil {
		return err
	}
	if e == nil {
		return errors.Newf("no run matches %q", args[0])
	}

	report := reportFromEntry(*e)
	if cmd.Flags().Changed("detail") {
		detail, err := narrative.ParseDetail(showDetail)
		if err != nil {
			return err
		}
		a := replayAnalysis(cmd, *e)
		purposes := narrative.ClassifyFiles(a)
		report.Analysis = a
		report.Purposes = purposes.Entries()
		report.Detail = detail.String()
		report.Narrative = narrative.Generate(a, purposes, detail)
		report.NarratedBy = session.NarratedByHeuristic
	}
	report.Related = relatedRuns(ctx, idx, *e)

	return render.Write(cmd.OutOrStdout(), format, report)
}

// replayAnalysis re-extracts e from its archived diff. Without an archive
// the recorded analysis is reused.
func replayAnalysis(cmd *cobra.Command, e index.Entry) analysis.ChangeAnalysis {
	if e.ArchivePath == "" {
		return e.Analysis
	}
	diff, err := archive.Load(e.ArchivePath)
	if err != nil {
		logger.Warn("load archived diff", zap.String("run_id", e.RunID), zap.Error(err))
		return e.Analysis
	}
	q := revision.NewReplay(diff, e.Analysis.CommitMessages, logger)
	return analysis.Analyze(cmd.Context(), q, project.ParseKind(e.Kind), e.LookBack, logger)
}
