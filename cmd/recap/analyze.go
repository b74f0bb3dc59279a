package main

import (
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/render"
	"github.com/suykerbuyk/recap/internal/session"
)

var analyzeCmd = newCommand(help.CmdAnalyze, runAnalyze)

func init() {
	analyzeCmd.Args = cobra.NoArgs
	addRunFlags(analyzeCmd)
	addFormatFlag(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(runFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rc := runConfig(cmd)
	idx := openIndex(rc)
	if idx != nil {
		defer idx.Close()
	}

	opts := runOptions(rc)
	opts.Index = idx
	res, err := session.Run(ctx, rc, opts)
	if err != nil {
		return err
	}

	report := reportFromResult(res)
	report.Related = relatedRuns(ctx, idx, res.Entry())
	return render.Write(cmd.OutOrStdout(), format, report)
}
