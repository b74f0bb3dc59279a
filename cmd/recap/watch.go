package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/config"
	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/project"
	"github.com/suykerbuyk/recap/internal/render"
	"github.com/suykerbuyk/recap/internal/session"
	"github.com/suykerbuyk/recap/internal/watch"
)

var watchDebounce time.Duration

// watchKindCacheSize bounds the project-kind cache shared across runs.
const watchKindCacheSize = 64

var watchCmd = newCommand(help.CmdWatch, runWatch)

func init() {
	watchCmd.Args = cobra.NoArgs
	addRunFlags(watchCmd)
	addFormatFlag(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a run")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(runFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rc := runConfig(cmd)

	dir := runDir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return errors.Wrap(err, "get working directory")
		}
	}
	q, err := session.NewQuerier(rc, dir, logger)
	if err != nil {
		return err
	}
	root := q.Root(ctx)
	if root == "" {
		return errors.Newf("%s is not inside a git repository", config.CompressHome(dir))
	}
	gitDir, err := watch.GitDir(root)
	if err != nil {
		return err
	}

	idx := openIndex(rc)
	if idx != nil {
		defer idx.Close()
	}
	detector := project.NewDetector(watchKindCacheSize)
	out := cmd.OutOrStdout()

	fmt.Fprintf(cmd.ErrOrStderr(), "recap: watching %s (Ctrl-C to stop)\n", config.CompressHome(root))

	return watch.Run(ctx, gitDir, watchDebounce, func(ctx context.Context) {
		opts := runOptions(rc)
		opts.CWD = root
		opts.Detector = detector
		opts.Index = idx
		opts.SkipUnchanged = true

		res, err := session.Run(ctx, rc, opts)
		if err != nil {
			logger.Warn("run failed", zap.Error(err))
			return
		}
		if res.Skipped {
			logger.Debug("run skipped", zap.String("reason", res.Reason))
			return
		}
		report := reportFromResult(res)
		report.Related = relatedRuns(ctx, idx, res.Entry())
		if err := render.Write(out, format, report); err != nil {
			logger.Warn("render run", zap.Error(err))
		}
	}, logger)
}
