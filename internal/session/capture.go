// Package session runs the recap pipeline for one working tree: query the
// recent revisions, extract a ChangeAnalysis, narrate it, and record the run.
package session

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/analysis"
	"github.com/suykerbuyk/recap/internal/archive"
	"github.com/suykerbuyk/recap/internal/config"
	"github.com/suykerbuyk/recap/internal/enrichment"
	"github.com/suykerbuyk/recap/internal/index"
	"github.com/suykerbuyk/recap/internal/logging"
	"github.com/suykerbuyk/recap/internal/narrative"
	"github.com/suykerbuyk/recap/internal/project"
	"github.com/suykerbuyk/recap/internal/revision"
	"github.com/suykerbuyk/recap/internal/sanitize"
)

// NarratedByHeuristic marks a narrative that was not rewritten.
const NarratedByHeuristic = "heuristic"

// Options tunes one pipeline run.
type Options struct {
	CWD      string
	LookBack int
	Detail   string
	// Rewrite lets the configured narrator polish the heuristic narrative.
	Rewrite bool
	// SkipUnchanged returns a Skipped result, without analyzing or
	// recording, when HEAD matches the project's last recorded run.
	SkipUnchanged bool
	Logger        *zap.Logger

	// Optional collaborators. Nil values are built from config.
	Querier  revision.Querier
	Detector *project.Detector
	Index    *index.Index
}

// Result holds the output of a pipeline run.
type Result struct {
	RunID       string
	Project     string
	Root        string
	Kind        project.Kind
	Head        string
	LookBack    int
	Detail      narrative.Detail
	Analysis    analysis.ChangeAnalysis
	Purposes    *narrative.FilePurposeMap
	Narrative   string
	NarratedBy  string
	Headline    string
	Tag         string
	ArchivePath string
	CreatedAt   time.Time
	Skipped     bool
	Reason      string
}

// NewQuerier returns the revision backend selected by cfg.
func NewQuerier(cfg config.Config, dir string, logger *zap.Logger) (revision.Querier, error) {
	opts := revision.GitOptions{
		Timeout:     time.Duration(cfg.Analysis.GitTimeoutSeconds) * time.Second,
		WorkingTree: cfg.Analysis.IncludeWorkingTree,
		Logger:      logger,
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Analysis.Backend)) {
	case "", config.BackendGit:
		return revision.NewGit(dir, opts), nil
	case config.BackendGoGit:
		return revision.NewGoGit(dir, opts), nil
	default:
		return nil, errors.Newf("unknown analysis backend %q (want %s or %s)",
			cfg.Analysis.Backend, config.BackendGit, config.BackendGoGit)
	}
}

// Run executes the pipeline. Only configuration problems and an unusable
// state directory are errors; every other failure degrades the result.
func Run(ctx context.Context, cfg config.Config, opts Options) (*Result, error) {
	logger := logging.OrNop(opts.Logger)

	detail, err := narrative.ParseDetail(opts.Detail)
	if err != nil {
		return nil, err
	}

	cwd := opts.CWD
	if cwd == "" {
		cwd, err = os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "get working directory")
		}
	}

	q := opts.Querier
	if q == nil {
		q, err = NewQuerier(cfg, cwd, logger)
		if err != nil {
			return nil, err
		}
	}
	q = revision.NewMemo(q)

	root := q.Root(ctx)
	if root == "" {
		root = cwd
	}

	res := &Result{
		RunID:      uuid.NewString(),
		Project:    detectProject(root),
		Root:       root,
		Head:       q.Head(ctx),
		LookBack:   opts.LookBack,
		Detail:     detail,
		NarratedBy: NarratedByHeuristic,
		CreatedAt:  time.Now().UTC(),
	}

	idx := opts.Index
	if idx == nil && cfg.History.Enabled {
		if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create state dir %s", config.CompressHome(cfg.StateDir))
		}
		idx, err = index.Open(cfg.StateDir, logger)
		if err != nil {
			logger.Warn("history unavailable", zap.Error(err))
		} else {
			defer idx.Close()
		}
	}

	if idx != nil && opts.SkipUnchanged && res.Head != "" {
		last, err := idx.LastHead(ctx, res.Project)
		if err != nil {
			logger.Warn("read last head", zap.Error(err))
		} else if last == res.Head {
			res.Skipped = true
			res.Reason = "no new commits since last run"
			return res, nil
		}
	}

	if opts.Detector != nil {
		res.Kind = opts.Detector.Detect(root)
	} else {
		res.Kind = project.Detect(root)
	}

	res.Analysis = analysis.Analyze(ctx, q, res.Kind, opts.LookBack, logger)
	res.Purposes, res.Narrative = narrate(res.Analysis, detail, logger)
	res.Headline = narrative.Headline(res.Analysis)
	res.Tag = narrative.Tag(res.Analysis)

	if opts.Rewrite && !res.Analysis.IsEmpty() && res.Narrative != "" {
		rewrite(ctx, cfg, res, logger)
	}

	if cfg.Archive.Enabled {
		if diff := q.DiffContent(ctx, opts.LookBack); strings.TrimSpace(diff) != "" {
			path, err := archive.Archive(sanitize.Redact(diff), cfg.ArchiveDir(), res.RunID)
			if err != nil {
				logger.Warn("archive diff", zap.Error(err))
			} else {
				res.ArchivePath = path
			}
		}
	}

	if idx != nil {
		if err := idx.Add(ctx, res.Entry()); err != nil {
			logger.Warn("record run", zap.Error(err))
		}
	}

	return res, nil
}

// narrate classifies files and generates the heuristic narrative. A panic
// yields an empty narrative.
func narrate(a analysis.ChangeAnalysis, detail narrative.Detail, logger *zap.Logger) (purposes *narrative.FilePurposeMap, text string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("narrative generation failed", zap.Any("panic", r))
			purposes, text = narrative.NewFilePurposeMap(), ""
		}
	}()
	purposes = narrative.ClassifyFiles(a)
	return purposes, narrative.Generate(a, purposes, detail)
}

func rewrite(ctx context.Context, cfg config.Config, res *Result, logger *zap.Logger) {
	a := res.Analysis
	input := enrichment.PromptInput{
		Project:        res.Project,
		Kind:           res.Kind.String(),
		Detail:         res.Detail.String(),
		LookBack:       res.LookBack,
		FilesChanged:   a.FilesChanged,
		FilesAdded:     a.FilesAdded,
		FilesDeleted:   a.FilesDeleted,
		Additions:      a.TotalAdditions,
		Deletions:      a.TotalDeletions,
		CommitMessages: a.CommitMessages,
		KeyFunctions:   a.KeyFunctionsChanged,
		ImportsAdded:   a.ImportsAdded,
		ConfigChanges:  a.ConfigChanges,
		TestChanges:    a.TestChanges,
		Draft:          res.Narrative,
		HeuristicTag:   res.Tag,
	}

	out, err := enrichment.Rewrite(ctx, cfg.Narrator, input)
	if err != nil {
		logger.Warn("narrative rewrite failed", zap.Error(err))
		return
	}
	if out == nil {
		return
	}
	res.Narrative = out.Summary
	res.NarratedBy = out.NarratedBy
	if out.Tag != "" {
		res.Tag = out.Tag
	}
}

// Entry converts the result into a history record.
func (res *Result) Entry() index.Entry {
	return index.Entry{
		RunID:       res.RunID,
		Project:     res.Project,
		Root:        res.Root,
		Head:        res.Head,
		LookBack:    res.LookBack,
		Detail:      res.Detail.String(),
		Kind:        res.Kind.String(),
		Tag:         res.Tag,
		Headline:    res.Headline,
		CreatedAt:   res.CreatedAt,
		Analysis:    res.Analysis,
		Narrative:   res.Narrative,
		NarratedBy:  res.NarratedBy,
		ArchivePath: res.ArchivePath,
	}
}
