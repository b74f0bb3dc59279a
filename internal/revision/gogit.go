package revision

import (
	"context"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/logging"
)

// GoGit reads history in-process with go-git. It only compares commits;
// working-tree comparison is a git CLI feature.
type GoGit struct {
	dir    string
	repo   *git.Repository
	logger *zap.Logger
}

// NewGoGit opens the repository containing dir. A directory outside any
// repository yields a querier whose methods all return empty results.
func NewGoGit(dir string, opts GitOptions) *GoGit {
	logger := logging.OrNop(opts.Logger)
	if opts.WorkingTree {
		logger.Debug("gogit backend ignores working tree comparison")
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		logger.Debug("open repository", zap.String("dir", dir), zap.Error(err))
		repo = nil
	}
	return &GoGit{dir: dir, repo: repo, logger: logger}
}

// span resolves the tip commit and its n-th first-parent ancestor.
func (g *GoGit) span(n int) (base, tip *object.Commit, ok bool) {
	if g.repo == nil || n <= 0 {
		return nil, nil, false
	}
	ref, err := g.repo.Head()
	if err != nil {
		g.logger.Debug("resolve HEAD", zap.Error(err))
		return nil, nil, false
	}
	tip, err = g.repo.CommitObject(ref.Hash())
	if err != nil {
		g.logger.Debug("load HEAD commit", zap.Error(err))
		return nil, nil, false
	}

	base = tip
	for i := 0; i < n; i++ {
		base, err = base.Parent(0)
		if err != nil {
			g.logger.Debug("history shorter than look-back", zap.Int("n", n), zap.Error(err))
			return nil, nil, false
		}
	}
	return base, tip, true
}

func (g *GoGit) patch(ctx context.Context, n int) (*object.Patch, bool) {
	base, tip, ok := g.span(n)
	if !ok {
		return nil, false
	}
	patch, err := base.PatchContext(ctx, tip)
	if err != nil {
		g.logger.Debug("compute patch", zap.Error(err))
		return nil, false
	}
	return patch, true
}

func (g *GoGit) DiffContent(ctx context.Context, n int) string {
	patch, ok := g.patch(ctx, n)
	if !ok {
		return ""
	}
	return patch.String()
}

func (g *GoGit) FileStatus(ctx context.Context, n int) []StatusEntry {
	patch, ok := g.patch(ctx, n)
	if !ok {
		return nil
	}
	var entries []StatusEntry
	for _, fp := range patch.FilePatches() {
		from, to := fp.Files()
		switch {
		case from == nil && to != nil:
			entries = append(entries, StatusEntry{Code: "A", Path: to.Path(), Status: Added})
		case to == nil && from != nil:
			entries = append(entries, StatusEntry{Code: "D", Path: from.Path(), Status: Deleted})
		case to != nil:
			code := "M"
			if from.Path() != to.Path() {
				code = "R"
			}
			entries = append(entries, StatusEntry{Code: code, Path: to.Path(), Status: Changed})
		}
	}
	return entries
}

func (g *GoGit) LineStats(ctx context.Context, n int) []LineStat {
	patch, ok := g.patch(ctx, n)
	if !ok {
		return nil
	}
	var stats []LineStat
	for _, fp := range patch.FilePatches() {
		if fp.IsBinary() {
			continue
		}
		from, to := fp.Files()
		var path string
		switch {
		case to != nil:
			path = to.Path()
		case from != nil:
			path = from.Path()
		default:
			continue
		}

		var st LineStat
		st.Path = path
		for _, chunk := range fp.Chunks() {
			switch chunk.Type() {
			case fdiff.Add:
				st.Additions += countLines(chunk.Content())
			case fdiff.Delete:
				st.Deletions += countLines(chunk.Content())
			}
		}
		stats = append(stats, st)
	}
	return stats
}

func (g *GoGit) CommitSubjects(ctx context.Context, n int) []string {
	if g.repo == nil || n <= 0 {
		return nil
	}
	ref, err := g.repo.Head()
	if err != nil {
		g.logger.Debug("resolve HEAD", zap.Error(err))
		return nil
	}
	iter, err := g.repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		g.logger.Debug("open log", zap.Error(err))
		return nil
	}
	defer iter.Close()

	var subjects []string
	err = iter.ForEach(func(c *object.Commit) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.NumParents() > 1 {
			return nil
		}
		if s := firstLine(c.Message); s != "" {
			subjects = append(subjects, s)
		}
		if len(subjects) >= n {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		g.logger.Debug("walk log", zap.Error(err))
		return nil
	}
	return subjects
}

func (g *GoGit) Head(ctx context.Context) string {
	if g.repo == nil {
		return ""
	}
	ref, err := g.repo.Head()
	if err != nil || ref.Hash() == plumbing.ZeroHash {
		return ""
	}
	return ref.Hash().String()
}

func (g *GoGit) Root(ctx context.Context) string {
	if g.repo == nil {
		return ""
	}
	wt, err := g.repo.Worktree()
	if err != nil {
		g.logger.Debug("open worktree", zap.Error(err))
		return ""
	}
	return wt.Filesystem.Root()
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
