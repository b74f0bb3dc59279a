package revision

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/logging"
)

// DefaultTimeout bounds each git invocation.
const DefaultTimeout = 5 * time.Second

// Git runs the git binary against a working directory.
type Git struct {
	dir         string
	timeout     time.Duration
	workingTree bool
	logger      *zap.Logger
}

// GitOptions tunes a Git querier.
type GitOptions struct {
	Timeout time.Duration
	// WorkingTree compares the working tree, not HEAD, against HEAD~n.
	WorkingTree bool
	Logger      *zap.Logger
}

// NewGit returns a Querier backed by the git CLI.
func NewGit(dir string, opts GitOptions) *Git {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Git{
		dir:         dir,
		timeout:     timeout,
		workingTree: opts.WorkingTree,
		logger:      logging.OrNop(opts.Logger),
	}
}

// run executes git and returns stdout. ok is false on any failure,
// including a missing binary, a non-zero exit or a timeout.
func (g *Git) run(ctx context.Context, args ...string) (out string, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	full := append([]string{"-c", "core.quotepath=off"}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = g.dir

	data, err := cmd.Output()
	if err != nil {
		fields := []zap.Field{zap.Strings("args", args), zap.String("dir", g.dir), zap.Error(err)}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fields = append(fields, zap.String("stderr", strings.TrimSpace(string(exitErr.Stderr))))
		}
		if ctx.Err() == context.DeadlineExceeded {
			fields = append(fields, zap.Duration("timeout", g.timeout))
		}
		g.logger.Debug("git query failed", fields...)
		return "", false
	}
	return string(data), true
}

// rangeArgs returns the revision arguments for a look-back of n.
func (g *Git) rangeArgs(n int) []string {
	base := "HEAD~" + strconv.Itoa(n)
	if g.workingTree {
		return []string{base}
	}
	return []string{base, "HEAD"}
}

func (g *Git) DiffContent(ctx context.Context, n int) string {
	if n <= 0 {
		return ""
	}
	args := append([]string{"diff", "--no-color", "--no-ext-diff"}, g.rangeArgs(n)...)
	out, ok := g.run(ctx, args...)
	if !ok {
		return ""
	}
	return out
}

func (g *Git) FileStatus(ctx context.Context, n int) []StatusEntry {
	if n <= 0 {
		return nil
	}
	args := append([]string{"diff", "--name-status", "--no-color"}, g.rangeArgs(n)...)
	out, ok := g.run(ctx, args...)
	if !ok {
		return nil
	}
	return ParseNameStatus(out)
}

func (g *Git) LineStats(ctx context.Context, n int) []LineStat {
	if n <= 0 {
		return nil
	}
	args := append([]string{"diff", "--numstat", "--no-color"}, g.rangeArgs(n)...)
	out, ok := g.run(ctx, args...)
	if !ok {
		return nil
	}
	return ParseNumstat(out)
}

func (g *Git) CommitSubjects(ctx context.Context, n int) []string {
	if n <= 0 {
		return nil
	}
	out, ok := g.run(ctx, "log", "--no-merges", "-n", strconv.Itoa(n), "--format=%s", "HEAD")
	if !ok {
		return nil
	}
	return ParseSubjects(out, n)
}

func (g *Git) Head(ctx context.Context) string {
	out, ok := g.run(ctx, "rev-parse", "HEAD")
	if !ok {
		return ""
	}
	return strings.TrimSpace(out)
}

func (g *Git) Root(ctx context.Context) string {
	out, ok := g.run(ctx, "rev-parse", "--show-toplevel")
	if !ok {
		return ""
	}
	return strings.TrimSpace(out)
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}
