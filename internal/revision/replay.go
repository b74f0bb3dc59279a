package revision

import (
	"context"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/logging"
)

// Replay answers queries from a stored unified diff instead of a live
// repository. The look-back argument only gates the n <= 0 case; the
// stored diff already covers the original range.
type Replay struct {
	diff     string
	subjects []string
	files    []replayFile
}

type replayFile struct {
	path   string
	status Status
	code   string
	binary bool
	adds   int
	dels   int
}

// NewReplay parses diff up front. A diff that cannot be parsed still
// replays its raw text but reports no statuses or stats.
func NewReplay(diff string, subjects []string, logger *zap.Logger) *Replay {
	r := &Replay{diff: diff, subjects: subjects}
	if strings.TrimSpace(diff) == "" {
		return r
	}

	fds, err := godiff.ParseMultiFileDiff([]byte(diff))
	if err != nil {
		logging.OrNop(logger).Debug("parse stored diff", zap.Error(err))
		return r
	}
	for _, fd := range fds {
		if f, ok := replayFileFrom(fd); ok {
			r.files = append(r.files, f)
		}
	}
	return r
}

func replayFileFrom(fd *godiff.FileDiff) (replayFile, bool) {
	var f replayFile

	orig, next := fd.OrigName, fd.NewName
	if (orig == "" || next == "") && len(fd.Extended) > 0 {
		ho, hn := headerPaths(fd.Extended[0])
		if orig == "" {
			orig = ho
		}
		if next == "" {
			next = hn
		}
	}

	switch {
	case orig == "/dev/null" || hasExtended(fd, "new file mode"):
		f.status, f.code, f.path = Added, "A", cleanPath(next)
	case next == "/dev/null" || hasExtended(fd, "deleted file mode"):
		f.status, f.code, f.path = Deleted, "D", cleanPath(orig)
	default:
		f.status, f.code, f.path = Changed, "M", cleanPath(next)
		if cleanPath(orig) != "" && cleanPath(orig) != f.path {
			f.code = "R"
		}
	}
	if f.path == "" || f.path == "/dev/null" {
		return f, false
	}

	if len(fd.Hunks) == 0 && (hasExtended(fd, "Binary files") || hasExtended(fd, "GIT binary patch")) {
		f.binary = true
	}
	for _, h := range fd.Hunks {
		for _, line := range strings.Split(string(h.Body), "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				f.adds++
			case strings.HasPrefix(line, "-"):
				f.dels++
			}
		}
	}
	return f, true
}

func hasExtended(fd *godiff.FileDiff, prefix string) bool {
	for _, line := range fd.Extended {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// headerPaths reads the two paths of a "diff --git a/x b/x" line.
func headerPaths(line string) (string, string) {
	rest, ok := strings.CutPrefix(line, "diff --git ")
	if !ok {
		return "", ""
	}
	idx := strings.Index(rest, " b/")
	if idx < 0 {
		return "", ""
	}
	return rest[:idx], rest[idx+1:]
}

// cleanPath removes the a/ or b/ prefix from git diff paths.
func cleanPath(path string) string {
	if path == "" || path == "/dev/null" {
		return path
	}
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}

func (r *Replay) DiffContent(_ context.Context, n int) string {
	if n <= 0 {
		return ""
	}
	return r.diff
}

func (r *Replay) FileStatus(_ context.Context, n int) []StatusEntry {
	if n <= 0 {
		return nil
	}
	var entries []StatusEntry
	for _, f := range r.files {
		entries = append(entries, StatusEntry{Code: f.code, Path: f.path, Status: f.status})
	}
	return entries
}

func (r *Replay) LineStats(_ context.Context, n int) []LineStat {
	if n <= 0 {
		return nil
	}
	var stats []LineStat
	for _, f := range r.files {
		if f.binary {
			continue
		}
		stats = append(stats, LineStat{Additions: f.adds, Deletions: f.dels, Path: f.path})
	}
	return stats
}

func (r *Replay) CommitSubjects(_ context.Context, n int) []string {
	if n <= 0 || len(r.subjects) == 0 {
		return nil
	}
	if len(r.subjects) > n {
		return append([]string(nil), r.subjects[:n]...)
	}
	return append([]string(nil), r.subjects...)
}

func (r *Replay) Head(context.Context) string { return "" }

func (r *Replay) Root(context.Context) string { return "" }
