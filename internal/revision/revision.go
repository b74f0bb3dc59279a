// Package revision queries recent history of a git working tree.
//
// Every Querier method degrades to an empty result instead of returning an
// error: a directory outside version control, a missing git binary, a
// timeout, a non-positive look-back or a history shorter than the look-back
// all look the same to callers, namely "no data".
package revision

import (
	"context"
	"strconv"
	"strings"
)

// Status is the coarse change class of a path.
type Status int

const (
	Changed Status = iota
	Added
	Deleted
)

func (s Status) String() string {
	switch s {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	default:
		return "changed"
	}
}

// StatusEntry is one line of a name-status comparison.
type StatusEntry struct {
	Code   string // raw status code, e.g. "M", "A", "R087"
	Path   string // new path for renames and copies
	Status Status
}

// LineStat is one numeric diff summary entry.
type LineStat struct {
	Additions int
	Deletions int
	Path      string
}

// Querier answers questions about the last n revisions of a tree.
type Querier interface {
	DiffContent(ctx context.Context, n int) string
	FileStatus(ctx context.Context, n int) []StatusEntry
	LineStats(ctx context.Context, n int) []LineStat
	CommitSubjects(ctx context.Context, n int) []string
	// Head returns the tip commit sha, or "".
	Head(ctx context.Context) string
	// Root returns the working-tree top level, or "".
	Root(ctx context.Context) string
}

// ClassifyStatus maps a git status code to a Status. Rename and copy
// scores are not interpreted.
func ClassifyStatus(code string) Status {
	switch {
	case strings.HasPrefix(code, "A"):
		return Added
	case strings.HasPrefix(code, "D"):
		return Deleted
	default:
		return Changed
	}
}

// ParseNameStatus parses `git diff --name-status` output. Renames and
// copies carry two paths; the last one wins.
func ParseNameStatus(out string) []StatusEntry {
	var entries []StatusEntry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		code := strings.TrimSpace(fields[0])
		path := fields[len(fields)-1]
		if code == "" || path == "" {
			continue
		}
		entries = append(entries, StatusEntry{
			Code:   code,
			Path:   path,
			Status: ClassifyStatus(code),
		})
	}
	return entries
}

// ParseNumstat parses `git diff --numstat` output. Binary entries report
// "-" for both counts and are skipped, as is anything else non-numeric.
func ParseNumstat(out string) []LineStat {
	var stats []LineStat
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 3 {
			continue
		}
		add, err := strconv.Atoi(fields[0])
		if err != nil || add < 0 {
			continue
		}
		del, err := strconv.Atoi(fields[1])
		if err != nil || del < 0 {
			continue
		}
		stats = append(stats, LineStat{Additions: add, Deletions: del, Path: fields[2]})
	}
	return stats
}

// ParseSubjects splits one-subject-per-line log output, keeping at most n.
func ParseSubjects(out string, n int) []string {
	var subjects []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		subjects = append(subjects, line)
		if len(subjects) == n {
			break
		}
	}
	return subjects
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}
