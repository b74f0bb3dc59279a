// Package analysis turns raw revision data into a ChangeAnalysis record.
package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/logging"
	"github.com/suykerbuyk/recap/internal/project"
	"github.com/suykerbuyk/recap/internal/revision"
)

const (
	maxKeyFunctions = 8
	maxImports      = 5
	contextLines    = 4
)

// ChangeAnalysis summarizes one look-back window. A zero-data run is an
// Empty record, never nil slices.
type ChangeAnalysis struct {
	FilesChanged        []string `json:"files_changed" yaml:"files_changed"`
	FilesAdded          []string `json:"files_added" yaml:"files_added"`
	FilesDeleted        []string `json:"files_deleted" yaml:"files_deleted"`
	TotalAdditions      int      `json:"total_additions" yaml:"total_additions"`
	TotalDeletions      int      `json:"total_deletions" yaml:"total_deletions"`
	CommitMessages      []string `json:"commit_messages" yaml:"commit_messages"`
	KeyFunctionsChanged []string `json:"key_functions_changed" yaml:"key_functions_changed"`
	ImportsAdded        []string `json:"imports_added" yaml:"imports_added"`
	ConfigChanges       []string `json:"config_changes" yaml:"config_changes"`
	TestChanges         []string `json:"test_changes" yaml:"test_changes"`
}

// Empty returns a record with every slice non-nil and zero totals.
func Empty() ChangeAnalysis {
	return ChangeAnalysis{
		FilesChanged:        []string{},
		FilesAdded:          []string{},
		FilesDeleted:        []string{},
		CommitMessages:      []string{},
		KeyFunctionsChanged: []string{},
		ImportsAdded:        []string{},
		ConfigChanges:       []string{},
		TestChanges:         []string{},
	}
}

// FileCount is the number of touched paths.
func (a ChangeAnalysis) FileCount() int {
	return len(a.FilesChanged) + len(a.FilesAdded) + len(a.FilesDeleted)
}

// IsEmpty reports whether no file was touched and no line moved.
func (a ChangeAnalysis) IsEmpty() bool {
	return a.FileCount() == 0 && a.TotalAdditions == 0 && a.TotalDeletions == 0
}

// Input is everything Extract needs. It is filled from a revision.Querier
// by Analyze, or directly in tests.
type Input struct {
	Diff     string
	Kind     project.Kind
	Statuses []revision.StatusEntry
	Stats    []revision.LineStat
	Subjects []string
}

// Extract builds a ChangeAnalysis from in. It is deterministic: the same
// input always yields the same record.
func Extract(in Input) ChangeAnalysis {
	a := Empty()

	for _, st := range in.Statuses {
		switch st.Status {
		case revision.Added:
			a.FilesAdded = append(a.FilesAdded, st.Path)
		case revision.Deleted:
			a.FilesDeleted = append(a.FilesDeleted, st.Path)
		default:
			a.FilesChanged = append(a.FilesChanged, st.Path)
		}
	}

	for _, ls := range in.Stats {
		if ls.Additions > 0 {
			a.TotalAdditions += ls.Additions
		}
		if ls.Deletions > 0 {
			a.TotalDeletions += ls.Deletions
		}
	}

	a.CommitMessages = append(a.CommitMessages, in.Subjects...)
	a.KeyFunctionsChanged = append(a.KeyFunctionsChanged, keyFunctions(in.Diff, TableFor(in.Kind))...)
	a.ImportsAdded = append(a.ImportsAdded, importsAdded(in.Diff, ImportPatternsFor(in.Kind))...)

	touched := make([]string, 0, len(a.FilesChanged)+len(a.FilesAdded))
	touched = append(touched, a.FilesChanged...)
	touched = append(touched, a.FilesAdded...)
	for _, p := range touched {
		if IsConfigPath(p) {
			a.ConfigChanges = append(a.ConfigChanges, p)
		}
		if IsTestPath(p) {
			a.TestChanges = append(a.TestChanges, p)
		}
	}
	return a
}

// Analyze queries q for the last n revisions and extracts the record.
// It never fails: a panic during extraction yields Empty.
func Analyze(ctx context.Context, q revision.Querier, kind project.Kind, n int, logger *zap.Logger) (a ChangeAnalysis) {
	logger = logging.OrNop(logger)
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("change extraction failed", zap.Any("panic", r))
			a = Empty()
		}
	}()

	in := Input{
		Diff:     q.DiffContent(ctx, n),
		Kind:     kind,
		Statuses: q.FileStatus(ctx, n),
		Stats:    q.LineStats(ctx, n),
		Subjects: q.CommitSubjects(ctx, n),
	}
	a = Extract(in)
	logger.Debug("extracted changes",
		zap.Stringer("kind", kind),
		zap.Int("files", a.FileCount()),
		zap.Int("functions", len(a.KeyFunctionsChanged)),
		zap.Int("imports", len(a.ImportsAdded)))
	return a
}

// keyFunctions scans added diff lines for declarations.
func keyFunctions(diff string, rules []Rule) []string {
	if len(rules) == 0 || diff == "" {
		return nil
	}

	lines := strings.Split(diff, "\n")
	seen := make(map[string]bool)
	var out []string

	for i, line := range lines {
		if !isAddedLine(line) {
			continue
		}
		body := line[1:]
		for _, rule := range rules {
			m := rule.Pattern.FindStringSubmatch(body)
			if m == nil || m[1] == "" {
				continue
			}
			pc := PurposeContext{
				Name: m[1],
				Kind: rule.Kind,
				Next: followingAdded(lines, i+1, contextLines),
				Prev: precedingLine(lines, i),
			}
			entry := formatFunction(pc)
			if !seen[entry] {
				seen[entry] = true
				out = append(out, entry)
			}
			break
		}
		if len(out) >= maxKeyFunctions {
			break
		}
	}
	return out
}

func formatFunction(pc PurposeContext) string {
	if purpose := InferPurpose(pc); purpose != "" {
		return fmt.Sprintf("%s (%s)", pc.Name, purpose)
	}
	return fmt.Sprintf("%s (%s)", pc.Name, pc.Kind)
}

func isAddedLine(line string) bool {
	return strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++")
}

// followingAdded returns up to max added-line bodies starting at from,
// stopping at the first line that is not an addition.
func followingAdded(lines []string, from, max int) []string {
	var next []string
	for j := from; j < len(lines) && len(next) < max; j++ {
		if !isAddedLine(lines[j]) {
			break
		}
		next = append(next, lines[j][1:])
	}
	return next
}

// precedingLine returns the added line just before lines[i], without
// its diff marker. Context lines, removed lines and hunk headers yield "".
func precedingLine(lines []string, i int) string {
	if i == 0 || !isAddedLine(lines[i-1]) {
		return ""
	}
	return lines[i-1][1:]
}

func importsAdded(diff string, patterns []*regexp.Regexp) []string {
	if len(patterns) == 0 || diff == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range patterns {
		for _, m := range p.FindAllStringSubmatch(diff, -1) {
			name := normalizeImport(m[1])
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
			if len(out) >= maxImports {
				return out
			}
		}
	}
	return out
}

// normalizeImport keeps the final path segment up to its first dot.
// Relative imports such as ".utils" normalize to "" and are dropped.
func normalizeImport(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, "/")
	if idx := strings.LastIndex(raw, "/"); idx >= 0 {
		raw = raw[idx+1:]
	}
	name, _, _ := strings.Cut(raw, ".")
	if name == "" || strings.HasPrefix(name, ".") {
		return ""
	}
	return name
}
