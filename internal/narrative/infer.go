package narrative

import (
	"fmt"
	"path"
	"strings"

	"github.com/suykerbuyk/recap/internal/analysis"
)

var conventionalPrefixes = []string{"feat", "fix", "refactor", "docs", "test", "chore", "style", "perf", "ci", "build"}

// Headline builds a one-line "prefix: subject (outcomes)" title for a run.
func Headline(a analysis.ChangeAnalysis) string {
	prefix := Tag(a)
	subject := inferSubject(a.CommitMessages)
	outcomes := formatOutcomes(a)

	if subject == "" && outcomes == "" {
		return "No changes"
	}

	var b strings.Builder
	if prefix != "" && subject != "" {
		b.WriteString(prefix)
		b.WriteString(": ")
		b.WriteString(subject)
	} else if subject != "" {
		b.WriteString(subject)
	} else if prefix != "" {
		b.WriteString(prefix)
	}

	if outcomes != "" {
		if b.Len() > 0 {
			b.WriteString(" (")
			b.WriteString(outcomes)
			b.WriteString(")")
		} else {
			b.WriteString(outcomes)
		}
	}
	return b.String()
}

// Tag classifies the run with a conventional commit prefix.
func Tag(a analysis.ChangeAnalysis) string {
	// Priority 1: conventional prefix from the latest commit
	if len(a.CommitMessages) > 0 {
		if p := extractConventionalPrefix(a.CommitMessages[0]); p != "" {
			return p
		}
	}

	// Priority 2: derive from the file mix
	total := a.FileCount()
	if total == 0 {
		return ""
	}
	var tests, docs, configs int
	for _, set := range [][]string{a.FilesChanged, a.FilesAdded, a.FilesDeleted} {
		for _, p := range set {
			switch {
			case analysis.IsTestPath(p):
				tests++
			case docExts[strings.ToLower(path.Ext(p))]:
				docs++
			case analysis.IsConfigPath(p):
				configs++
			}
		}
	}

	switch {
	case tests == total:
		return "test"
	case docs == total:
		return "docs"
	case configs == total:
		return "chore"
	case len(a.FilesAdded) == 0 && len(a.FilesChanged) == 0:
		return "refactor"
	case len(a.FilesAdded) > 0:
		return "feat"
	default:
		return "fix"
	}
}

// extractConventionalPrefix extracts a conventional commit prefix from a message.
func extractConventionalPrefix(msg string) string {
	lower := strings.ToLower(msg)
	for _, p := range conventionalPrefixes {
		if strings.HasPrefix(lower, p+":") || strings.HasPrefix(lower, p+"(") || strings.HasPrefix(lower, p+"!:") {
			return p
		}
	}
	return ""
}

func inferSubject(commits []string) string {
	if len(commits) == 0 {
		return ""
	}
	return truncateStr(stripConventionalPrefix(commits[0]), 80)
}

// stripConventionalPrefix removes "feat: ", "fix(scope): " etc. from a commit message.
func stripConventionalPrefix(msg string) string {
	idx := strings.Index(msg, ": ")
	if idx > 0 && idx < 30 {
		base := strings.TrimSuffix(strings.ToLower(msg[:idx]), "!")
		if p := strings.IndexByte(base, '('); p > 0 {
			base = base[:p]
		}
		for _, c := range conventionalPrefixes {
			if base == c {
				return strings.TrimSpace(msg[idx+2:])
			}
		}
	}
	return msg
}

// formatOutcomes builds a condensed parenthetical outcomes string.
func formatOutcomes(a analysis.ChangeAnalysis) string {
	var parts []string

	created, modified := len(a.FilesAdded), len(a.FilesChanged)
	switch {
	case created > 0 && modified > 0:
		parts = append(parts, fmt.Sprintf("%d+%d files", created, modified))
	case created > 0:
		parts = append(parts, fmt.Sprintf("%d new files", created))
	case modified > 0:
		parts = append(parts, fmt.Sprintf("%d files", modified))
	}
	if n := len(a.FilesDeleted); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	if a.TotalAdditions > 0 || a.TotalDeletions > 0 {
		parts = append(parts, fmt.Sprintf("+%d/-%d", a.TotalAdditions, a.TotalDeletions))
	}
	if len(a.TestChanges) > 0 {
		parts = append(parts, "tests touched")
	}
	return strings.Join(parts, ", ")
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
