package render

import (
	"fmt"
	"strings"
)

const timeFormat = "2006-01-02 15:04"

// Markdown renders a run as a markdown note with YAML frontmatter.
func Markdown(r Report) string {
	var b strings.Builder
	a := r.Analysis

	// Frontmatter
	b.WriteString("---\n")
	if !r.CreatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("date: %s\n", r.CreatedAt.Format("2006-01-02")))
	}
	b.WriteString("type: recap\n")
	b.WriteString(fmt.Sprintf("project: %s\n", r.Project))
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("run_id: \"%s\"\n", r.RunID))
	}
	if r.Head != "" {
		b.WriteString(fmt.Sprintf("head: %s\n", shortSHA(r.Head)))
	}
	b.WriteString(fmt.Sprintf("kind: %s\n", r.Kind))
	b.WriteString(fmt.Sprintf("lookback: %d\n", r.LookBack))
	b.WriteString(fmt.Sprintf("files: %d\n", a.FileCount()))
	b.WriteString(fmt.Sprintf("additions: %d\n", a.TotalAdditions))
	b.WriteString(fmt.Sprintf("deletions: %d\n", a.TotalDeletions))
	if r.Tag != "" {
		b.WriteString(fmt.Sprintf("tags: [recap, %s]\n", r.Tag))
	} else {
		b.WriteString("tags: [recap]\n")
	}
	b.WriteString(fmt.Sprintf("headline: \"%s\"\n", escapeYAML(r.Headline)))
	if len(r.Related) > 0 {
		ids := make([]string, 0, len(r.Related))
		for _, rel := range r.Related {
			ids = append(ids, fmt.Sprintf("\"%s\"", rel.RunID))
		}
		b.WriteString(fmt.Sprintf("related: [%s]\n", strings.Join(ids, ", ")))
	}
	b.WriteString("---\n\n")

	// Title
	title := r.Headline
	if title == "" {
		title = r.Project
	}
	b.WriteString(fmt.Sprintf("# %s\n\n", title))

	if r.Skipped {
		b.WriteString(fmt.Sprintf("_Skipped: %s_\n", r.Reason))
		return b.String()
	}

	b.WriteString("## What Happened\n\n")
	b.WriteString(fmt.Sprintf("%s\n\n", r.Narrative))

	// What Changed
	if len(r.Purposes) > 0 {
		b.WriteString("## What Changed\n\n")
		for _, p := range r.Purposes {
			b.WriteString(fmt.Sprintf("- `%s` %s\n", p.File, p.Purpose))
		}
		b.WriteString("\n")
	}

	if len(a.FilesDeleted) > 0 {
		b.WriteString("## Removed\n\n")
		for _, f := range a.FilesDeleted {
			b.WriteString(fmt.Sprintf("- `%s`\n", f))
		}
		b.WriteString("\n")
	}

	// Commits
	if len(a.CommitMessages) > 0 {
		b.WriteString("## Commits\n\n")
		for _, c := range a.CommitMessages {
			b.WriteString(fmt.Sprintf("- %s\n", c))
		}
		b.WriteString("\n")
	}

	if len(a.KeyFunctionsChanged) > 0 {
		b.WriteString("## Key Functions\n\n")
		for _, f := range a.KeyFunctionsChanged {
			b.WriteString(fmt.Sprintf("- %s\n", f))
		}
		b.WriteString("\n")
	}

	if len(a.ImportsAdded) > 0 {
		b.WriteString("## New Imports\n\n")
		for _, i := range a.ImportsAdded {
			b.WriteString(fmt.Sprintf("- `%s`\n", i))
		}
		b.WriteString("\n")
	}

	// Related Runs
	if len(r.Related) > 0 {
		b.WriteString("## Related Runs\n\n")
		for _, rel := range r.Related {
			b.WriteString(fmt.Sprintf("- `%s` %s (%s)\n", shortID(rel.RunID), rel.Headline, rel.Reason))
		}
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("---\n")
	if r.NarratedBy != "" && r.NarratedBy != "heuristic" {
		b.WriteString(fmt.Sprintf("*recap %s | narrated by %s*\n", Version, r.NarratedBy))
	} else {
		b.WriteString(fmt.Sprintf("*recap %s*\n", Version))
	}

	return b.String()
}

// MarkdownList renders a history table.
func MarkdownList(rs []Report) string {
	var b strings.Builder
	b.WriteString("| When | Run | Project | Tag | Headline |\n")
	b.WriteString("|------|-----|---------|-----|----------|\n")
	for _, r := range rs {
		when := ""
		if !r.CreatedAt.IsZero() {
			when = r.CreatedAt.Local().Format(timeFormat)
		}
		b.WriteString(fmt.Sprintf("| %s | `%s` | %s | %s | %s |\n",
			when, shortID(r.RunID), r.Project, r.Tag, escapeTable(r.Headline)))
	}
	return b.String()
}

func escapeYAML(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

func escapeTable(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}

// shortID keeps the first uuid group.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
