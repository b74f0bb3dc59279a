package stats

import (
	"fmt"
	"strings"
)

// Format renders a Summary as aligned terminal output.
func Format(s Summary, project string) string {
	if s.TotalRuns == 0 {
		if project != "" {
			return fmt.Sprintf("recap stats --project %s\n\n  No runs found for project %q.\n", project, project)
		}
		return "recap stats\n\n  No runs found. Run `recap analyze` or `recap install` first.\n"
	}

	var b strings.Builder

	if project != "" {
		fmt.Fprintf(&b, "recap stats --project %s\n", project)
	} else {
		b.WriteString("recap stats\n")
	}

	// Overview
	b.WriteString("\nOverview\n")
	fmt.Fprintf(&b, "  %-20s %d\n", "runs", s.TotalRuns)
	if project == "" {
		fmt.Fprintf(&b, "  %-20s %d\n", "projects", s.ActiveProjects)
	}
	fmt.Fprintf(&b, "  %-20s %s\n", "commits", formatInt(s.TotalCommits))
	fmt.Fprintf(&b, "  %-20s %s\n", "files touched", formatInt(s.TotalFiles))
	fmt.Fprintf(&b, "  %-20s +%s / -%s\n", "lines", formatLines(s.TotalAdditions), formatLines(s.TotalDeletions))

	// Averages
	b.WriteString("\nAverages\n")
	fmt.Fprintf(&b, "  %-20s %.1f\n", "files/run", s.AvgFilesPerRun)
	fmt.Fprintf(&b, "  %-20s %s\n", "lines/run", formatFloat(s.AvgLinesPerRun))

	// Projects (omit when filtered by project)
	if project == "" && len(s.Projects) > 0 {
		b.WriteString("\nProjects\n")
		limit := 5
		if len(s.Projects) < limit {
			limit = len(s.Projects)
		}
		for _, p := range s.Projects[:limit] {
			fmt.Fprintf(&b, "  %-24s %3d runs   +%s / -%s\n",
				p.Name, p.Runs, formatLines(p.Additions), formatLines(p.Deletions))
		}
		if len(s.Projects) > 5 {
			fmt.Fprintf(&b, "  ... and %d more\n", len(s.Projects)-5)
		}
	}

	if len(s.Kinds) > 0 {
		b.WriteString("\nLanguages\n")
		for _, k := range s.Kinds {
			fmt.Fprintf(&b, "  %-24s %3d runs\n", k.Name, k.Runs)
		}
	}

	if len(s.Narrators) > 0 {
		b.WriteString("\nNarrated By\n")
		for _, n := range s.Narrators {
			fmt.Fprintf(&b, "  %-24s %3d runs\n", n.Name, n.Runs)
		}
	}

	// Tags
	if len(s.Tags) > 0 {
		b.WriteString("\nChange Tags\n")
		for _, t := range s.Tags {
			fmt.Fprintf(&b, "  %-24s %3d (%d%%)\n", t.Name, t.Count, int(t.Percent))
		}
	}

	// Monthly Trend
	if len(s.Monthly) > 0 {
		b.WriteString("\nMonthly Trend\n")
		for _, m := range s.Monthly {
			fmt.Fprintf(&b, "  %-12s %3d runs   +%6s / -%6s\n",
				m.Month, m.Runs, formatLines(m.Additions), formatLines(m.Deletions))
		}
	}

	// Top Files
	if len(s.TopFiles) > 0 {
		b.WriteString("\nTop Files\n")
		limit := 10
		if len(s.TopFiles) < limit {
			limit = len(s.TopFiles)
		}
		for _, f := range s.TopFiles[:limit] {
			fmt.Fprintf(&b, "  %-48s %3d runs\n", f.Path, f.Runs)
		}
	}

	return b.String()
}

// formatLines formats a line count for display.
// <10K: plain with commas, >=10K: X.XK, >=1M: X.XM
func formatLines(n int) string {
	if n < 0 {
		return "0"
	}
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 10_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return formatInt(n)
}

// formatFloat formats a float for display with commas.
func formatFloat(f float64) string {
	return formatInt(int(f + 0.5))
}

// formatInt formats an integer with comma separators.
func formatInt(n int) string {
	if n < 0 {
		return "0"
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
