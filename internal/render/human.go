package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#00afff")
	colorSuccess = lipgloss.Color("#5fd75f")
	colorError   = lipgloss.Color("#ff5f5f")
	colorMuted   = lipgloss.Color("#808080")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	addStyle     = lipgloss.NewStyle().Foreground(colorSuccess)
	delStyle     = lipgloss.NewStyle().Foreground(colorError)
	tagStyle     = lipgloss.NewStyle().Foreground(colorPrimary).Italic(true)
	bodyStyle    = lipgloss.NewStyle().Width(88)
	sectionStyle = lipgloss.NewStyle().PaddingLeft(2)
)

// Human renders a run for a terminal.
func Human(r Report) string {
	var b strings.Builder
	a := r.Analysis

	header := r.Project
	if r.Kind != "" && r.Kind != "unknown" {
		header += " (" + r.Kind + ")"
	}
	b.WriteString(titleStyle.Render(header))
	if r.Head != "" {
		b.WriteString(" " + mutedStyle.Render(shortSHA(r.Head)))
	}
	b.WriteString("\n")

	if r.Skipped {
		b.WriteString(mutedStyle.Render("skipped: "+r.Reason) + "\n")
		return b.String()
	}

	if r.Headline != "" {
		line := r.Headline
		if r.Tag != "" {
			line += " " + tagStyle.Render("#"+r.Tag)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(fmt.Sprintf("%d files  %s  %s\n",
		a.FileCount(),
		addStyle.Render(fmt.Sprintf("+%d", a.TotalAdditions)),
		delStyle.Render(fmt.Sprintf("-%d", a.TotalDeletions))))

	b.WriteString("\n")
	b.WriteString(bodyStyle.Render(r.Narrative))
	b.WriteString("\n")

	if len(r.Purposes) > 0 {
		b.WriteString("\n" + labelStyle.Render("Files") + "\n")
		var lines []string
		for _, p := range r.Purposes {
			lines = append(lines, p.File+"  "+mutedStyle.Render(p.Purpose))
		}
		b.WriteString(sectionStyle.Render(strings.Join(lines, "\n")) + "\n")
	}

	if len(a.KeyFunctionsChanged) > 0 {
		b.WriteString("\n" + labelStyle.Render("Functions") + "\n")
		b.WriteString(sectionStyle.Render(strings.Join(a.KeyFunctionsChanged, "\n")) + "\n")
	}

	if len(r.Related) > 0 {
		b.WriteString("\n" + labelStyle.Render("Related") + "\n")
		var lines []string
		for _, rel := range r.Related {
			lines = append(lines, shortID(rel.RunID)+"  "+rel.Headline+"  "+mutedStyle.Render(rel.Reason))
		}
		b.WriteString(sectionStyle.Render(strings.Join(lines, "\n")) + "\n")
	}

	if r.NarratedBy != "" {
		b.WriteString("\n" + mutedStyle.Render("narrated by "+r.NarratedBy) + "\n")
	}
	return b.String()
}

// HumanList renders one line per run.
func HumanList(rs []Report) string {
	if len(rs) == 0 {
		return mutedStyle.Render("no runs recorded") + "\n"
	}
	var b strings.Builder
	for _, r := range rs {
		when := ""
		if !r.CreatedAt.IsZero() {
			when = r.CreatedAt.Local().Format(timeFormat)
		}
		tag := ""
		if r.Tag != "" {
			tag = " " + tagStyle.Render("#"+r.Tag)
		}
		b.WriteString(fmt.Sprintf("%s  %s  %s  %s%s\n",
			mutedStyle.Render(when),
			shortID(r.RunID),
			labelStyle.Render(r.Project),
			r.Headline,
			tag))
	}
	return b.String()
}
