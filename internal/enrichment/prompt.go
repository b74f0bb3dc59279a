package enrichment

import (
	"fmt"
	"strings"
)

const (
	maxDraftChars = 4000
	maxListItems  = 20
)

// PromptInput holds what the model may see about a run. It carries the
// extracted analysis and the heuristic draft, never diff text.
type PromptInput struct {
	Project  string
	Kind     string
	Detail   string
	LookBack int

	FilesChanged   []string
	FilesAdded     []string
	FilesDeleted   []string
	Additions      int
	Deletions      int
	CommitMessages []string
	KeyFunctions   []string
	ImportsAdded   []string
	ConfigChanges  []string
	TestChanges    []string

	// Heuristic output for the model to refine.
	Draft        string
	HeuristicTag string
}

const systemPrompt = `You rewrite short summaries of code changes made during a coding session.

Respond with valid JSON only. No markdown, no explanation. Schema:
{
  "summary": "2-4 sentences. Past tense. Outcome-focused. What changed and why it matters.",
  "tag": "one of: feat, fix, refactor, docs, test, chore, perf, style, build, ci"
}

Rules:
- summary: Refine the draft rather than replace it. Do not invent files, functions or libraries that are not listed.
- Mention the project by name only if it helps the reader.
- tag: Classify the primary change. Exactly one tag.`

func buildMessages(input PromptInput) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserPrompt(input)},
	}
}

func buildUserPrompt(input PromptInput) string {
	var b strings.Builder

	b.WriteString("## Run Metadata\n")
	if input.Project != "" {
		fmt.Fprintf(&b, "- Project: %s\n", input.Project)
	}
	if input.Kind != "" {
		fmt.Fprintf(&b, "- Language: %s\n", input.Kind)
	}
	fmt.Fprintf(&b, "- Commits covered: %d\n", input.LookBack)
	fmt.Fprintf(&b, "- Lines: +%d/-%d\n", input.Additions, input.Deletions)
	if input.Detail != "" {
		fmt.Fprintf(&b, "- Detail: %s\n", input.Detail)
	}

	writeList(&b, "Commit Messages", input.CommitMessages)
	writeList(&b, "Files Changed", input.FilesChanged)
	writeList(&b, "Files Added", input.FilesAdded)
	writeList(&b, "Files Deleted", input.FilesDeleted)
	writeList(&b, "Key Functions", input.KeyFunctions)
	writeList(&b, "Imports Added", input.ImportsAdded)
	writeList(&b, "Configuration Changes", input.ConfigChanges)
	writeList(&b, "Test Changes", input.TestChanges)

	if input.Draft != "" || input.HeuristicTag != "" {
		b.WriteString("\n## Heuristic Draft\n")
		b.WriteString("The following was generated heuristically. Refine rather than replace.\n")
		if input.HeuristicTag != "" {
			fmt.Fprintf(&b, "- Tag: %s\n", input.HeuristicTag)
		}
		if input.Draft != "" {
			b.WriteString("\n")
			b.WriteString(truncate(input.Draft, maxDraftChars))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n", title)
	limit := min(len(items), maxListItems)
	for _, item := range items[:limit] {
		fmt.Fprintf(b, "- %s\n", item)
	}
	if len(items) > maxListItems {
		fmt.Fprintf(b, "- ... and %d more\n", len(items)-maxListItems)
	}
}

func truncate(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}

	// Try to break at a newline before the limit
	truncated := text[:maxChars]
	if idx := strings.LastIndex(truncated, "\n"); idx > maxChars/2 {
		truncated = truncated[:idx]
	}

	return truncated + "\n[...truncated]"
}
