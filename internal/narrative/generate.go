// Package narrative classifies touched files and writes a short,
// deterministic summary of a ChangeAnalysis.
package narrative

import (
	"fmt"
	"path"
	"strings"

	"github.com/suykerbuyk/recap/internal/analysis"
)

// NoChangesSentence is the whole narrative when nothing changed.
const NoChangesSentence = "No code changes detected in this session."

const (
	maxOpenerFiles    = 5
	maxListedFuncs    = 3
	maxLowLearnings   = 2
	maxReviewFiles    = 3
	maxReviewImports  = 2
	maxReviewConfigs  = 2
	reviewFuncsAbove  = 3
	maxReviewFuncs    = 2
	suggestTestsAbove = 2
)

var importCategories = map[string]string{
	"dataclasses": "data structures",
	"typing":      "data structures",
	"List":        "data structures",
	"Dict":        "data structures",
	"subprocess":  "system operations",
	"os":          "system operations",
	"sys":         "system operations",
	"re":          "text processing",
	"json":        "text processing",
}

// Generate writes the narrative for a, using purposes for the opener and
// review hints. It is a pure function of its arguments.
func Generate(a analysis.ChangeAnalysis, purposes *FilePurposeMap, detail Detail) string {
	if a.IsEmpty() {
		return NoChangesSentence
	}

	parts := []string{opener(a, purposes)}
	if learnings := Learnings(a, detail); len(learnings) > 0 {
		parts = append(parts, "Key learnings: "+strings.Join(learnings, "; ")+".")
	}
	if detail != Low {
		if recs := Recommendations(a, purposes); len(recs) > 0 {
			parts = append(parts, "Consider reviewing "+strings.Join(recs, "; ")+".")
		}
	}
	return strings.Join(parts, " ")
}

func opener(a analysis.ChangeAnalysis, purposes *FilePurposeMap) string {
	var files string
	if purposes.Len() > 0 {
		entries := purposes.Entries()
		if len(entries) > maxOpenerFiles {
			entries = entries[:maxOpenerFiles]
		}
		pairs := make([]string, 0, len(entries))
		for _, e := range entries {
			pairs = append(pairs, e.File+" - "+e.Purpose)
		}
		files = strings.Join(pairs, ", ")
	}

	var b strings.Builder
	if len(a.CommitMessages) > 0 {
		b.WriteString("Main task: ")
		b.WriteString(strings.TrimRight(a.CommitMessages[0], ". "))
		b.WriteString(". ")
		if files != "" {
			b.WriteString("I worked on these files: " + files + ".")
		} else {
			b.WriteString("I made changes to the codebase.")
		}
		return b.String()
	}
	if files != "" {
		return "In this session, I worked on these files: " + files + "."
	}
	return "In this session, I made changes to the codebase."
}

// Learnings lists the key-learning items. Low detail keeps the first two.
func Learnings(a analysis.ChangeAnalysis, detail Detail) []string {
	var items []string

	if n := len(a.KeyFunctionsChanged); n > 0 {
		shown := a.KeyFunctionsChanged
		if n > maxListedFuncs {
			shown = shown[:maxListedFuncs]
		}
		item := "worked with " + strings.Join(shown, ", ")
		if n > maxListedFuncs {
			item += fmt.Sprintf(" (+%d more)", n-maxListedFuncs)
		}
		items = append(items, item)
	}

	if len(a.ImportsAdded) > 0 {
		names := make([]string, 0, len(a.ImportsAdded))
		for _, imp := range a.ImportsAdded {
			if cat, ok := importCategories[imp]; ok {
				names = append(names, fmt.Sprintf("%s for %s", imp, cat))
			} else {
				names = append(names, imp)
			}
		}
		items = append(items, "introduced "+strings.Join(names, ", "))
	}

	if len(a.ConfigChanges) > 0 {
		items = append(items, "adjusted configuration in "+strings.Join(basenames(a.ConfigChanges), ", "))
	}

	switch {
	case len(a.TestChanges) > 0:
		items = append(items, "updated tests in "+strings.Join(basenames(a.TestChanges), ", "))
	case a.FileCount() > suggestTestsAbove:
		items = append(items, "consider adding tests for these changes")
	}

	if detail == Low && len(items) > maxLowLearnings {
		items = items[:maxLowLearnings]
	}
	return items
}

// Recommendations lists the "consider reviewing" hints.
func Recommendations(a analysis.ChangeAnalysis, purposes *FilePurposeMap) []string {
	var recs []string

	var key []string
	for _, e := range purposes.Entries() {
		if len(key) == maxReviewFiles {
			break
		}
		if isKeyPurpose(e.Purpose) {
			key = append(key, e.File)
		}
	}
	if len(key) > 0 {
		recs = append(recs, "the key files "+strings.Join(key, ", "))
	}

	if len(a.KeyFunctionsChanged) > reviewFuncsAbove {
		recs = append(recs, "how the new functions ("+strings.Join(a.KeyFunctionsChanged[:maxReviewFuncs], ", ")+") work")
	}

	if len(a.ImportsAdded) > 0 {
		imps := a.ImportsAdded
		if len(imps) > maxReviewImports {
			imps = imps[:maxReviewImports]
		}
		recs = append(recs, "the documentation for "+strings.Join(imps, " and "))
	}

	if len(a.ConfigChanges) > 0 {
		cfgs := basenames(a.ConfigChanges)
		if len(cfgs) > maxReviewConfigs {
			cfgs = cfgs[:maxReviewConfigs]
		}
		recs = append(recs, "the configuration changes in "+strings.Join(cfgs, ", "))
	}
	return recs
}

func isKeyPurpose(p string) bool {
	for _, marker := range []string{"created", "API", "model", "configuration"} {
		if strings.Contains(p, marker) {
			return true
		}
	}
	return false
}

func basenames(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, path.Base(p))
	}
	return out
}
