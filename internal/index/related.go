package index

import (
	"context"
	"sort"
	"strings"
)

const (
	relatedScanLimit = 200
	relatedMinScore  = 5
	relatedMax       = 3
)

// RelatedRun holds a related run and its relevance score.
type RelatedRun struct {
	Entry Entry
	Score int
}

// Related finds earlier runs of the same project that touched the same
// files, functions or topics as candidate. It excludes candidate itself
// and returns at most 3 results with a minimum score of 5.
func (idx *Index) Related(ctx context.Context, candidate Entry) ([]RelatedRun, error) {
	entries, err := idx.Recent(ctx, candidate.Project, relatedScanLimit)
	if err != nil {
		return nil, err
	}

	var results []RelatedRun
	for _, entry := range entries {
		if entry.RunID == candidate.RunID {
			continue
		}
		score := computeScore(candidate, entry)
		if score >= relatedMinScore {
			results = append(results, RelatedRun{Entry: entry, Score: score})
		}
	}

	// Sort by score descending, then newest first for ties
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.CreatedAt.After(results[j].Entry.CreatedAt)
	})

	if len(results) > relatedMax {
		results = results[:relatedMax]
	}
	return results, nil
}

func computeScore(candidate, other Entry) int {
	score := 0

	// Shared touched files: 3 per file, capped at 15
	fileScore := len(setIntersection(touched(candidate), touched(other))) * 3
	if fileScore > 15 {
		fileScore = 15
	}
	score += fileScore

	// Shared function names: 2 per name, capped at 10
	funcScore := len(setIntersection(functionNames(candidate), functionNames(other))) * 2
	if funcScore > 10 {
		funcScore = 10
	}
	score += funcScore

	// Commit subjects on the same topic
	score += subjectMatchScore(candidate.Analysis.CommitMessages, other.Analysis.CommitMessages) * 5

	// Same tag: 2 points
	if candidate.Tag != "" && candidate.Tag == other.Tag {
		score += 2
	}

	return score
}

func touched(e Entry) []string {
	a := e.Analysis
	out := make([]string, 0, a.FileCount())
	out = append(out, a.FilesChanged...)
	out = append(out, a.FilesAdded...)
	out = append(out, a.FilesDeleted...)
	return out
}

// functionNames strips the "(purpose)" suffix from key function entries.
func functionNames(e Entry) []string {
	var names []string
	for _, f := range e.Analysis.KeyFunctionsChanged {
		name, _, _ := strings.Cut(f, " (")
		names = append(names, name)
	}
	return names
}

// subjectMatchScore counts subjects with significant word overlap.
func subjectMatchScore(subjects, others []string) int {
	matches := 0
	for _, subject := range subjects {
		words := significantWords(subject)
		if len(words) == 0 {
			continue
		}
		for _, other := range others {
			overlap := len(setIntersection(words, significantWords(other)))
			if overlap >= 2 {
				matches++
				break // count each subject at most once
			}
		}
	}
	return matches
}

// significantWords extracts words >= 4 chars, lowercased, skipping stop words.
func significantWords(s string) []string {
	words := strings.Fields(strings.ToLower(s))
	var result []string
	for _, w := range words {
		// Strip punctuation from edges
		w = strings.Trim(w, ".,;:!?\"'`()[]{}—-")
		if len(w) >= 4 && !isStopWord(w) {
			result = append(result, w)
		}
	}
	return result
}

var stopWords = map[string]bool{
	"that": true, "this": true, "with": true, "from": true,
	"have": true, "been": true, "were": true, "will": true,
	"would": true, "could": true, "should": true, "what": true,
	"when": true, "where": true, "which": true, "their": true,
	"there": true, "these": true, "those": true, "them": true,
	"then": true, "than": true, "some": true, "also": true,
	"into": true, "each": true, "make": true, "like": true,
	"just": true, "over": true, "such": true, "only": true,
	"very": true, "more": true, "most": true, "other": true,
	"about": true, "after": true, "before": true, "being": true,
	"between": true, "does": true, "doing": true, "done": true,
}

func isStopWord(w string) bool {
	return stopWords[w]
}

// setIntersection returns elements present in both slices.
func setIntersection(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	var result []string
	for _, s := range b {
		if set[s] {
			result = append(result, s)
			delete(set, s) // avoid duplicates
		}
	}
	return result
}
