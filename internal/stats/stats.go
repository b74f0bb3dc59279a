// Package stats aggregates recorded runs into summary metrics.
package stats

import (
	"sort"
	"strings"

	"github.com/suykerbuyk/recap/internal/index"
)

// Summary holds aggregate metrics computed from run history.
type Summary struct {
	TotalRuns      int
	TotalAdditions int
	TotalDeletions int
	TotalFiles     int
	TotalCommits   int
	ActiveProjects int

	AvgFilesPerRun float64
	AvgLinesPerRun float64

	Projects  []ProjectStats
	Kinds     []KindStats
	Narrators []NarratorStats
	Tags      []TagStats
	TopFiles  []FileStats
	Monthly   []MonthStats
}

// ProjectStats holds per-project aggregate metrics.
type ProjectStats struct {
	Name      string
	Runs      int
	Additions int
	Deletions int
}

// KindStats holds per-language run counts.
type KindStats struct {
	Name string
	Runs int
}

// NarratorStats counts runs by who wrote the narrative.
type NarratorStats struct {
	Name string
	Runs int
}

// TagStats holds per-tag counts.
type TagStats struct {
	Name    string
	Count   int
	Percent float64
}

// FileStats holds per-file run counts.
type FileStats struct {
	Path string
	Runs int
}

// MonthStats holds per-month aggregate metrics.
type MonthStats struct {
	Month     string // YYYY-MM
	Runs      int
	Additions int
	Deletions int
}

// Compute builds a Summary from history entries, optionally filtered by project.
func Compute(entries []index.Entry, project string) Summary {
	var s Summary

	projectMap := make(map[string]*ProjectStats)
	kindMap := make(map[string]int)
	narratorMap := make(map[string]int)
	tagMap := make(map[string]int)
	fileMap := make(map[string]int)
	monthMap := make(map[string]*MonthStats)

	for _, e := range entries {
		if project != "" && e.Project != project {
			continue
		}
		a := e.Analysis

		s.TotalRuns++
		s.TotalAdditions += a.TotalAdditions
		s.TotalDeletions += a.TotalDeletions
		s.TotalFiles += a.FileCount()
		s.TotalCommits += len(a.CommitMessages)

		ps, ok := projectMap[e.Project]
		if !ok {
			ps = &ProjectStats{Name: e.Project}
			projectMap[e.Project] = ps
		}
		ps.Runs++
		ps.Additions += a.TotalAdditions
		ps.Deletions += a.TotalDeletions

		kind := e.Kind
		if kind == "" {
			kind = "unknown"
		}
		kindMap[kind]++

		narrator := e.NarratedBy
		if narrator == "" {
			narrator = "heuristic"
		}
		narratorMap[narrator]++

		if e.Tag != "" {
			tagMap[e.Tag]++
		}

		for _, group := range [][]string{a.FilesChanged, a.FilesAdded, a.FilesDeleted} {
			for _, f := range group {
				fileMap[f]++
			}
		}

		if !e.CreatedAt.IsZero() {
			month := e.CreatedAt.UTC().Format("2006-01")
			mm, ok := monthMap[month]
			if !ok {
				mm = &MonthStats{Month: month}
				monthMap[month] = mm
			}
			mm.Runs++
			mm.Additions += a.TotalAdditions
			mm.Deletions += a.TotalDeletions
		}
	}

	s.ActiveProjects = len(projectMap)

	if s.TotalRuns > 0 {
		s.AvgFilesPerRun = float64(s.TotalFiles) / float64(s.TotalRuns)
		s.AvgLinesPerRun = float64(s.TotalAdditions+s.TotalDeletions) / float64(s.TotalRuns)
	}

	// Sort projects by runs desc
	for _, ps := range projectMap {
		s.Projects = append(s.Projects, *ps)
	}
	sort.Slice(s.Projects, func(i, j int) bool {
		if s.Projects[i].Runs != s.Projects[j].Runs {
			return s.Projects[i].Runs > s.Projects[j].Runs
		}
		return strings.ToLower(s.Projects[i].Name) < strings.ToLower(s.Projects[j].Name)
	})

	for name, n := range kindMap {
		s.Kinds = append(s.Kinds, KindStats{Name: name, Runs: n})
	}
	sort.Slice(s.Kinds, func(i, j int) bool {
		if s.Kinds[i].Runs != s.Kinds[j].Runs {
			return s.Kinds[i].Runs > s.Kinds[j].Runs
		}
		return s.Kinds[i].Name < s.Kinds[j].Name
	})

	for name, n := range narratorMap {
		s.Narrators = append(s.Narrators, NarratorStats{Name: name, Runs: n})
	}
	sort.Slice(s.Narrators, func(i, j int) bool {
		if s.Narrators[i].Runs != s.Narrators[j].Runs {
			return s.Narrators[i].Runs > s.Narrators[j].Runs
		}
		return s.Narrators[i].Name < s.Narrators[j].Name
	})

	// Sort tags by count desc
	taggedRuns := 0
	for _, count := range tagMap {
		taggedRuns += count
	}
	for name, count := range tagMap {
		pct := 0.0
		if taggedRuns > 0 {
			pct = float64(count) / float64(taggedRuns) * 100
		}
		s.Tags = append(s.Tags, TagStats{Name: name, Count: count, Percent: pct})
	}
	sort.Slice(s.Tags, func(i, j int) bool {
		if s.Tags[i].Count != s.Tags[j].Count {
			return s.Tags[i].Count > s.Tags[j].Count
		}
		return strings.ToLower(s.Tags[i].Name) < strings.ToLower(s.Tags[j].Name)
	})

	// Files touched by several runs are churn hot spots.
	threshold := 5
	if project != "" {
		threshold = 2
	}
	for path, count := range fileMap {
		if count >= threshold {
			s.TopFiles = append(s.TopFiles, FileStats{Path: path, Runs: count})
		}
	}
	sort.Slice(s.TopFiles, func(i, j int) bool {
		if s.TopFiles[i].Runs != s.TopFiles[j].Runs {
			return s.TopFiles[i].Runs > s.TopFiles[j].Runs
		}
		return s.TopFiles[i].Path < s.TopFiles[j].Path
	})

	// Sort months recent-first, cap at 6
	for _, mm := range monthMap {
		s.Monthly = append(s.Monthly, *mm)
	}
	sort.Slice(s.Monthly, func(i, j int) bool {
		return s.Monthly[i].Month > s.Monthly[j].Month
	})
	if len(s.Monthly) > 6 {
		s.Monthly = s.Monthly[:6]
	}

	return s
}
