package main

import (
	"github.com/suykerbuyk/recap/internal/index"
	"github.com/suykerbuyk/recap/internal/narrative"
	"github.com/suykerbuyk/recap/internal/render"
	"github.com/suykerbuyk/recap/internal/session"
)

func reportFromResult(res *session.Result) render.Report {
	r := render.Report{
		RunID:       res.RunID,
		Project:     res.Project,
		Kind:        res.Kind.String(),
		Head:        res.Head,
		LookBack:    res.LookBack,
		Detail:      res.Detail.String(),
		Headline:    res.Headline,
		Tag:         res.Tag,
		CreatedAt:   res.CreatedAt,
		Analysis:    res.Analysis,
		Narrative:   res.Narrative,
		NarratedBy:  res.NarratedBy,
		ArchivePath: res.ArchivePath,
		Skipped:     res.Skipped,
		Reason:      res.Reason,
	}
	if res.Purposes != nil {
		r.Purposes = res.Purposes.Entries()
	}
	return r
}

// reportFromEntry rebuilds a report from history. File purposes are not
// stored; they are a pure function of the analysis.
func reportFromEntry(e index.Entry) render.Report {
	return render.Report{
		RunID:       e.RunID,
		Project:     e.Project,
		Kind:        e.Kind,
		Head:        e.Head,
		LookBack:    e.LookBack,
		Detail:      e.Detail,
		Headline:    e.Headline,
		Tag:         e.Tag,
		CreatedAt:   e.CreatedAt,
		Analysis:    e.Analysis,
		Purposes:    narrative.ClassifyFiles(e.Analysis).Entries(),
		Narrative:   e.Narrative,
		NarratedBy:  e.NarratedBy,
		ArchivePath: e.ArchivePath,
	}
}
