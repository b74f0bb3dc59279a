package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/suykerbuyk/recap/internal/analysis"
	"github.com/suykerbuyk/recap/internal/narrative"
)

func sampleReport() Report {
	a := analysis.Empty()
	a.FilesChanged = []string{"src/app.py"}
	a.FilesAdded = []string{"src/helper.py"}
	a.FilesDeleted = []string{"old.txt"}
	a.TotalAdditions = 12
	a.TotalDeletions = 4
	a.CommitMessages = []string{"feat: add profile lookup"}
	a.KeyFunctionsChanged = []string{"fetch_user (function)"}
	a.ImportsAdded = []string{"requests"}

	return Report{
		RunID:     "0f8fad5b-d9cb-469f-a165-70867728950e",
		Project:   "profiles",
		Kind:      "python",
		Head:      "4b825dc642cb6eb9a060e54bf8d69288fbee4904",
		LookBack:  1,
		Detail:    "medium",
		Headline:  `feat: add profile lookup (1+1 files, +12/-4)`,
		Tag:       "feat",
		CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Analysis:  a,
		Purposes: []narrative.FilePurpose{
			{File: "app.py", Purpose: "updated application logic"},
			{File: "helper.py", Purpose: "created utility helpers"},
		},
		Narrative:  "Main task: feat: add profile lookup.",
		NarratedBy: "openai:grok-3-mini-fast",
		Related: []RelatedRun{
			{RunID: "11111111-2222-3333-4444-555555555555", Headline: "feat: profile model", Score: 8, Reason: "2 shared files"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", FormatHuman, false},
		{"human", FormatHuman, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseFormat(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarkdown_AllFields(t *testing.T) {
	out := Markdown(sampleReport())

	checks := []string{
		"date: 2026-03-01",
		"type: recap",
		"project: profiles",
		`run_id: "0f8fad5b-d9cb-469f-a165-70867728950e"`,
		"head: 4b825dc642cb",
		"kind: python",
		"lookback: 1",
		"files: 3",
		"additions: 12",
		"deletions: 4",
		"tags: [recap, feat]",
		`headline: "feat: add profile lookup (1+1 files, +12/-4)"`,
		`related: ["11111111-2222-3333-4444-555555555555"]`,
		"# feat: add profile lookup (1+1 files, +12/-4)",
		"## What Happened\n\nMain task: feat: add profile lookup.",
		"- `app.py` updated application logic",
		"## Removed\n\n- `old.txt`",
		"## Commits\n\n- feat: add profile lookup",
		"## Key Functions\n\n- fetch_user (function)",
		"## New Imports\n\n- `requests`",
		"- `11111111` feat: profile model (2 shared files)",
		"narrated by openai:grok-3-mini-fast",
	}
	for _, c := range checks {
		if !strings.Contains(out, c) {
			t.Errorf("missing %q in output:\n%s", c, out)
		}
	}
}

func TestMarkdown_Minimal(t *testing.T) {
	r := Report{Project: "empty", Kind: "unknown", Analysis: analysis.Empty(), Narrative: narrative.NoChangesSentence, NarratedBy: "heuristic"}
	out := Markdown(r)

	if !strings.Contains(out, "tags: [recap]\n") {
		t.Error("expected bare recap tag")
	}
	if !strings.Contains(out, "# empty\n") {
		t.Error("title should fall back to project")
	}
	for _, absent := range []string{"date:", "run_id:", "head:", "## What Changed", "## Commits", "narrated by"} {
		if strings.Contains(out, absent) {
			t.Errorf("unexpected %q in minimal output", absent)
		}
	}
}

func TestMarkdown_EscapesHeadline(t *testing.T) {
	r := Report{Project: "p", Headline: `fix: handle "quoted" path`}
	out := Markdown(r)
	if !strings.Contains(out, `headline: "fix: handle \"quoted\" path"`) {
		t.Errorf("headline not escaped:\n%s", out)
	}
}

func TestMarkdown_Skipped(t *testing.T) {
	out := Markdown(Report{Project: "p", Skipped: true, Reason: "no new commits since last run"})
	if !strings.Contains(out, "_Skipped: no new commits since last run_") {
		t.Errorf("missing skip line:\n%s", out)
	}
	if strings.Contains(out, "## What Happened") {
		t.Error("skipped report should not render a narrative")
	}
}

func TestJSON_SnakeCaseKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleReport()); err != nil {
		t.Fatal(err)
	}

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"project", "kind", "analysis", "file_purposes", "narrative", "narrated_by", "related"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
	an := m["analysis"].(map[string]any)
	for _, k := range []string{"files_changed", "files_added", "files_deleted", "total_additions", "key_functions_changed", "imports_added", "config_changes", "test_changes"} {
		if _, ok := an[k]; !ok {
			t.Errorf("missing analysis key %q", k)
		}
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, sampleReport()); err != nil {
		t.Fatal(err)
	}
	var back Report
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back.Project != "profiles" || back.Analysis.TotalAdditions != 12 {
		t.Errorf("unexpected decode: %+v", back)
	}
	if len(back.Purposes) != 2 || back.Purposes[1].File != "helper.py" {
		t.Errorf("purposes = %+v", back.Purposes)
	}
}

func TestHuman(t *testing.T) {
	out := Human(sampleReport())
	for _, c := range []string{"profiles (python)", "4b825dc642cb", "#feat", "3 files", "+12", "-4", "Main task: feat: add profile lookup.", "app.py", "fetch_user (function)", "11111111", "narrated by openai:grok-3-mini-fast"} {
		if !strings.Contains(out, c) {
			t.Errorf("missing %q in human output:\n%s", c, out)
		}
	}
}

func TestHuman_Skipped(t *testing.T) {
	out := Human(Report{Project: "p", Skipped: true, Reason: "no new commits"})
	if !strings.Contains(out, "skipped: no new commits") {
		t.Errorf("missing skip reason: %q", out)
	}
}

func TestWriteList(t *testing.T) {
	rs := []Report{sampleReport()}

	var md bytes.Buffer
	if err := WriteList(&md, FormatMarkdown, rs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(md.String(), "| `0f8fad5b` | profiles | feat |") {
		t.Errorf("markdown list:\n%s", md.String())
	}

	var js bytes.Buffer
	if err := WriteList(&js, FormatJSON, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(js.String()) != "[]" {
		t.Errorf("empty json list = %q", js.String())
	}

	if !strings.Contains(HumanList(nil), "no runs recorded") {
		t.Error("empty human list should say so")
	}
	if !strings.Contains(HumanList(rs), "0f8fad5b") {
		t.Error("human list should show short run id")
	}
}
