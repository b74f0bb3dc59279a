// Package render formats recap runs for humans and machines.
package render

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/suykerbuyk/recap/internal/analysis"
	"github.com/suykerbuyk/recap/internal/narrative"
)

// Version is stamped into markdown footers.
var Version = "dev"

// Format selects an output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHuman    Format = "human"
)

// ParseFormat reads a --format value. "md" and "yml" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "human", "text":
		return FormatHuman, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", errors.Newf("unknown format %q (want json, yaml, markdown or human)", s)
	}
}

// RelatedRun is a prior run linked to a report.
type RelatedRun struct {
	RunID    string `json:"run_id" yaml:"run_id"`
	Headline string `json:"headline" yaml:"headline"`
	Score    int    `json:"score" yaml:"score"`
	Reason   string `json:"reason" yaml:"reason"`
}

// Report is everything a formatter may show about one run.
type Report struct {
	RunID       string                  `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Project     string                  `json:"project" yaml:"project"`
	Kind        string                  `json:"kind" yaml:"kind"`
	Head        string                  `json:"head,omitempty" yaml:"head,omitempty"`
	LookBack    int                     `json:"lookback" yaml:"lookback"`
	Detail      string                  `json:"detail" yaml:"detail"`
	Headline    string                  `json:"headline" yaml:"headline"`
	Tag         string                  `json:"tag,omitempty" yaml:"tag,omitempty"`
	CreatedAt   time.Time               `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Analysis    analysis.ChangeAnalysis `json:"analysis" yaml:"analysis"`
	Purposes    []narrative.FilePurpose `json:"file_purposes" yaml:"file_purposes"`
	Narrative   string                  `json:"narrative" yaml:"narrative"`
	NarratedBy  string                  `json:"narrated_by" yaml:"narrated_by"`
	ArchivePath string                  `json:"archive_path,omitempty" yaml:"archive_path,omitempty"`
	Skipped     bool                    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Reason      string                  `json:"reason,omitempty" yaml:"reason,omitempty"`
	Related     []RelatedRun            `json:"related,omitempty" yaml:"related,omitempty"`
}

// Write renders r to w in format f.
func Write(w io.Writer, f Format, r Report) error {
	switch f {
	case FormatJSON:
		return JSON(w, r)
	case FormatYAML:
		return YAML(w, r)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	default:
		_, err := io.WriteString(w, Human(r))
		return err
	}
}

// WriteList renders several runs, newest first as given.
func WriteList(w io.Writer, f Format, rs []Report) error {
	if rs == nil {
		rs = []Report{}
	}
	switch f {
	case FormatJSON:
		return JSON(w, rs)
	case FormatYAML:
		return YAML(w, rs)
	case FormatMarkdown:
		_, err := io.WriteString(w, MarkdownList(rs))
		return err
	default:
		_, err := io.WriteString(w, HumanList(rs))
		return err
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode json")
}

// YAML writes v as a YAML document.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	return errors.Wrap(enc.Close(), "encode yaml")
}
