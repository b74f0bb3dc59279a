package narrative

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Detail controls how much commentary Generate emits.
type Detail int

const (
	Low Detail = iota
	Medium
	High
)

func (d Detail) String() string {
	switch d {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "medium"
	}
}

// ParseDetail reads "low", "medium" or "high". The empty string is Medium.
func ParseDetail(s string) (Detail, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "", "medium":
		return Medium, nil
	case "high":
		return High, nil
	default:
		return Medium, errors.Newf("unknown detail level %q (want low, medium or high)", s)
	}
}

// Action is what happened to a file.
type Action int

const (
	Created Action = iota
	Modified
	Deleted
)

func (a Action) String() string {
	switch a {
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	default:
		return "modified"
	}
}

// verb is the past-tense word used in generic phrases.
func (a Action) verb() string {
	switch a {
	case Created:
		return "added"
	case Deleted:
		return "removed"
	default:
		return "updated"
	}
}

// FilePurpose pairs a basename with its purpose phrase.
type FilePurpose struct {
	File    string `json:"file" yaml:"file"`
	Purpose string `json:"purpose" yaml:"purpose"`
}

// FilePurposeMap maps basenames to purpose phrases. Iteration follows
// first insertion; a repeated Set keeps the slot and replaces the phrase.
type FilePurposeMap struct {
	order    []string
	purposes map[string]string
}

// NewFilePurposeMap returns an empty map.
func NewFilePurposeMap() *FilePurposeMap {
	return &FilePurposeMap{purposes: make(map[string]string)}
}

func (m *FilePurposeMap) Set(file, purpose string) {
	if _, ok := m.purposes[file]; !ok {
		m.order = append(m.order, file)
	}
	m.purposes[file] = purpose
}

func (m *FilePurposeMap) Get(file string) (string, bool) {
	if m == nil {
		return "", false
	}
	p, ok := m.purposes[file]
	return p, ok
}

func (m *FilePurposeMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Entries returns the pairs in iteration order.
func (m *FilePurposeMap) Entries() []FilePurpose {
	if m == nil {
		return []FilePurpose{}
	}
	out := make([]FilePurpose, 0, len(m.order))
	for _, f := range m.order {
		out = append(out, FilePurpose{File: f, Purpose: m.purposes[f]})
	}
	return out
}
