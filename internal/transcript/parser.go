// Package transcript reads Claude Code JSONL transcripts and exports them
// as a single JSON array.
package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// ParseFile reads and parses a Claude Code JSONL transcript file.
func ParseFile(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open transcript")
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a JSONL transcript from r. Blank lines are ignored and
// lines that are not valid JSON are counted in Stats.Invalid and dropped.
func Parse(r io.Reader) (*Transcript, error) {
	t := &Transcript{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10MB max line

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			t.Stats.Invalid++
			continue
		}
		raw := make(json.RawMessage, len(line))
		copy(raw, line)
		t.Lines = append(t.Lines, raw)

		// Scalars and arrays are valid lines with no entry fields.
		var e Entry
		if err := json.Unmarshal(raw, &e); err == nil {
			t.Entries = append(t.Entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan transcript")
	}

	computeStats(t)
	return t, nil
}

func computeStats(t *Transcript) {
	s := &t.Stats
	for _, e := range t.Entries {
		if !e.Timestamp.IsZero() {
			if s.StartTime.IsZero() || e.Timestamp.Before(s.StartTime) {
				s.StartTime = e.Timestamp
			}
			if s.EndTime.IsZero() || e.Timestamp.After(s.EndTime) {
				s.EndTime = e.Timestamp
			}
		}
		if s.SessionID == "" && e.SessionID != "" {
			s.SessionID = e.SessionID
		}
		if e.Message == nil {
			continue
		}
		switch e.Message.Role {
		case "user":
			if !isToolResult(e.Message.Content) {
				s.UserMessages++
			}
		case "assistant":
			s.AssistantMessages++
		}
	}
}

// isToolResult reports whether user content carries a tool_result block
// rather than something the user typed.
func isToolResult(content json.RawMessage) bool {
	var blocks []struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(content, &blocks); err != nil {
		return false
	}
	for _, b := range blocks {
		if b.Type == "tool_result" {
			return true
		}
	}
	return false
}

// WriteJSON writes every line of t as one indented JSON array.
func WriteJSON(w io.Writer, t *Transcript) error {
	lines := t.Lines
	if lines == nil {
		lines = []json.RawMessage{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(lines), "encode transcript")
}

// Export parses the transcript at src and writes it to dst as a JSON
// array, replacing any previous export. The parent of dst is created.
func Export(src, dst string) (*Transcript, error) {
	t, err := ParseFile(src)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, errors.Wrap(err, "create export dir")
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, t); err != nil {
		return nil, err
	}
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return nil, errors.Wrap(err, "write export")
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return nil, errors.Wrap(err, "rename export")
	}
	return t, nil
}
