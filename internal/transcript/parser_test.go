package transcript

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testTranscript = `{"type":"file-history-snapshot","uuid":"aaa","timestamp":"2026-02-22T10:00:00Z","sessionId":"test-session","cwd":"/home/user/myproject"}
{"type":"user","uuid":"bbb","timestamp":"2026-02-22T10:00:01Z","sessionId":"test-session","message":{"role":"user","content":"Implement the login page"}}
{"type":"assistant","uuid":"ccc","timestamp":"2026-02-22T10:00:05Z","sessionId":"test-session","message":{"role":"assistant","content":[{"type":"text","text":"I'll implement the login page."},{"type":"tool_use","id":"toolu_1","name":"Write","input":{"file_path":"src/login.tsx"}}]}}
{"type":"user","uuid":"ddd","timestamp":"2026-02-22T10:00:10Z","sessionId":"test-session","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"toolu_1","content":"File written successfully"}]}}
{"type":"assistant","uuid":"eee","timestamp":"2026-02-22T10:00:15Z","sessionId":"test-session","message":{"role":"assistant","content":[{"type":"text","text":"The login page has been created."}]}}

{"type":"user","uuid":"fff","timestamp":"2026-02-22T10:01:00Z","sessionId":"test-session","message":{"role":"user","content":"Thanks!"}}
{"type":"user", truncated
`

func TestParse(t *testing.T) {
	tr, err := Parse(strings.NewReader(testTranscript))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(tr.Lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(tr.Lines))
	}

	s := tr.Stats
	if s.SessionID != "test-session" {
		t.Errorf("session_id = %q, want %q", s.SessionID, "test-session")
	}
	if s.UserMessages != 2 { // "Implement..." and "Thanks!" (tool result not counted)
		t.Errorf("user_messages = %d, want 2", s.UserMessages)
	}
	if s.AssistantMessages != 2 {
		t.Errorf("assistant_messages = %d, want 2", s.AssistantMessages)
	}
	if s.Invalid != 1 {
		t.Errorf("invalid = %d, want 1", s.Invalid)
	}
	if got := s.EndTime.Sub(s.StartTime).Seconds(); got != 60 {
		t.Errorf("span = %vs, want 60s", got)
	}
}

func TestParse_KeepsLinesVerbatim(t *testing.T) {
	in := `{"type":"custom","extra":{"nested":[1,2,3]}}` + "\n" + `"just a string"` + "\n"
	tr, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(tr.Lines))
	}
	if string(tr.Lines[0]) != `{"type":"custom","extra":{"nested":[1,2,3]}}` {
		t.Errorf("line 0 = %s", tr.Lines[0])
	}
	if len(tr.Entries) != 1 {
		t.Errorf("entries = %d, want 1", len(tr.Entries))
	}
}

func TestWriteJSON_Empty(t *testing.T) {
	tr, err := Parse(strings.NewReader("\n\nnot json\n"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, tr); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("WriteJSON = %q, want []", buf.String())
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "session.jsonl")
	if err := os.WriteFile(src, []byte(testTranscript), 0o644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "logs", "chat.json")

	tr, err := Export(src, dst)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if tr.Stats.UserMessages != 2 {
		t.Errorf("user_messages = %d", tr.Stats.UserMessages)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("chat.json is not a JSON array: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("exported %d objects, want 6", len(got))
	}
	if got[0]["type"] != "file-history-snapshot" || got[5]["uuid"] != "fff" {
		t.Errorf("order not preserved: first=%v last=%v", got[0]["type"], got[5]["uuid"])
	}
	if !strings.Contains(string(data), "\n  {") {
		t.Error("export should be indented")
	}
	if _, err := os.Stat(dst + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestExport_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if _, err := Export(filepath.Join(dir, "nope.jsonl"), filepath.Join(dir, "chat.json")); err == nil {
		t.Error("expected error for missing transcript")
	}
	if _, err := os.Stat(filepath.Join(dir, "chat.json")); !os.IsNotExist(err) {
		t.Error("no export should be written")
	}
}
