package transcript

import (
	"encoding/json"
	"time"
)

// Entry is the part of one Claude Code transcript line that recap reads.
// The full line is kept verbatim in Transcript.Lines.
type Entry struct {
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
	Message   *Message  `json:"message,omitempty"`
}

// Message is the inner message object on user/assistant entries.
type Message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// Stats summarizes a parsed transcript.
type Stats struct {
	SessionID         string
	StartTime         time.Time
	EndTime           time.Time
	UserMessages      int
	AssistantMessages int
	// Invalid counts non-blank lines that were not valid JSON.
	Invalid int
}

// Transcript holds every valid line of a JSONL transcript, in file order.
type Transcript struct {
	Lines   []json.RawMessage
	Entries []Entry
	Stats   Stats
}
