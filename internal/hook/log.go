package hook

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/transcript"
)

const (
	inputLogName   = "hook.json"
	chatExportName = "chat.json"
)

// appendInputLog adds the hook payload to the JSON array at path. A
// missing or unreadable log starts a new array.
func appendInputLog(path string, input *Input) error {
	payload := input.raw
	if len(payload) == 0 {
		b, err := json.Marshal(input)
		if err != nil {
			return errors.Wrap(err, "encode hook input")
		}
		payload = b
	}

	var entries []json.RawMessage
	if data, err := os.ReadFile(path); err == nil {
		if json.Unmarshal(data, &entries) != nil {
			entries = nil
		}
	}
	entries = append(entries, payload)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return errors.Wrap(err, "encode hook log")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create log dir")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "write hook log")
	}
	return errors.Wrap(os.Rename(tmp, path), "rename hook log")
}

// exportChat copies the session transcript to dst. Failures are logged,
// never returned.
func exportChat(input *Input, dst string, logger *zap.Logger) {
	if input.TranscriptPath == "" {
		logger.Debug("no transcript to export")
		return
	}
	if _, err := os.Stat(input.TranscriptPath); err != nil {
		logger.Debug("transcript not found", zap.String("path", input.TranscriptPath))
		return
	}
	t, err := transcript.Export(input.TranscriptPath, dst)
	if err != nil {
		logger.Warn("export transcript", zap.Error(err))
		return
	}
	logger.Debug("exported transcript",
		zap.String("dest", dst),
		zap.Int("lines", len(t.Lines)),
		zap.Int("invalid", t.Stats.Invalid),
		zap.Int("user_messages", t.Stats.UserMessages))
}
