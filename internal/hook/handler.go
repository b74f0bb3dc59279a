// Package hook connects recap to Claude Code's hook events.
package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/config"
	"github.com/suykerbuyk/recap/internal/logging"
	"github.com/suykerbuyk/recap/internal/session"
)

const stdinTimeout = 2 * time.Second

var completionMessages = []string{
	"Work complete!",
	"All done!",
	"Task finished!",
	"Job complete!",
	"Ready for next task!",
}

// pickCompletion chooses the greeting that opens the hook's output line.
var pickCompletion = func(msgs []string) string {
	return msgs[rand.IntN(len(msgs))]
}

// Input is the JSON object Claude Code sends to hooks via stdin.
type Input struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	HookEventName  string `json:"hook_event_name"`
	CWD            string `json:"cwd"`
	StopHookActive bool   `json:"stop_hook_active,omitempty"`
	Reason         string `json:"reason,omitempty"`

	// raw is the payload as received, fields recap ignores included.
	raw json.RawMessage
}

// Options are the command-line switches of "recap hook".
type Options struct {
	// Event overrides hook_event_name from stdin.
	Event string
	// Chat exports the session transcript to chat.json in the log dir.
	Chat bool
}

// Handle reads hook input from stdin and processes it. Progress lines go
// to stderr; Claude Code shows them to the user without feeding them back
// to the model.
func Handle(ctx context.Context, cfg config.Config, opts Options, logger *zap.Logger) error {
	input, err := readInput(os.Stdin, stdinTimeout)
	if err != nil {
		return errors.Wrap(err, "read stdin")
	}
	return handleInput(ctx, input, opts, cfg, logger, os.Stderr)
}

func handleInput(ctx context.Context, input *Input, opts Options, cfg config.Config, logger *zap.Logger, out io.Writer) error {
	logger = logging.OrNop(logger)

	// Use event override if provided (e.g., --event Stop)
	if opts.Event != "" {
		input.HookEventName = opts.Event
	}

	logDir := cfg.HookLogDir()
	if err := appendInputLog(filepath.Join(logDir, inputLogName), input); err != nil {
		logger.Warn("log hook input", zap.Error(err))
	}
	if opts.Chat {
		exportChat(input, filepath.Join(logDir, chatExportName), logger)
	}

	// Skip context clears and re-entrant stops
	if input.Reason == "clear" || input.StopHookActive {
		logger.Debug("ignoring hook input",
			zap.String("reason", input.Reason),
			zap.Bool("stop_hook_active", input.StopHookActive))
		return nil
	}

	switch input.HookEventName {
	case "Stop", "SessionEnd", "":
		return handleStop(ctx, input, cfg, logger, out)
	case "SubagentStop":
		return nil
	default:
		return errors.Newf("unknown hook event: %s", input.HookEventName)
	}
}

// readInput reads all of r, giving up after timeout.
func readInput(r io.Reader, timeout time.Duration) (*Input, error) {
	done := make(chan []byte, 1)
	errCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(r)
		if err != nil {
			errCh <- err
			return
		}
		done <- data
	}()

	var data []byte
	select {
	case data = <-done:
	case err := <-errCh:
		return nil, err
	case <-time.After(timeout):
		return nil, errors.New("stdin read timeout")
	}

	if len(data) == 0 {
		return nil, errors.New("empty stdin")
	}

	var input Input
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, errors.Wrap(err, "parse stdin JSON")
	}
	input.raw = json.RawMessage(data)

	return &input, nil
}

func handleStop(ctx context.Context, input *Input, cfg config.Config, logger *zap.Logger, out io.Writer) error {
	logger.Debug("hook event",
		zap.String("event", input.HookEventName),
		zap.String("session_id", input.SessionID),
		zap.String("cwd", input.CWD))

	result, err := session.Run(ctx, cfg, session.Options{
		CWD:      input.CWD,
		LookBack: cfg.Analysis.LookBack,
		Detail:   cfg.Analysis.Detail,
		Rewrite:  cfg.Narrator.Enabled,
		Logger:   logger,
	})
	if err != nil {
		return errors.Wrap(err, "run recap")
	}

	fmt.Fprintf(out, "recap: %s %s\n", pickCompletion(completionMessages), result.Narrative)
	return nil
}
