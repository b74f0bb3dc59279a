package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// ConfigDir returns the recap config directory path.
// Uses $XDG_CONFIG_HOME/recap if set, otherwise ~/.config/recap.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "recap")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "recap")
}

// WriteDefault writes a default config.toml using stateDir.
// Returns the config file path. Skips if config.toml already exists.
func WriteDefault(stateDir string) (string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create config dir")
	}

	portablePath := CompressHome(stateDir)

	content := fmt.Sprintf(`state_dir = %q

[analysis]
look_back = 1
detail = "medium"
backend = "git"
git_timeout_seconds = 5
# compare the working tree, not HEAD, against HEAD~look_back
include_working_tree = true

[narrator]
enabled = false
timeout_seconds = 10
# openai (any OpenAI-compatible endpoint) or gemini
provider = "openai"
model = "grok-3-mini-fast"
api_key_env = "XAI_API_KEY"
# empty uses the provider default
base_url = ""

[history]
enabled = true

[archive]
enabled = true

[hook]
# empty uses <state_dir>/logs
log_dir = ""
`, portablePath)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, "write config")
	}

	return path, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
