package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// Config holds all recap configuration.
type Config struct {
	StateDir string `toml:"state_dir"`

	Analysis AnalysisConfig `toml:"analysis"`
	Narrator NarratorConfig `toml:"narrator"`
	History  HistoryConfig  `toml:"history"`
	Archive  ArchiveConfig  `toml:"archive"`
	Hook     HookConfig     `toml:"hook"`
}

type AnalysisConfig struct {
	LookBack           int    `toml:"look_back"`
	Detail             string `toml:"detail"`
	Backend            string `toml:"backend"`
	GitTimeoutSeconds  int    `toml:"git_timeout_seconds"`
	IncludeWorkingTree bool   `toml:"include_working_tree"`
}

type NarratorConfig struct {
	Enabled        bool   `toml:"enabled"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	APIKeyEnv      string `toml:"api_key_env"`
	BaseURL        string `toml:"base_url"`
}

type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

type ArchiveConfig struct {
	Enabled bool `toml:"enabled"`
}

type HookConfig struct {
	// LogDir holds hook.json and chat.json. Empty means <state_dir>/logs.
	LogDir string `toml:"log_dir"`
}

// Provider names accepted by narrator.provider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Backend names accepted by analysis.backend.
const (
	BackendGit   = "git"
	BackendGoGit = "gogit"
)

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		StateDir: "~/.local/state/recap",
		Analysis: AnalysisConfig{
			LookBack:          1,
			Detail:            "medium",
			Backend:            BackendGit,
			GitTimeoutSeconds:  5,
			IncludeWorkingTree: true,
		},
		Narrator: NarratorConfig{
			Enabled:        false,
			TimeoutSeconds: 10,
			Provider:       ProviderOpenAI,
			Model:          "grok-3-mini-fast",
			APIKeyEnv:      "XAI_API_KEY",
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Archive: ArchiveConfig{
			Enabled: true,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
// A .env file next to config.toml is loaded first; it never overrides
// variables already present in the environment.
func Load() (Config, error) {
	cfg := DefaultConfig()

	envPath := filepath.Join(ConfigDir(), ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return cfg, errors.Wrapf(err, "load %s", CompressHome(envPath))
		}
	}

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, errors.Wrapf(err, "parse config %s", p)
			}
			break
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	cfg.StateDir = expandHome(cfg.StateDir)
	cfg.Hook.LogDir = expandHome(cfg.Hook.LogDir)

	return cfg, nil
}

// applyEnv lets RECAP_* variables override file values.
func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("RECAP_LOOKBACK")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "RECAP_LOOKBACK=%q", v)
		}
		cfg.Analysis.LookBack = n
	}
	if v := strings.TrimSpace(os.Getenv("RECAP_DETAIL")); v != "" {
		cfg.Analysis.Detail = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("RECAP_BACKEND")); v != "" {
		cfg.Analysis.Backend = strings.ToLower(v)
	}
	return nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "recap", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "recap", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// ArchiveDir returns the directory holding compressed diff snapshots.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.StateDir, "archive")
}

// HookLogDir returns the directory for hook input logs and chat exports.
func (c Config) HookLogDir() string {
	if c.Hook.LogDir != "" {
		return c.Hook.LogDir
	}
	return filepath.Join(c.StateDir, "logs")
}

// HistoryPath returns the path of the run history database.
func (c Config) HistoryPath() string {
	return filepath.Join(c.StateDir, "history.db")
}
