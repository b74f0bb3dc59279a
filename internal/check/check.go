// Package check diagnoses a recap installation.
package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/recap/internal/config"
	"github.com/suykerbuyk/recap/internal/hook"
	"github.com/suykerbuyk/recap/internal/index"
	"github.com/suykerbuyk/recap/internal/project"
	"github.com/suykerbuyk/recap/internal/revision"
	"github.com/suykerbuyk/recap/internal/session"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "recap check\n\n  no checks ran\n"
	}

	// Find max name length for alignment.
	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("recap check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the resolved config path. Broken TOML is caught when
// the config loads, before any check runs.
func CheckConfig() Result {
	cfgPath := filepath.Join(config.ConfigDir(), "config.toml")
	if _, err := os.Stat(cfgPath); err != nil {
		return Result{Name: "config", Status: Pass, Detail: "defaults (" + config.CompressHome(cfgPath) + " not found)"}
	}
	return Result{
		Name:   "config",
		Status: Pass,
		Detail: config.CompressHome(cfgPath),
	}
}

// CheckBackend checks that the configured revision backend can run.
func CheckBackend(acfg config.AnalysisConfig) Result {
	switch strings.ToLower(strings.TrimSpace(acfg.Backend)) {
	case "", config.BackendGit:
		if revision.Available() {
			return Result{Name: "backend", Status: Pass, Detail: "git CLI"}
		}
		return Result{Name: "backend", Status: Fail, Detail: "git not found on PATH (set analysis.backend = \"gogit\")"}
	case config.BackendGoGit:
		detail := "go-git (in-process)"
		if acfg.IncludeWorkingTree {
			return Result{Name: "backend", Status: Warn, Detail: detail + ", include_working_tree ignored"}
		}
		return Result{Name: "backend", Status: Pass, Detail: detail}
	default:
		return Result{Name: "backend", Status: Fail, Detail: fmt.Sprintf("unknown backend %q", acfg.Backend)}
	}
}

// CheckRepository checks that cwd sits inside a repository with history.
// It returns the resolved root, or cwd when there is none.
func CheckRepository(ctx context.Context, q revision.Querier, cwd string) (Result, string) {
	root := q.Root(ctx)
	if root == "" {
		return Result{Name: "repository", Status: Warn, Detail: config.CompressHome(cwd) + " is not inside a git repository"}, cwd
	}
	head := q.Head(ctx)
	if head == "" {
		return Result{Name: "repository", Status: Warn, Detail: config.CompressHome(root) + " (no commits yet)"}, root
	}
	if len(head) > 12 {
		head = head[:12]
	}
	return Result{Name: "repository", Status: Pass, Detail: fmt.Sprintf("%s @ %s", config.CompressHome(root), head)}, root
}

// CheckProjectKind reports the detected language of root.
func CheckProjectKind(root string) Result {
	kind := project.Detect(root)
	if kind == project.Unknown {
		return Result{Name: "kind", Status: Warn, Detail: "unknown (no manifest found, function extraction disabled)"}
	}
	return Result{Name: "kind", Status: Pass, Detail: kind.String()}
}

// CheckStateDir checks whether the state directory exists.
func CheckStateDir(stateDir string) Result {
	if info, err := os.Stat(stateDir); err == nil && info.IsDir() {
		return Result{Name: "state", Status: Pass, Detail: config.CompressHome(stateDir)}
	}
	return Result{Name: "state", Status: Warn, Detail: config.CompressHome(stateDir) + " not found (created on first run)"}
}

// CheckHistory opens the run history database and reports its size.
func CheckHistory(ctx context.Context, cfg config.Config) Result {
	if !cfg.History.Enabled {
		return Result{Name: "history", Status: Pass, Detail: "disabled"}
	}
	if _, err := os.Stat(cfg.HistoryPath()); err != nil {
		return Result{Name: "history", Status: Warn, Detail: index.DBName + " not found yet"}
	}

	idx, err := index.Open(cfg.StateDir, nil)
	if err != nil {
		return Result{Name: "history", Status: Fail, Detail: fmt.Sprintf("%s unreadable: %v", index.DBName, err)}
	}
	defer idx.Close()

	n, err := idx.Count(ctx)
	if err != nil {
		return Result{Name: "history", Status: Fail, Detail: fmt.Sprintf("%s unreadable: %v", index.DBName, err)}
	}
	return Result{Name: "history", Status: Pass, Detail: fmt.Sprintf("%s (%d runs)", index.DBName, n)}
}

// CheckNarrator checks narrator rewrite configuration.
func CheckNarrator(ncfg config.NarratorConfig) Result {
	if !ncfg.Enabled {
		return Result{Name: "narrator", Status: Pass, Detail: "disabled"}
	}
	provider := strings.ToLower(strings.TrimSpace(ncfg.Provider))
	if provider == "" {
		provider = config.ProviderOpenAI
	}
	if provider != config.ProviderOpenAI && provider != config.ProviderGemini {
		return Result{Name: "narrator", Status: Fail, Detail: fmt.Sprintf("unknown provider %q", ncfg.Provider)}
	}
	keyEnv := ncfg.APIKeyEnv
	if keyEnv == "" {
		return Result{Name: "narrator", Status: Fail, Detail: provider + ": api_key_env not set"}
	}
	if os.Getenv(keyEnv) != "" {
		return Result{Name: "narrator", Status: Pass, Detail: provider + ": " + keyEnv + " set"}
	}
	return Result{Name: "narrator", Status: Warn, Detail: provider + ": " + keyEnv + " not set"}
}

// CheckHook checks whether "recap hook" is configured in ~/.claude/settings.json.
func CheckHook() Result {
	path, err := hook.SettingsPath()
	if err != nil {
		return Result{Name: "hook", Status: Warn, Detail: "cannot determine home directory"}
	}
	return checkHookFile(path)
}

func checkHookFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Name: "hook", Status: Warn, Detail: config.CompressHome(path) + " not found"}
	}
	if strings.Contains(string(data), "recap hook") {
		return Result{Name: "hook", Status: Pass, Detail: "recap hook found in " + config.CompressHome(path)}
	}
	return Result{Name: "hook", Status: Fail, Detail: "recap hook not found in " + config.CompressHome(path)}
}

// Run executes all checks for the working tree at cwd and returns a report.
func Run(ctx context.Context, cfg config.Config, cwd string) Report {
	var results []Result

	results = append(results, CheckConfig())
	backend := CheckBackend(cfg.Analysis)
	results = append(results, backend)

	root := cwd
	if q, err := session.NewQuerier(cfg, cwd, nil); err == nil && backend.Status != Fail {
		var repo Result
		repo, root = CheckRepository(ctx, q, cwd)
		results = append(results, repo)
	}
	results = append(results, CheckProjectKind(root))
	results = append(results, CheckStateDir(cfg.StateDir))
	results = append(results, CheckHistory(ctx, cfg))
	results = append(results, CheckNarrator(cfg.Narrator))
	results = append(results, CheckHook())

	return Report{Results: results}
}
