// Package help holds the recap command reference shared by --help output
// and the generated man pages.
package help

import "strings"

// Version is the recap release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--chat" or "--event <name>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string // e.g. "run-id"
	Desc     string
	Optional bool
}

// Command describes a recap subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string   // "analyze", "hook", etc; "" for top-level
	Synopsis    string   // one-line description (lowercase, for --help header)
	Brief       string   // short description for usage table (capitalized)
	Usage       string   // full usage line, e.g. "recap show <run-id>"
	TableUsage  string   // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
	SeeAlso     []string // man page cross-refs, e.g. "recap(1)"
}

// tableUsage returns TableUsage if set, otherwise Usage.
func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns the man page name: "recap" for top-level, "recap-<name>" for subs.
// Spaces in Name are replaced with hyphens.
func (c Command) ManName() string {
	if c.Name == "" {
		return "recap"
	}
	return "recap-" + strings.ReplaceAll(c.Name, " ", "-")
}

// FlagNames returns the bare long names of c's flags, e.g. "lookback".
func (c Command) FlagNames() []string {
	names := make([]string, 0, len(c.Flags))
	for _, f := range c.Flags {
		name := strings.TrimPrefix(f.Name, "--")
		if i := strings.IndexByte(name, ' '); i >= 0 {
			name = name[:i]
		}
		names = append(names, name)
	}
	return names
}

// Lookup returns the registered subcommand called name.
func Lookup(name string) (Command, bool) {
	for _, c := range Subcommands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// TopLevel is the top-level recap command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "summarize recent code changes",
}

// runFlags are shared by every command that runs the analysis pipeline.
var runFlags = []Flag{
	{Name: "--lookback <n>", Desc: "Number of commits to look back (default: analysis.look_back)"},
	{Name: "--detail <level>", Desc: "Narrative detail: low, medium or high"},
	{Name: "--backend <name>", Desc: "Revision backend: git or gogit"},
	{Name: "--dir <path>", Desc: "Working tree to analyze (default: current directory)"},
	{Name: "--no-rewrite", Desc: "Keep the heuristic narrative even when a narrator is enabled"},
}

func withRunFlags(extra ...Flag) []Flag {
	flags := append([]Flag(nil), runFlags...)
	return append(flags, extra...)
}

var CmdAnalyze = Command{
	Name:       "analyze",
	Synopsis:   "analyze recent commits and print a full report",
	Brief:      "Analyze recent commits and print a report",
	Usage:      "recap analyze [--lookback <n>] [--format <fmt>]",
	TableUsage: "recap analyze [--format X]",
	Flags: withRunFlags(
		Flag{Name: "--format <fmt>", Desc: "Output format: human, json, yaml or markdown"},
	),
	Description: `Compares HEAD against HEAD~n, extracts changed files, line totals,
key functions, new imports, config and test changes, classifies each
file's purpose and writes a narrative. The run is recorded in the
history database and the redacted diff is archived.

Every run is recorded, including a repeat on an unchanged HEAD. By
default uncommitted work in the working tree is part of the comparison
(analysis.include_working_tree).
Outside a repository the report is empty and the narrative says that no
code changes were detected.`,
	Examples: []string{
		"recap analyze                         Summarize the last commit",
		"recap analyze --lookback 5            Summarize the last five commits",
		"recap analyze --format json           Machine-readable report",
	},
	SeeAlso: []string{"recap(1)", "recap-narrate(1)", "recap-show(1)"},
}

var CmdNarrate = Command{
	Name:       "narrate",
	Synopsis:   "print only the narrative for recent commits",
	Brief:      "Print the narrative for recent commits",
	Usage:      "recap narrate [--lookback <n>] [--detail <level>]",
	TableUsage: "recap narrate [--detail X]",
	Flags:      withRunFlags(),
	Description: `Runs the same pipeline as recap analyze and prints the narrative
paragraph alone, suitable for commit messages or chat.`,
	Examples: []string{
		"recap narrate --detail low",
	},
	SeeAlso: []string{"recap(1)", "recap-analyze(1)"},
}

var CmdHook = Command{
	Name:     "hook",
	Synopsis: "Claude Code hook handler",
	Brief:    "Hook mode (reads stdin from Claude Code)",
	Usage:    "recap hook [--event <name>] [--chat]",
	Flags: []Flag{
		{Name: "--event <name>", Desc: "Override the hook event type (default: read from stdin)"},
		{Name: "--chat", Desc: "Export the session transcript to chat.json in the hook log dir"},
	},
	Description: `Reads a JSON payload from stdin as delivered by Claude Code's hook
system. Stop and SessionEnd run the analysis in the session's working
directory and print "recap: <greeting> <narrative>" to stderr, where the
greeting is one of a few short completion messages. Every run is
recorded, even when HEAD has not moved.

Each payload is appended to hook.json in the hook log dir
(hook.log_dir, default <state_dir>/logs). With --chat the JSONL
transcript named by transcript_path is copied there as chat.json, a
single JSON array; unreadable lines are dropped.

SubagentStop, clear events and re-entrant stops (stop_hook_active) are
logged but otherwise ignored. Unknown events are an error.

This command is meant to be called by Claude Code, not directly.`,
	SeeAlso: []string{"recap(1)", "recap-install(1)", "recap-uninstall(1)"},
}

var CmdInstall = Command{
	Name:     "install",
	Synopsis: "add the recap hook to Claude Code settings",
	Brief:    "Add the recap hook and a default config",
	Usage:    "recap install",
	Description: `Adds a Stop hook entry running "recap hook" to ~/.claude/settings.json
and writes a default config to ~/.config/recap/config.toml when none
exists.

Creates the settings file and parent directory if they don't exist.
Preserves all existing settings and hooks. A backup is saved to
settings.json.recap.bak before any modification.

This command is idempotent.`,
	SeeAlso: []string{"recap(1)", "recap-uninstall(1)", "recap-check(1)"},
}

var CmdUninstall = Command{
	Name:     "uninstall",
	Synopsis: "remove the recap hook from Claude Code settings",
	Brief:    "Remove the recap hook from settings.json",
	Usage:    "recap uninstall",
	Description: `Removes hook entries containing "recap hook" from ~/.claude/settings.json.
Preserves all other settings and hooks. A backup is saved to
settings.json.recap.bak before any modification.

The config file and run history are left in place.`,
	SeeAlso: []string{"recap(1)", "recap-install(1)"},
}

var CmdHistory = Command{
	Name:       "history",
	Synopsis:   "list recorded runs",
	Brief:      "List recorded runs, newest first",
	Usage:      "recap history [--project <name>] [--limit <n>] [--prune-days <n>]",
	TableUsage: "recap history [--project X]",
	Flags: []Flag{
		{Name: "--project <name>", Desc: "Only list runs for this project"},
		{Name: "--limit <n>", Desc: "Maximum runs to list (default: 20)"},
		{Name: "--prune-days <n>", Desc: "Delete runs and archives older than n days first"},
		{Name: "--format <fmt>", Desc: "Output format: human, json, yaml or markdown"},
	},
	Description: `Reads the history database in the state directory and lists past runs
with their headline, tag and line totals.`,
	Examples: []string{
		"recap history --limit 5",
		"recap history --prune-days 90",
	},
	SeeAlso: []string{"recap(1)", "recap-show(1)"},
}

var CmdStats = Command{
	Name:       "stats",
	Synopsis:   "aggregate metrics over recorded runs",
	Brief:      "Show aggregate metrics over recorded runs",
	Usage:      "recap stats [--project <name>] [--limit <n>]",
	TableUsage: "recap stats [--project X]",
	Flags: []Flag{
		{Name: "--project <name>", Desc: "Only count runs for this project"},
		{Name: "--limit <n>", Desc: "Maximum runs to aggregate, newest first (default: 1000)"},
	},
	Description: `Aggregates the history database into run and line totals, per-project,
per-language and per-narrator counts, change tag shares, a monthly
trend and the files touched most often.`,
	Examples: []string{
		"recap stats",
		"recap stats --project demo-app",
	},
	SeeAlso: []string{"recap(1)", "recap-history(1)"},
}

var CmdTrends = Command{
	Name:       "trends",
	Synopsis:   "weekly change metrics with rolling averages",
	Brief:      "Show weekly change metrics and anomalies",
	Usage:      "recap trends [--project <name>] [--weeks <n>]",
	TableUsage: "recap trends [--weeks N]",
	Flags: []Flag{
		{Name: "--project <name>", Desc: "Only count runs for this project"},
		{Name: "--weeks <n>", Desc: "Weeks to display (default: 12)"},
	},
	Description: `Buckets recorded runs by ISO week and tracks lines changed per run,
files touched per run, the share of touched files that are tests and
commits per run. Each metric gets a 4-week rolling average; weeks more
than 1.5 standard deviations away from it are flagged as a spike or dip.
The last four weeks are compared with the four before to call a
direction.`,
	Examples: []string{
		"recap trends --weeks 8",
	},
	SeeAlso: []string{"recap(1)", "recap-stats(1)"},
}

var CmdShow = Command{
	Name:       "show",
	Synopsis:   "re-render a recorded run",
	Brief:      "Re-render a recorded run",
	Usage:      "recap show <run-id> [--format <fmt>] [--detail <level>]",
	TableUsage: "recap show <run-id>",
	Args: []Arg{
		{Name: "run-id", Desc: "Full run id or a unique prefix"},
	},
	Flags: []Flag{
		{Name: "--format <fmt>", Desc: "Output format: human, json, yaml or markdown"},
		{Name: "--detail <level>", Desc: "Re-narrate the archived diff at this detail level"},
	},
	Description: `Looks the run up in the history database. When --detail is given and
the run's diff was archived, the redacted diff is replayed through the
analysis and narrated again; otherwise the recorded narrative is shown.
Related earlier runs of the same project are listed.`,
	Examples: []string{
		"recap show 3f2a91c0",
		"recap show 3f2a91c0 --detail low --format markdown",
	},
	SeeAlso: []string{"recap(1)", "recap-history(1)"},
}

var CmdWatch = Command{
	Name:       "watch",
	Synopsis:   "analyze each new commit as it lands",
	Brief:      "Analyze each new commit as it lands",
	Usage:      "recap watch [--debounce <dur>] [--format <fmt>]",
	TableUsage: "recap watch",
	Flags: withRunFlags(
		Flag{Name: "--debounce <dur>", Desc: "Quiet period before a run (default: 2s)"},
		Flag{Name: "--format <fmt>", Desc: "Output format: human, json, yaml or markdown"},
	),
	Description: `Watches .git and .git/refs/heads for changes. After each burst of ref
updates settles, runs the analysis once. Runs never overlap. A burst
that leaves HEAD where the last recorded run saw it is skipped, so
staging or fetching alone does not add a record. Stop with Ctrl-C.`,
	SeeAlso: []string{"recap(1)", "recap-analyze(1)"},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config, repository, history and hook setup",
	Brief:    "Validate config, repository and hook setup",
	Usage:    "recap check [--dir <path>]",
	Flags: []Flag{
		{Name: "--dir <path>", Desc: "Working tree to check (default: current directory)"},
	},
	Description: `Runs diagnostic checks and prints a pass/warn/FAIL report:
  - Config file location
  - Revision backend (git binary or go-git)
  - Repository root and HEAD
  - Detected project kind
  - State directory and history database
  - Narrator provider and API key
  - Claude Code hook setup in ~/.claude/settings.json

Exit code 0 if all checks pass or warn, 1 if any check fails.`,
	SeeAlso: []string{"recap(1)", "recap-install(1)"},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "recap version",
	SeeAlso:  []string{"recap(1)"},
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdAnalyze,
	CmdNarrate,
	CmdHook,
	CmdInstall,
	CmdUninstall,
	CmdHistory,
	CmdStats,
	CmdTrends,
	CmdShow,
	CmdWatch,
	CmdCheck,
	CmdVersion,
}
