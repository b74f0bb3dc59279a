package help

import (
	"fmt"
	"strings"
	"testing"
)

// expectedTerminal maps command name → exact expected terminal output.
var expectedTerminal = map[string]string{
	"hook": "recap hook \u2014 Claude Code hook handler\n" +
		"\n" +
		"Usage: recap hook [--event <name>]\n" +
		"\n" +
		"Flags:\n" +
		"  --event <name>   Override the hook event type (default: read from stdin)\n" +
		"\n" +
		"Reads a JSON payload from stdin as delivered by Claude Code's hook\n" +
		"system. Stop and SessionEnd run the analysis in the session's working\n" +
		"directory and print \"recap: <narrative>\" to stderr.\n" +
		"\n" +
		"SubagentStop, clear events and re-entrant stops (stop_hook_active) are\n" +
		"ignored. Unknown events are an error.\n" +
		"\n" +
		"This command is meant to be called by Claude Code, not directly.\n",

	"show": "recap show \u2014 re-render a recorded run\n" +
		"\n" +
		"Usage: recap show <run-id> [--format <fmt>] [--detail <level>]\n" +
		"\n" +
		"Arguments:\n" +
		"  run-id             Full run id or a unique prefix\n" +
		"\n" +
		"Flags:\n" +
		"  --format <fmt>     Output format: human, json, yaml or markdown\n" +
		"  --detail <level>   Re-narrate the archived diff at this detail level\n" +
		"\n" +
		"Looks the run up in the history database. When --detail is given and\n" +
		"the run's diff was archived, the redacted diff is replayed through the\n" +
		"analysis and narrated again; otherwise the recorded narrative is shown.\n" +
		"Related earlier runs of the same project are listed.\n" +
		"\n" +
		"Examples:\n" +
		"  recap show 3f2a91c0\n" +
		"  recap show 3f2a91c0 --detail low --format markdown\n",

	"version": "recap version \u2014 print version\n" +
		"\n" +
		"Usage: recap version\n",
}

func TestFormatTerminal(t *testing.T) {
	for _, cmd := range Subcommands {
		expected, ok := expectedTerminal[cmd.Name]
		if !ok {
			continue
		}
		t.Run(cmd.Name, func(t *testing.T) {
			got := FormatTerminal(cmd)
			if got != expected {
				t.Errorf("FormatTerminal(%q) mismatch.\n--- expected ---\n%s\n--- got ---\n%s\n--- diff ---\n%s",
					cmd.Name, quote(expected), quote(got), diff(expected, got))
			}
		})
	}
}

func TestFormatTerminal_EveryFlagOnItsOwnLine(t *testing.T) {
	for _, cmd := range Subcommands {
		out := FormatTerminal(cmd)
		for _, f := range cmd.Flags {
			line := "  " + f.Name + " "
			found := false
			for _, l := range strings.Split(out, "\n") {
				if strings.HasPrefix(l, line) && strings.HasSuffix(l, f.Desc) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s: flag %q not rendered on its own line:\n%s", cmd.Name, f.Name, out)
			}
		}
	}
}

func TestFormatUsage(t *testing.T) {
	got := FormatUsage(TopLevel, Subcommands)

	header := fmt.Sprintf("recap %s \u2014 summarize recent code changes\n", Version)
	if !strings.HasPrefix(got, header) {
		t.Errorf("header mismatch: %q", got)
	}

	// Briefs line up in one column.
	briefCol := -1
	for _, cmd := range Subcommands {
		var line string
		for _, l := range strings.Split(got, "\n") {
			if strings.HasPrefix(l, "  "+cmd.tableUsage()+" ") {
				line = l
				break
			}
		}
		if line == "" {
			t.Errorf("missing table row for %q", cmd.Name)
			continue
		}
		col := strings.Index(line, cmd.Brief)
		if col < 0 {
			t.Errorf("row for %q lacks brief: %q", cmd.Name, line)
			continue
		}
		if briefCol < 0 {
			briefCol = col
		} else if col != briefCol {
			t.Errorf("row for %q: brief at column %d, want %d", cmd.Name, col, briefCol)
		}
	}

	for _, want := range []string{
		"  recap help",
		`{"type": "command", "command": "recap hook"}`,
		"Configuration: ~/.config/recap/config.toml\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatUsage missing %q", want)
		}
	}
}

func TestRegistryCompleteness(t *testing.T) {
	expectedNames := []string{
		"analyze", "narrate", "hook", "install", "uninstall",
		"history", "stats", "trends", "show", "watch", "check", "version",
	}
	if len(Subcommands) != len(expectedNames) {
		t.Fatalf("expected %d subcommands, got %d", len(expectedNames), len(Subcommands))
	}
	for i, name := range expectedNames {
		if Subcommands[i].Name != name {
			t.Errorf("Subcommands[%d].Name = %q, want %q", i, Subcommands[i].Name, name)
		}
		if Subcommands[i].Synopsis == "" {
			t.Errorf("Subcommands[%d] (%s) has empty Synopsis", i, name)
		}
		if Subcommands[i].Usage == "" {
			t.Errorf("Subcommands[%d] (%s) has empty Usage", i, name)
		}
		if Subcommands[i].Brief == "" {
			t.Errorf("Subcommands[%d] (%s) has empty Brief", i, name)
		}
	}
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("show")
	if !ok || c.Name != "show" {
		t.Errorf("Lookup(show) = %q, %v", c.Name, ok)
	}
	if _, ok := Lookup("process"); ok {
		t.Error("Lookup(process) should fail")
	}
}

func TestFlagNames(t *testing.T) {
	got := CmdHistory.FlagNames()
	want := []string{"project", "limit", "prune-days", "format"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("FlagNames() = %v, want %v", got, want)
	}
	if n := CmdVersion.FlagNames(); len(n) != 0 {
		t.Errorf("version has flags: %v", n)
	}
}

func TestRunFlagsNotShared(t *testing.T) {
	// withRunFlags must copy; appending to one command must not leak into another.
	if len(CmdNarrate.Flags) != len(runFlags) {
		t.Fatalf("narrate has %d flags, want %d", len(CmdNarrate.Flags), len(runFlags))
	}
	if CmdAnalyze.Flags[len(runFlags)].Name != "--format <fmt>" {
		t.Errorf("analyze extra flag = %q", CmdAnalyze.Flags[len(runFlags)].Name)
	}
	if CmdWatch.Flags[len(runFlags)].Name != "--debounce <dur>" {
		t.Errorf("watch extra flag leaked: %q", CmdWatch.Flags[len(runFlags)].Name)
	}
}

func TestManName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "recap"},
		{"analyze", "recap-analyze"},
		{"hook", "recap-hook"},
		{"hook install", "recap-hook-install"},
	}
	for _, tt := range tests {
		c := Command{Name: tt.name}
		if got := c.ManName(); got != tt.want {
			t.Errorf("Command{Name: %q}.ManName() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestEscapeRoff(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`simple text`, `simple text`},
		{`back\slash`, `back\\slash`},
		{`.leading dot`, `\&.leading dot`},
		{"line1\n.line2", "line1\n\\&.line2"},
		{`--flag`, `\-\-flag`},
		{`a-b`, `a\-b`},
		{`.git/refs/heads`, `\&.git/refs/heads`},
	}
	for _, tt := range tests {
		got := escapeRoff(tt.input)
		if got != tt.want {
			t.Errorf("escapeRoff(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatRoffStructure(t *testing.T) {
	fixedDate := "2026-02-27"

	for _, cmd := range Subcommands {
		t.Run(cmd.Name, func(t *testing.T) {
			out := FormatRoff(cmd, fixedDate)

			required := []string{".TH", ".SH NAME", ".SH SYNOPSIS"}
			for _, section := range required {
				if !strings.Contains(out, section) {
					t.Errorf("FormatRoff(%q) missing required section %q", cmd.Name, section)
				}
			}

			expectedTH := strings.ToUpper(cmd.ManName())
			if !strings.Contains(out, ".TH "+expectedTH) {
				t.Errorf("FormatRoff(%q) .TH should contain %q", cmd.Name, expectedTH)
			}
			if !strings.Contains(out, `"Recap Manual"`) {
				t.Errorf("FormatRoff(%q) missing manual title", cmd.Name)
			}

			if cmd.Description != "" && !strings.Contains(out, ".SH DESCRIPTION") {
				t.Errorf("FormatRoff(%q) has Description but missing .SH DESCRIPTION", cmd.Name)
			}
			if (len(cmd.Args) > 0 || len(cmd.Flags) > 0) && !strings.Contains(out, ".SH OPTIONS") {
				t.Errorf("FormatRoff(%q) has Args/Flags but missing .SH OPTIONS", cmd.Name)
			}
			if len(cmd.Examples) > 0 && !strings.Contains(out, ".SH EXAMPLES") {
				t.Errorf("FormatRoff(%q) has Examples but missing .SH EXAMPLES", cmd.Name)
			}
			if len(cmd.SeeAlso) > 0 && !strings.Contains(out, ".SH SEE ALSO") {
				t.Errorf("FormatRoff(%q) has SeeAlso but missing .SH SEE ALSO", cmd.Name)
			}
		})
	}
}

func TestFormatRoffTopLevelStructure(t *testing.T) {
	fixedDate := "2026-02-27"
	out := FormatRoffTopLevel(TopLevel, Subcommands, fixedDate)

	required := []string{
		".TH RECAP 1",
		".SH NAME",
		".SH SYNOPSIS",
		".SH DESCRIPTION",
		".SH COMMANDS",
		".SH CONFIGURATION",
		".SH SEE ALSO",
	}
	for _, section := range required {
		if !strings.Contains(out, section) {
			t.Errorf("FormatRoffTopLevel missing section %q", section)
		}
	}

	for _, cmd := range Subcommands {
		escaped := escapeRoff(cmd.Brief)
		if !strings.Contains(out, escaped) {
			t.Errorf("FormatRoffTopLevel missing subcommand brief %q (escaped: %q)", cmd.Brief, escaped)
		}
	}
}

func TestFormatRoffEscapesDescription(t *testing.T) {
	c := Command{Name: "x", Synopsis: "s", Usage: "recap x", Description: "first\n.git is watched"}
	out := FormatRoff(c, "2026-02-27")
	if strings.Contains(out, "\n.git") {
		t.Error("FormatRoff did not escape leading dot in .git")
	}
}

// quote shows a string with escape sequences visible.
func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// diff shows a line-by-line comparison highlighting the first difference.
func diff(expected, got string) string {
	el := strings.Split(expected, "\n")
	gl := strings.Split(got, "\n")
	max := len(el)
	if len(gl) > max {
		max = len(gl)
	}
	var b strings.Builder
	for i := 0; i < max; i++ {
		var e, g string
		if i < len(el) {
			e = el[i]
		}
		if i < len(gl) {
			g = gl[i]
		}
		if e != g {
			fmt.Fprintf(&b, "! line %d:\n  exp: %q\n  got: %q\n", i+1, e, g)
		}
	}
	return b.String()
}
