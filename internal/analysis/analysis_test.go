package analysis

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/suykerbuyk/recap/internal/project"
	"github.com/suykerbuyk/recap/internal/revision"
)

const pythonDiff = `diff --git a/src/users.py b/src/users.py
index 1111111..2222222 100644
--- a/src/users.py
+++ b/src/users.py
@@ -1 +1,19 @@
 import os
+import json
+from collections import OrderedDict
+from .models import User
+
+def get_user_profile(user_id):
+    return load(user_id)
+
+# Persist a user record to disk
+def save_user(user):
+    data = user.to_dict()
+    write(data)
+
+class UserService:
+    """Coordinates user lookups."""
+
+async def fetch_all():
+    # walk every shard
+    pass
`

func TestExtract_PythonScenario(t *testing.T) {
	a := Extract(Input{Diff: pythonDiff, Kind: project.Python})

	want := []string{
		"get_user_profile (retrieves user profile)",
		"save_user (Persist a user record to disk)",
		"UserService (Coordinates user lookups.)",
		"fetch_all (walk every shard)",
	}
	if !reflect.DeepEqual(a.KeyFunctionsChanged, want) {
		t.Errorf("KeyFunctionsChanged = %q, want %q", a.KeyFunctionsChanged, want)
	}

	wantImports := []string{"json", "collections"}
	if !reflect.DeepEqual(a.ImportsAdded, wantImports) {
		t.Errorf("ImportsAdded = %q, want %q", a.ImportsAdded, wantImports)
	}
}

func TestExtract_PurposeFromDiffContext(t *testing.T) {
	diff := `@@ -1,4 +1,14 @@
 import os
+CACHE = {}  # builds the lookup table
+def build(a):
+    return a
 # keeps old behavior
+def keep(b):
+    return b
 
+def load(path):
+    path = normalize(path)
+    """Loads the cached index."""
 
+def render(page):
+    """render(page) -> str"""
`
	a := Extract(Input{Diff: diff, Kind: project.Python})
	want := []string{
		"build (builds the lookup table)",
		"keep (function)",
		"load (Loads the cached index.)",
		"render (function)",
	}
	if !reflect.DeepEqual(a.KeyFunctionsChanged, want) {
		t.Errorf("KeyFunctionsChanged = %q, want %q", a.KeyFunctionsChanged, want)
	}
}

func TestExtract_FileSetsAndTotals(t *testing.T) {
	in := Input{
		Statuses: []revision.StatusEntry{
			{Code: "A", Path: "src/app.py", Status: revision.Added},
			{Code: "A", Path: "tests/test_app.py", Status: revision.Added},
			{Code: "M", Path: "config/settings.yaml", Status: revision.Changed},
			{Code: "D", Path: "old.md", Status: revision.Deleted},
			{Code: "R090", Path: "lib/renamed.py", Status: revision.Changed},
		},
		Stats: []revision.LineStat{
			{Additions: 10, Deletions: 2, Path: "src/app.py"},
			{Additions: 4, Deletions: 0, Path: "tests/test_app.py"},
			{Additions: 0, Deletions: 9, Path: "old.md"},
		},
		Subjects: []string{"Add app", "Initial"},
	}
	a := Extract(in)

	if got, want := a.FilesChanged, []string{"config/settings.yaml", "lib/renamed.py"}; !reflect.DeepEqual(got, want) {
		t.Errorf("FilesChanged = %q, want %q", got, want)
	}
	if got, want := a.FilesAdded, []string{"src/app.py", "tests/test_app.py"}; !reflect.DeepEqual(got, want) {
		t.Errorf("FilesAdded = %q, want %q", got, want)
	}
	if got, want := a.FilesDeleted, []string{"old.md"}; !reflect.DeepEqual(got, want) {
		t.Errorf("FilesDeleted = %q, want %q", got, want)
	}
	if a.TotalAdditions != 14 || a.TotalDeletions != 11 {
		t.Errorf("totals = +%d -%d, want +14 -11", a.TotalAdditions, a.TotalDeletions)
	}
	if got, want := a.TestChanges, []string{"tests/test_app.py"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TestChanges = %q, want %q", got, want)
	}
	if got, want := a.ConfigChanges, []string{"config/settings.yaml"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ConfigChanges = %q, want %q", got, want)
	}
	if got, want := a.CommitMessages, []string{"Add app", "Initial"}; !reflect.DeepEqual(got, want) {
		t.Errorf("CommitMessages = %q, want %q", got, want)
	}
}

func TestExtract_Disjoint(t *testing.T) {
	in := Input{Statuses: revision.ParseNameStatus("M\ta\nA\tb\nD\tc\nR100\td\te\nC075\tf\tg\nT\th\n")}
	a := Extract(in)

	seen := map[string]int{}
	for _, set := range [][]string{a.FilesChanged, a.FilesAdded, a.FilesDeleted} {
		for _, p := range set {
			seen[p]++
		}
	}
	if len(seen) != len(in.Statuses) {
		t.Errorf("union has %d paths, want %d", len(seen), len(in.Statuses))
	}
	for p, n := range seen {
		if n != 1 {
			t.Errorf("%s appears in %d sets", p, n)
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	in := Input{Diff: pythonDiff, Kind: project.Python}
	first := Extract(in)
	for i := 0; i < 5; i++ {
		if got := Extract(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestExtract_UnknownKind(t *testing.T) {
	in := Input{
		Diff:     pythonDiff,
		Kind:     project.Unknown,
		Statuses: []revision.StatusEntry{{Code: "M", Path: "app.toml", Status: revision.Changed}},
	}
	a := Extract(in)
	if len(a.KeyFunctionsChanged) != 0 || len(a.ImportsAdded) != 0 {
		t.Errorf("unknown kind extracted %q / %q", a.KeyFunctionsChanged, a.ImportsAdded)
	}
	if !reflect.DeepEqual(a.ConfigChanges, []string{"app.toml"}) {
		t.Errorf("ConfigChanges = %q", a.ConfigChanges)
	}
}

func TestExtract_Caps(t *testing.T) {
	var b strings.Builder
	for _, n := range []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota", "kappa"} {
		b.WriteString("+def " + n + "_handler():\n")
		b.WriteString("+import " + n + "\n")
	}
	// duplicates must not count twice
	b.WriteString("+def alpha_handler():\n")

	a := Extract(Input{Diff: b.String(), Kind: project.Python})
	if len(a.KeyFunctionsChanged) != maxKeyFunctions {
		t.Errorf("len(KeyFunctionsChanged) = %d, want %d", len(a.KeyFunctionsChanged), maxKeyFunctions)
	}
	if len(a.ImportsAdded) != maxImports {
		t.Errorf("len(ImportsAdded) = %d, want %d", len(a.ImportsAdded), maxImports)
	}
	seen := map[string]bool{}
	for _, f := range a.KeyFunctionsChanged {
		if seen[f] {
			t.Errorf("duplicate %q", f)
		}
		seen[f] = true
	}
}

func TestExtract_SkipsFileHeaders(t *testing.T) {
	diff := "+++ b/def_fake(x).py\n+def real():\n"
	a := Extract(Input{Diff: diff, Kind: project.Python})
	if !reflect.DeepEqual(a.KeyFunctionsChanged, []string{"real (function)"}) {
		t.Errorf("KeyFunctionsChanged = %q", a.KeyFunctionsChanged)
	}
}

func TestExtract_EmptyIsNonNil(t *testing.T) {
	a := Extract(Input{})
	if a.FilesChanged == nil || a.KeyFunctionsChanged == nil || a.ImportsAdded == nil || a.TestChanges == nil {
		t.Error("empty record has nil slices")
	}
	if !a.IsEmpty() {
		t.Error("IsEmpty = false for empty input")
	}
}

func TestExtract_Languages(t *testing.T) {
	tests := []struct {
		name      string
		kind      project.Kind
		diff      string
		functions []string
		imports   []string
	}{
		{
			name: "typescript",
			kind: project.TypeScript,
			diff: "+import React from 'react';\n+import { api } from './lib/api.ts';\n" +
				"+export interface UserProps {\n+export type Id = string;\n" +
				"+export const fetchUser = async (id) => {\n+export default class Widget {\n",
			functions: []string{"UserProps (interface)", "Id (type)", "fetchUser (function)", "Widget (class)"},
			imports:   []string{"react", "api"},
		},
		{
			name:      "javascript",
			kind:      project.JavaScript,
			diff:      "+const fs = require('fs');\n+function formatDate(d) {\n",
			functions: []string{"formatDate (formatting utility)"},
			imports:   []string{"fs"},
		},
		{
			name: "go",
			kind: project.Go,
			diff: "+import \"strings\"\n+\t\"github.com/spf13/cobra\"\n" +
				"+func (s *Server) handleLogin(w http.ResponseWriter) {\n+func NewServer() *Server {\n" +
				"+type Server struct {\n+type Store interface {\n",
			functions: []string{"handleLogin (method)", "NewServer (function)", "Server (struct)", "Store (interface)"},
			imports:   []string{"strings", "cobra"},
		},
		{
			name:      "rust",
			kind:      project.Rust,
			diff:      "+use serde::Deserialize;\n+pub fn is_ready() -> bool {\n+pub struct Config {\n+trait Shape {\n+enum Mode {\n",
			functions: []string{"is_ready (checks is ready)", "Config (struct)", "Shape (trait)", "Mode (enum)"},
			imports:   []string{"serde"},
		},
		{
			name:      "java",
			kind:      project.Java,
			diff:      "+import java.util.List;\n+public class OrderService {\n+    public static void main(String[] args) {\n+    return compute(x);\n",
			functions: []string{"OrderService (service class)", "main (main entry point)"},
			imports:   []string{"List"},
		},
		{
			name: "ruby",
			kind: project.Ruby,
			diff: "+require 'json'\n+require_relative 'lib/billing'\n+module Billing\n" +
				"+  class Invoice < Base\n+    def self.format_total(cents)\n+    def paid?\n",
			functions: []string{"Billing (module)", "Invoice (class)", "format_total (formatting utility)", "paid? (method)"},
			imports:   []string{"json", "billing"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Extract(Input{Diff: tt.diff, Kind: tt.kind})
			if !reflect.DeepEqual(a.KeyFunctionsChanged, tt.functions) {
				t.Errorf("functions = %q, want %q", a.KeyFunctionsChanged, tt.functions)
			}
			if !reflect.DeepEqual(a.ImportsAdded, tt.imports) {
				t.Errorf("imports = %q, want %q", a.ImportsAdded, tt.imports)
			}
		})
	}
}

func TestTableFor_CoversEveryKind(t *testing.T) {
	for _, k := range project.Kinds {
		rules := TableFor(k)
		imports := ImportPatternsFor(k)
		if k == project.Unknown {
			if len(rules) != 0 || len(imports) != 0 {
				t.Errorf("Unknown has %d rules, %d import patterns", len(rules), len(imports))
			}
			continue
		}
		if len(rules) == 0 {
			t.Errorf("%s has no declaration rules", k)
		}
		if len(imports) == 0 {
			t.Errorf("%s has no import patterns", k)
		}
		for _, r := range rules {
			if r.Pattern.NumSubexp() < 1 {
				t.Errorf("%s rule %q has no capture group", k, r.Pattern)
			}
		}
	}
}

func TestNormalizeImport(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"os", "os"},
		{"os.path", "os"},
		{".models", ""},
		{"..pkg.sub", ""},
		{"./lib/helper.js", "helper"},
		{"@scope/pkg", "pkg"},
		{"github.com/spf13/cobra", "cobra"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeImport(tt.in); got != tt.want {
			t.Errorf("normalizeImport(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type panicQuerier struct{}

func (panicQuerier) DiffContent(context.Context, int) string { panic("boom") }
func (panicQuerier) FileStatus(context.Context, int) []revision.StatusEntry {
	return nil
}
func (panicQuerier) LineStats(context.Context, int) []revision.LineStat { return nil }
func (panicQuerier) CommitSubjects(context.Context, int) []string       { return nil }
func (panicQuerier) Head(context.Context) string                        { return "" }
func (panicQuerier) Root(context.Context) string                        { return "" }

func TestAnalyze_RecoversToEmpty(t *testing.T) {
	a := Analyze(context.Background(), panicQuerier{}, project.Python, 1, nil)
	if !reflect.DeepEqual(a, Empty()) {
		t.Errorf("Analyze after panic = %+v, want Empty()", a)
	}
}

func TestAnalyze_Replay(t *testing.T) {
	q := revision.NewReplay(pythonDiff, []string{"Add user lookups"}, nil)
	a := Analyze(context.Background(), q, project.Python, 1, nil)

	if !reflect.DeepEqual(a.FilesChanged, []string{"src/users.py"}) {
		t.Errorf("FilesChanged = %q", a.FilesChanged)
	}
	if a.TotalAdditions != 17 {
		t.Errorf("TotalAdditions = %d, want 17", a.TotalAdditions)
	}
	if len(a.KeyFunctionsChanged) == 0 || a.KeyFunctionsChanged[0] != "get_user_profile (retrieves user profile)" {
		t.Errorf("KeyFunctionsChanged = %q", a.KeyFunctionsChanged)
	}
}

func TestAnalyze_NonRepository(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", dir)
	q := revision.NewGit(dir, revision.GitOptions{})
	a := Analyze(context.Background(), q, project.Unknown, 1, nil)
	if !a.IsEmpty() || len(a.CommitMessages) != 0 {
		t.Errorf("non-repository analysis = %+v", a)
	}
}
