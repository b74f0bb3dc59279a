package narrative

import (
	"path"
	"strings"

	"github.com/suykerbuyk/recap/internal/analysis"
)

var manifestNames = map[string]bool{
	"package.json":        true,
	"tsconfig.json":       true,
	"pyproject.toml":      true,
	"setup.py":            true,
	"setup.cfg":           true,
	"requirements.txt":    true,
	"Pipfile":             true,
	"Cargo.toml":          true,
	"go.mod":              true,
	"pom.xml":             true,
	"build.gradle":        true,
	"Makefile":            true,
	"Dockerfile":          true,
	"docker-compose.yml":  true,
	".env":                true,
	".gitignore":          true,
	"settings.yaml":       true,
	"settings.yml":        true,
	"config.yaml":         true,
	"config.yml":          true,
	"config.json":         true,
}

var docExts = map[string]bool{".md": true, ".txt": true, ".rst": true}

var sourceExts = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".vue": true, ".svelte": true,
	".go": true, ".rs": true, ".java": true, ".kt": true,
	".rb": true, ".php": true, ".cs": true, ".swift": true,
	".c": true, ".h": true, ".cpp": true, ".hpp": true,
}

// sourceRoles are checked in order against the lowercased path.
var sourceRoles = []struct {
	substrings []string
	created    string
	other      string
}{
	{[]string{"component"}, "created new UI component", "UI component"},
	{[]string{"util", "helper"}, "created utility functions", "utility functions"},
	{[]string{"hook"}, "created custom hook", "custom hook"},
	{[]string{"api", "route"}, "created API endpoint", "API endpoint"},
	{[]string{"model"}, "created data model", "data model"},
}

// Classify returns the purpose phrase for one touched path.
func Classify(p string, action Action, a analysis.ChangeAnalysis) string {
	name := path.Base(p)
	ext := strings.ToLower(path.Ext(name))
	lowerPath := strings.ToLower(p)

	if isTestFile(lowerPath) {
		switch action {
		case Created:
			return "added test coverage"
		case Deleted:
			return "removed test"
		default:
			return "updated tests"
		}
	}
	if manifestNames[name] {
		return action.verb() + " project configuration"
	}
	if docExts[ext] {
		return action.verb() + " documentation"
	}
	if sourceExts[ext] {
		return classifySource(name, ext, lowerPath, action, a)
	}

	switch action {
	case Created:
		return "added new functionality"
	case Deleted:
		return "removed"
	default:
		return "updated functionality"
	}
}

// isTestFile is looser than analysis.IsTestPath: any path mentioning
// test or spec is described as a test.
func isTestFile(lowerPath string) bool {
	for _, sub := range []string{"test", "spec", "__tests__"} {
		if strings.Contains(lowerPath, sub) {
			return true
		}
	}
	return false
}

func classifySource(name, ext, lowerPath string, action Action, a analysis.ChangeAnalysis) string {
	for _, role := range sourceRoles {
		for _, sub := range role.substrings {
			if !strings.Contains(lowerPath, sub) {
				continue
			}
			if action == Created {
				return role.created
			}
			return action.verb() + " " + role.other
		}
	}

	prefix := action.verb()
	if action == Created {
		prefix = "created"
	}

	if mentionsFile(a.KeyFunctionsChanged, strings.TrimSuffix(name, path.Ext(name))) {
		return prefix + " with new functions"
	}
	if action == Modified && len(a.ImportsAdded) > 0 {
		return "added new dependencies"
	}
	if action == Created {
		return "created new implementation"
	}
	return prefix + " implementation"
}

func mentionsFile(functions []string, stem string) bool {
	stem = strings.ToLower(stem)
	if stem == "" {
		return false
	}
	for _, f := range functions {
		if strings.Contains(strings.ToLower(f), stem) {
			return true
		}
	}
	return false
}

// ClassifyFiles labels every touched file, changed first, then added, then
// deleted. Basename collisions keep the last phrase.
func ClassifyFiles(a analysis.ChangeAnalysis) *FilePurposeMap {
	m := NewFilePurposeMap()
	groups := []struct {
		paths  []string
		action Action
	}{
		{a.FilesChanged, Modified},
		{a.FilesAdded, Created},
		{a.FilesDeleted, Deleted},
	}
	for _, g := range groups {
		for _, p := range g.paths {
			m.Set(path.Base(p), Classify(p, g.action, a))
		}
	}
	return m
}
