package analysis

import (
	"strings"
	"testing"
)

func TestNamePurpose(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"get_user_profile", "retrieves user profile"},
		{"getUserProfile", "retrieves user profile"},
		{"set_timeout", "sets timeout"},
		{"is_valid", "checks is valid"},
		{"hasPermission", "checks has permission"},
		{"create_order", "creates order"},
		{"update_cart", "updates cart"},
		{"delete_account", "deletes account"},
		{"test_login", "tests login"},
		{"login_test", "test function"},
		{"__init__", "initialization"},
		{"main", "main entry point"},
		{"formatDate", "formatting utility"},
		{"run_analysis", "analyzes data"},
		{"analyzeTokens", "analyzes data"},
		{"UserService", "service class"},
		{"get_", ""},
		{"render", ""},
	}
	for _, tt := range tests {
		if got := NamePurpose(PurposeContext{Name: tt.name}); got != tt.want {
			t.Errorf("NamePurpose(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDocPurpose(t *testing.T) {
	tests := []struct {
		name string
		next []string
		want string
	}{
		{"python one-line docstring", []string{`    """Load the widget."""`}, "Load the widget."},
		{"python docstring on next line", []string{`    """`, "    Build the index.", `    """`}, "Build the index."},
		{"single quotes", []string{"    '''Parse args'''"}, "Parse args"},
		{"jsdoc", []string{"  /**", "   * Render the page", "   */"}, "Render the page"},
		{"blank before docstring", []string{"", `    """Late doc."""`}, "Late doc."},
		{"comment on next line", []string{"    # cache lookup"}, "cache lookup"},
		{"slash comment", []string{"\t// walk children"}, "walk children"},
		{"code before docstring", []string{"    path = normalize(path)", `    """Loads the cached index."""`}, "Loads the cached index."},
		{"comment after code", []string{"    x = 1", "    # not the first line"}, ""},
		{"nothing", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DocPurpose(PurposeContext{Name: "load", Next: tt.next}); got != tt.want {
				t.Errorf("DocPurpose = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocPurpose_SkipsSignatureDocstring(t *testing.T) {
	pc := PurposeContext{
		Name: "render",
		Next: []string{`    """render(page) -> str"""`, "    body = page.body", `    """Renders one page."""`},
	}
	if got := DocPurpose(pc); got != "Renders one page." {
		t.Errorf("DocPurpose = %q, want the docstring after the signature line", got)
	}
	pc.Next = pc.Next[:1]
	if got := DocPurpose(pc); got != "" {
		t.Errorf("DocPurpose = %q, want empty", got)
	}
}

func TestPrecedingCommentPurpose(t *testing.T) {
	tests := []struct {
		prev string
		want string
	}{
		{"# Persist a record", "Persist a record"},
		{"// Handler serves login", "Handler serves login"},
		{"/* resets state */", "resets state"},
		{"#!/usr/bin/env python", ""},
		{"x = 1", ""},
		{"x = 1  # builds the lookup table", "builds the lookup table"},
		{"x = 1  #", ""},
		{"", ""},
		{" */", ""},
	}
	for _, tt := range tests {
		if got := PrecedingCommentPurpose(PurposeContext{Prev: tt.prev}); got != tt.want {
			t.Errorf("PrecedingCommentPurpose(%q) = %q, want %q", tt.prev, got, tt.want)
		}
	}
}

func TestInferPurpose_Order(t *testing.T) {
	pc := PurposeContext{
		Name: "get_user",
		Next: []string{`    """Fetch from cache."""`},
		Prev: "# loads a user",
	}
	if got := InferPurpose(pc); got != "Fetch from cache." {
		t.Errorf("docstring should win, got %q", got)
	}

	pc.Next = nil
	if got := InferPurpose(pc); got != "loads a user" {
		t.Errorf("comment should win over name, got %q", got)
	}

	pc.Prev = ""
	if got := InferPurpose(pc); got != "retrieves user" {
		t.Errorf("name fallback, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 80)
	if got := truncate(long); len(got) != maxPurposeLen {
		t.Errorf("len = %d, want %d", len(got), maxPurposeLen)
	}
	multi := strings.Repeat("é", 60)
	if got := []rune(truncate(multi)); len(got) != maxPurposeLen {
		t.Errorf("rune len = %d, want %d", len(got), maxPurposeLen)
	}
	if got := truncate("short"); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"getUserProfile": "get_user_profile",
		"HTTPServer":     "http_server",
		"already_snake":  "already_snake",
		"Parse2Tokens":   "parse2_tokens",
		"X":              "x",
	}
	for in, want := range tests {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
