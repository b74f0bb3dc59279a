package analysis

import (
	"strings"
	"unicode"
)

const maxPurposeLen = 50

// PurposeContext is what a purpose extractor may look at.
type PurposeContext struct {
	Name string
	Kind string
	// Next holds up to four added lines after the declaration, without
	// their diff markers.
	Next []string
	// Prev is the line before the declaration, or "".
	Prev string
}

// PurposeExtractor infers a short phrase for a declaration, or "".
type PurposeExtractor func(PurposeContext) string

// PurposeExtractors run in order; the first non-empty phrase wins.
var PurposeExtractors = []PurposeExtractor{
	DocPurpose,
	PrecedingCommentPurpose,
	NamePurpose,
}

// InferPurpose runs PurposeExtractors against pc.
func InferPurpose(pc PurposeContext) string {
	for _, extract := range PurposeExtractors {
		if p := extract(pc); p != "" {
			return p
		}
	}
	return ""
}

var docMarkers = []string{`"""`, `'''`, "/**"}

// DocPurpose reads a docstring among the added lines after the
// declaration, or a comment on the line right after it. A docstring that
// opens with the declared name restates the signature and is passed over.
func DocPurpose(pc PurposeContext) string {
	for i, line := range pc.Next {
		t := strings.TrimSpace(line)
		for _, marker := range docMarkers {
			if !strings.HasPrefix(t, marker) {
				continue
			}
			text := cleanDoc(strings.TrimPrefix(t, marker))
			if text == "" && i+1 < len(pc.Next) {
				text = cleanDoc(pc.Next[i+1])
			}
			if text != "" && (pc.Name == "" || !strings.HasPrefix(text, pc.Name)) {
				return truncate(text)
			}
		}
	}
	if len(pc.Next) > 0 {
		t := strings.TrimSpace(pc.Next[0])
		if strings.HasPrefix(t, "#") || strings.HasPrefix(t, "//") {
			if text := cleanComment(t); text != "" {
				return truncate(text)
			}
		}
	}
	return ""
}

// PrecedingCommentPurpose reads a comment on the added line above, either
// a whole-line comment or one trailing code after '#'.
func PrecedingCommentPurpose(pc PurposeContext) string {
	t := strings.TrimSpace(pc.Prev)
	if strings.HasPrefix(t, "#!") {
		return ""
	}
	if strings.HasPrefix(t, "//") || strings.HasPrefix(t, "/*") {
		if text := cleanComment(t); text != "" {
			return truncate(text)
		}
		return ""
	}
	if _, comment, ok := strings.Cut(t, "#"); ok {
		if text := strings.TrimSpace(comment); text != "" {
			return truncate(text)
		}
	}
	return ""
}

// verbPrefixes map a name prefix to a verb. Predicates keep the whole
// name, so "is_valid" reads "checks is valid".
var verbPrefixes = []struct {
	prefix    string
	verb      string
	wholeName bool
}{
	{"get_", "retrieves", false},
	{"set_", "sets", false},
	{"is_", "checks", true},
	{"has_", "checks", true},
	{"create_", "creates", false},
	{"update_", "updates", false},
	{"delete_", "deletes", false},
	{"test_", "tests", false},
}

var namePhrases = []struct {
	substrings []string
	phrase     string
}{
	{[]string{"_test"}, "test function"},
	{[]string{"init"}, "initialization"},
	{[]string{"main"}, "main entry point"},
	{[]string{"format"}, "formatting utility"},
	{[]string{"analyze", "analysis"}, "analyzes data"},
	{[]string{"service"}, "service class"},
}

// NamePurpose phrases a purpose from the declared name alone. camelCase
// names are read as snake_case.
func NamePurpose(pc PurposeContext) string {
	name := snakeCase(pc.Name)
	for _, vp := range verbPrefixes {
		rest, ok := strings.CutPrefix(name, vp.prefix)
		if !ok {
			continue
		}
		if strings.Trim(rest, "_") == "" {
			break
		}
		if vp.wholeName {
			rest = name
		}
		return truncate(vp.verb + " " + strings.TrimSpace(strings.ReplaceAll(rest, "_", " ")))
	}
	for _, np := range namePhrases {
		for _, sub := range np.substrings {
			if strings.Contains(name, sub) {
				return np.phrase
			}
		}
	}
	return ""
}

func cleanDoc(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "* ")
	for _, marker := range []string{`"""`, `'''`, "*/"} {
		if idx := strings.Index(s, marker); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

func cleanComment(s string) string {
	s = strings.TrimLeft(s, "/#*! ")
	s = strings.TrimSuffix(strings.TrimSpace(s), "*/")
	return strings.TrimSpace(s)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxPurposeLen {
		return s
	}
	return strings.TrimSpace(string(r[:maxPurposeLen]))
}

// snakeCase lowercases name and splits camelCase humps with underscores.
// "getUserProfile" and "HTTPServer" become "get_user_profile" and
// "http_server".
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prev != '_' && (unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower)) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
