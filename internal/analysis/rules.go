package analysis

import (
	"regexp"

	"github.com/suykerbuyk/recap/internal/project"
)

// Rule recognizes one kind of declaration on an added line. Pattern's
// first capture group is the declared name.
type Rule struct {
	Pattern *regexp.Regexp
	Kind    string
}

func rule(kind, expr string) Rule {
	return Rule{Pattern: regexp.MustCompile(expr), Kind: kind}
}

var pythonRules = []Rule{
	rule("function", `^\s*async\s+def\s+([A-Za-z_]\w*)\s*\(`),
	rule("function", `^\s*def\s+([A-Za-z_]\w*)\s*\(`),
	rule("class", `^\s*class\s+([A-Za-z_]\w*)\s*[:(]`),
}

var javascriptRules = []Rule{
	rule("function", `^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(`),
	rule("function", `^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*=>`),
	rule("class", `^\s*(?:export\s+)?(?:default\s+)?class\s+([A-Za-z_$][\w$]*)`),
}

var typescriptRules = append(append([]Rule{}, javascriptRules...),
	rule("interface", `^\s*(?:export\s+)?interface\s+([A-Za-z_$][\w$]*)`),
	rule("type", `^\s*(?:export\s+)?type\s+([A-Za-z_$][\w$]*)\s*(?:<[^>]*>)?\s*=`),
)

var goRules = []Rule{
	rule("method", `^func\s+\([^)]*\)\s*([A-Za-z_]\w*)\s*[\[(]`),
	rule("function", `^func\s+([A-Za-z_]\w*)\s*[\[(]`),
	rule("struct", `^\s*(?:type\s+)?([A-Za-z_]\w*)(?:\[[^\]]*\])?\s+struct\s*\{`),
	rule("interface", `^\s*(?:type\s+)?([A-Za-z_]\w*)(?:\[[^\]]*\])?\s+interface\s*\{`),
}

var rustRules = []Rule{
	rule("function", `^\s*(?:pub(?:\([^)]*\))?\s+)?(?:const\s+)?(?:async\s+)?(?:unsafe\s+)?fn\s+([A-Za-z_]\w*)`),
	rule("struct", `^\s*(?:pub(?:\([^)]*\))?\s+)?struct\s+([A-Za-z_]\w*)`),
	rule("trait", `^\s*(?:pub(?:\([^)]*\))?\s+)?trait\s+([A-Za-z_]\w*)`),
	rule("enum", `^\s*(?:pub(?:\([^)]*\))?\s+)?enum\s+([A-Za-z_]\w*)`),
}

var javaRules = []Rule{
	rule("class", `^\s*(?:(?:public|private|protected|abstract|final|static|sealed)\s+)*class\s+([A-Za-z_]\w*)`),
	rule("interface", `^\s*(?:(?:public|private|protected|abstract|static|sealed)\s+)*interface\s+([A-Za-z_]\w*)`),
	rule("enum", `^\s*(?:(?:public|private|protected|static)\s+)*enum\s+([A-Za-z_]\w*)`),
	rule("method", `^\s*(?:(?:public|private|protected|static|final|abstract|synchronized)\s+)+[\w<>\[\],.? ]+?\s+([A-Za-z_]\w*)\s*\(`),
}

var rubyRules = []Rule{
	rule("method", `^\s*def\s+(?:self\.)?([A-Za-z_]\w*[?!]?)`),
	rule("class", `^\s*class\s+([A-Z]\w*)`),
	rule("module", `^\s*module\s+([A-Z]\w*)`),
}

// TableFor returns the declaration rules for kind, in match order.
func TableFor(kind project.Kind) []Rule {
	switch kind {
	case project.Python:
		return pythonRules
	case project.JavaScript:
		return javascriptRules
	case project.TypeScript:
		return typescriptRules
	case project.Go:
		return goRules
	case project.Rust:
		return rustRules
	case project.Java:
		return javaRules
	case project.Ruby:
		return rubyRules
	case project.Unknown:
		return nil
	default:
		panic("analysis: no rule table for " + kind.String())
	}
}

var pythonImports = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\+\s*import\s+([\w.]+)`),
	regexp.MustCompile(`(?m)^\+\s*from\s+([\w.]+)\s+import\b`),
}

var javascriptImports = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\+\s*import\s+(?:[\w$*{},\s]+\s+from\s+)?['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?m)^\+.*\brequire\(\s*['"]([^'"]+)['"]\s*\)`),
}

var goImports = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\+\s*import\s+(?:[\w.]+\s+)?"([^"]+)"`),
	regexp.MustCompile(`(?m)^\+\t(?:[\w.]+\s+)?"([\w.\-/]+)"\s*$`),
}

var rustImports = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\+\s*(?:pub\s+)?use\s+([A-Za-z_]\w*)`),
	regexp.MustCompile(`(?m)^\+\s*extern\s+crate\s+([A-Za-z_]\w*)`),
}

var javaImports = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\+\s*import\s+(?:static\s+)?(?:\w+\.)*(\w+)(?:\.\*)?\s*;`),
}

var rubyImports = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\+\s*require(?:_relative)?\s*\(?\s*['"]([^'"]+)['"]`),
}

// ImportPatternsFor returns the multi-line import expressions for kind.
func ImportPatternsFor(kind project.Kind) []*regexp.Regexp {
	switch kind {
	case project.Python:
		return pythonImports
	case project.JavaScript, project.TypeScript:
		return javascriptImports
	case project.Go:
		return goImports
	case project.Rust:
		return rustImports
	case project.Java:
		return javaImports
	case project.Ruby:
		return rubyImports
	case project.Unknown:
		return nil
	default:
		panic("analysis: no import table for " + kind.String())
	}
}
