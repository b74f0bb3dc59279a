package analysis

import (
	"regexp"
	"strings"
)

var configPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\.json$`),
	regexp.MustCompile(`(?i)\.ya?ml$`),
	regexp.MustCompile(`(?i)\.toml$`),
	regexp.MustCompile(`(?i)\.ini$`),
	regexp.MustCompile(`(?i)\.env`),
	regexp.MustCompile(`(?i)config`),
	regexp.MustCompile(`(?i)settings`),
}

var testPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)test_`),
	regexp.MustCompile(`(?i)_test\.`),
	regexp.MustCompile(`(?i)\.test\.`),
	regexp.MustCompile(`(?i)spec\.`),
	regexp.MustCompile(`(?i)\.spec\.`),
	regexp.MustCompile(`(?i)/tests?/`),
	regexp.MustCompile(`(?i)/spec/`),
	regexp.MustCompile(`(?i)/__tests__/`),
}

// IsConfigPath reports whether path looks like configuration.
func IsConfigPath(path string) bool {
	return matchAny(configPatterns, path)
}

// IsTestPath reports whether path looks like a test. The path is anchored
// with a leading slash so "tests/x.py" matches the /tests/ segment rule.
func IsTestPath(path string) bool {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return matchAny(testPatterns, path)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
