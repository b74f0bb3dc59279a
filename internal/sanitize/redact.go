// Package sanitize masks secrets in diff text before it leaves the
// working tree, either into the archive or to a narrator backend.
package sanitize

import (
	"regexp"
)

// Mask replaces every redacted value.
const Mask = "[REDACTED]"

type rule struct {
	pattern *regexp.Regexp
	// keep is the replacement template; it re-emits the captured prefix
	// so assignments stay readable.
	keep string
}

var rules = []rule{
	{regexp.MustCompile(`(?s)-----BEGIN [A-Z ]*PRIVATE KEY-----.*?-----END [A-Z ]*PRIVATE KEY-----`), Mask},
	{regexp.MustCompile(`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`), Mask},
	{regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`), Mask},
	{regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9_]{22,}\b`), Mask},
	{regexp.MustCompile(`\bsk-(?:proj-|ant-)?[A-Za-z0-9_\-]{20,}`), Mask},
	{regexp.MustCompile(`\bxai-[A-Za-z0-9]{20,}\b`), Mask},
	{regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{35}\b`), Mask},
	{regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9\-]{10,}`), Mask},
	{
		regexp.MustCompile(`(?i)((?:api[_-]?key|secret|token|password|passwd)[\w.\-]*["']?\s*[:=]\s*)(["']?)[^\s"',;]{6,}(["']?)`),
		"${1}${2}" + Mask + "${3}",
	},
}

// Redact masks token-shaped secrets, key/secret/token/password
// assignments and PEM private key blocks in text.
func Redact(text string) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.keep)
	}
	return text
}

// Count reports how many redaction matches text contains.
func Count(text string) int {
	n := 0
	for _, r := range rules {
		n += len(r.pattern.FindAllStringIndex(text, -1))
		text = r.pattern.ReplaceAllString(text, r.keep)
	}
	return n
}
