// Package project identifies the dominant language of a working tree from
// the build manifests at its root.
package project

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Kind is a detected project language.
type Kind int

const (
	Unknown Kind = iota
	TypeScript
	JavaScript
	Python
	Go
	Rust
	Java
	Ruby
)

// Kinds lists every Kind, Unknown first.
var Kinds = []Kind{Unknown, TypeScript, JavaScript, Python, Go, Rust, Java, Ruby}

func (k Kind) String() string {
	switch k {
	case TypeScript:
		return "typescript"
	case JavaScript:
		return "javascript"
	case Python:
		return "python"
	case Go:
		return "go"
	case Rust:
		return "rust"
	case Java:
		return "java"
	case Ruby:
		return "ruby"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String. Unrecognized labels map to Unknown.
func ParseKind(s string) Kind {
	for _, k := range Kinds {
		if k.String() == s {
			return k
		}
	}
	return Unknown
}

type marker struct {
	file string
	kind Kind
}

// markers are checked in order; the first file present wins. A tree with
// both package.json and tsconfig.json is JavaScript.
var markers = []marker{
	{"package.json", JavaScript},
	{"tsconfig.json", TypeScript},
	{"requirements.txt", Python},
	{"pyproject.toml", Python},
	{"setup.py", Python},
	{"Pipfile", Python},
	{"go.mod", Go},
	{"Cargo.toml", Rust},
	{"pom.xml", Java},
	{"Gemfile", Ruby},
	{"build.gradle", Java},
	{"build.gradle.kts", Java},
}

// Detect inspects root for a known manifest. An empty, missing or
// unreadable root yields Unknown.
func Detect(root string) Kind {
	if root == "" {
		return Unknown
	}
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(root, m.file)); err == nil {
			return m.kind
		}
	}
	return Unknown
}

// Detector memoizes Detect per root. The watch loop re-analyzes the same
// tree repeatedly and manifests rarely change.
type Detector struct {
	cache *lru.Cache[string, Kind]
}

// NewDetector returns a Detector remembering up to size roots.
func NewDetector(size int) *Detector {
	if size <= 0 {
		size = 64
	}
	cache, err := lru.New[string, Kind](size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &Detector{cache: cache}
}

// Detect returns the cached Kind for root, detecting it on a miss.
// Unknown results are not cached so a freshly added manifest is noticed.
func (d *Detector) Detect(root string) Kind {
	if root == "" {
		return Unknown
	}
	if k, ok := d.cache.Get(root); ok {
		return k
	}
	k := Detect(root)
	if k != Unknown {
		d.cache.Add(root, k)
	}
	return k
}

// Forget drops root from the cache.
func (d *Detector) Forget(root string) {
	d.cache.Remove(root)
}
