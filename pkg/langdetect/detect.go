// Package langdetect identifies the languages of code fences.
//
// Declared fence languages are resolved to canonical names through go-enry's
// alias and extension tables; fence content is classified with shebangs, a few strong
// syntactic patterns and finally the go-enry Bayesian classifier.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when content cannot be attributed to a language.
const Text = "text"

// Fence describes the declared and detected language of one code fence.
type Fence struct {
	// Declared is the language word from the fence info string.
	Declared string `json:"declared,omitempty"`

	// Canonical is the go-enry name for Declared, empty when unknown.
	Canonical string `json:"canonical,omitempty"`

	// Detected is the fence tag guessed from the content.
	Detected string `json:"detected"`
}

// Mismatch reports whether the declared language disagrees with the content.
// Undeclared fences and unrecognised content never mismatch.
func (f Fence) Mismatch() bool {
	if f.Canonical == "" || f.Detected == "" || f.Detected == Text {
		return false
	}
	return Tag(f.Canonical) != f.Detected
}

// Classify resolves a declared fence language and detects the content's.
func Classify(declared string, content []byte) Fence {
	fence := Fence{Declared: declared, Detected: Detect(content)}
	if name, ok := Canonical(declared); ok {
		fence.Canonical = name
	}
	return fence
}

// Canonical resolves a fence language alias ("py", "golang", "sh") to its
// go-enry name ("Python", "Go", "Shell"). Tags that Linguist only knows as
// file extensions ("py", "rb") resolve when the extension is unambiguous.
func Canonical(alias string) (string, bool) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return "", false
	}
	if lang, ok := enry.GetLanguageByAlias(alias); ok {
		return lang, true
	}
	if strings.ContainsAny(alias, "./\\") {
		return "", false
	}
	lang, safe := enry.GetLanguageByExtension("fence." + strings.ToLower(alias))
	if !safe || lang == "" {
		return "", false
	}
	return lang, true
}

// classifierCandidates limits the classifier to languages commonly fenced in
// documentation.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile", "TeX",
}

// Detect returns the fence tag for content, or Text when unsure.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return Tag(lang)
	}

	for _, pattern := range patterns {
		if pattern.match(content) {
			return pattern.tag
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return Tag(lang)
	}

	return Text
}

// Tag converts a go-enry language name to a fence tag.
func Tag(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}

type pattern struct {
	tag   string
	match func(content []byte) bool
}

// patterns are tried in order, most specific first.
//
//nolint:gochecknoglobals // Read-only detector table.
var patterns = []pattern{
	{"go", func(c []byte) bool {
		return bytes.HasPrefix(bytes.TrimSpace(c), []byte("package "))
	}},
	{"python", isPython},
	{"html", func(c []byte) bool {
		return containsAny(bytes.ToLower(c), "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"json", func(c []byte) bool {
		trimmed := bytes.TrimSpace(c)
		return (trimmed[0] == '{' || trimmed[0] == '[') && bytes.IndexByte(trimmed, '"') >= 0
	}},
	{"dockerfile", func(c []byte) bool {
		return bytes.HasPrefix(bytes.TrimSpace(c), []byte("FROM ")) ||
			(bytes.Contains(c, []byte("\nFROM ")) && bytes.Contains(c, []byte("\nRUN ")))
	}},
	{"sql", func(c []byte) bool {
		upper := bytes.ToUpper(bytes.TrimSpace(c))
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if bytes.HasPrefix(upper, []byte(verb)) {
				return true
			}
		}
		return false
	}},
	{"rust", func(c []byte) bool {
		return containsAny(c, "fn main()", "println!", "let mut ")
	}},
	{"tex", func(c []byte) bool {
		return containsAny(c, "\\begin{", "\\frac{", "\\documentclass")
	}},
	{"javascript", func(c []byte) bool {
		return containsAny(c, "=>", "const ", "console.log", "function ")
	}},
	{"yaml", isYAML},
}

func isPython(c []byte) bool {
	s := string(c)
	if strings.Contains(s, "def ") && strings.Contains(s, "):") {
		return true
	}
	if strings.Contains(s, "__name__") {
		return true
	}
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "import ") && !strings.HasPrefix(trimmed, "import (") ||
		strings.HasPrefix(trimmed, "from ") && strings.Contains(s, " import ")
}

// isYAML counts "key: value" lines and root list items.
func isYAML(c []byte) bool {
	count := 0
	for line := range bytes.Lines(c) {
		line = bytes.TrimSpace(line)
		switch {
		case len(line) == 0 || line[0] == '#':
		case bytes.HasPrefix(line, []byte("- ")):
			count++
		case bytes.Contains(line, []byte(": ")) || bytes.HasSuffix(line, []byte(":")):
			if !containsAny(line, "(", "{", `"`) {
				count++
			}
		}
	}
	return count >= 2
}

func containsAny(c []byte, needles ...string) bool {
	for _, needle := range needles {
		if bytes.Contains(c, []byte(needle)) {
			return true
		}
	}
	return false
}
