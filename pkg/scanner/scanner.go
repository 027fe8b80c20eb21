// Package scanner splits MyST source text into lines.
//
// The scanner is purely syntactic: it never fails, it recognises "\n", "\r\n"
// and a lone "\r" as line endings, and a final line without a terminator is
// still a complete line.
package scanner

import "iter"

// Line is a single source line with its line ending stripped.
type Line struct {
	// Text is the line content without the line ending.
	Text string

	// Offset is the byte index of the first byte of the line in the source.
	Offset int

	// Number is the 1-based line number.
	Number int
}

// End returns the byte offset just past the line content (before the newline).
func (l Line) End() int {
	return l.Offset + len(l.Text)
}

// IsBlank returns true if the line holds only spaces and tabs.
func (l Line) IsBlank() bool {
	for i := 0; i < len(l.Text); i++ {
		if l.Text[i] != ' ' && l.Text[i] != '\t' {
			return false
		}
	}
	return true
}

// Scanner produces the lines of a source text.
// A Scanner holds no cursor, so every call to Lines restarts from the top.
type Scanner struct {
	source string
}

// New creates a scanner over source.
func New(source string) *Scanner {
	return &Scanner{source: source}
}

// Source returns the text being scanned.
func (s *Scanner) Source() string {
	return s.source
}

// Lines returns a lazy sequence of the source lines.
func (s *Scanner) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		src := s.source
		start := 0
		number := 1

		for idx := 0; idx < len(src); idx++ {
			char := src[idx]
			if char != '\n' && char != '\r' {
				continue
			}

			if !yield(Line{Text: src[start:idx], Offset: start, Number: number}) {
				return
			}

			// Treat CRLF as one terminator.
			if char == '\r' && idx+1 < len(src) && src[idx+1] == '\n' {
				idx++
			}
			start = idx + 1
			number++
		}

		if start < len(src) {
			yield(Line{Text: src[start:], Offset: start, Number: number})
		}
	}
}

// Scan collects all lines of source.
func Scan(source string) []Line {
	var lines []Line
	for line := range New(source).Lines() {
		lines = append(lines, line)
	}
	return lines
}

// LineStarts returns the byte offsets at which each line begins.
func LineStarts(lines []Line) []int {
	starts := make([]int, len(lines))
	for i, line := range lines {
		starts[i] = line.Offset
	}
	return starts
}
