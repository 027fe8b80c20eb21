package mdast

import "sort"

// Span is a half-open byte range [Start, End) in the document source.
type Span struct {
	// Start is the byte index where the range begins (inclusive).
	Start int

	// End is the byte index where the range ends (exclusive).
	End int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains returns true if the given offset is within this span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Position represents a 1-based line and column in a document.
// Columns count bytes, not runes.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// SourcePosition is a span expressed as line/column positions.
type SourcePosition struct {
	Start Position
	End   Position
}

// IsValid returns true if both start and end positions are valid.
func (sp SourcePosition) IsValid() bool {
	return sp.Start.IsValid() && sp.End.IsValid()
}

// IsSingleLine returns true if start and end are on the same line.
func (sp SourcePosition) IsSingleLine() bool {
	return sp.Start.Line == sp.End.Line
}

// lineAt converts a byte offset to a 1-based line and column using the
// sorted line-start index. Returns the zero Position when out of range.
func lineAt(lineStarts []int, sourceLen, offset int) Position {
	if offset < 0 || offset > sourceLen || len(lineStarts) == 0 {
		return Position{}
	}

	// Index of the last line starting at or before offset.
	idx := sort.Search(len(lineStarts), func(i int) bool {
		return lineStarts[i] > offset
	}) - 1

	if idx < 0 {
		return Position{}
	}

	return Position{Line: idx + 1, Column: offset - lineStarts[idx] + 1}
}
