package myst

import "strings"

// tabStopSize is the column width of a tab stop.
const tabStopSize = 4

// codeIndent is the column width of an indent that starts an indented code
// block or stops a line from opening any other block.
const codeIndent = 4

// segment is a run of leaf text with the source offset of its first byte.
type segment struct {
	text   string
	offset int
}

func (s segment) end() int {
	return s.offset + len(s.text)
}

// cursor walks a single line while containers consume their markers.
// Columns follow tab stops so that a tab may be partially consumed.
type cursor struct {
	line segment

	pos    int // byte position within line
	column int // column of pos
	split  bool

	// Filled by scanIndent.
	next       int
	nextColumn int
	indent     int
	blank      bool
}

func newCursor(line segment) *cursor {
	c := &cursor{line: line}
	c.scanIndent()
	return c
}

// scanIndent locates the next non-space byte.
func (c *cursor) scanIndent() {
	text := c.line.text
	idx := c.pos
	col := c.column

	for idx < len(text) {
		switch text[idx] {
		case ' ':
			idx++
			col++
			continue
		case '\t':
			idx++
			col += tabStopSize - col%tabStopSize
			continue
		}
		break
	}

	c.next = idx
	c.nextColumn = col
	c.indent = col - c.column
	c.blank = idx >= len(text)
}

// advance moves forward by count bytes, or count columns when columns is
// set, possibly stopping in the middle of a tab.
func (c *cursor) advance(count int, columns bool) {
	text := c.line.text
	for count > 0 && c.pos < len(text) {
		if text[c.pos] == '\t' {
			toTab := tabStopSize - c.column%tabStopSize
			if columns {
				c.split = toTab > count
				step := min(toTab, count)
				c.column += step
				if !c.split {
					c.pos++
				}
				count -= step
			} else {
				c.split = false
				c.column += toTab
				c.pos++
				count--
			}
			continue
		}
		c.split = false
		c.pos++
		c.column++
		count--
	}
	c.scanIndent()
}

// advanceToNext skips to the next non-space byte.
func (c *cursor) advanceToNext() {
	c.pos = c.next
	c.column = c.nextColumn
	c.split = false
	c.scanIndent()
}

// peek returns the byte at the next non-space position, or 0.
func (c *cursor) peek() byte {
	if c.next < len(c.line.text) {
		return c.line.text[c.next]
	}
	return 0
}

// rest returns the remainder of the line from the next non-space byte.
func (c *cursor) rest() string {
	return c.line.text[c.next:]
}

// restOffset is the source offset of the next non-space byte.
func (c *cursor) restOffset() int {
	return c.line.offset + c.next
}

// remaining returns the rest of the line from the current position.
// A partially consumed tab is expanded to the spaces it still covers.
func (c *cursor) remaining() segment {
	if c.split {
		toTab := tabStopSize - c.column%tabStopSize
		return segment{
			text:   strings.Repeat(" ", toTab) + c.line.text[c.pos+1:],
			offset: c.line.offset + c.pos,
		}
	}
	return segment{text: c.line.text[c.pos:], offset: c.line.offset + c.pos}
}
