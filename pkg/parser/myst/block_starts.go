package myst

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// blockStart tries to open a block at the cursor.
type blockStart func(p *blockParser, cur *cursor) blockMatch

// blockStarts lists block openers in priority order. It is filled in init
// because the openers reach back into processLine through directive bodies.
//
//nolint:gochecknoglobals // Static dispatch table.
var blockStarts []blockStart

func init() {
	blockStarts = []blockStart{
		startIndentedCode,
		startThematicBreak,
		startATXHeading,
		startFence,
		startBlockQuote,
		startListItem,
		startContainer,
		startComment,
		startTarget,
	}
}

func startIndentedCode(p *blockParser, cur *cursor) blockMatch {
	if cur.indent < codeIndent || cur.blank || p.tip().kind == mdast.NodeParagraph {
		return noMatch
	}
	cur.advance(codeIndent, true)
	ob := p.openChild(mdast.NodeCodeFence, cur.line.offset+cur.pos)
	ob.code = mdast.CodeAttrs{Indented: true}
	return matchedLeaf
}

func startThematicBreak(p *blockParser, cur *cursor) blockMatch {
	if cur.indent >= codeIndent || !isThematicBreak(cur.rest()) {
		return noMatch
	}
	p.openLeaf(mdast.NodeThematicBreak, cur, mdast.BlockAttrs{})
	return matchedLine
}

func startATXHeading(p *blockParser, cur *cursor) blockMatch {
	if cur.indent >= codeIndent || cur.peek() != '#' {
		return noMatch
	}
	rest := cur.rest()
	heading := parseATXHeading(rest)
	if heading.level == 0 {
		return noMatch
	}

	ob := p.openLeaf(mdast.NodeHeading, cur, mdast.BlockAttrs{HeadingLevel: heading.level})
	content := segment{
		text:   rest[heading.contentStart:heading.contentEnd],
		offset: cur.restOffset() + heading.contentStart,
	}
	p.parseInlines(ob.node, []segment{content})
	return matchedLine
}

func startBlockQuote(p *blockParser, cur *cursor) blockMatch {
	if cur.indent >= codeIndent || cur.peek() != '>' {
		return noMatch
	}
	offset := cur.restOffset()
	cur.advanceToNext()
	cur.advance(1, false)
	if cur.pos < len(cur.line.text) && isSpaceOrTab(cur.line.text[cur.pos]) {
		cur.advance(1, true)
	}
	p.openChild(mdast.NodeBlockQuote, offset)
	return matched
}

func startListItem(p *blockParser, cur *cursor) blockMatch {
	container := p.container()
	if cur.indent >= codeIndent {
		return noMatch
	}

	marker, ok := parseListMarker(cur.rest())
	if !ok {
		return noMatch
	}

	interrupting := container.kind == mdast.NodeParagraph
	if interrupting && marker.Ordered && marker.Start != 1 {
		return noMatch
	}

	rest := cur.rest()[marker.width:]
	if rest != "" && !isSpaceOrTab(rest[0]) {
		return noMatch
	}
	if interrupting && strings.Trim(rest, " \t") == "" {
		return noMatch
	}

	offset := cur.restOffset()
	markerOffset := cur.indent
	cur.advanceToNext()
	cur.advance(marker.width, true)

	// Up to four columns of spaces after the marker belong to the marker.
	saved := *cur
	spacesStart := cur.column
	for cur.column-spacesStart < 5 && cur.pos < len(cur.line.text) && isSpaceOrTab(cur.line.text[cur.pos]) {
		cur.advance(1, true)
	}
	spaces := cur.column - spacesStart
	blankItem := cur.pos >= len(cur.line.text)

	padding := marker.width + spaces
	if spaces >= 5 || spaces < 1 || blankItem {
		*cur = saved
		padding = marker.width + 1
		if cur.pos < len(cur.line.text) && isSpaceOrTab(cur.line.text[cur.pos]) {
			cur.advance(1, true)
		}
	}

	if container.kind != mdast.NodeList || !listsMatch(container.list, marker.ListAttrs) {
		list := p.openChild(mdast.NodeList, offset)
		list.list = marker.ListAttrs
	}

	item := p.openChild(mdast.NodeListItem, offset)
	item.contentIndent = markerOffset + padding
	return matched
}

func startContainer(p *blockParser, cur *cursor) blockMatch {
	if cur.indent >= codeIndent || !strings.HasPrefix(cur.rest(), "+++") {
		return noMatch
	}
	meta := strings.TrimSpace(cur.rest()[3:])
	offset := cur.restOffset()

	p.closeUnmatched()
	for len(p.stack) > 1 {
		p.closeTop()
	}

	ob := p.openChild(mdast.NodeContainer, offset)
	ob.end = cur.line.end()
	p.bld.SetBlockAttrs(ob.node, mdast.BlockAttrs{Meta: meta})
	return matchedLine
}

func startComment(p *blockParser, cur *cursor) blockMatch {
	if cur.indent >= codeIndent || cur.peek() != '%' {
		return noMatch
	}
	value := strings.TrimSpace(cur.rest()[1:])
	p.openLeaf(mdast.NodeComment, cur, mdast.BlockAttrs{Value: value})
	return matchedLine
}

//nolint:gochecknoglobals // Compiled once.
var targetPattern = regexp.MustCompile(`^\(([^()\s][^()]*)\)=\s*$`)

func startTarget(p *blockParser, cur *cursor) blockMatch {
	if cur.indent >= codeIndent || cur.peek() != '(' {
		return noMatch
	}
	match := targetPattern.FindStringSubmatch(cur.rest())
	if match == nil {
		return noMatch
	}
	p.openLeaf(mdast.NodeTarget, cur, mdast.BlockAttrs{Label: strings.TrimSpace(match[1])})
	return matchedLine
}

// isThematicBreak reports whether a line, with indentation removed, is three
// or more matching '-', '_' or '*' characters optionally separated by spaces.
func isThematicBreak(line string) bool {
	count := 0
	var want byte
	for i := 0; i < len(line); i++ {
		switch c := line[i]; c {
		case '-', '_', '*':
			if count == 0 {
				want = c
			} else if c != want {
				return false
			}
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

type atxHeading struct {
	level        int
	contentStart int
	contentEnd   int
}

// parseATXHeading parses a line with indentation removed. The level is zero
// if the line is not an ATX heading.
func parseATXHeading(line string) atxHeading {
	var heading atxHeading
	for heading.level < len(line) && line[heading.level] == '#' {
		heading.level++
	}
	if heading.level == 0 || heading.level > 6 {
		return atxHeading{}
	}

	idx := heading.level
	if idx >= len(line) {
		heading.contentStart = idx
		heading.contentEnd = idx
		return heading
	}
	if !isSpaceOrTab(line[idx]) {
		return atxHeading{}
	}
	for idx < len(line) && isSpaceOrTab(line[idx]) {
		idx++
	}
	heading.contentStart = idx

	end := len(line)
	for end > idx && isSpaceOrTab(line[end-1]) {
		end--
	}

	// Optional closing sequence: spaces then '#'s at the end of the line.
	hashes := end
	for hashes > idx && line[hashes-1] == '#' {
		hashes--
	}
	switch {
	case hashes == idx:
		end = idx
	case hashes < end && isSpaceOrTab(line[hashes-1]):
		end = hashes
		for end > idx && isSpaceOrTab(line[end-1]) {
			end--
		}
	}

	heading.contentEnd = end
	return heading
}

// listMarker is a parsed bullet or ordered list marker.
type listMarker struct {
	mdast.ListAttrs
	width int
}

// parseListMarker parses a list marker at the start of line.
func parseListMarker(line string) (listMarker, bool) {
	if line == "" {
		return listMarker{}, false
	}

	switch c := line[0]; c {
	case '-', '+', '*':
		return listMarker{ListAttrs: mdast.ListAttrs{Marker: c}, width: 1}, true
	}

	digits := 0
	for digits < len(line) && digits < 10 && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits > 9 || digits >= len(line) {
		return listMarker{}, false
	}
	delim := line[digits]
	if delim != '.' && delim != ')' {
		return listMarker{}, false
	}

	start, err := strconv.Atoi(line[:digits])
	if err != nil {
		return listMarker{}, false
	}

	return listMarker{
		ListAttrs: mdast.ListAttrs{Ordered: true, Marker: delim, Start: start},
		width:     digits + 1,
	}, true
}

func listsMatch(list, item mdast.ListAttrs) bool {
	return list.Ordered == item.Ordered && list.Marker == item.Marker
}
