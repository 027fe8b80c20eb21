package myst

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// blockMatch reports how a continuation rule or block start handled a line.
type blockMatch int8

const (
	noMatch blockMatch = iota

	// matched means the block continues (or a container opened) and the
	// rest of the line still needs handling.
	matched

	// matchedLeaf means a leaf that accepts lines was opened and the rest of
	// the line is its first content line.
	matchedLeaf

	// matchedLine means the whole line was consumed.
	matchedLine
)

// openBlock is the parser-side state of one block. It outlives the close of
// its node so that list tightness can be computed from child records.
type openBlock struct {
	node  *mdast.Node
	kind  mdast.NodeKind
	start int
	end   int

	// lines holds leaf content (paragraph, code, math, directive body).
	lines []segment

	// capture marks fence-like leaves that take every line verbatim.
	capture bool

	lastLineBlank bool
	startLine     int

	// List and list item.
	list          mdast.ListAttrs
	contentIndent int

	// Fences.
	fence     fenceInfo
	code      mdast.CodeAttrs
	directive mdast.DirectiveAttrs
}

// fenceInfo describes an opening fence.
type fenceInfo struct {
	char   byte
	length int
	indent int
}

// blockParser builds the block skeleton below one root node. Directive
// bodies are handled by nested blockParsers sharing the same builder.
type blockParser struct {
	log   *log.Logger
	bld   *mdast.Builder
	depth int

	stack       []*openBlock
	info        map[*mdast.Node]*openBlock
	lastMatched int
	lineNo      int
}

func newBlockParser(logger *log.Logger, bld *mdast.Builder, root *mdast.Node, depth int) *blockParser {
	rootBlock := &openBlock{node: root, kind: root.Kind(), start: root.Span().Start, end: root.Span().End}
	return &blockParser{
		log:   logger,
		bld:   bld,
		depth: depth,
		stack: []*openBlock{rootBlock},
		info:  map[*mdast.Node]*openBlock{root: rootBlock},
	}
}

// run parses every line and closes all blocks left open at the end.
func (p *blockParser) run(lines []segment) {
	for _, line := range lines {
		if p.bld.Err() != nil {
			return
		}
		p.lineNo++
		p.processLine(line)
	}

	for len(p.stack) > 1 {
		top := p.tip()
		if top.capture {
			p.log.Debug("unterminated fence closed at end of input",
				"kind", top.kind, "offset", top.start)
		}
		p.closeTop()
	}
}

func (p *blockParser) tip() *openBlock {
	return p.stack[len(p.stack)-1]
}

func (p *blockParser) container() *openBlock {
	return p.stack[p.lastMatched]
}

// processLine incorporates one line into the open-block stack.
func (p *blockParser) processLine(line segment) {
	cur := newCursor(line)

	p.lastMatched = 0
continuation:
	for idx := 1; idx < len(p.stack); idx++ {
		switch p.continueBlock(p.stack[idx], cur, line) {
		case matched:
			p.lastMatched = idx
		case matchedLine:
			p.touch(line)
			return
		default:
			break continuation
		}
	}

	unmatched := p.lastMatched < len(p.stack)-1
	opened := false

	container := p.container()
	leaf := container.capture || container.kind == mdast.NodeCodeFence

	for !leaf {
		result := noMatch
		for _, start := range blockStarts {
			if result = start(p, cur); result != noMatch {
				break
			}
		}

		if result == noMatch {
			break
		}
		opened = true

		switch result {
		case matchedLine:
			p.touch(line)
			return
		case matchedLeaf:
			leaf = true
		}
		container = p.container()
	}

	// Lazy continuation of a paragraph left open by unmatched containers.
	if !opened && unmatched && !cur.blank && p.tip().kind == mdast.NodeParagraph {
		p.addLine(p.tip(), cur)
		p.touch(line)
		return
	}

	p.closeUnmatched()
	container = p.tip()

	if cur.blank {
		if last := container.node.LastChild(); last != nil {
			if rec := p.info[last]; rec != nil {
				rec.lastLineBlank = true
			}
		}
	}

	lastLineBlank := cur.blank && !(container.kind == mdast.NodeBlockQuote ||
		(container.capture && container.kind == mdast.NodeCodeFence) ||
		(container.kind == mdast.NodeListItem && !container.node.HasChildren() && container.startLine == p.lineNo))
	for _, ob := range p.stack {
		ob.lastLineBlank = lastLineBlank
	}

	switch {
	case container.capture || container.kind == mdast.NodeParagraph || container.kind == mdast.NodeCodeFence:
		p.addLine(container, cur)
	case !cur.blank:
		para := p.openChild(mdast.NodeParagraph, cur.restOffset())
		p.addLine(para, cur)
	}

	if !cur.blank || p.tip().capture {
		p.touch(line)
	}
}

// touch extends every open block to the end of line.
func (p *blockParser) touch(line segment) {
	for _, ob := range p.stack[1:] {
		if line.end() > ob.end {
			ob.end = line.end()
		}
	}
}

// addLine appends the rest of the line to a leaf block.
func (p *blockParser) addLine(ob *openBlock, cur *cursor) {
	if ob.kind == mdast.NodeParagraph {
		ob.lines = append(ob.lines, segment{text: cur.rest(), offset: cur.restOffset()})
		return
	}
	ob.lines = append(ob.lines, cur.remaining())
}

// continueBlock applies the continuation rule of an open block.
func (p *blockParser) continueBlock(ob *openBlock, cur *cursor, line segment) blockMatch {
	switch ob.kind {
	case mdast.NodeBlockQuote:
		if cur.indent >= codeIndent || cur.peek() != '>' {
			return noMatch
		}
		cur.advanceToNext()
		cur.advance(1, false)
		if cur.pos < len(cur.line.text) && isSpaceOrTab(cur.line.text[cur.pos]) {
			cur.advance(1, true)
		}
		return matched

	case mdast.NodeListItem:
		if cur.blank {
			if !ob.node.HasChildren() {
				return noMatch
			}
			cur.advanceToNext()
			return matched
		}
		if cur.indent >= ob.contentIndent {
			cur.advance(ob.contentIndent, true)
			return matched
		}
		return noMatch

	case mdast.NodeList, mdast.NodeContainer:
		return matched

	case mdast.NodeParagraph:
		if cur.blank {
			return noMatch
		}
		return matched

	case mdast.NodeCodeFence:
		if !ob.capture {
			// Indented code.
			if cur.indent >= codeIndent {
				cur.advance(codeIndent, true)
				return matched
			}
			if cur.blank {
				cur.advanceToNext()
				return matched
			}
			return noMatch
		}
		return p.continueFence(ob, cur, line)

	case mdast.NodeDirectiveFence:
		return p.continueFence(ob, cur, line)

	case mdast.NodeMathBlock:
		if cur.indent < codeIndent {
			rest := strings.TrimRight(cur.rest(), " \t")
			if before, ok := strings.CutSuffix(rest, "$$"); ok {
				if strings.TrimSpace(before) != "" {
					ob.lines = append(ob.lines, segment{text: before, offset: cur.restOffset()})
				}
				ob.end = line.end()
				p.closeTop()
				return matchedLine
			}
		}
		p.stripFenceIndent(ob, cur)
		return matched
	}

	return noMatch
}

// continueFence closes a code or directive fence on a matching closing
// fence, and otherwise strips the opening fence's indentation.
func (p *blockParser) continueFence(ob *openBlock, cur *cursor, line segment) blockMatch {
	if cur.indent < codeIndent && cur.peek() == ob.fence.char {
		rest := cur.rest()
		run := countRun(rest, ob.fence.char)
		if run >= ob.fence.length && strings.Trim(rest[run:], " \t") == "" {
			ob.end = line.end()
			p.closeTop()
			return matchedLine
		}
	}
	p.stripFenceIndent(ob, cur)
	return matched
}

func (p *blockParser) stripFenceIndent(ob *openBlock, cur *cursor) {
	for i := ob.fence.indent; i > 0 && cur.pos < len(cur.line.text) && isSpaceOrTab(cur.line.text[cur.pos]); i-- {
		cur.advance(1, true)
	}
}

// canContain reports whether a block of kind parent accepts child blocks of
// kind child.
func canContain(parent, child mdast.NodeKind) bool {
	switch parent {
	case mdast.NodeList:
		return child == mdast.NodeListItem
	case mdast.NodeDocument, mdast.NodeBlockQuote, mdast.NodeListItem,
		mdast.NodeContainer, mdast.NodeDirectiveFence:
		return child != mdast.NodeListItem
	}
	return false
}

// openChild closes unmatched blocks and any block that cannot hold kind,
// then opens a new block starting at offset.
func (p *blockParser) openChild(kind mdast.NodeKind, offset int) *openBlock {
	p.closeUnmatched()
	for !canContain(p.tip().kind, kind) || p.tip().capture {
		p.closeTop()
	}

	node := p.bld.NewNode(kind, mdast.Span{Start: offset, End: offset})
	p.bld.AppendChild(p.tip().node, node)

	ob := &openBlock{node: node, kind: kind, start: offset, end: offset, startLine: p.lineNo}
	p.info[node] = ob
	p.stack = append(p.stack, ob)
	p.lastMatched = len(p.stack) - 1
	return ob
}

// closeUnmatched closes blocks whose continuation failed on this line.
func (p *blockParser) closeUnmatched() {
	for len(p.stack)-1 > p.lastMatched {
		p.closeTop()
	}
}

// closeTop finalizes the innermost open block.
func (p *blockParser) closeTop() {
	ob := p.tip()
	p.stack = p.stack[:len(p.stack)-1]
	if p.lastMatched >= len(p.stack) {
		p.lastMatched = len(p.stack) - 1
	}
	p.finalize(ob)
}

// finalize sets attributes and runs inline parsing for a closed block.
func (p *blockParser) finalize(ob *openBlock) {
	switch ob.kind {
	case mdast.NodeParagraph:
		if n := len(ob.lines); n > 0 {
			last := &ob.lines[n-1]
			last.text = strings.TrimRight(last.text, " \t")
			ob.end = max(ob.end, last.end())
		}
		p.parseInlines(ob.node, ob.lines)

	case mdast.NodeCodeFence:
		lines := ob.lines
		if ob.code.Indented {
			for len(lines) > 0 && strings.Trim(lines[len(lines)-1].text, " \t") == "" {
				lines = lines[:len(lines)-1]
			}
			if len(lines) > 0 {
				ob.end = lines[len(lines)-1].end()
			}
		}
		code := ob.code
		code.Value = joinLines(lines)
		p.bld.SetBlockAttrs(ob.node, mdast.BlockAttrs{Code: &code})

	case mdast.NodeMathBlock:
		p.bld.SetBlockAttrs(ob.node, mdast.BlockAttrs{Value: strings.TrimSpace(joinLines(ob.lines))})

	case mdast.NodeDirectiveFence:
		p.finishDirective(ob)

	case mdast.NodeList:
		attrs := ob.list
		attrs.Tight = p.isTight(ob.node)
		p.bld.SetBlockAttrs(ob.node, mdast.BlockAttrs{List: &attrs})
	}

	p.bld.SetSpan(ob.node, mdast.Span{Start: ob.start, End: max(ob.start, ob.end)})
}

// isTight reports whether no blank line separates the items of a list or
// two blocks inside one item.
func (p *blockParser) isTight(list *mdast.Node) bool {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		if p.endsWithBlankLine(item) && item.NextSibling() != nil {
			return false
		}
		for sub := item.FirstChild(); sub != nil; sub = sub.NextSibling() {
			if p.endsWithBlankLine(sub) && (item.NextSibling() != nil || sub.NextSibling() != nil) {
				return false
			}
		}
	}
	return true
}

func (p *blockParser) endsWithBlankLine(node *mdast.Node) bool {
	for node != nil {
		rec := p.info[node]
		if rec == nil {
			return false
		}
		if rec.lastLineBlank {
			return true
		}
		if node.Kind() != mdast.NodeList && node.Kind() != mdast.NodeListItem {
			return false
		}
		node = node.LastChild()
	}
	return false
}

// openLeaf opens and immediately closes a single-line block.
func (p *blockParser) openLeaf(kind mdast.NodeKind, cur *cursor, attrs mdast.BlockAttrs) *openBlock {
	ob := p.openChild(kind, cur.restOffset())
	ob.end = cur.line.end()
	p.bld.SetBlockAttrs(ob.node, attrs)
	p.closeTop()
	return ob
}

// parseInlines resolves the inline content of a leaf block.
func (p *blockParser) parseInlines(parent *mdast.Node, lines []segment) {
	newInlineParser(p.bld, lines).parse(parent)
}

func joinLines(lines []segment) string {
	switch len(lines) {
	case 0:
		return ""
	case 1:
		return lines[0].text
	}

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line.text)
	}
	return sb.String()
}

func isSpaceOrTab(c byte) bool {
	return c == ' ' || c == '\t'
}

func countRun(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}
