package myst

import (
	"sort"
	"strings"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// inlineItem is an inline element before it becomes an mdast node.
// Literal text, unmatched brackets and delimiter runs are all NodeText items;
// only the latter carry a delimiter index.
type inlineItem struct {
	kind     mdast.NodeKind
	text     string
	start    int
	end      int
	attrs    mdast.InlineAttrs
	children []*inlineItem

	delim   int
	bracket bool
	image   bool
	dead    bool
}

func textItem(text string, start, end int) *inlineItem {
	return &inlineItem{kind: mdast.NodeText, text: text, start: start, end: end, delim: -1}
}

func leafItem(kind mdast.NodeKind, attrs mdast.InlineAttrs, start, end int) *inlineItem {
	return &inlineItem{kind: kind, attrs: attrs, start: start, end: end, delim: -1}
}

// inlineParser resolves the text of one leaf block.
type inlineParser struct {
	bld *mdast.Builder

	segs   []segment
	starts []int
	src    string

	items   []*inlineItem
	delims  []delimiter
	emitted int

	// runs indexes the last run of each length per fence character.
	runs map[byte]map[int]int

	// Single-dollar openers in [mathMissFrom, mathMissTo] have no closer.
	mathMissFrom int
	mathMissTo   int
}

func newInlineParser(bld *mdast.Builder, segs []segment) *inlineParser {
	starts := make([]int, len(segs))
	pos := 0
	for i, seg := range segs {
		starts[i] = pos
		pos += len(seg.text) + 1
	}
	return &inlineParser{bld: bld, segs: segs, starts: starts, src: joinLines(segs), mathMissTo: -1}
}

// emit flushes src[emitted:i] as literal text.
func (p *inlineParser) emit(i int) {
	if p.emitted < i {
		p.items = append(p.items, textItem(p.src[p.emitted:i], p.emitted, i))
	}
	p.emitted = i
}

// push emits pending text up to start, appends x and resumes at end.
func (p *inlineParser) push(x *inlineItem, start, end int) int {
	p.emit(start)
	p.items = append(p.items, x)
	p.emitted = end
	return end
}

// parse scans the leaf text left to right. Code spans, math, autolinks and
// roles are resolved as soon as they are seen and become opaque, so brackets
// and delimiters inside them never match. Links close on ']' and emphasis is
// resolved last over whatever remains.
func (p *inlineParser) parse(parent *mdast.Node) {
	src := p.src
	var opens []int

	for idx := 0; idx < len(src); {
		var (
			item       *inlineItem
			start, end int
			ok         bool
		)

		switch src[idx] {
		case '\\':
			item, start, end, ok = parseEscape(src, idx)
		case '`':
			item, start, end, ok = p.parseCodeSpan(src, idx)
		case '$':
			item, start, end, ok = p.parseInlineMath(src, idx)
		case '<':
			item, start, end, ok = parseAutolink(src, idx)
		case '{':
			item, start, end, ok = p.parseRole(src, idx)
		case '&':
			item, start, end, ok = parseEntity(src, idx)
		case '\n':
			item, start, end, ok = parseLineEnd(src, idx)
		case '*', '_':
			item, start, end, ok = p.parseDelimiterRun(src, idx)
		case '[':
			item, start, end, ok = textItem("[", idx, idx+1), idx, idx+1, true
			item.bracket = true
		case '!':
			if idx+1 < len(src) && src[idx+1] == '[' {
				item, start, end, ok = textItem("![", idx, idx+2), idx, idx+2, true
				item.bracket = true
				item.image = true
			}
		case ']':
			if len(opens) > 0 {
				open := opens[len(opens)-1]
				opens = opens[:len(opens)-1]
				isImage := p.items[open].image
				if next, closed := p.closeBracket(open, idx); closed {
					if !isImage {
						for _, earlier := range opens {
							if !p.items[earlier].image {
								p.items[earlier].dead = true
							}
						}
					}
					idx = next
					continue
				}
			}
		}

		if !ok {
			idx++
			continue
		}

		idx = p.push(item, start, end)
		if item.bracket {
			opens = append(opens, len(p.items)-1)
		}
	}

	p.emit(len(src))
	p.build(parent, p.emphasis(p.items))
}

// closeBracket tries to turn the opener at items[open] and the ']' at idx
// into a link or image. It returns the index after the link on success.
func (p *inlineParser) closeBracket(open, idx int) (int, bool) {
	opener := p.items[open]
	if opener.dead {
		return 0, false
	}

	dest, title, end, ok := parseLinkTail(p.src, idx+1)
	if !ok {
		return 0, false
	}

	p.emit(idx)
	kind := mdast.NodeLink
	if opener.image {
		kind = mdast.NodeImage
	}

	link := leafItem(kind, mdast.InlineAttrs{Link: &mdast.LinkAttrs{Destination: dest, Title: title}}, opener.start, end)
	link.children = p.emphasis(p.items[open+1:])

	p.items = append(p.items[:open], link)
	p.emitted = end
	return end, true
}

// build materializes items as children of parent, merging adjacent text.
func (p *inlineParser) build(parent *mdast.Node, items []*inlineItem) {
	var (
		text     strings.Builder
		hasText  bool
		runStart int
		runEnd   int
	)

	flush := func() {
		if !hasText {
			return
		}
		node := p.bld.NewNode(mdast.NodeText, p.span(runStart, runEnd))
		p.bld.SetInlineAttrs(node, mdast.InlineAttrs{Value: text.String()})
		p.bld.AppendChild(parent, node)
		text.Reset()
		hasText = false
	}

	for _, item := range items {
		if item.kind == mdast.NodeText {
			if item.text == "" {
				continue
			}
			if !hasText {
				runStart = item.start
				hasText = true
			}
			text.WriteString(item.text)
			runEnd = item.end
			continue
		}

		flush()
		node := p.bld.NewNode(item.kind, p.span(item.start, item.end))
		if item.attrs != (mdast.InlineAttrs{}) {
			p.bld.SetInlineAttrs(node, item.attrs)
		}
		p.bld.AppendChild(parent, node)
		p.build(node, item.children)
	}

	flush()
}

// span maps a range of the joined leaf text back to source offsets.
func (p *inlineParser) span(start, end int) mdast.Span {
	return mdast.Span{Start: p.offset(start), End: p.offset(end)}
}

func (p *inlineParser) offset(pos int) int {
	if len(p.segs) == 0 {
		return 0
	}
	idx := sort.Search(len(p.starts), func(i int) bool {
		return p.starts[i] > pos
	}) - 1
	idx = max(idx, 0)

	seg := p.segs[idx]
	return seg.offset + min(pos-p.starts[idx], len(seg.text))
}
