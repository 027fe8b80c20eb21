package myst

import (
	"unicode/utf8"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// delimiter records a run of '*' or '_' that may open or close emphasis.
type delimiter struct {
	char     byte
	length   int
	canOpen  bool
	canClose bool

	// pos is the index of the run's item in the output of emphasis.
	pos int
}

// parseDelimiterRun scans a run of '*' or '_' and classifies it by its
// flanking. The start and end of the text count as whitespace.
func (p *inlineParser) parseDelimiterRun(s string, i int) (*inlineItem, int, int, bool) {
	c := s[i]
	n := countRun(s[i:], c)

	before, after := ' ', ' '
	if i > 0 {
		before, _ = utf8.DecodeLastRuneInString(s[:i])
	}
	if i+n < len(s) {
		after, _ = utf8.DecodeRuneInString(s[i+n:])
	}

	spaceBefore, spaceAfter := util.IsSpaceRune(before), util.IsSpaceRune(after)
	punctBefore, punctAfter := util.IsPunctRune(before), util.IsPunctRune(after)

	left := !spaceAfter && (!punctAfter || spaceBefore || punctBefore)
	right := !spaceBefore && (!punctBefore || spaceAfter || punctAfter)

	canOpen, canClose := left, right
	if c == '_' {
		canOpen = left && (!right || punctBefore)
		canClose = right && (!left || punctAfter)
	}

	item := textItem(s[i:i+n], i, i+n)
	if canOpen || canClose {
		item.delim = len(p.delims)
		p.delims = append(p.delims, delimiter{char: c, length: n, canOpen: canOpen, canClose: canClose})
	}
	return item, i, i + n, true
}

func delimIndex(c byte) int {
	if c == '_' {
		return 1
	}
	return 0
}

// closerClass groups closers whose failed opener searches can be shared.
func closerClass(d *delimiter) int {
	class := d.length % 3
	if d.canOpen {
		class += 3
	}
	return class
}

// emphasis pairs delimiter runs in items and returns a new list in which
// matched runs are replaced by Emphasis and Strong items. Closers are taken
// left to right and each one matches the nearest eligible opener.
// Unmatched runs stay as literal text.
func (p *inlineParser) emphasis(items []*inlineItem) []*inlineItem {
	dst := make([]*inlineItem, 0, len(items))

	var (
		stacks [2][]*inlineItem
		bottom [2][6]int
	)

	trim := func() {
		for ci := range stacks {
			stk := stacks[ci]
			for len(stk) > 0 && p.delims[stk[len(stk)-1].delim].pos >= len(dst) {
				stk = stk[:len(stk)-1]
			}
			stacks[ci] = stk
			for class := range bottom[ci] {
				bottom[ci][class] = min(bottom[ci][class], len(stk))
			}
		}
	}

	for _, item := range items {
		if item.delim < 0 {
			dst = append(dst, item)
			continue
		}

		closer := &p.delims[item.delim]
		ci := delimIndex(closer.char)

		for closer.canClose && item.text != "" {
			stk := stacks[ci]
			class := closerClass(closer)

			j := len(stk) - 1
			for ; j >= bottom[ci][class]; j-- {
				if p.canPair(stk[j], closer) {
					break
				}
			}
			if j < bottom[ci][class] {
				bottom[ci][class] = len(stk)
				break
			}

			opener := stk[j]
			pos := p.delims[opener.delim].pos

			use := 1
			kind := mdast.NodeEmphasis
			if len(opener.text) >= 2 && len(item.text) >= 2 {
				use = 2
				kind = mdast.NodeStrong
			}

			emph := &inlineItem{
				kind:     kind,
				start:    opener.end - use,
				end:      item.start + use,
				delim:    -1,
				children: append([]*inlineItem(nil), dst[pos+1:]...),
			}

			opener.text = opener.text[:len(opener.text)-use]
			opener.end -= use
			item.text = item.text[use:]
			item.start += use

			if opener.text == "" {
				dst = dst[:pos]
			} else {
				dst = dst[:pos+1]
			}
			trim()
			dst = append(dst, emph)
		}

		if item.text == "" {
			continue
		}
		closer.pos = len(dst)
		dst = append(dst, item)
		if closer.canOpen {
			stacks[ci] = append(stacks[ci], item)
		}
	}

	return dst
}

// canPair applies the rule of three: when either run can both open and
// close, the two original lengths may not sum to a multiple of three unless
// both are multiples of three.
func (p *inlineParser) canPair(openerItem *inlineItem, closer *delimiter) bool {
	opener := &p.delims[openerItem.delim]
	if !closer.canOpen && !opener.canClose {
		return true
	}
	if (opener.length+closer.length)%3 != 0 {
		return true
	}
	return opener.length%3 == 0 && closer.length%3 == 0
}
