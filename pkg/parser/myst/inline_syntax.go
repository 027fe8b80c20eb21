package myst

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// parseEscape handles a backslash: escaped ASCII punctuation becomes
// literal text and a backslash before a line end is a hard break.
func parseEscape(s string, i int) (*inlineItem, int, int, bool) {
	if i+1 >= len(s) {
		return nil, 0, 0, false
	}
	c := s[i+1]
	if util.IsPunct(c) {
		return textItem(s[i+1:i+2], i, i+2), i, i + 2, true
	}
	if c == '\n' {
		end := skipLineIndent(s, i+2)
		return leafItem(mdast.NodeLineBreak, mdast.InlineAttrs{}, i, i+1), i, end, true
	}
	return nil, 0, 0, false
}

// parseLineEnd turns a line ending into a soft break (kept as "\n" in text)
// or, after two or more spaces, a hard break. Trailing spaces are dropped.
func parseLineEnd(s string, i int) (*inlineItem, int, int, bool) {
	start := i
	for start > 0 && s[start-1] == ' ' {
		start--
	}
	end := skipLineIndent(s, i+1)

	if i-start >= 2 {
		return leafItem(mdast.NodeLineBreak, mdast.InlineAttrs{}, start, i), start, end, true
	}
	return textItem("\n", i, i+1), start, end, true
}

func skipLineIndent(s string, i int) int {
	for i < len(s) && isSpaceOrTab(s[i]) {
		i++
	}
	return i
}

// parseCodeSpan matches a run of N backticks with the next run of exactly
// N. An unmatched run is literal text as a whole.
func (p *inlineParser) parseCodeSpan(s string, i int) (*inlineItem, int, int, bool) {
	n := countRun(s[i:], '`')
	content, end, ok := p.matchRun(s, i, n, '`')
	if !ok {
		return textItem(s[i:i+n], i, i+n), i, i + n, true
	}

	// Line endings become spaces and one space is stripped from each side
	// when both are present and the content is not all spaces.
	text := strings.ReplaceAll(content, "\n", " ")
	if len(text) >= 2 && text[0] == ' ' && text[len(text)-1] == ' ' && strings.Trim(text, " ") != "" {
		text = text[1 : len(text)-1]
	}

	return leafItem(mdast.NodeCodeSpan, mdast.InlineAttrs{Value: text}, i, end), i, end, true
}

// matchRun finds the closing run of exactly n copies of c after the opening
// run at i. It returns the enclosed text and the index after the closer.
// Openers with no run of the same length after them fail without a scan.
func (p *inlineParser) matchRun(s string, i, n int, c byte) (string, int, bool) {
	if p.lastRun(c, n) <= i {
		return "", 0, false
	}
	for pos := i + n; pos < len(s); {
		if s[pos] != c {
			pos++
			continue
		}
		runStart := pos
		pos += countRun(s[pos:], c)
		if pos-runStart == n {
			return s[i+n : runStart], pos, true
		}
	}
	return "", 0, false
}

// lastRun returns the start of the last maximal run of exactly n copies of
// c in the source, or -1. The index is built once per character.
func (p *inlineParser) lastRun(c byte, n int) int {
	if p.runs == nil {
		p.runs = make(map[byte]map[int]int)
	}
	index, ok := p.runs[c]
	if !ok {
		index = make(map[int]int)
		for pos := 0; pos < len(p.src); {
			if p.src[pos] != c {
				pos++
				continue
			}
			length := countRun(p.src[pos:], c)
			index[length] = pos
			pos += length
		}
		p.runs[c] = index
	}
	if pos, found := index[n]; found {
		return pos
	}
	return -1
}

// parseInlineMath matches $...$ and $$...$$. A single dollar must hug its
// content and may not close before a digit, so amounts like "$5 and $10"
// stay literal.
func (p *inlineParser) parseInlineMath(s string, i int) (*inlineItem, int, int, bool) {
	n := countRun(s[i:], '$')
	if n > 2 {
		return textItem(s[i:i+n], i, i+n), i, i + n, true
	}

	if n == 2 {
		content, end, ok := p.matchRun(s, i, n, '$')
		if !ok || strings.TrimSpace(content) == "" {
			return nil, 0, 0, false
		}
		return leafItem(mdast.NodeRawMath, mdast.InlineAttrs{Value: content}, i, end), i, end, true
	}

	open := i + 1
	if open >= len(s) || isUnicodeSpaceAt(s, open) {
		return nil, 0, 0, false
	}
	// Whether a dollar closes does not depend on the opener, so a failed
	// scan rules out every opener inside the scanned range.
	if open >= p.mathMissFrom && open <= p.mathMissTo {
		return nil, 0, 0, false
	}

	pos := open
	for ; pos < len(s); pos++ {
		switch s[pos] {
		case '\\':
			pos++
		case '$':
			if pos+1 < len(s) && s[pos+1] == '$' {
				p.mathMissFrom, p.mathMissTo = open, pos
				return nil, 0, 0, false
			}
			if pos == open || isSpaceOrTab(s[pos-1]) || s[pos-1] == '\n' {
				continue
			}
			if pos+1 < len(s) && isDigit(s[pos+1]) {
				continue
			}
			return leafItem(mdast.NodeRawMath, mdast.InlineAttrs{Value: s[open:pos]}, i, pos+1), i, pos + 1, true
		}
	}
	p.mathMissFrom, p.mathMissTo = open, len(s)
	return nil, 0, 0, false
}

// parseRole matches {name}`content`.
func (p *inlineParser) parseRole(s string, i int) (*inlineItem, int, int, bool) {
	closeBrace := i + 1
	for closeBrace < len(s) && isRoleNameByte(s[closeBrace]) {
		closeBrace++
	}
	if closeBrace >= len(s) || s[closeBrace] != '}' {
		return nil, 0, 0, false
	}
	name := s[i+1 : closeBrace]
	if !isDirectiveName(name) || closeBrace+1 >= len(s) || s[closeBrace+1] != '`' {
		return nil, 0, 0, false
	}

	tick := closeBrace + 1
	n := countRun(s[tick:], '`')
	content, end, ok := p.matchRun(s, tick, n, '`')
	if !ok {
		return nil, 0, 0, false
	}

	attrs := mdast.InlineAttrs{Role: name, Value: strings.ReplaceAll(content, "\n", " ")}
	return leafItem(mdast.NodeRole, attrs, i, end), i, end, true
}

func isRoleNameByte(c byte) bool {
	return isLetter(c) || isDigit(c) || strings.IndexByte("-_:.+", c) >= 0
}

// parseEntity decodes named and numeric character references.
func parseEntity(s string, i int) (*inlineItem, int, int, bool) {
	semi := strings.IndexByte(s[i:min(len(s), i+40)], ';')
	if semi < 2 {
		return nil, 0, 0, false
	}
	semi += i
	body := s[i+1 : semi]

	if body[0] == '#' {
		digits := body[1:]
		base := 10
		maxLen := 7
		if digits != "" && (digits[0] == 'x' || digits[0] == 'X') {
			digits = digits[1:]
			base = 16
			maxLen = 6
		}
		if digits == "" || len(digits) > maxLen {
			return nil, 0, 0, false
		}
		value, err := strconv.ParseUint(digits, base, 32)
		if err != nil {
			return nil, 0, 0, false
		}
		r := util.ToValidRune(rune(value))
		return textItem(string(r), i, semi+1), i, semi + 1, true
	}

	for k := 0; k < len(body); k++ {
		if !util.IsAlphaNumeric(body[k]) {
			return nil, 0, 0, false
		}
	}
	entity, ok := util.LookUpHTML5EntityByName(body)
	if !ok {
		return nil, 0, 0, false
	}
	return textItem(string(entity.Characters), i, semi+1), i, semi + 1, true
}

// parseAutolink matches <scheme:...> and <user@host> autolinks.
func parseAutolink(s string, i int) (*inlineItem, int, int, bool) {
	if end, ok := parseAutolinkURI(s, i); ok {
		return autolinkItem(s[i+1:end-1], s[i+1:end-1], i, end), i, end, true
	}
	if end, ok := parseAutolinkEmail(s, i); ok {
		return autolinkItem(s[i+1:end-1], "mailto:"+s[i+1:end-1], i, end), i, end, true
	}
	return nil, 0, 0, false
}

func autolinkItem(text, dest string, start, end int) *inlineItem {
	link := leafItem(mdast.NodeLink, mdast.InlineAttrs{Link: &mdast.LinkAttrs{Destination: dest, Autolink: true}}, start, end)
	link.children = []*inlineItem{textItem(text, start+1, end-1)}
	return link
}

// parseAutolinkURI matches a scheme of 2-32 characters, a colon and no
// spaces or angle brackets.
func parseAutolinkURI(s string, i int) (int, bool) {
	j := i + 1
	if j >= len(s) || !isLetter(s[j]) {
		return 0, false
	}
	for j < len(s) && isScheme(s[j]) && j-(i+1) <= 32 {
		j++
	}
	if scheme := j - (i + 1); scheme < 2 || scheme > 32 || j >= len(s) || s[j] != ':' {
		return 0, false
	}
	for j++; j < len(s) && isURL(s[j]); j++ {
	}
	if j >= len(s) || s[j] != '>' {
		return 0, false
	}
	return j + 1, true
}

func parseAutolinkEmail(s string, i int) (int, bool) {
	j := i + 1
	if j >= len(s) || !isEmailUser(s[j]) {
		return 0, false
	}
	for j < len(s) && isEmailUser(s[j]) {
		j++
	}
	if j >= len(s) || s[j] != '@' {
		return 0, false
	}
	for {
		j++
		n, ok := skipDomainLabel(s[j:])
		if !ok {
			return 0, false
		}
		j += n
		if j >= len(s) || (s[j] != '.' && s[j] != '>') {
			return 0, false
		}
		if s[j] == '>' {
			return j + 1, true
		}
	}
}

// skipDomainLabel skips letters, digits and hyphens, up to 63 bytes, with a
// letter or digit at both ends.
func skipDomainLabel(s string) (int, bool) {
	n := 0
	for n < len(s) && n < 64 && (isLetter(s[n]) || isDigit(s[n]) || s[n] == '-') {
		n++
	}
	if n == 0 || n > 63 || s[0] == '-' || s[n-1] == '-' {
		return 0, false
	}
	return n, true
}

// parseLinkTail parses "(dest "title")" starting at i.
func parseLinkTail(s string, i int) (string, string, int, bool) {
	if i >= len(s) || s[i] != '(' {
		return "", "", 0, false
	}

	pos := skipSpace(s, i+1)
	var dest, title string
	if pos < len(s) && s[pos] != ')' {
		var ok bool
		if dest, pos, ok = parseLinkDestination(s, pos); !ok {
			return "", "", 0, false
		}
		before := pos
		pos = skipSpace(s, pos)
		if pos < len(s) && s[pos] != ')' {
			if pos == before {
				return "", "", 0, false
			}
			if title, pos, ok = parseLinkTitle(s, pos); !ok {
				return "", "", 0, false
			}
			pos = skipSpace(s, pos)
		}
	}

	if pos >= len(s) || s[pos] != ')' {
		return "", "", 0, false
	}
	return dest, title, pos + 1, true
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

// maxLinkParenDepth bounds nested parentheses in a bare link destination.
const maxLinkParenDepth = 32

// parseLinkDestination accepts <...> or a run without spaces whose
// parentheses balance, nested at most maxLinkParenDepth deep.
func parseLinkDestination(s string, i int) (string, int, bool) {
	if s[i] == '<' {
		for j := i + 1; j < len(s); j++ {
			switch s[j] {
			case '\n', '<':
				return "", 0, false
			case '>':
				return unescapeString(s[i+1 : j]), j + 1, true
			case '\\':
				j++
			}
		}
		return "", 0, false
	}

	depth := 0
	j := i
loop:
	for ; j < len(s); j++ {
		switch c := s[j]; {
		case c == '(':
			depth++
			if depth > maxLinkParenDepth {
				return "", 0, false
			}
		case c == ')':
			if depth == 0 {
				break loop
			}
			depth--
		case c == '\\':
			if j+1 < len(s) {
				j++
			}
		case c <= ' ':
			break loop
		}
	}
	if depth != 0 || j == i {
		return "", 0, false
	}
	return unescapeString(s[i:j]), j, true
}

func parseLinkTitle(s string, i int) (string, int, bool) {
	want := s[i]
	switch want {
	case '"', '\'':
	case '(':
		want = ')'
	default:
		return "", 0, false
	}

	for j := i + 1; j < len(s); j++ {
		switch {
		case s[j] == want:
			return unescapeString(s[i+1 : j]), j + 1, true
		case s[j] == '(' && want == ')':
			return "", 0, false
		case s[j] == '\\':
			j++
		}
	}
	return "", 0, false
}

func isUnicodeSpaceAt(s string, i int) bool {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return util.IsSpaceRune(r)
}

func isLetter(c byte) bool {
	return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isScheme(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '+' || c == '.' || c == '-'
}

func isURL(c byte) bool {
	return c > ' ' && c != '<' && c != '>'
}

func isEmailUser(c byte) bool {
	return isLetter(c) || isDigit(c) || strings.IndexByte(".!#$%&'*+/=?^_`{|}~-", c) >= 0
}
