package myst

import (
	"strings"

	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// minFenceLength is the shortest run of fence characters.
const minFenceLength = 3

// MaxDirectiveDepth bounds how deeply directive bodies are parsed. Deeper
// directives keep their raw value but get no child blocks.
const MaxDirectiveDepth = 32

// startFence opens code fences, directive fences and "$$" math blocks.
func startFence(p *blockParser, cur *cursor) blockMatch {
	if cur.indent >= codeIndent {
		return noMatch
	}

	switch cur.peek() {
	case '`', '~', ':':
		return startCharFence(p, cur)
	case '$':
		return startMathBlock(p, cur)
	}
	return noMatch
}

func startCharFence(p *blockParser, cur *cursor) blockMatch {
	rest := cur.rest()
	char := rest[0]
	length := countRun(rest, char)
	if length < minFenceLength {
		return noMatch
	}

	info := strings.TrimSpace(rest[length:])
	if char == '`' && strings.ContainsRune(info, '`') {
		return noMatch
	}

	name, argument, isDirective := parseDirectiveHead(info, char == ':')
	if char == ':' && !isDirective {
		return noMatch
	}

	fence := fenceInfo{char: char, length: length, indent: cur.indent}
	kind := mdast.NodeCodeFence
	if isDirective {
		kind = mdast.NodeDirectiveFence
	}

	ob := p.openChild(kind, cur.restOffset())
	ob.capture = true
	ob.fence = fence
	ob.end = cur.line.end()

	if isDirective {
		ob.directive = mdast.DirectiveAttrs{
			Name:        name,
			Argument:    argument,
			FenceChar:   char,
			FenceLength: length,
		}
		return matchedLine
	}

	info = unescapeString(info)
	lang, _, _ := strings.Cut(info, " ")
	ob.code = mdast.CodeAttrs{
		FenceChar:   char,
		FenceLength: length,
		Info:        info,
		Lang:        lang,
	}
	return matchedLine
}

func startMathBlock(p *blockParser, cur *cursor) blockMatch {
	rest := cur.rest()
	if !strings.HasPrefix(rest, "$$") {
		return noMatch
	}
	body := strings.TrimSpace(rest[2:])
	bodyOffset := cur.restOffset() + 2 + max(strings.Index(rest[2:], body), 0)

	// Single-line form: $$ x $$
	if inner, ok := strings.CutSuffix(body, "$$"); ok {
		ob := p.openChild(mdast.NodeMathBlock, cur.restOffset())
		ob.end = cur.line.end()
		if inner = strings.TrimSpace(inner); inner != "" {
			ob.lines = append(ob.lines, segment{text: inner, offset: bodyOffset})
		}
		p.closeTop()
		return matchedLine
	}

	ob := p.openChild(mdast.NodeMathBlock, cur.restOffset())
	ob.capture = true
	ob.fence = fenceInfo{char: '$', length: 2, indent: cur.indent}
	ob.end = cur.line.end()
	if body != "" {
		ob.lines = append(ob.lines, segment{text: body, offset: bodyOffset})
	}
	return matchedLine
}

// parseDirectiveHead splits a fence info string into a directive name and
// argument. "{name} arg" is always a directive; a bare "name arg" is one
// only for colon fences.
func parseDirectiveHead(info string, bare bool) (string, string, bool) {
	if strings.HasPrefix(info, "{") {
		end := strings.IndexByte(info, '}')
		if end < 0 {
			return "", "", false
		}
		name := strings.TrimSpace(info[1:end])
		if !isDirectiveName(name) {
			return "", "", false
		}
		return name, strings.TrimSpace(info[end+1:]), true
	}

	if !bare {
		return "", "", false
	}

	name, argument, _ := strings.Cut(info, " ")
	if !isDirectiveName(name) {
		return "", "", false
	}
	return name, strings.TrimSpace(argument), true
}

func isDirectiveName(name string) bool {
	if name == "" || !isLetter(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !isLetter(c) && !isDigit(c) && !strings.ContainsRune("-_:.+", rune(c)) {
			return false
		}
	}
	return true
}

// finishDirective captures the options and raw body of a closed directive
// and parses the body into child blocks.
func (p *blockParser) finishDirective(ob *openBlock) {
	options, body := p.parseDirectiveOptions(ob.lines)

	for len(body) > 0 && strings.TrimSpace(body[0].text) == "" {
		body = body[1:]
	}
	trimmed := body
	for len(trimmed) > 0 && strings.TrimSpace(trimmed[len(trimmed)-1].text) == "" {
		trimmed = trimmed[:len(trimmed)-1]
	}

	attrs := ob.directive
	attrs.Options = options
	attrs.Value = joinLines(trimmed)
	p.bld.SetBlockAttrs(ob.node, mdast.BlockAttrs{Directive: &attrs})

	if p.depth >= MaxDirectiveDepth {
		p.log.Debug("directive nesting too deep, body kept raw",
			"name", attrs.Name, "offset", ob.start, "depth", p.depth)
		return
	}

	nested := newBlockParser(p.log, p.bld, ob.node, p.depth+1)
	nested.run(body)
}

// parseDirectiveOptions reads leading ":key: value" lines, or a "---"
// delimited YAML mapping, and returns the options and the remaining lines.
func (p *blockParser) parseDirectiveOptions(lines []segment) ([]mdast.Option, []segment) {
	if len(lines) == 0 {
		return nil, lines
	}

	if strings.TrimSpace(lines[0].text) == "---" {
		for idx := 1; idx < len(lines); idx++ {
			if strings.TrimSpace(lines[idx].text) != "---" {
				continue
			}
			options, err := yamlOptions(joinLines(lines[1:idx]))
			if err != nil {
				p.log.Debug("invalid directive option block", "offset", lines[0].offset, "error", err)
			}
			return options, lines[idx+1:]
		}
		return nil, lines
	}

	var options []mdast.Option
	idx := 0
	for ; idx < len(lines); idx++ {
		key, value, ok := parseOptionLine(lines[idx].text)
		if !ok {
			break
		}
		options = append(options, mdast.Option{Key: key, Value: value})
	}
	return options, lines[idx:]
}

// parseOptionLine parses ":key: value".
func parseOptionLine(line string) (string, string, bool) {
	line = strings.TrimLeft(line, " \t")
	if len(line) < 3 || line[0] != ':' {
		return "", "", false
	}
	end := strings.IndexByte(line[1:], ':')
	if end <= 0 {
		return "", "", false
	}
	key := line[1 : end+1]
	if strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	value := line[end+2:]
	if value != "" && !isSpaceOrTab(value[0]) {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

// yamlOptions decodes a YAML mapping into ordered options. Non-scalar
// values are re-encoded in flow style.
func yamlOptions(text string) ([]mdast.Option, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, nil
	}

	mapping := doc.Content[0]
	options := make([]mdast.Option, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		options = append(options, mdast.Option{Key: key.Value, Value: yamlValue(value)})
	}
	return options, nil
}

func yamlValue(node *yaml.Node) string {
	if node.Kind == yaml.ScalarNode {
		return node.Value
	}
	node.Style = yaml.FlowStyle
	out, err := yaml.Marshal(node)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// frontMatter detects a "---" block on the first line and returns the
// number of lines it spans, including both delimiters.
func frontMatter(lines []segment) (int, bool) {
	if len(lines) < 2 || strings.TrimRight(lines[0].text, " \t") != "---" {
		return 0, false
	}
	for idx := 1; idx < len(lines); idx++ {
		switch strings.TrimRight(lines[idx].text, " \t") {
		case "---", "...":
			return idx + 1, true
		}
	}
	return 0, false
}

// addFrontMatter attaches the front matter node for lines[:count].
func (p *blockParser) addFrontMatter(lines []segment, count int) {
	value := joinLines(lines[1 : count-1])
	span := mdast.Span{Start: lines[0].offset, End: lines[count-1].end()}

	attrs := &mdast.FrontMatterAttrs{Value: value}
	var data map[string]any
	if err := yaml.Unmarshal([]byte(value), &data); err != nil {
		p.log.Debug("front matter is not valid YAML", "error", err)
	} else {
		attrs.Data = data
	}

	node := p.bld.NewNode(mdast.NodeFrontMatter, span)
	p.bld.SetBlockAttrs(node, mdast.BlockAttrs{FrontMatter: attrs})
	p.bld.AppendChild(p.stack[0].node, node)
	p.info[node] = &openBlock{node: node, kind: mdast.NodeFrontMatter, start: span.Start, end: span.End}
}

// unescapeString resolves backslash escapes and entity references.
func unescapeString(s string) string {
	if !strings.ContainsAny(s, `\&`) {
		return s
	}
	b := util.UnescapePunctuations([]byte(s))
	b = util.ResolveNumericReferences(b)
	b = util.ResolveEntityNames(b)
	return string(b)
}
