// Package analysis computes outlines and statistics over parsed documents.
package analysis

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/yaklabco/atrus/pkg/langdetect"
	"github.com/yaklabco/atrus/pkg/mdast"
	"github.com/yaklabco/atrus/pkg/renderer"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	doc    *mdast.Document
	opts   Options
	report *Report
	kinds  map[mdast.NodeKind]int
	roles  map[string]int
	depth  int
	nested int
}

// Analyze walks doc once and computes every requested view. A nil or freed
// document yields an empty report.
func Analyze(doc *mdast.Document, opts Options) *Report {
	report := &Report{Version: ReportVersion}
	if doc.Freed() {
		return report
	}

	source := doc.Source()
	report.Totals.Bytes = len(source)
	report.Totals.Lines = countLines(source)

	ctx := &analysisContext{
		doc:    doc,
		opts:   opts,
		report: report,
		kinds:  make(map[mdast.NodeKind]int),
		roles:  make(map[string]int),
	}

	//nolint:errcheck,revive // enter and leave never fail
	mdast.WalkWithContext(doc.Root(), ctx.enter, ctx.leave)

	if opts.IncludeKinds {
		report.Kinds = ctx.buildKinds()
	}
	if opts.IncludeDirectives {
		report.Roles = ctx.buildRoles()
	}

	return report
}

func (ctx *analysisContext) enter(node *mdast.Node) error {
	ctx.depth++
	totals := &ctx.report.Totals
	totals.MaxDepth = max(totals.MaxDepth, ctx.depth)
	totals.Nodes++
	if node.IsBlock() {
		totals.Blocks++
	} else {
		totals.Inlines++
	}
	ctx.kinds[node.Kind()]++

	switch node.Kind() {
	case mdast.NodeHeading:
		totals.Headings++
		if ctx.opts.IncludeOutline {
			ctx.report.Outline = append(ctx.report.Outline, Heading{
				Level: node.Level(),
				Text:  strings.TrimSpace(mdast.TextContent(node)),
				Line:  ctx.line(node),
			})
		}

	case mdast.NodeText:
		totals.Words += countWords(node.Value())

	case mdast.NodeLink:
		totals.Links++

	case mdast.NodeImage:
		totals.Images++

	case mdast.NodeMathBlock, mdast.NodeRawMath:
		totals.Math++

	case mdast.NodeRole:
		totals.Roles++
		ctx.roles[node.Name()]++

	case mdast.NodeDirectiveFence:
		totals.Directives++
		if ctx.opts.IncludeDirectives {
			ctx.report.Directives = append(ctx.report.Directives, ctx.directive(node))
		}
		ctx.nested++

	case mdast.NodeTarget:
		if ctx.opts.IncludeDirectives {
			ctx.report.Targets = append(ctx.report.Targets, node.Block().Label)
		}

	case mdast.NodeCodeFence:
		if ctx.opts.IncludeFences {
			ctx.report.Fences = append(ctx.report.Fences, ctx.fence(node))
		}

	case mdast.NodeFrontMatter:
		if front := node.Block().FrontMatter; front != nil {
			ctx.report.FrontMatter = front.Data
		}
	}

	return nil
}

func (ctx *analysisContext) leave(node *mdast.Node) error {
	ctx.depth--
	if node.Kind() == mdast.NodeDirectiveFence {
		ctx.nested--
	}
	return nil
}

func (ctx *analysisContext) line(node *mdast.Node) int {
	return ctx.doc.LineAt(node.Span().Start).Line
}

func (ctx *analysisContext) directive(node *mdast.Node) DirectiveEntry {
	attrs := node.Block().Directive
	if attrs == nil {
		attrs = &mdast.DirectiveAttrs{}
	}

	entry := DirectiveEntry{
		Name:     attrs.Name,
		Argument: attrs.Argument,
		Line:     ctx.line(node),
		Depth:    ctx.nested,
		Builtin:  renderer.IsBuiltinDirective(attrs.Name),
	}
	for _, opt := range attrs.Options {
		if !slices.Contains(entry.Options, opt.Key) {
			entry.Options = append(entry.Options, opt.Key)
		}
	}
	return entry
}

func (ctx *analysisContext) fence(node *mdast.Node) FenceEntry {
	var code mdast.CodeAttrs
	if attrs := node.Block().Code; attrs != nil {
		code = *attrs
	}

	entry := FenceEntry{
		Line:     ctx.line(node),
		Lines:    countLines(code.Value),
		Indented: code.Indented,
		Language: langdetect.Fence{Declared: code.Lang},
	}
	if name, ok := langdetect.Canonical(code.Lang); ok {
		entry.Language.Canonical = name
	}
	if ctx.opts.DetectLanguages {
		entry.Language = langdetect.Classify(code.Lang, []byte(code.Value))
	}
	return entry
}

func (ctx *analysisContext) buildKinds() []KindCount {
	result := make([]KindCount, 0, len(ctx.kinds))
	for kind, count := range ctx.kinds {
		result = append(result, KindCount{Kind: kind.String(), Count: count})
	}
	sortCounts(result, func(k KindCount) (string, int) { return k.Kind, k.Count }, ctx.opts)
	return result
}

func (ctx *analysisContext) buildRoles() []RoleCount {
	result := make([]RoleCount, 0, len(ctx.roles))
	for name, count := range ctx.roles {
		result = append(result, RoleCount{Name: name, Count: count, Builtin: renderer.IsBuiltinRole(name)})
	}
	sortCounts(result, func(r RoleCount) (string, int) { return r.Name, r.Count }, ctx.opts)
	return result
}

// sortCounts orders entries by count or name. Ties on count fall back to
// the name so output is deterministic.
func sortCounts[T any](entries []T, key func(T) (string, int), opts Options) {
	slices.SortFunc(entries, func(left, right T) int {
		leftName, leftCount := key(left)
		rightName, rightCount := key(right)

		if opts.SortBy == SortByAlpha {
			return cmp.Compare(leftName, rightName)
		}
		result := cmp.Compare(leftCount, rightCount)
		if opts.SortDesc {
			result = -result
		}
		if result == 0 {
			result = cmp.Compare(leftName, rightName)
		}
		return result
	})
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}

func countWords(s string) int {
	return len(strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) && r != '\'' && r != '-'
	}))
}
