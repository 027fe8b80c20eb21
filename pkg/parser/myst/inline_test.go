package myst_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// dumpInlines renders the children of the first block of source.
func dumpInlines(t *testing.T, source string) string {
	t.Helper()

	doc := mustParse(t, source)
	block := doc.Root().FirstChild()
	require.NotNil(t, block)

	parts := make([]string, 0, block.ChildCount())
	for _, child := range block.Children() {
		parts = append(parts, dump(child))
	}
	return strings.Join(parts, " ")
}

func TestParse_Inlines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"plain", "just text", `Text("just text")`},
		{"soft break", "a\nb", `Text("a\nb")`},
		{"hard break spaces", "a  \nb", `Text("a") LineBreak Text("b")`},
		{"hard break backslash", "a\\\nb", `Text("a") LineBreak Text("b")`},
		{"escaped punctuation", `\*not emph\*`, `Text("*not emph*")`},
		{"backslash before letter", `\a`, `Text("\\a")`},

		{"emphasis", "*a*", `Emphasis[Text("a")]`},
		{"underscore emphasis", "_a_", `Emphasis[Text("a")]`},
		{"strong", "**a**", `Strong[Text("a")]`},
		{"strong emphasis", "***a***", `Emphasis[Strong[Text("a")]]`},
		{"nested", "*a **b** c*", `Emphasis[Text("a ") Strong[Text("b")] Text(" c")]`},
		{"overlapping delimiters", "*a _b* c_", `Emphasis[Text("a _b")] Text(" c_")`},
		{"unmatched opener", "*a", `Text("*a")`},
		{"spaced star", "a * b", `Text("a * b")`},
		{"intraword underscore", "snake_case_name", `Text("snake_case_name")`},
		{"intraword star", "un*frigging*believable", `Text("un") Emphasis[Text("frigging")] Text("believable")`},
		{"rule of three", "*a**b*", `Emphasis[Text("a**b")]`},
		{"leftover opener", "**a*", `Text("*") Emphasis[Text("a")]`},

		{"code span", "`code`", `CodeSpan("code")`},
		{"double backticks", "`` a`b ``", "CodeSpan(\"a`b\")"},
		{"code span line ending", "`a\nb`", `CodeSpan("a b")`},
		{"code span keeps lone spaces", "`  `", `CodeSpan("  ")`},
		{"unmatched backticks", "``unmatched`", "Text(\"``unmatched`\")"},
		{"code span hides emphasis", "`*a*`", `CodeSpan("*a*")`},
		{"code span beats emphasis", "*a `*` b*", `Emphasis[Text("a ") CodeSpan("*") Text(" b")]`},

		{"link", `[text](http://x.com "T")`, `Link<http://x.com>[Text("text")]`},
		{"image", "![alt](img.png)", `Image<img.png>[Text("alt")]`},
		{"empty destination", "[a]()", `Link<>[Text("a")]`},
		{"angle destination", "[a](<b c>)", `Link<b c>[Text("a")]`},
		{"parens in destination", "[a](b(c))", `Link<b(c)>[Text("a")]`},
		{"emphasis in link", "[*a*](b)", `Link<b>[Emphasis[Text("a")]]`},
		{"link in emphasis", "*[a](b)*", `Emphasis[Link<b>[Text("a")]]`},
		{"no links in links", "[a [b](c) d](e)", `Text("[a ") Link<c>[Text("b")] Text(" d](e)")`},
		{"image in link", "[![a](b)](c)", `Link<c>[Image<b>[Text("a")]]`},
		{"image then text in link", "[x ![a](b) y](c)", `Link<c>[Text("x ") Image<b>[Text("a")] Text(" y")]`},
		{"link in image", "![a [b](c)](d)", `Image<d>[Text("a ") Link<c>[Text("b")]]`},
		{"bracket without destination", "[not a link]", `Text("[not a link]")`},
		{"escaped bracket", `\[a](b)`, `Text("[a](b)")`},
		{"space before destination", "[a] (b)", `Text("[a] (b)")`},

		{"uri autolink", "<https://example.com>", `Link<https://example.com>[Text("https://example.com")]`},
		{"email autolink", "<me@example.com>", `Link<mailto:me@example.com>[Text("me@example.com")]`},
		{"not an autolink", "<not a link>", `Text("<not a link>")`},

		{"role", "{ref}`target`", `Role{ref}("target")`},
		{"role with text", "see {math}`x^2` here", `Text("see ") Role{math}("x^2") Text(" here")`},
		{"role name with colon", "{py:func}`len`", `Role{py:func}("len")`},
		{"invalid role name", "{bad name}`x`", `Text("{bad name}") CodeSpan("x")`},
		{"braces without code", "{ref} text", `Text("{ref} text")`},

		{"inline math", "$x+1$", `RawMath("x+1")`},
		{"display inline math", "see $$a$$ here", `Text("see ") RawMath("a") Text(" here")`},
		{"currency", "$5 and $10", `Text("$5 and $10")`},
		{"math needs tight opener", "$ x$", `Text("$ x$")`},
		{"math hides emphasis", "$a*b*c$", `RawMath("a*b*c")`},
		{"math after failed opener", "$a $$ $b$", `Text("$a $$ ") RawMath("b")`},
		{"code span after unmatched run", "``a `b`", "Text(\"``a \") CodeSpan(\"b\")"},
		{"role after stray brace", "{a{note}`x`", `Text("{a") Role{note}("x")`},
		{"deeply nested destination", "[a](" + strings.Repeat("(", 33) + strings.Repeat(")", 34), `Text("[a](` + strings.Repeat("(", 33) + strings.Repeat(")", 34) + `")`},
		{"nested destination", "[a](b(c(d)))", `Link<b(c(d))>[Text("a")]`},

		{"named entity", "&amp; &copy;", `Text("& ©")`},
		{"numeric entities", "&#65;&#x42;", `Text("AB")`},
		{"null entity", "&#0;", `Text("�")`},
		{"unknown entity", "&bogus;", `Text("&bogus;")`},
		{"entity without semicolon", "&amp", `Text("&amp")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, dumpInlines(t, tt.source))
		})
	}
}

func TestParse_LinkTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		dest   string
		title  string
	}{
		{"double quoted", `[a](b "c")`, "b", "c"},
		{"single quoted", `[a](b 'c')`, "b", "c"},
		{"parenthesized", `[a](b (c))`, "b", "c"},
		{"escaped", `[a](b\_c "d\"e")`, "b_c", `d"e`},
		{"entity", `[a](b?x=1&amp;y=2)`, "b?x=1&y=2", ""},
		{"title on next line", "[a](b\n\"c\")", "b", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, tt.source)
			links := mdast.FindByKind(doc.Root(), mdast.NodeLink)
			require.Len(t, links, 1)

			attrs := links[0].Inline().Link
			require.NotNil(t, attrs)
			assert.Equal(t, tt.dest, attrs.Destination)
			assert.Equal(t, tt.title, attrs.Title)
			assert.False(t, attrs.Autolink)
		})
	}
}

func TestParse_HeadingInlines(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		`Text("A ") Strong[Text("bold")] Text(" ") CodeSpan("move")`,
		dumpInlines(t, "## A **bold** `move` ##"))
}

func TestParse_InlineSpans(t *testing.T) {
	t.Parallel()

	source := "> x [link](u) {ref}`t`\n> *b*"
	doc := mustParse(t, source)

	tests := []struct {
		kind mdast.NodeKind
		want string
	}{
		{mdast.NodeLink, "[link](u)"},
		{mdast.NodeRole, "{ref}`t`"},
		{mdast.NodeEmphasis, "*b*"},
	}

	for _, tt := range tests {
		nodes := mdast.FindByKind(doc.Root(), tt.kind)
		require.Len(t, nodes, 1, tt.kind.String())
		assert.Equal(t, tt.want, doc.Text(nodes[0].Span()), tt.kind.String())
	}
}

func TestParse_PathologicalInlines(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		"unclosed dollars":      strings.Repeat("$a ", 50_000),
		"unclosed destinations": strings.Repeat("[a](", 30_000),
		"unclosed braces":       strings.Repeat("{a", 50_000),
		"open brackets":         strings.Repeat("[", 50_000) + strings.Repeat("]", 50_000),
	}

	for name, source := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			start := time.Now()
			doc := mustParse(t, source)
			assert.Equal(t, strings.TrimSpace(source), mdast.TextContent(doc.Root()))
			assert.Less(t, time.Since(start), 5*time.Second)
		})
	}
}
