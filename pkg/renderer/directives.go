package renderer

import (
	"fmt"
	"strings"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// directiveFunc renders a directive with a built-in meaning.
type directiveFunc func(w *htmlWriter, node *mdast.Node, attrs *mdast.DirectiveAttrs)

// roleFunc renders a role with a built-in meaning.
type roleFunc func(w *htmlWriter, node *mdast.Node)

//nolint:gochecknoglobals // Read-only lookup tables, filled in init.
var (
	directives map[string]directiveFunc
	roles      map[string]roleFunc
)

// admonitionTitles maps admonition directives to their default titles.
//
//nolint:gochecknoglobals // Read-only lookup table.
var admonitionTitles = map[string]string{
	"attention": "Attention",
	"caution":   "Caution",
	"danger":    "Danger",
	"error":     "Error",
	"hint":      "Hint",
	"important": "Important",
	"note":      "Note",
	"seealso":   "See also",
	"tip":       "Tip",
	"warning":   "Warning",
}

func init() {
	directives = map[string]directiveFunc{
		"admonition": admonition,
		"code-block": codeDirective,
		"code":       codeDirective,
		"sourcecode": codeDirective,
		"math":       mathDirective,
	}
	for name := range admonitionTitles {
		directives[name] = admonition
	}

	roles = map[string]roleFunc{
		"sub":  wrapRole("sub"),
		"sup":  wrapRole("sup"),
		"kbd":  wrapRole("kbd"),
		"abbr": abbrRole,
		"math": (*htmlWriter).rawMath,
	}

	for name, fn := range directives {
		if fn == nil {
			panic(fmt.Sprintf("renderer: directive %q has no renderer", name))
		}
	}
	for name, fn := range roles {
		if fn == nil {
			panic(fmt.Sprintf("renderer: role %q has no renderer", name))
		}
	}
}

// IsBuiltinDirective reports whether name has a dedicated hypertext rendering.
func IsBuiltinDirective(name string) bool {
	_, ok := directives[name]
	return ok
}

// IsBuiltinRole reports whether name has a dedicated hypertext rendering.
func IsBuiltinRole(name string) bool {
	_, ok := roles[name]
	return ok
}

// directive renders a built-in directive, or a generic wrapper around the
// parsed body for any other name.
func (w *htmlWriter) directive(node *mdast.Node) {
	attrs := node.Block().Directive
	if attrs == nil {
		attrs = &mdast.DirectiveAttrs{}
	}

	if fn, ok := directives[attrs.Name]; ok {
		fn(w, node, attrs)
		return
	}

	w.open("div", "data-directive", attrs.Name)
	w.children(node)
	w.close("div")
}

// admonition renders <aside class="admonition name"> with a title
// paragraph. The argument overrides the default title.
func admonition(w *htmlWriter, node *mdast.Node, attrs *mdast.DirectiveAttrs) {
	title := attrs.Argument
	if title == "" {
		title = admonitionTitles[attrs.Name]
	}

	classes := []string{"admonition"}
	if attrs.Name != "admonition" {
		classes = append(classes, attrs.Name)
	}
	if extra, ok := attrs.Option("class"); ok && extra != "" {
		classes = append(classes, strings.Fields(extra)...)
	}

	w.open("aside", "class", strings.Join(classes, " "))
	if title != "" {
		w.element("p", title, "class", "admonition-title")
	}
	w.children(node)
	w.close("aside")
}

// codeDirective renders the raw body as a code block; the argument is the
// language.
func codeDirective(w *htmlWriter, _ *mdast.Node, attrs *mdast.DirectiveAttrs) {
	lang, _, _ := strings.Cut(attrs.Argument, " ")
	w.code(lang, attrs.Value)
}

func mathDirective(w *htmlWriter, _ *mdast.Node, attrs *mdast.DirectiveAttrs) {
	w.element("div", strings.TrimSpace(attrs.Value), "class", "math")
}

// role renders a built-in role, or a span carrying the role name.
func (w *htmlWriter) role(node *mdast.Node) {
	if fn, ok := roles[node.Name()]; ok {
		fn(w, node)
		return
	}
	w.element("span", node.Value(), "data-role", node.Name())
}

func wrapRole(tag string) roleFunc {
	return func(w *htmlWriter, node *mdast.Node) {
		w.element(tag, node.Value())
	}
}

// abbrRole renders "CSS (Cascading Style Sheets)" as an abbreviation with a
// title.
func abbrRole(w *htmlWriter, node *mdast.Node) {
	value := node.Value()
	if short, rest, ok := strings.Cut(value, " ("); ok && strings.HasSuffix(rest, ")") {
		w.element("abbr", strings.TrimSpace(short), "title", strings.TrimSuffix(rest, ")"))
		return
	}
	w.element("abbr", value)
}
