package renderer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// htmlKind describes how one node kind is written. Kinds with a plain tag
// wrap their children in it; the rest use a render function.
type htmlKind struct {
	tag    string
	void   bool
	render func(w *htmlWriter, node *mdast.Node)
}

//nolint:gochecknoglobals // Read-only lookup table.
var htmlKinds map[mdast.NodeKind]htmlKind

func init() {
	htmlKinds = map[mdast.NodeKind]htmlKind{
		mdast.NodeDocument:       {render: (*htmlWriter).children},
		mdast.NodeHeading:        {render: (*htmlWriter).heading},
		mdast.NodeParagraph:      {render: (*htmlWriter).paragraph},
		mdast.NodeList:           {render: (*htmlWriter).list},
		mdast.NodeListItem:       {tag: "li"},
		mdast.NodeBlockQuote:     {tag: "blockquote"},
		mdast.NodeCodeFence:      {render: (*htmlWriter).codeFence},
		mdast.NodeDirectiveFence: {render: (*htmlWriter).directive},
		mdast.NodeThematicBreak:  {tag: "hr", void: true},
		mdast.NodeFrontMatter:    {render: (*htmlWriter).skip},
		mdast.NodeContainer:      {render: (*htmlWriter).container},
		mdast.NodeMathBlock:      {render: (*htmlWriter).mathBlock},
		mdast.NodeComment:        {render: (*htmlWriter).skip},
		mdast.NodeTarget:         {render: (*htmlWriter).target},
		mdast.NodeText:           {render: (*htmlWriter).text},
		mdast.NodeEmphasis:       {tag: "em"},
		mdast.NodeStrong:         {tag: "strong"},
		mdast.NodeCodeSpan:       {render: (*htmlWriter).codeSpan},
		mdast.NodeLink:           {render: (*htmlWriter).link},
		mdast.NodeImage:          {render: (*htmlWriter).image},
		mdast.NodeRole:           {render: (*htmlWriter).role},
		mdast.NodeRawMath:        {render: (*htmlWriter).rawMath},
		mdast.NodeLineBreak:      {tag: "br", void: true},
	}

	for _, kind := range mdast.Kinds() {
		entry := htmlKinds[kind]
		if entry.tag == "" && entry.render == nil {
			panic(fmt.Sprintf("renderer: no hypertext mapping for %s", kind))
		}
	}
}

// HTMLRenderer writes a Document as compact HTML.
type HTMLRenderer struct {
	opts Options
}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer(opts Options) *HTMLRenderer {
	return &HTMLRenderer{opts: opts}
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(w io.Writer, doc *mdast.Document) error {
	if err := checkDocument(doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	out := newOutput(w, r.opts.MaxOutputBytes)
	writer := &htmlWriter{out: out}
	writer.node(doc.Root())

	if err := out.finish(); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

type htmlWriter struct {
	out *output
}

func (w *htmlWriter) node(node *mdast.Node) {
	kind := htmlKinds[node.Kind()]
	if kind.render != nil {
		kind.render(w, node)
		return
	}

	w.open(kind.tag)
	if kind.void {
		return
	}
	w.children(node)
	w.close(kind.tag)
}

func (w *htmlWriter) children(node *mdast.Node) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		w.node(child)
	}
}

func (w *htmlWriter) skip(*mdast.Node) {}

// open writes a start tag. attrs alternates names and values; attributes
// with empty values are left out.
func (w *htmlWriter) open(tag string, attrs ...string) {
	w.out.writeByte('<')
	w.out.writeString(tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] != "" {
			w.attr(attrs[i], attrs[i+1])
		}
	}
	w.out.writeByte('>')
}

func (w *htmlWriter) attr(name, value string) {
	w.out.writeByte(' ')
	w.out.writeString(name)
	w.out.writeString(`="`)
	w.escape(value)
	w.out.writeByte('"')
}

func (w *htmlWriter) close(tag string) {
	w.out.writeString("</")
	w.out.writeString(tag)
	w.out.writeByte('>')
}

// element writes tag around escaped text.
func (w *htmlWriter) element(tag, text string, attrs ...string) {
	w.open(tag, attrs...)
	w.escape(text)
	w.close(tag)
}

// escape writes text with & < > " and ' replaced by references.
func (w *htmlWriter) escape(text string) {
	start := 0
	for i := 0; i < len(text); i++ {
		var ref []byte
		if text[i] == '\'' {
			ref = apostrophe
		} else if ref = util.EscapeHTMLByte(text[i]); ref == nil {
			continue
		}
		w.out.writeString(text[start:i])
		w.out.write(ref)
		start = i + 1
	}
	w.out.writeString(text[start:])
}

//nolint:gochecknoglobals // Constant byte slice.
var apostrophe = []byte("&#39;")

func (w *htmlWriter) heading(node *mdast.Node) {
	tag := "h" + strconv.Itoa(min(max(node.Level(), 1), 6))
	w.open(tag)
	w.children(node)
	w.close(tag)
}

// paragraph leaves out the <p> wrapper inside tight list items.
func (w *htmlWriter) paragraph(node *mdast.Node) {
	if isTightItem(node.Parent()) {
		w.children(node)
		return
	}
	w.open("p")
	w.children(node)
	w.close("p")
}

func isTightItem(item *mdast.Node) bool {
	if item == nil || item.Kind() != mdast.NodeListItem || item.Parent() == nil {
		return false
	}
	list := item.Parent().Block().List
	return list != nil && list.Tight
}

func (w *htmlWriter) list(node *mdast.Node) {
	attrs := node.Block().List
	if attrs == nil || !attrs.Ordered {
		w.open("ul")
		w.children(node)
		w.close("ul")
		return
	}

	start := ""
	if attrs.Start != 1 {
		start = strconv.Itoa(attrs.Start)
	}
	w.open("ol", "start", start)
	w.children(node)
	w.close("ol")
}

func (w *htmlWriter) codeFence(node *mdast.Node) {
	var code mdast.CodeAttrs
	if attrs := node.Block().Code; attrs != nil {
		code = *attrs
	}
	w.code(code.Lang, code.Value)
}

// code writes a <pre><code> block. Non-empty content ends with a newline.
func (w *htmlWriter) code(lang, value string) {
	class := ""
	if lang != "" {
		class = "language-" + lang
	}
	w.out.writeString("<pre>")
	w.open("code", "class", class)
	w.escape(value)
	if value != "" {
		w.out.writeByte('\n')
	}
	w.close("code")
	w.out.writeString("</pre>")
}

func (w *htmlWriter) container(node *mdast.Node) {
	w.open("div", "class", "block", "data-meta", node.Block().Meta)
	w.children(node)
	w.close("div")
}

func (w *htmlWriter) mathBlock(node *mdast.Node) {
	w.element("div", node.Value(), "class", "math")
}

// target renders an anchor that links can point at.
func (w *htmlWriter) target(node *mdast.Node) {
	w.open("span", "id", node.Block().Label)
	w.close("span")
}

func (w *htmlWriter) text(node *mdast.Node) {
	w.escape(node.Value())
}

func (w *htmlWriter) codeSpan(node *mdast.Node) {
	w.element("code", node.Value())
}

func (w *htmlWriter) rawMath(node *mdast.Node) {
	w.element("span", node.Value(), "class", "math")
}

func (w *htmlWriter) link(node *mdast.Node) {
	var link mdast.LinkAttrs
	if attrs := node.Inline().Link; attrs != nil {
		link = *attrs
	}
	w.out.writeString("<a")
	w.attr("href", normalizeURL(link.Destination))
	if link.Title != "" {
		w.attr("title", link.Title)
	}
	w.out.writeByte('>')
	w.children(node)
	w.close("a")
}

// image is a void element; its children become the alt text.
func (w *htmlWriter) image(node *mdast.Node) {
	var link mdast.LinkAttrs
	if attrs := node.Inline().Link; attrs != nil {
		link = *attrs
	}

	w.out.writeString("<img")
	w.attr("src", normalizeURL(link.Destination))
	w.attr("alt", mdast.TextContent(node))
	if link.Title != "" {
		w.attr("title", link.Title)
	}
	w.out.writeByte('>')
}

// normalizeURL percent-encodes characters that may not appear in a URL.
func normalizeURL(dest string) string {
	return string(util.URLEscape([]byte(dest), false))
}
