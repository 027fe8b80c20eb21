package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// StructuredVersion identifies the JSON key layout. It changes whenever a
// type string or attribute key changes.
const StructuredVersion = "1"

// jsonKind describes how one node kind is written.
type jsonKind struct {
	typ   string
	attrs func(w *jsonWriter, node *mdast.Node)
}

//nolint:gochecknoglobals // Read-only lookup table.
var jsonKinds = map[mdast.NodeKind]jsonKind{
	mdast.NodeDocument: {typ: "root"},
	mdast.NodeHeading: {typ: "heading", attrs: func(w *jsonWriter, n *mdast.Node) {
		w.intField("level", n.Level())
	}},
	mdast.NodeParagraph: {typ: "paragraph"},
	mdast.NodeList: {typ: "list", attrs: func(w *jsonWriter, n *mdast.Node) {
		var list mdast.ListAttrs
		if attrs := n.Block().List; attrs != nil {
			list = *attrs
		}
		w.boolField("ordered", list.Ordered)
		w.intField("start", list.Start)
		w.boolField("spread", !list.Tight)
	}},
	mdast.NodeListItem:   {typ: "listItem"},
	mdast.NodeBlockQuote: {typ: "blockquote"},
	mdast.NodeCodeFence: {typ: "code", attrs: func(w *jsonWriter, n *mdast.Node) {
		var code mdast.CodeAttrs
		if attrs := n.Block().Code; attrs != nil {
			code = *attrs
		}
		w.optStringField("lang", code.Lang)
		w.optStringField("info", code.Info)
		w.stringField("value", code.Value)
	}},
	mdast.NodeDirectiveFence: {typ: "mystDirective", attrs: func(w *jsonWriter, n *mdast.Node) {
		var directive mdast.DirectiveAttrs
		if attrs := n.Block().Directive; attrs != nil {
			directive = *attrs
		}
		w.stringField("name", directive.Name)
		w.optStringField("argument", directive.Argument)
		if len(directive.Options) > 0 {
			w.key("options")
			w.options(directive.Options)
		}
		w.stringField("value", directive.Value)
	}},
	mdast.NodeThematicBreak: {typ: "thematicBreak"},
	mdast.NodeFrontMatter: {typ: "frontmatter", attrs: func(w *jsonWriter, n *mdast.Node) {
		front := n.Block().FrontMatter
		if front == nil {
			w.stringField("value", "")
			return
		}
		w.stringField("value", front.Value)
		if front.Data != nil {
			w.key("data")
			w.value(front.Data)
		}
	}},
	mdast.NodeContainer: {typ: "block", attrs: func(w *jsonWriter, n *mdast.Node) {
		w.optStringField("meta", n.Block().Meta)
	}},
	mdast.NodeMathBlock: {typ: "math", attrs: valueAttr},
	mdast.NodeComment:   {typ: "comment", attrs: valueAttr},
	mdast.NodeTarget: {typ: "mystTarget", attrs: func(w *jsonWriter, n *mdast.Node) {
		w.stringField("label", n.Block().Label)
	}},
	mdast.NodeText:     {typ: "text", attrs: valueAttr},
	mdast.NodeEmphasis: {typ: "emphasis"},
	mdast.NodeStrong:   {typ: "strong"},
	mdast.NodeCodeSpan: {typ: "inlineCode", attrs: valueAttr},
	mdast.NodeLink:     {typ: "link", attrs: linkAttrs},
	mdast.NodeImage:    {typ: "image", attrs: linkAttrs},
	mdast.NodeRole: {typ: "mystRole", attrs: func(w *jsonWriter, n *mdast.Node) {
		w.stringField("name", n.Name())
		w.stringField("value", n.Value())
	}},
	mdast.NodeRawMath:   {typ: "inlineMath", attrs: valueAttr},
	mdast.NodeLineBreak: {typ: "break"},
}

func init() {
	for _, kind := range mdast.Kinds() {
		if jsonKinds[kind].typ == "" {
			panic(fmt.Sprintf("renderer: no structured type for %s", kind))
		}
	}
}

func valueAttr(w *jsonWriter, n *mdast.Node) {
	w.stringField("value", n.Value())
}

func linkAttrs(w *jsonWriter, n *mdast.Node) {
	var link mdast.LinkAttrs
	if attrs := n.Inline().Link; attrs != nil {
		link = *attrs
	}
	w.stringField("destination", link.Destination)
	w.optStringField("title", link.Title)
}

// JSONRenderer writes a Document as a single JSON object.
type JSONRenderer struct {
	opts Options
}

// NewJSONRenderer creates a new JSON renderer.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{opts: opts}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(w io.Writer, doc *mdast.Document) error {
	if err := checkDocument(doc); err != nil {
		return fmt.Errorf("render json: %w", err)
	}

	if r.opts.Indent == "" {
		out := newOutput(w, r.opts.MaxOutputBytes)
		newJSONWriter(out).node(doc.Root())
		if err := out.finish(); err != nil {
			return fmt.Errorf("render json: %w", err)
		}
		return nil
	}

	var compact bytes.Buffer
	tmp := newOutput(&compact, r.opts.MaxOutputBytes)
	newJSONWriter(tmp).node(doc.Root())
	if err := tmp.finish(); err != nil {
		return fmt.Errorf("render json: %w", err)
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, compact.Bytes(), "", r.opts.Indent); err != nil {
		return fmt.Errorf("render json: indent: %w", err)
	}

	out := newOutput(w, r.opts.MaxOutputBytes)
	out.write(indented.Bytes())
	if err := out.finish(); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	return nil
}

// jsonWriter emits JSON with keys in table order. Scalars are encoded with
// encoding/json so escaping matches the standard library.
type jsonWriter struct {
	out     *output
	scratch bytes.Buffer
	enc     *json.Encoder
}

func newJSONWriter(out *output) *jsonWriter {
	w := &jsonWriter{out: out}
	w.enc = json.NewEncoder(&w.scratch)
	w.enc.SetEscapeHTML(false)
	return w
}

func (w *jsonWriter) node(node *mdast.Node) {
	kind := jsonKinds[node.Kind()]

	w.out.writeString(`{"type":`)
	w.str(kind.typ)
	if kind.attrs != nil {
		kind.attrs(w, node)
	}

	if node.Kind().HoldsChildren() {
		w.out.writeString(`,"children":[`)
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			if child != node.FirstChild() {
				w.out.writeByte(',')
			}
			w.node(child)
		}
		w.out.writeByte(']')
	}

	w.out.writeByte('}')
}

func (w *jsonWriter) key(name string) {
	w.out.writeByte(',')
	w.str(name)
	w.out.writeByte(':')
}

func (w *jsonWriter) stringField(name, value string) {
	w.key(name)
	w.str(value)
}

func (w *jsonWriter) optStringField(name, value string) {
	if value != "" {
		w.stringField(name, value)
	}
}

func (w *jsonWriter) intField(name string, value int) {
	w.key(name)
	w.out.writeString(strconv.Itoa(value))
}

func (w *jsonWriter) boolField(name string, value bool) {
	w.key(name)
	w.out.writeString(strconv.FormatBool(value))
}

// options writes directive options as an object in source order. A repeated
// key keeps its first position and its last value.
func (w *jsonWriter) options(options []mdast.Option) {
	last := make(map[string]string, len(options))
	for _, opt := range options {
		last[opt.Key] = opt.Value
	}

	w.out.writeByte('{')
	first := true
	for _, opt := range options {
		value, pending := last[opt.Key]
		if !pending {
			continue
		}
		delete(last, opt.Key)

		if !first {
			w.out.writeByte(',')
		}
		first = false
		w.str(opt.Key)
		w.out.writeByte(':')
		w.str(value)
	}
	w.out.writeByte('}')
}

func (w *jsonWriter) str(s string) {
	w.value(s)
}

// value encodes an arbitrary decoded YAML value.
func (w *jsonWriter) value(v any) {
	if w.out.err != nil {
		return
	}

	w.scratch.Reset()
	if err := w.enc.Encode(jsonSafe(v)); err != nil {
		w.out.err = fmt.Errorf("encode value: %w", err)
		return
	}
	w.out.write(bytes.TrimSuffix(w.scratch.Bytes(), []byte("\n")))
}

// jsonSafe converts YAML-decoded values into values encoding/json accepts:
// maps with non-string keys get stringified keys and non-finite floats become
// strings.
func jsonSafe(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = jsonSafe(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = jsonSafe(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonSafe(item)
		}
		return out
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return strconv.FormatFloat(val, 'g', -1, 64)
		}
		return val
	default:
		return v
	}
}
