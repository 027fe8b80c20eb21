package mdast

import "errors"

// Builder errors.
var (
	// ErrNodeBudget is recorded when a parse allocates more nodes than allowed.
	ErrNodeBudget = errors.New("node budget exhausted")

	// ErrSealed is recorded when a sealed tree is mutated.
	ErrSealed = errors.New("document is sealed")
)

// Builder assembles a Document. It is the only way to create or link nodes.
//
// Errors are sticky: the first failure is kept and reported by Err, and
// later calls keep working on a best-effort basis so callers need not check
// after every step.
type Builder struct {
	doc    *Document
	limit  int
	err    error
	sealed bool
}

// NewBuilder starts a document over source. lineStarts is the byte offset of
// every line start. A limit of zero or less means no node budget.
func NewBuilder(source string, lineStarts []int, limit int) *Builder {
	bld := &Builder{
		doc:   &Document{source: source, lineStarts: lineStarts},
		limit: limit,
	}
	bld.doc.root = bld.NewNode(NodeDocument, Span{Start: 0, End: len(source)})
	return bld
}

// Root returns the document node under construction.
func (b *Builder) Root() *Node {
	return b.doc.root
}

// Source returns the source text being built over.
func (b *Builder) Source() string {
	return b.doc.source
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error {
	return b.err
}

// NodeCount returns the number of nodes allocated so far.
func (b *Builder) NodeCount() int {
	return len(b.doc.nodes)
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) mutable() bool {
	if b.sealed {
		b.fail(ErrSealed)
		return false
	}
	return true
}

// NewNode allocates a detached node of the given kind.
// Past the node budget the node is still returned and ErrNodeBudget is
// recorded. After Seal it returns nil.
func (b *Builder) NewNode(kind NodeKind, span Span) *Node {
	if !b.mutable() {
		return nil
	}

	if b.limit > 0 && len(b.doc.nodes) >= b.limit {
		b.fail(ErrNodeBudget)
	}

	node := &Node{kind: kind, span: b.clamp(span)}
	b.doc.nodes = append(b.doc.nodes, node)
	return node
}

// AppendChild appends child to parent, detaching it from any previous parent.
func (b *Builder) AppendChild(parent, child *Node) {
	if parent == nil || child == nil || !b.mutable() {
		return
	}

	if child.parent != nil {
		unlink(child)
	}

	child.parent = parent
	child.prev = parent.lastChild
	child.next = nil

	if parent.lastChild != nil {
		parent.lastChild.next = child
	} else {
		parent.firstChild = child
	}

	parent.lastChild = child
}

// RemoveChild detaches child from its parent. The node stays owned by the
// document and may be re-attached or discarded.
func (b *Builder) RemoveChild(child *Node) {
	if child == nil || child.parent == nil || !b.mutable() {
		return
	}
	unlink(child)
}

func unlink(child *Node) {
	parent := child.parent

	if child.prev != nil {
		child.prev.next = child.next
	} else {
		parent.firstChild = child.next
	}

	if child.next != nil {
		child.next.prev = child.prev
	} else {
		parent.lastChild = child.prev
	}

	child.parent = nil
	child.prev = nil
	child.next = nil
}

// Discard releases a detached subtree before the document is published.
func (b *Builder) Discard(node *Node) {
	if node == nil || !b.mutable() {
		return
	}

	if node.parent != nil {
		unlink(node)
	}

	var stack []*Node
	stack = append(stack, node)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for child := cur.firstChild; child != nil; child = child.next {
			stack = append(stack, child)
		}
		b.doc.release(cur)
	}
}

// SetSpan replaces the source span of a node. Spans are clamped to the
// source text.
func (b *Builder) SetSpan(node *Node, span Span) {
	if node == nil || !b.mutable() {
		return
	}
	node.span = b.clamp(span)
}

// clamp keeps a span inside the source and non-inverted.
func (b *Builder) clamp(span Span) Span {
	size := len(b.doc.source)
	span.Start = min(max(span.Start, 0), size)
	span.End = min(max(span.End, span.Start), size)
	return span
}

// SetBlockAttrs attaches block attributes to a node.
func (b *Builder) SetBlockAttrs(node *Node, attrs BlockAttrs) {
	if node == nil || !b.mutable() {
		return
	}
	node.block = &attrs
}

// SetInlineAttrs attaches inline attributes to a node.
func (b *Builder) SetInlineAttrs(node *Node, attrs InlineAttrs) {
	if node == nil || !b.mutable() {
		return
	}
	node.inline = &attrs
}

// Seal publishes the document. Any later mutation records ErrSealed.
// Seal returns nil if an error was recorded during building; the partial
// tree is freed in that case.
func (b *Builder) Seal() *Document {
	if b.sealed {
		b.fail(ErrSealed)
		return nil
	}
	b.sealed = true

	if b.err != nil {
		b.doc.Free()
		return nil
	}
	return b.doc
}
