// Package mdast provides the typed MyST syntax tree.
//
// A Document owns every node produced by one parse together with the source
// text the nodes point into. Trees are assembled through a Builder; once the
// Builder is sealed the tree is immutable and only observable through the
// read-only accessors on Node and Document.
package mdast

// Stats reports node allocation accounting for a Document.
type Stats struct {
	// Allocated is the number of nodes created for the document.
	Allocated int

	// Released is the number of nodes released so far.
	Released int
}

// Live returns the number of nodes still held.
func (s Stats) Live() int {
	return s.Allocated - s.Released
}

// Document is the root of a parsed MyST tree.
type Document struct {
	source     string
	lineStarts []int
	root       *Node

	// nodes is every node allocated by the builder, attached or not.
	nodes    []*Node
	released int
	freed    bool
}

// Source returns the text the document was parsed from.
// It is empty once the document has been freed.
func (d *Document) Source() string {
	return d.source
}

// Root returns the NodeDocument root, or nil after Free.
func (d *Document) Root() *Node {
	if d == nil || d.freed {
		return nil
	}
	return d.root
}

// Freed returns true once Free has been called.
func (d *Document) Freed() bool {
	return d == nil || d.freed
}

// Stats returns the node allocation counters.
func (d *Document) Stats() Stats {
	return Stats{Allocated: len(d.nodes), Released: d.released}
}

// LineAt converts a byte offset into a 1-based line and column.
func (d *Document) LineAt(offset int) Position {
	return lineAt(d.lineStarts, len(d.source), offset)
}

// Position returns the line/column range covered by a span.
func (d *Document) Position(span Span) SourcePosition {
	return SourcePosition{Start: d.LineAt(span.Start), End: d.LineAt(span.End)}
}

// Text returns the source text covered by a span.
// Returns "" for spans outside the source.
func (d *Document) Text(span Span) string {
	if span.Start < 0 || span.End > len(d.source) || span.Start > span.End {
		return ""
	}
	return d.source[span.Start:span.End]
}

// Free releases every node and the source text in one operation.
// Calling Free more than once is a no-op.
func (d *Document) Free() {
	if d == nil || d.freed {
		return
	}

	for _, node := range d.nodes {
		d.release(node)
	}

	d.freed = true
	d.root = nil
	d.source = ""
	d.lineStarts = nil
}

// release detaches one node. Each node is counted at most once.
func (d *Document) release(node *Node) {
	if node.released {
		return
	}
	node.released = true
	node.parent = nil
	node.firstChild = nil
	node.lastChild = nil
	node.prev = nil
	node.next = nil
	node.block = nil
	node.inline = nil
	d.released++
}
