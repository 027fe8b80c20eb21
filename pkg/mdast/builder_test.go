package mdast_test

import (
	"errors"
	"testing"

	"github.com/yaklabco/atrus/pkg/mdast"
)

func TestNewBuilder(t *testing.T) {
	t.Parallel()

	bld := mdast.NewBuilder("abc", []int{0}, 0)
	root := bld.Root()

	if root.Kind() != mdast.NodeDocument {
		t.Errorf("expected Document, got %s", root.Kind())
	}

	if root.Span() != (mdast.Span{Start: 0, End: 3}) {
		t.Errorf("root span = %+v", root.Span())
	}

	if bld.NodeCount() != 1 {
		t.Errorf("expected root to be counted, got %d", bld.NodeCount())
	}
}

func TestBuilder_AppendChild(t *testing.T) {
	t.Parallel()

	bld := mdast.NewBuilder("", nil, 0)
	parent := bld.Root()
	child1 := bld.NewNode(mdast.NodeParagraph, mdast.Span{})
	child2 := bld.NewNode(mdast.NodeHeading, mdast.Span{})

	bld.AppendChild(parent, child1)

	if parent.FirstChild() != child1 || parent.LastChild() != child1 {
		t.Error("first child not set correctly")
	}

	bld.AppendChild(parent, child2)

	if parent.FirstChild() != child1 || parent.LastChild() != child2 {
		t.Error("second child not appended")
	}

	if child1.NextSibling() != child2 || child2.PrevSibling() != child1 {
		t.Error("sibling links not set")
	}

	if child1.PrevSibling() != nil || child2.NextSibling() != nil {
		t.Error("outer sibling links must be nil")
	}
}

func TestBuilder_AppendChildReparents(t *testing.T) {
	t.Parallel()

	bld := mdast.NewBuilder("", nil, 0)
	first := bld.NewNode(mdast.NodeBlockQuote, mdast.Span{})
	second := bld.NewNode(mdast.NodeBlockQuote, mdast.Span{})
	child := bld.NewNode(mdast.NodeParagraph, mdast.Span{})

	bld.AppendChild(first, child)
	bld.AppendChild(second, child)

	if first.HasChildren() {
		t.Error("child still linked to old parent")
	}

	if child.Parent() != second {
		t.Error("child not moved")
	}
}

func TestBuilder_RemoveChild(t *testing.T) {
	t.Parallel()

	bld := mdast.NewBuilder("", nil, 0)
	parent := bld.Root()
	nodes := make([]*mdast.Node, 3)
	for i := range nodes {
		nodes[i] = bld.NewNode(mdast.NodeParagraph, mdast.Span{})
		bld.AppendChild(parent, nodes[i])
	}

	bld.RemoveChild(nodes[1])

	if nodes[0].NextSibling() != nodes[2] || nodes[2].PrevSibling() != nodes[0] {
		t.Error("siblings not relinked")
	}

	if nodes[1].Parent() != nil {
		t.Error("removed node still has parent")
	}

	bld.RemoveChild(nodes[0])
	bld.RemoveChild(nodes[2])

	if parent.HasChildren() {
		t.Error("parent should be empty")
	}
}

func TestBuilder_Discard(t *testing.T) {
	t.Parallel()

	bld := mdast.NewBuilder("", nil, 0)
	emph := bld.NewNode(mdast.NodeEmphasis, mdast.Span{})
	bld.AppendChild(emph, bld.NewNode(mdast.NodeText, mdast.Span{}))
	bld.Discard(emph)

	doc := bld.Seal()
	if doc == nil {
		t.Fatalf("Seal failed: %v", bld.Err())
	}

	stats := doc.Stats()
	if stats.Allocated != 3 || stats.Released != 2 {
		t.Errorf("stats = %+v", stats)
	}

	doc.Free()

	if stats := doc.Stats(); stats.Released != 3 || stats.Live() != 0 {
		t.Errorf("discarded nodes released twice or not at all: %+v", stats)
	}
}

func TestBuilder_NodeBudget(t *testing.T) {
	t.Parallel()

	bld := mdast.NewBuilder("", nil, 2)
	bld.NewNode(mdast.NodeParagraph, mdast.Span{})

	if bld.Err() != nil {
		t.Fatalf("unexpected error: %v", bld.Err())
	}

	if node := bld.NewNode(mdast.NodeText, mdast.Span{}); node == nil {
		t.Fatal("allocation past the budget must still return a node")
	}

	if !errors.Is(bld.Err(), mdast.ErrNodeBudget) {
		t.Errorf("expected ErrNodeBudget, got %v", bld.Err())
	}

	if doc := bld.Seal(); doc != nil {
		t.Error("Seal must not publish a failed build")
	}
}

func TestBuilder_Sealed(t *testing.T) {
	t.Parallel()

	bld := mdast.NewBuilder("x", []int{0}, 0)
	para := bld.NewNode(mdast.NodeParagraph, mdast.Span{Start: 0, End: 1})
	bld.AppendChild(bld.Root(), para)

	doc := bld.Seal()
	if doc == nil {
		t.Fatalf("Seal failed: %v", bld.Err())
	}

	bld.AppendChild(para, bld.NewNode(mdast.NodeText, mdast.Span{}))

	if !errors.Is(bld.Err(), mdast.ErrSealed) {
		t.Errorf("expected ErrSealed, got %v", bld.Err())
	}

	if para.HasChildren() {
		t.Error("sealed tree was mutated")
	}

	bld.SetSpan(para, mdast.Span{Start: 0, End: 0})

	if para.Span().End != 1 {
		t.Error("sealed span was mutated")
	}
}

func TestBuilder_ClampsSpans(t *testing.T) {
	t.Parallel()

	bld := mdast.NewBuilder("abc", []int{0}, 0)
	node := bld.NewNode(mdast.NodeText, mdast.Span{Start: -2, End: 10})

	if got := node.Span(); got != (mdast.Span{Start: 0, End: 3}) {
		t.Errorf("Span() = %+v, want {0 3}", got)
	}

	bld.SetSpan(node, mdast.Span{Start: 2, End: 1})

	if got := node.Span(); got != (mdast.Span{Start: 2, End: 2}) {
		t.Errorf("Span() = %+v, want {2 2}", got)
	}
}
