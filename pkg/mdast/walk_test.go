package mdast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// buildTestTree builds:
//
//	Document
//	  Heading
//	    Text "Title"
//	  Paragraph
//	    Text "see "
//	    Emphasis
//	      Text "this"
//	    LineBreak
//	    Role "x"
func buildTestTree(t *testing.T) *mdast.Node {
	t.Helper()

	bld := mdast.NewBuilder("", nil, 0)
	leaf := func(kind mdast.NodeKind, value string) *mdast.Node {
		node := bld.NewNode(kind, mdast.Span{})
		bld.SetInlineAttrs(node, mdast.InlineAttrs{Value: value})
		return node
	}

	heading := bld.NewNode(mdast.NodeHeading, mdast.Span{})
	bld.AppendChild(heading, leaf(mdast.NodeText, "Title"))
	bld.AppendChild(bld.Root(), heading)

	para := bld.NewNode(mdast.NodeParagraph, mdast.Span{})
	bld.AppendChild(para, leaf(mdast.NodeText, "see "))
	emphasis := bld.NewNode(mdast.NodeEmphasis, mdast.Span{})
	bld.AppendChild(emphasis, leaf(mdast.NodeText, "this"))
	bld.AppendChild(para, emphasis)
	bld.AppendChild(para, bld.NewNode(mdast.NodeLineBreak, mdast.Span{}))
	bld.AppendChild(para, leaf(mdast.NodeRole, "x"))
	bld.AppendChild(bld.Root(), para)

	doc := bld.Seal()
	require.NotNil(t, doc, "seal: %v", bld.Err())

	return doc.Root()
}

func kindsOf(nodes []*mdast.Node) []mdast.NodeKind {
	kinds := make([]mdast.NodeKind, 0, len(nodes))
	for _, node := range nodes {
		kinds = append(kinds, node.Kind())
	}
	return kinds
}

func TestWalk(t *testing.T) {
	t.Parallel()

	var visited []mdast.NodeKind
	err := mdast.Walk(buildTestTree(t), func(n *mdast.Node) error {
		visited = append(visited, n.Kind())
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []mdast.NodeKind{
		mdast.NodeDocument,
		mdast.NodeHeading,
		mdast.NodeText,
		mdast.NodeParagraph,
		mdast.NodeText,
		mdast.NodeEmphasis,
		mdast.NodeText,
		mdast.NodeLineBreak,
		mdast.NodeRole,
	}, visited)
}

func TestWalk_NilRoot(t *testing.T) {
	t.Parallel()

	err := mdast.Walk(nil, func(_ *mdast.Node) error {
		t.Error("callback should not be called for nil root")
		return nil
	})

	assert.NoError(t, err)
}

func TestWalk_EarlyTermination(t *testing.T) {
	t.Parallel()

	expectedErr := errors.New("stop here")
	count := 0

	err := mdast.Walk(buildTestTree(t), func(n *mdast.Node) error {
		count++
		if n.Kind() == mdast.NodeParagraph {
			return expectedErr
		}
		return nil
	})

	require.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 4, count)
}

func TestWalkWithContext(t *testing.T) {
	t.Parallel()

	var enterOrder, leaveOrder []mdast.NodeKind

	err := mdast.WalkWithContext(buildTestTree(t),
		func(n *mdast.Node) error {
			enterOrder = append(enterOrder, n.Kind())
			return nil
		},
		func(n *mdast.Node) error {
			leaveOrder = append(leaveOrder, n.Kind())
			return nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, mdast.NodeDocument, enterOrder[0])
	assert.Equal(t, []mdast.NodeKind{
		mdast.NodeText,
		mdast.NodeHeading,
		mdast.NodeText,
		mdast.NodeText,
		mdast.NodeEmphasis,
		mdast.NodeLineBreak,
		mdast.NodeRole,
		mdast.NodeParagraph,
		mdast.NodeDocument,
	}, leaveOrder)

	require.NoError(t, mdast.WalkWithContext(buildTestTree(t), nil, nil))
}

func TestWalkBlocksAndInlines(t *testing.T) {
	t.Parallel()

	root := buildTestTree(t)

	var blocks, inlines []mdast.NodeKind
	require.NoError(t, mdast.WalkBlocks(root, func(n *mdast.Node) error {
		blocks = append(blocks, n.Kind())
		return nil
	}))
	require.NoError(t, mdast.WalkInlines(root, func(n *mdast.Node) error {
		inlines = append(inlines, n.Kind())
		return nil
	}))

	assert.Equal(t, []mdast.NodeKind{mdast.NodeDocument, mdast.NodeHeading, mdast.NodeParagraph}, blocks)
	assert.Len(t, inlines, 6)
}

func TestFind(t *testing.T) {
	t.Parallel()

	root := buildTestTree(t)

	textNodes := mdast.FindAll(root, func(n *mdast.Node) bool {
		return n.Kind() == mdast.NodeText
	})
	assert.Len(t, textNodes, 3)

	para := mdast.FindFirst(root, func(n *mdast.Node) bool {
		return n.Kind() == mdast.NodeParagraph
	})
	require.NotNil(t, para)
	assert.Equal(t, []mdast.NodeKind{
		mdast.NodeText, mdast.NodeEmphasis, mdast.NodeLineBreak, mdast.NodeRole,
	}, kindsOf(para.Children()))

	assert.Nil(t, mdast.FindFirst(root, func(n *mdast.Node) bool {
		return n.Kind() == mdast.NodeCodeFence
	}))

	assert.Len(t, mdast.FindByKind(root, mdast.NodeHeading), 1)
	assert.Empty(t, mdast.FindByKind(root, mdast.NodeDirectiveFence))
}

func TestTextContent(t *testing.T) {
	t.Parallel()

	root := buildTestTree(t)
	para := mdast.FindByKind(root, mdast.NodeParagraph)[0]

	assert.Equal(t, "see this\nx", mdast.TextContent(para))
	assert.Equal(t, "Titlesee this\nx", mdast.TextContent(root))
}
