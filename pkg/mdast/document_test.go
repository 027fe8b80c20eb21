package mdast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/atrus/pkg/mdast"
	"github.com/yaklabco/atrus/pkg/scanner"
)

func TestDocument_LineAt(t *testing.T) {
	t.Parallel()

	source := "line1\nline2\nline3"
	doc := mdast.NewBuilder(source, scanner.LineStarts(scanner.Scan(source)), 0).Seal()
	require.NotNil(t, doc)

	tests := []struct {
		name     string
		offset   int
		expected mdast.Position
	}{
		{"start of file", 0, mdast.Position{Line: 1, Column: 1}},
		{"middle of line 1", 2, mdast.Position{Line: 1, Column: 3}},
		{"newline of line 1", 5, mdast.Position{Line: 1, Column: 6}},
		{"start of line 2", 6, mdast.Position{Line: 2, Column: 1}},
		{"end of file", 17, mdast.Position{Line: 3, Column: 6}},
		{"negative offset", -1, mdast.Position{}},
		{"past end", 18, mdast.Position{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, doc.LineAt(tt.offset))
		})
	}

	pos := doc.Position(mdast.Span{Start: 6, End: 11})
	assert.True(t, pos.IsValid())
	assert.True(t, pos.IsSingleLine())
	assert.Equal(t, "line2", doc.Text(mdast.Span{Start: 6, End: 11}))
	assert.Empty(t, doc.Text(mdast.Span{Start: 10, End: 99}))
}

func TestDocument_Free(t *testing.T) {
	t.Parallel()

	bld := mdast.NewBuilder("hello", []int{0}, 0)
	para := bld.NewNode(mdast.NodeParagraph, mdast.Span{Start: 0, End: 5})
	text := bld.NewNode(mdast.NodeText, mdast.Span{Start: 0, End: 5})
	bld.AppendChild(para, text)
	bld.AppendChild(bld.Root(), para)

	// An orphan that was never attached is still owned by the document.
	bld.NewNode(mdast.NodeText, mdast.Span{})

	doc := bld.Seal()
	require.NotNil(t, doc)

	assert.Equal(t, mdast.Stats{Allocated: 4, Released: 0}, doc.Stats())
	assert.False(t, doc.Freed())

	doc.Free()
	doc.Free()

	stats := doc.Stats()
	assert.Equal(t, stats.Allocated, stats.Released)
	assert.Zero(t, stats.Live())
	assert.True(t, doc.Freed())
	assert.Nil(t, doc.Root())
	assert.Empty(t, doc.Source())
	assert.Nil(t, para.Parent())
	assert.Nil(t, para.FirstChild())
}

func TestSpan(t *testing.T) {
	t.Parallel()

	span := mdast.Span{Start: 2, End: 5}
	assert.Equal(t, 3, span.Len())
	assert.False(t, span.IsEmpty())
	assert.True(t, span.Contains(2))
	assert.False(t, span.Contains(5))
	assert.Equal(t, mdast.Span{Start: 1, End: 5}, span.Cover(mdast.Span{Start: 1, End: 3}))
}
