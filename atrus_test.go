package atrus_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/atrus"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tree, err := atrus.Parse("# Title\n\nBody with *emphasis*.")
	require.NoError(t, err)
	require.NotNil(t, tree)
	t.Cleanup(func() { atrus.Free(tree) })

	assert.Equal(t, atrus.ParseSuccess, atrus.StatusOf(err))
	assert.Equal(t, 2, tree.Document().Root().ChildCount())
}

func TestParseReader(t *testing.T) {
	t.Parallel()

	tree, err := atrus.ParseReader(strings.NewReader("- a\n- b"))
	require.NoError(t, err)
	t.Cleanup(func() { atrus.Free(tree) })

	out, err := atrus.RenderHypertext(tree)
	require.NoError(t, err)
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul>", out)
}

func TestParseReader_ReadFailure(t *testing.T) {
	t.Parallel()

	readErr := errors.New("disk on fire")

	tree, err := atrus.ParseReader(iotest.ErrReader(readErr))
	require.Error(t, err)
	assert.Nil(t, tree)
	assert.ErrorIs(t, err, atrus.ErrReadFailure)
	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, atrus.ParseReadFailed, atrus.StatusOf(err))

	_, err = atrus.ParseReader(nil)
	assert.Equal(t, atrus.ParseReadFailed, atrus.StatusOf(err))
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want atrus.ParseStatus
	}{
		{name: "nil", err: nil, want: atrus.ParseSuccess},
		{name: "read failure", err: atrus.ErrReadFailure, want: atrus.ParseReadFailed},
		{name: "other", err: atrus.ErrOther, want: atrus.ParseOtherError},
		{name: "unrelated error", err: errors.New("boom"), want: atrus.ParseOtherError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, atrus.StatusOf(tt.err))
		})
	}

	assert.Equal(t, 0, int(atrus.ParseSuccess))
	assert.Equal(t, 1, int(atrus.ParseReadFailed))
	assert.Equal(t, 2, int(atrus.ParseOtherError))
	assert.Equal(t, "read failed", atrus.ParseReadFailed.String())
}

func TestRenderStructured(t *testing.T) {
	t.Parallel()

	tree, err := atrus.Parse("```{note}\n:class: tip\nSome *text*.\n```\n\n1. one\n2. two")
	require.NoError(t, err)
	t.Cleanup(func() { atrus.Free(tree) })

	out, err := atrus.RenderStructured(tree)
	require.NoError(t, err)

	var root struct {
		Type     string           `json:"type"`
		Children []map[string]any `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, "root", root.Type)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "mystDirective", root.Children[0]["type"])
	assert.Equal(t, "list", root.Children[1]["type"])
}

func TestRenderHypertext_Escaping(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`a < b & "c"`,
		"# <h1> & \"quoted\"",
		"- <li>\n- &amp\n",
		"```{note}\n<script>\"x\"</script>\n```",
		"[<x>](<a\"b>)",
		"`<code>` & {sub}`<\"&>`",
	}

	for _, input := range inputs {
		tree, err := atrus.Parse(input)
		require.NoError(t, err)

		out, err := atrus.RenderHypertext(tree)
		require.NoError(t, err)
		atrus.Free(tree)

		assert.NotContains(t, out, "<script", input)
		assert.NotContains(t, out, "<x>", input)
		assert.NotContains(t, out, `"x"`, input)
		assert.NotContains(t, out, "& ", input)
	}
}

func TestRender_Idempotent(t *testing.T) {
	t.Parallel()

	tree, err := atrus.Parse("# T\n\n> quote with [link](u)\n\n$$\nx\n$$\n")
	require.NoError(t, err)
	t.Cleanup(func() { atrus.Free(tree) })

	first, err := atrus.RenderHypertext(tree)
	require.NoError(t, err)
	second, err := atrus.RenderHypertext(tree)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	first, err = atrus.RenderStructured(tree)
	require.NoError(t, err)
	second, err = atrus.RenderStructured(tree)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFree(t *testing.T) {
	t.Parallel()

	tree, err := atrus.Parse("# T\n\n- a\n- b *c*")
	require.NoError(t, err)

	atrus.Free(tree)
	stats := tree.Document().Stats()
	assert.Equal(t, stats.Allocated, stats.Released)
	assert.Zero(t, stats.Live())

	assert.NotPanics(t, func() { atrus.Free(tree) })
	assert.NotPanics(t, func() { atrus.Free(nil) })

	out, err := atrus.RenderStructured(tree)
	assert.Empty(t, out)
	assert.ErrorIs(t, err, atrus.ErrRenderFailure)

	out, err = atrus.RenderHypertext(tree)
	assert.Empty(t, out)
	assert.ErrorIs(t, err, atrus.ErrRenderFailure)

	_, err = atrus.RenderHypertext(nil)
	assert.ErrorIs(t, err, atrus.ErrRenderFailure)
}
