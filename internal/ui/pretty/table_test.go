package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/atrus/internal/ui/pretty"
)

func TestTableFormatter_Format(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 80)

	got := formatter.Format(pretty.Table{
		Columns: []pretty.Column{
			{Title: "KIND", MinWidth: 4},
			{Title: "COUNT", MinWidth: 5, AlignRight: true},
		},
		Rows: []pretty.Row{
			{Cells: []string{"heading", "2"}},
			{Cells: []string{"text", "10"}},
		},
		Legend: "counts",
	})

	want := strings.Join([]string{
		" KIND     COUNT",
		"================",
		" heading      2",
		" text        10",
		"----------------",
		" counts",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestTableFormatter_Empty(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 0)

	assert.Empty(t, formatter.Format(pretty.Table{
		Columns: []pretty.Column{{Title: "A"}},
	}))
	assert.Empty(t, formatter.Format(pretty.Table{}))
}

func TestTableFormatter_ShrinksFlexColumn(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 30)

	got := formatter.Format(pretty.Table{
		Columns: []pretty.Column{
			{Title: "LINE", MinWidth: 4},
			{Title: "ARGUMENT", MinWidth: 8, Flex: true},
		},
		Rows: []pretty.Row{
			{Cells: []string{"1", strings.Repeat("x", 60)}},
		},
	})

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 30, line)
	}
	assert.Contains(t, lines[2], "...")
}

func TestTableFormatter_WideRunes(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 80)

	got := formatter.Format(pretty.Table{
		Columns: []pretty.Column{
			{Title: "TEXT", MinWidth: 4},
			{Title: "N", MinWidth: 1},
		},
		Rows: []pretty.Row{
			{Cells: []string{"été", "1"}},
			{Cells: []string{"plain", "2"}},
		},
	})

	lines := strings.Split(got, "\n")
	assert.Equal(t, " été    1", lines[2])
	assert.Equal(t, " plain  2", lines[3])
}
