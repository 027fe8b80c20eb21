package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table formatting constants.
const (
	tablePadding   = 2
	ellipsis       = "..."
	heavySeparator = "="
	lightSeparator = "-"
)

// Column describes one table column.
type Column struct {
	Title    string
	MinWidth int

	// AlignRight right-aligns cells, for numbers.
	AlignRight bool

	// Flex marks the column that shrinks when the table is wider than the
	// terminal.
	Flex bool
}

// RowEmphasis selects the style applied to a whole row.
type RowEmphasis int

const (
	RowNormal RowEmphasis = iota
	RowDim
	RowWarn
)

// Row is one table row. Cells are plain text; styling is applied per row.
type Row struct {
	Cells    []string
	Emphasis RowEmphasis
}

// Table is a titled grid of rows.
type Table struct {
	Columns []Column
	Rows    []Row
	Legend  string
}

// TableFormatter formats tables constrained to a terminal width.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// Format renders the table, or "" when it has no rows.
func (t *TableFormatter) Format(table Table) string {
	if len(table.Rows) == 0 || len(table.Columns) == 0 {
		return ""
	}

	widths := t.columnWidths(table)
	total := totalWidth(widths)

	var builder strings.Builder

	titles := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		titles[i] = col.Title
	}
	builder.WriteString(t.styles.TableHeader.Render(formatCells(table.Columns, widths, titles)))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	builder.WriteString("\n")

	for _, row := range table.Rows {
		content := formatCells(table.Columns, widths, row.Cells)
		builder.WriteString(t.rowStyle(row.Emphasis).Render(content))
		builder.WriteString("\n")
	}

	if table.Legend != "" {
		builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, total)))
		builder.WriteString("\n")
		builder.WriteString(t.styles.TableLegend.Render(" " + table.Legend))
		builder.WriteString("\n")
	}

	return builder.String()
}

// columnWidths fits every column to its widest cell, then shrinks the flex
// column until the table fits the terminal.
func (t *TableFormatter) columnWidths(table Table) []int {
	widths := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		widths[i] = max(col.MinWidth, lipgloss.Width(col.Title))
	}

	for _, row := range table.Rows {
		for i := range widths {
			if i < len(row.Cells) {
				widths[i] = max(widths[i], lipgloss.Width(row.Cells[i]))
			}
		}
	}

	if excess := totalWidth(widths) - t.termWidth; excess > 0 {
		for i, col := range table.Columns {
			if col.Flex {
				floor := max(col.MinWidth, lipgloss.Width(col.Title))
				widths[i] = max(floor, widths[i]-excess)
				break
			}
		}
	}

	return widths
}

func totalWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w + tablePadding
	}
	return total
}

func formatCells(columns []Column, widths []int, cells []string) string {
	var builder strings.Builder

	for i, col := range columns {
		cell := ""
		if i < len(cells) {
			cell = truncateString(cells[i], widths[i])
		}
		pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))

		builder.WriteString(" ")
		if col.AlignRight {
			builder.WriteString(pad + cell)
		} else {
			builder.WriteString(cell + pad)
		}
		builder.WriteString(" ")
	}

	return strings.TrimRight(builder.String(), " ")
}

func (t *TableFormatter) rowStyle(emphasis RowEmphasis) lipgloss.Style {
	switch emphasis {
	case RowDim:
		return t.styles.Dim
	case RowWarn:
		return t.styles.Mismatch
	default:
		return lipgloss.NewStyle()
	}
}

// truncateString truncates str to maxWidth columns, adding "..." if truncated.
func truncateString(str string, maxWidth int) string {
	if lipgloss.Width(str) <= maxWidth {
		return str
	}

	runes := []rune(str)
	keep := maxWidth
	suffix := ""
	if maxWidth > len(ellipsis) {
		keep = maxWidth - len(ellipsis)
		suffix = ellipsis
	}

	for keep > 0 && lipgloss.Width(string(runes[:min(keep, len(runes))])) > keep {
		keep--
	}
	return string(runes[:min(keep, len(runes))]) + suffix
}
