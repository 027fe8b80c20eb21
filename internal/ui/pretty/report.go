package pretty

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/atrus/pkg/analysis"
	"github.com/yaklabco/atrus/pkg/langdetect"
)

const (
	builtinSymbol  = "*"
	mismatchSymbol = "!"
	outlineIndent  = "  "
)

// ReportFormatter renders an analysis report as styled text.
type ReportFormatter struct {
	styles *Styles
	tables *TableFormatter
}

// NewReportFormatter creates a report formatter for a terminal of termWidth
// columns.
func NewReportFormatter(styles *Styles, termWidth int) *ReportFormatter {
	return &ReportFormatter{
		styles: styles,
		tables: NewTableFormatter(styles, termWidth),
	}
}

// Format renders every non-empty section of the report. source names the
// document in the header and may be empty.
func (f *ReportFormatter) Format(source string, report *analysis.Report) string {
	var builder strings.Builder

	if source != "" {
		builder.WriteString(f.styles.Source.Render(source))
		builder.WriteString(" ")
	}
	builder.WriteString(f.styles.FormatSummaryOneLine(report))
	builder.WriteString("\n")
	builder.WriteString(f.styles.FormatSummary(report))

	sections := []struct {
		title string
		body  string
	}{
		{"Front matter", f.FormatFrontMatter(report.FrontMatter)},
		{"Outline", f.FormatOutline(report.Outline)},
		{"Node kinds", f.FormatKinds(report.Kinds)},
		{"Directives", f.FormatDirectives(report.Directives)},
		{"Roles", f.FormatRoles(report.Roles)},
		{"Targets", f.FormatTargets(report.Targets)},
		{"Code fences", f.FormatFences(report.Fences)},
	}

	for _, section := range sections {
		if section.body == "" {
			continue
		}
		builder.WriteString("\n")
		builder.WriteString(f.styles.Section.Render(section.title))
		builder.WriteString("\n")
		builder.WriteString(section.body)
	}

	return builder.String()
}

// FormatOutline renders headings indented by level.
func (f *ReportFormatter) FormatOutline(headings []analysis.Heading) string {
	if len(headings) == 0 {
		return ""
	}

	minLevel := headings[0].Level
	for _, h := range headings {
		minLevel = min(minLevel, h.Level)
	}

	var builder strings.Builder
	for _, h := range headings {
		indent := strings.Repeat(outlineIndent, h.Level-minLevel+1)
		marker := strings.Repeat("#", h.Level)
		builder.WriteString(fmt.Sprintf("%s%s %s  %s\n",
			indent,
			f.styles.Dim.Render(marker),
			f.styles.Heading.Render(h.Text),
			f.styles.Location.Render(fmt.Sprintf("line %d", h.Line)),
		))
	}
	return builder.String()
}

// FormatKinds renders the per-kind node counts.
func (f *ReportFormatter) FormatKinds(kinds []analysis.KindCount) string {
	table := Table{
		Columns: []Column{
			{Title: "KIND", MinWidth: 16},
			{Title: "COUNT", MinWidth: 5, AlignRight: true},
		},
	}
	for _, k := range kinds {
		table.Rows = append(table.Rows, Row{Cells: []string{k.Kind, strconv.Itoa(k.Count)}})
	}
	return f.tables.Format(table)
}

// FormatDirectives renders directives in document order, indented by
// nesting depth.
func (f *ReportFormatter) FormatDirectives(directives []analysis.DirectiveEntry) string {
	table := Table{
		Columns: []Column{
			{Title: "LINE", MinWidth: 4, AlignRight: true},
			{Title: "NAME", MinWidth: 12},
			{Title: "ARGUMENT", MinWidth: 12, Flex: true},
			{Title: "OPTIONS", MinWidth: 8},
			{Title: "", MinWidth: 1},
		},
		Legend: builtinSymbol + " = rendered natively; others render as generic containers",
	}

	for _, d := range directives {
		builtin := ""
		emphasis := RowDim
		if d.Builtin {
			builtin = builtinSymbol
			emphasis = RowNormal
		}
		table.Rows = append(table.Rows, Row{
			Cells: []string{
				strconv.Itoa(d.Line),
				strings.Repeat(outlineIndent, d.Depth) + d.Name,
				d.Argument,
				strings.Join(d.Options, ","),
				builtin,
			},
			Emphasis: emphasis,
		})
	}
	return f.tables.Format(table)
}

// FormatRoles renders role usage counts.
func (f *ReportFormatter) FormatRoles(roles []analysis.RoleCount) string {
	table := Table{
		Columns: []Column{
			{Title: "ROLE", MinWidth: 12},
			{Title: "COUNT", MinWidth: 5, AlignRight: true},
			{Title: "", MinWidth: 1},
		},
		Legend: builtinSymbol + " = rendered natively",
	}

	for _, r := range roles {
		builtin := ""
		emphasis := RowDim
		if r.Builtin {
			builtin = builtinSymbol
			emphasis = RowNormal
		}
		table.Rows = append(table.Rows, Row{
			Cells:    []string{r.Name, strconv.Itoa(r.Count), builtin},
			Emphasis: emphasis,
		})
	}
	return f.tables.Format(table)
}

// FormatFences renders code fences with declared and detected languages.
func (f *ReportFormatter) FormatFences(fences []analysis.FenceEntry) string {
	table := Table{
		Columns: []Column{
			{Title: "LINE", MinWidth: 4, AlignRight: true},
			{Title: "LINES", MinWidth: 5, AlignRight: true},
			{Title: "DECLARED", MinWidth: 10, Flex: true},
			{Title: "DETECTED", MinWidth: 10},
			{Title: "", MinWidth: 1},
		},
	}

	mismatches := 0
	for _, fence := range fences {
		declared := fence.Language.Declared
		if fence.Indented {
			declared = "(indented)"
		}

		detected := fence.Language.Detected
		if detected == "" {
			detected = "-"
		} else if detected == langdetect.Text {
			detected = "(" + langdetect.Text + ")"
		}

		row := Row{Cells: []string{
			strconv.Itoa(fence.Line),
			strconv.Itoa(fence.Lines),
			declared,
			detected,
			"",
		}}
		if fence.Language.Mismatch() {
			row.Cells[4] = mismatchSymbol
			row.Emphasis = RowWarn
			mismatches++
		}
		table.Rows = append(table.Rows, row)
	}

	if mismatches > 0 {
		table.Legend = mismatchSymbol + " = declared language disagrees with content"
	}
	return f.tables.Format(table)
}

// FormatTargets renders target labels on one line.
func (f *ReportFormatter) FormatTargets(targets []string) string {
	if len(targets) == 0 {
		return ""
	}

	labels := make([]string, len(targets))
	for i, target := range targets {
		labels[i] = f.styles.TargetRef.Render("(" + target + ")=")
	}
	return outlineIndent + strings.Join(labels, " ") + "\n"
}

// FormatFrontMatter renders the top-level front matter keys and their
// value types.
func (f *ReportFormatter) FormatFrontMatter(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, key := range slices.Sorted(maps.Keys(data)) {
		builder.WriteString(fmt.Sprintf("%s%s %s\n",
			outlineIndent,
			f.styles.FrontKey.Render(key+":"),
			f.styles.Dim.Render(describeValue(data[key])),
		))
	}
	return builder.String()
}

func describeValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(truncateString(v, 40))
	case bool:
		return strconv.FormatBool(v)
	case int, int64, uint64, float64:
		return fmt.Sprint(v)
	case []any:
		return plural(len(v), "item")
	case map[string]any:
		return plural(len(v), "key")
	default:
		return fmt.Sprintf("%T", v)
	}
}
