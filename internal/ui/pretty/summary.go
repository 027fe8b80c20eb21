package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/atrus/pkg/analysis"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats report totals as a single line.
// Example: "2 headings, 3 directives, 1 role in 120 lines (56 nodes), 1 fence mismatch".
func (s *Styles) FormatSummaryOneLine(report *analysis.Report) string {
	totals := report.Totals

	if totals.Nodes == 0 {
		return s.Dim.Render("Empty document") + "\n"
	}

	var counts []string
	for _, item := range []struct {
		n        int
		singular string
	}{
		{totals.Headings, "heading"},
		{totals.Directives, "directive"},
		{totals.Roles, "role"},
		{totals.Links, "link"},
		{totals.Images, "image"},
	} {
		if item.n > 0 {
			counts = append(counts, plural(item.n, item.singular))
		}
	}

	line := fmt.Sprintf("%s (%d nodes)", plural(totals.Lines, "line"), totals.Nodes)
	if len(counts) > 0 {
		line = strings.Join(counts, ", ") + " in " + line
	}

	parts := []string{line}
	if mismatches := len(report.Mismatches()); mismatches > 0 {
		parts = append(parts, s.Mismatch.Render(plural(mismatches, "fence mismatch")))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats report totals as a summary block.
func (s *Styles) FormatSummary(report *analysis.Report) string {
	totals := report.Totals

	var builder strings.Builder

	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label string, value int) {
		builder.WriteString(fmt.Sprintf("  %-18s %s\n", label+":", s.SummaryValue.Render(strconv.Itoa(value))))
	}

	row("Bytes", totals.Bytes)
	row("Lines", totals.Lines)
	row("Words", totals.Words)
	builder.WriteString("\n")

	row("Nodes", totals.Nodes)
	row("Blocks", totals.Blocks)
	row("Inlines", totals.Inlines)
	row("Max depth", totals.MaxDepth)
	builder.WriteString("\n")

	row("Headings", totals.Headings)
	if totals.Links > 0 {
		row("Links", totals.Links)
	}
	if totals.Images > 0 {
		row("Images", totals.Images)
	}
	row("Directives", totals.Directives)
	row("Roles", totals.Roles)
	if totals.Math > 0 {
		row("Math", totals.Math)
	}

	if mismatches := len(report.Mismatches()); mismatches > 0 {
		builder.WriteString("\n")
		builder.WriteString(s.Mismatch.Render(fmt.Sprintf("  %-18s %d", "Fence mismatches:", mismatches)))
		builder.WriteString("\n")
	}

	return builder.String()
}

func plural(n int, singular string) string {
	if n == 1 {
		return "1 " + singular
	}
	if strings.HasSuffix(singular, "ch") {
		return fmt.Sprintf("%d %ses", n, singular)
	}
	return fmt.Sprintf("%d %ss", n, singular)
}
