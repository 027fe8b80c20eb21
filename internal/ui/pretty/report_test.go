package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/atrus/internal/ui/pretty"
	"github.com/yaklabco/atrus/pkg/analysis"
)

func TestReportFormatter_Format(t *testing.T) {
	formatter := pretty.NewReportFormatter(pretty.NewStyles(false), 100)

	got := formatter.Format("guide.md", sampleReport())

	assert.Contains(t, got, "guide.md 2 headings")
	for _, section := range []string{
		"Summary", "Front matter", "Outline", "Node kinds",
		"Directives", "Roles", "Targets", "Code fences",
	} {
		assert.Contains(t, got, section)
	}
}

func TestReportFormatter_SkipsEmptySections(t *testing.T) {
	formatter := pretty.NewReportFormatter(pretty.NewStyles(false), 100)

	report := &analysis.Report{Totals: analysis.Totals{Lines: 1, Nodes: 3}}
	got := formatter.Format("", report)

	assert.Contains(t, got, "1 line (3 nodes)")
	assert.NotContains(t, got, "Outline")
	assert.NotContains(t, got, "Code fences")
}

func TestReportFormatter_FormatOutline(t *testing.T) {
	formatter := pretty.NewReportFormatter(pretty.NewStyles(false), 100)

	got := formatter.FormatOutline([]analysis.Heading{
		{Level: 2, Text: "Intro", Line: 1},
		{Level: 3, Text: "Detail", Line: 4},
	})

	assert.Equal(t, "  ## Intro  line 1\n    ### Detail  line 4\n", got)
	assert.Empty(t, formatter.FormatOutline(nil))
}

func TestReportFormatter_FormatDirectives(t *testing.T) {
	formatter := pretty.NewReportFormatter(pretty.NewStyles(false), 100)

	got := formatter.FormatDirectives(sampleReport().Directives)

	assert.Contains(t, got, "note")
	assert.Contains(t, got, "  tip")
	assert.Contains(t, got, "a.png")
	assert.Contains(t, got, "width")
	assert.Contains(t, got, "* = rendered natively")
}

func TestReportFormatter_FormatFences(t *testing.T) {
	formatter := pretty.NewReportFormatter(pretty.NewStyles(false), 100)

	got := formatter.FormatFences(sampleReport().Fences)
	assert.Contains(t, got, "python")
	assert.Contains(t, got, "! = declared language disagrees with content")

	got = formatter.FormatFences([]analysis.FenceEntry{{Line: 1, Lines: 2, Indented: true}})
	assert.Contains(t, got, "(indented)")
	assert.NotContains(t, got, "disagrees")
}

func TestReportFormatter_FormatFrontMatter(t *testing.T) {
	formatter := pretty.NewReportFormatter(pretty.NewStyles(false), 100)

	got := formatter.FormatFrontMatter(map[string]any{
		"title": "Guide",
		"tags":  []any{"a", "b"},
		"draft": true,
	})

	assert.Equal(t, "  draft: true\n  tags: 2 items\n  title: \"Guide\"\n", got)
}

func TestReportFormatter_FormatTargets(t *testing.T) {
	formatter := pretty.NewReportFormatter(pretty.NewStyles(false), 100)

	assert.Equal(t, "  (a)= (b)=\n", formatter.FormatTargets([]string{"a", "b"}))
	assert.Empty(t, formatter.FormatTargets(nil))
}
