package analysis

import "github.com/yaklabco/atrus/pkg/langdetect"

// Report contains pre-computed views of one parsed document.
// Computed once by Analyze, used by every inspect output format.
type Report struct {
	// Version is the report format version.
	Version string `json:"version"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Outline lists headings in document order.
	Outline []Heading `json:"outline,omitempty"`

	// Kinds counts nodes per kind.
	Kinds []KindCount `json:"kinds,omitempty"`

	// Directives lists every directive in document order.
	Directives []DirectiveEntry `json:"directives,omitempty"`

	// Roles counts roles per name.
	Roles []RoleCount `json:"roles,omitempty"`

	// Targets lists target labels in document order.
	Targets []string `json:"targets,omitempty"`

	// Fences lists code fences in document order.
	Fences []FenceEntry `json:"fences,omitempty"`

	// FrontMatter is the decoded front matter, if any.
	FrontMatter map[string]any `json:"frontmatter,omitempty"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Bytes      int `json:"bytes"`
	Lines      int `json:"lines"`
	Words      int `json:"words"`
	Nodes      int `json:"nodes"`
	Blocks     int `json:"blocks"`
	Inlines    int `json:"inlines"`
	Headings   int `json:"headings"`
	Links      int `json:"links"`
	Images     int `json:"images"`
	Directives int `json:"directives"`
	Roles      int `json:"roles"`
	Math       int `json:"math"`
	MaxDepth   int `json:"maxDepth"`
}

// Heading is one entry of the outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"line"`
}

// KindCount is the number of nodes of one kind.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// DirectiveEntry describes one directive.
type DirectiveEntry struct {
	Name     string   `json:"name"`
	Argument string   `json:"argument,omitempty"`
	Options  []string `json:"options,omitempty"`
	Line     int      `json:"line"`
	Depth    int      `json:"depth"`
	Builtin  bool     `json:"builtin"`
}

// RoleCount is the number of uses of one role.
type RoleCount struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Builtin bool   `json:"builtin"`
}

// FenceEntry describes one code fence.
type FenceEntry struct {
	Line     int             `json:"line"`
	Lines    int             `json:"lines"`
	Indented bool            `json:"indented,omitempty"`
	Language langdetect.Fence `json:"language"`
}

// HasFrontMatter returns true if the document carried decoded front matter.
func (r *Report) HasFrontMatter() bool {
	return len(r.FrontMatter) > 0
}

// Mismatches returns the fences whose declared language disagrees with
// their content.
func (r *Report) Mismatches() []FenceEntry {
	var out []FenceEntry
	for _, fence := range r.Fences {
		if fence.Language.Mismatch() {
			out = append(out, fence)
		}
	}
	return out
}
