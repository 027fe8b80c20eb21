package analysis

// SortField specifies how to sort count tables.
type SortField string

const (
	// SortByCount sorts by occurrence count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeOutline includes the heading outline.
	IncludeOutline bool

	// IncludeKinds includes the per-kind node counts.
	IncludeKinds bool

	// IncludeDirectives includes directive, role and target listings.
	IncludeDirectives bool

	// IncludeFences includes code fences with their languages.
	IncludeFences bool

	// DetectLanguages classifies fence content with langdetect.
	// Ignored unless IncludeFences is set.
	DetectLanguages bool

	// SortBy specifies how to sort the kind and role tables.
	SortBy SortField

	// SortDesc sorts counts in descending order (highest first).
	SortDesc bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeOutline:    true,
		IncludeKinds:      true,
		IncludeDirectives: true,
		IncludeFences:     true,
		DetectLanguages:   true,
		SortBy:            SortByCount,
		SortDesc:          true,
	}
}
