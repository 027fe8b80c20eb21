package config

// OutputFormat specifies the render output format.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatHTML OutputFormat = "html"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatJSON, FormatHTML:
		return true
	default:
		return false
	}
}

// InspectFormat specifies the inspect output format.
type InspectFormat string

const (
	InspectText InspectFormat = "text"
	InspectJSON InspectFormat = "json"
)

// IsValid returns true if the inspect format is known.
func (f InspectFormat) IsValid() bool {
	switch f {
	case InspectText, InspectJSON:
		return true
	default:
		return false
	}
}

// ColorMode controls colorized terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}
