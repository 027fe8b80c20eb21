// Package config defines core configuration types for atrus.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

// DefaultIndent is the indent used for pretty structured output.
const DefaultIndent = "  "

// DefaultMaxOutputBytes caps a single rendering (256 MiB).
const DefaultMaxOutputBytes = 256 << 20

// DefaultNodeLimit caps the nodes a single parse may allocate.
const DefaultNodeLimit = 1 << 24

// InspectConfig configures the inspect command.
type InspectConfig struct {
	// Format is the inspect output format.
	Format InspectFormat `yaml:"format"`

	// DetectLanguages classifies code fence content. Nil means enabled.
	DetectLanguages *bool `yaml:"detect_languages"`

	// Sort orders the kind and role tables: "count" or "alpha".
	Sort string `yaml:"sort"`
}

// Config is the root configuration structure for atrus.
type Config struct {
	// Format is the render output format ("json" or "html").
	Format OutputFormat `yaml:"format"`

	// Pretty indents structured output. Nil means compact.
	Pretty *bool `yaml:"pretty"`

	// Indent is the indent string used when Pretty is set.
	Indent string `yaml:"indent"`

	// Color controls colorized terminal output.
	Color ColorMode `yaml:"color"`

	// MaxOutputBytes fails renders larger than this. Zero disables the cap.
	MaxOutputBytes int `yaml:"max_output_bytes"`

	// NodeLimit fails parses that allocate more nodes. Zero disables the cap.
	NodeLimit int `yaml:"node_limit"`

	// MetricsFile is a Prometheus textfile written after each command.
	MetricsFile string `yaml:"metrics_file"`

	// Inspect configures the inspect command.
	Inspect InspectConfig `yaml:"inspect"`

	// CLI-level options (not persisted to config files).

	// Output is the file rendered output is written to; empty means stdout.
	Output string `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Format:         FormatJSON,
		Indent:         DefaultIndent,
		Color:          ColorAuto,
		MaxOutputBytes: DefaultMaxOutputBytes,
		NodeLimit:      DefaultNodeLimit,
		Inspect: InspectConfig{
			Format: InspectText,
			Sort:   "count",
		},
	}
}

// IsPretty reports whether structured output should be indented.
func (c *Config) IsPretty() bool {
	return c.Pretty != nil && *c.Pretty
}

// RenderIndent returns the indent for structured output, or "" for compact.
func (c *Config) RenderIndent() string {
	if !c.IsPretty() {
		return ""
	}
	if c.Indent == "" {
		return DefaultIndent
	}
	return c.Indent
}

// ShouldDetectLanguages reports whether inspect classifies fence content.
func (c *Config) ShouldDetectLanguages() bool {
	return c.Inspect.DetectLanguages == nil || *c.Inspect.DetectLanguages
}

// Bool returns a pointer to b, for the optional boolean fields.
func Bool(b bool) *bool {
	return &b
}
