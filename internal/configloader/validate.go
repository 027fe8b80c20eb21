package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/atrus/pkg/analysis"
	"github.com/yaklabco/atrus/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "inspect.format").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown fields).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format,
			fmt.Sprintf("invalid format %q; must be one of: json, html", cfg.Format))
	}

	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.addError("color", cfg.Color,
			fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color))
	}

	if strings.Trim(cfg.Indent, " \t") != "" {
		result.addError("indent", cfg.Indent, "indent must contain only spaces and tabs")
	}

	if cfg.MaxOutputBytes < 0 {
		result.addError("max_output_bytes", cfg.MaxOutputBytes, "max_output_bytes must be >= 0 (0 means unlimited)")
	}

	if cfg.NodeLimit < 0 {
		result.addError("node_limit", cfg.NodeLimit, "node_limit must be >= 0 (0 means unlimited)")
	}

	if cfg.Pretty != nil && *cfg.Pretty && cfg.Format == config.FormatHTML {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "pretty",
			Value:   true,
			Message: "pretty has no effect on html output",
		})
	}

	validateInspect(&cfg.Inspect, result)

	return result
}

func validateInspect(cfg *config.InspectConfig, result *ValidationResult) {
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("inspect.format", cfg.Format,
			fmt.Sprintf("invalid inspect format %q; must be one of: text, json", cfg.Format))
	}

	if cfg.Sort != "" && !analysis.SortField(cfg.Sort).IsValid() {
		result.addError("inspect.sort", cfg.Sort,
			fmt.Sprintf("invalid sort %q; must be one of: count, alpha", cfg.Sort))
	}
}

func (r *ValidationResult) addError(field string, value any, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: message})
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
