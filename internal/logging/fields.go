// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"
	FieldConfig = "config"

	// Parse fields.
	FieldBytes     = "bytes"
	FieldNodes     = "nodes"
	FieldNodeLimit = "node_limit"
	FieldDuration  = "duration"
	FieldStatus    = "status"

	// Render fields.
	FieldFormat      = "format"
	FieldOutputBytes = "output_bytes"
	FieldChanged     = "changed"
	FieldMetrics     = "metrics"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
