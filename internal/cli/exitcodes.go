package cli

import (
	"errors"
	"fmt"
)

// Exit codes for atrus.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitParseError indicates the source could not be parsed.
	ExitParseError = 1

	// ExitRenderError indicates the tree could not be rendered.
	ExitRenderError = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Error categories. Command errors wrap exactly one of them.
var (
	ErrUsage  = errors.New("invalid usage")
	ErrConfig = errors.New("configuration error")
	ErrIO     = errors.New("i/o error")
	ErrParse  = errors.New("parse failed")
	ErrRender = errors.New("render failed")
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrParse):
		return ExitParseError
	case errors.Is(err, ErrRender):
		return ExitRenderError
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrIO):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// categorize wraps err with category unless it is nil.
func categorize(category, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", category, err)
}
