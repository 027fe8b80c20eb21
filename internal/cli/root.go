// Package cli provides the Cobra command structure for atrus.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/atrus/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root atrus command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "atrus",
		Short: "A MyST Markdown parser and renderer",
		Long: `atrus parses MyST Markdown into an mdast syntax tree.

It understands CommonMark block and inline structure plus the MyST
extensions: directives, roles, targets, comments, math, front matter
and block breaks. Trees render as mdast-shaped JSON or as compact HTML,
and the inspect command summarizes a document's outline, directives
and code fences.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if debug {
				level = "debug"
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "read settings from config `file` instead of discovering one")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output `when`: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return categorize(ErrUsage, err)
	})

	addCommandGroups(rootCmd)
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd, &color)

	return rootCmd
}

// usageArgs wraps a positional argument validator so its failures map to
// ExitInvalidUsage.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return categorize(ErrUsage, validate(cmd, args))
	}
}
