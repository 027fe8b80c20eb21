package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/atrus/internal/configloader"
	"github.com/yaklabco/atrus/pkg/config"
)

const configHeader = `# atrus configuration
# Resolved from defaults, config files, ATRUS_* variables and flags.
`

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show configuration sources and the resolved settings",
		Long:    `Show how atrus resolves its configuration.

Settings are merged from, lowest to highest precedence: built-in defaults,
/etc/atrus/config.yaml, $XDG_CONFIG_HOME/atrus/config.yaml, the nearest
.atrus.yml found searching upward from the working directory (or the file
given with --config), ATRUS_* environment variables, and command flags.`,
		Example: configExamples,
		GroupID: groupSettings,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runConfigShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "paths",
		Short: "List the configuration files atrus would load",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runConfigPaths,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "List supported ATRUS_* environment variables",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runConfigEnv,
	})

	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	sess, err := newSession(cmd, &config.Config{})
	if err != nil {
		return err
	}

	content, err := sess.cfg.ToYAMLWithHeader(configHeader)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(content); err != nil {
		return categorize(ErrIO, err)
	}
	return nil
}

func runConfigPaths(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return categorize(ErrIO, fmt.Errorf("get working directory: %w", err))
	}

	paths, err := configloader.DiscoverPaths(ctx, workDir, os.Getenv)
	if err != nil {
		return categorize(ErrConfig, err)
	}
	if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
		paths.Explicit = explicit
	}

	out := cmd.OutOrStdout()
	for _, entry := range []struct{ name, path string }{
		{"system", paths.System},
		{"user", paths.User},
		{"project", paths.Project},
		{"explicit", paths.Explicit},
	} {
		path := entry.path
		if path == "" {
			path = "-"
		}
		if _, err := fmt.Fprintf(out, "%-9s %s\n", entry.name, path); err != nil {
			return categorize(ErrIO, err)
		}
	}
	return nil
}

func runConfigEnv(cmd *cobra.Command, _ []string) error {
	vars := configloader.ListEnvVars()

	out := cmd.OutOrStdout()
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		if _, err := fmt.Fprintf(out, "%-24s %s\n", name, vars[name]); err != nil {
			return categorize(ErrIO, err)
		}
	}
	return nil
}

const configExamples = `  atrus config show                 # resolved settings as YAML
  atrus config paths                # files that were considered
  ATRUS_FORMAT=html atrus config show`
