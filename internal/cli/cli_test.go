package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/yaklabco/atrus/internal/cli"
)

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "test-version",
		Commit:  "test-commit",
		Date:    "test-date",
	}

	cmd := cli.NewRootCommand(info)

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "atrus" {
		t.Errorf("expected Use to be 'atrus', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test", Commit: "test", Date: "test"})

	expectedSubcommands := [][]string{
		{"render"},
		{"inspect"},
		{"config"},
		{"config", "show"},
		{"config", "paths"},
		{"config", "env"},
		{"version"},
	}

	for _, path := range expectedSubcommands {
		subCmd, _, err := cmd.Find(path)
		if err != nil {
			t.Errorf("expected subcommand %v to exist, got error: %v", path, err)
			continue
		}

		name := path[len(path)-1]
		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestRenderCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})

	renderCmd, _, err := cmd.Find([]string{"render"})
	if err != nil {
		t.Fatalf("render command not found: %v", err)
	}

	expectedFlags := []string{
		"format", "pretty", "indent", "output",
		"metrics-file", "max-output-bytes", "node-limit",
	}

	for _, flagName := range expectedFlags {
		if renderCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist on render command", flagName)
		}
	}

	if f := renderCmd.Flags().ShorthandLookup("o"); f == nil || f.Name != "output" {
		t.Error("expected -o to be shorthand for --output")
	}
}

func TestInspectCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})

	inspectCmd, _, err := cmd.Find([]string{"inspect"})
	if err != nil {
		t.Fatalf("inspect command not found: %v", err)
	}

	for _, flagName := range []string{"format", "sort", "asc", "no-detect", "no-outline", "no-kinds", "metrics-file"} {
		if inspectCmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to exist on inspect command", flagName)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})

	for _, flagName := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(flagName) == nil {
			t.Errorf("expected persistent flag %q to exist", flagName)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	}

	cmd := cli.NewRootCommand(info)
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	for _, want := range []string{"atrus", "1.2.3", "abc123", "2024-01-01"} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("version output %q missing %q", out.String(), want)
		}
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "parse", err: fmt.Errorf("%w: budget", cli.ErrParse), want: cli.ExitParseError},
		{name: "render", err: fmt.Errorf("%w: limit", cli.ErrRender), want: cli.ExitRenderError},
		{name: "usage", err: cli.ErrUsage, want: cli.ExitInvalidUsage},
		{name: "config", err: cli.ErrConfig, want: cli.ExitConfigError},
		{name: "io", err: cli.ErrIO, want: cli.ExitIOError},
		{name: "joined keeps category", err: errors.Join(cli.ErrRender, errors.New("metrics")), want: cli.ExitRenderError},
		{name: "unknown", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
