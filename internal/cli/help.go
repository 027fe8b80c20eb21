package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/atrus/internal/ui/pretty"
)

// Command groups listed in root help.
const (
	groupDocuments = "documents"
	groupSettings  = "settings"
)

// addCommandGroups registers the root command groups. Help and completion
// join the settings group so every root command is grouped.
func addCommandGroups(root *cobra.Command) {
	root.AddGroup(
		&cobra.Group{ID: groupDocuments, Title: "Document Commands:"},
		&cobra.Group{ID: groupSettings, Title: "Settings Commands:"},
	)
	root.SetHelpCommandGroupID(groupSettings)
	root.SetCompletionCommandGroupID(groupSettings)
}

const usageTemplate = `{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}{{end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} <command>{{end}}
{{- if .HasExample}}

{{heading "Examples:"}}
{{examples .Example}}{{end}}
{{- if .HasAvailableSubCommands}}{{$cmds := .Commands}}
{{- range .Groups}}{{$group := .}}

{{heading .Title}}{{range $cmds}}{{if and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help"))}}
  {{subcommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}
{{- if not .AllChildCommandsHaveGroup}}

{{heading "Commands:"}}{{range $cmds}}{{if and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help"))}}
  {{subcommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}{{end}}
{{- if .HasAvailableSubCommands}}

Run "{{command (print .CommandPath " <command> --help")}}" for details on a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{trimLines .}}

{{end}}` + usageTemplate

// helpFormatter renders styled help and usage for atrus commands.
type helpFormatter struct {
	styles *pretty.Styles
}

func (h *helpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":    h.styles.Section.Render,
		"command":    h.styles.Source.Render,
		"subcommand": h.styles.Heading.Render,
		"examples":   h.examples,
		"flags":      h.flags,
		"rpad":       rpad,
		"trimLines":  trimLines,
	}
}

// applyHelp installs styled help and usage functions on root; subcommands
// inherit them. Styles are resolved when help is printed, after --color has
// been parsed.
func applyHelp(root *cobra.Command, colorMode *string) {
	render := func(command *cobra.Command, w io.Writer, name, text string) error {
		h := &helpFormatter{styles: pretty.NewStyles(pretty.IsColorEnabled(*colorMode, w))}
		tmpl, err := template.New(name).Funcs(h.funcs()).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		if err := tmpl.Execute(w, command); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		return nil
	}

	root.SetUsageFunc(func(command *cobra.Command) error {
		return render(command, command.OutOrStderr(), "usage", usageTemplate)
	})
	root.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command, command.OutOrStdout(), "help", helpTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
}

// examples styles example lines, dimming trailing "# comment" notes.
func (h *helpFormatter) examples(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(body)]
		if indent == "" {
			indent = "  "
		}

		command, comment, hasComment := strings.Cut(body, " #")
		if !hasComment {
			lines[i] = indent + h.styles.Source.Render(body)
			continue
		}
		trimmed := strings.TrimRight(command, " ")
		pad := command[len(trimmed):] + " "
		lines[i] = indent + h.styles.Source.Render(trimmed) + pad + h.styles.Dim.Render("#"+comment)
	}
	return strings.Join(lines, "\n")
}

// flags styles pflag usage lines in place so their column alignment
// survives: flag names are highlighted, value placeholders and defaults are
// dimmed.
func (h *helpFormatter) flags(set *pflag.FlagSet) string {
	lines := strings.Split(strings.TrimRight(set.FlagUsages(), "\n"), "\n")
	for i, line := range lines {
		lines[i] = h.flagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *helpFormatter) flagLine(line string) string {
	body := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(body)]

	names, desc, ok := strings.Cut(body, "   ")
	if !ok {
		return line
	}
	gap := "   " + desc[:len(desc)-len(strings.TrimLeft(desc, " "))]
	desc = strings.TrimLeft(desc, " ")

	tokens := strings.Fields(names)
	for j, token := range tokens {
		if name, comma := strings.CutSuffix(token, ","); strings.HasPrefix(name, "-") {
			tokens[j] = h.styles.FrontKey.Render(name)
			if comma {
				tokens[j] += ","
			}
			continue
		}
		tokens[j] = h.styles.Dim.Render(token)
	}

	if idx := strings.LastIndex(desc, " (default "); idx >= 0 && strings.HasSuffix(desc, ")") {
		desc = desc[:idx] + " " + h.styles.Dim.Render(desc[idx+1:])
	}

	return indent + strings.Join(tokens, " ") + gap + desc
}

func rpad(s string, padding int) string {
	if len(s) >= padding {
		return s
	}
	return s + strings.Repeat(" ", padding-len(s))
}

// trimLines removes trailing whitespace from every line.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
