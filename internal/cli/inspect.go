package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/atrus/internal/ui/pretty"
	"github.com/yaklabco/atrus/pkg/analysis"
	"github.com/yaklabco/atrus/pkg/config"
)

type inspectFlags struct {
	format      string
	sort        string
	ascending   bool
	noDetect    bool
	noOutline   bool
	noKinds     bool
	metricsFile string
}

func newInspectCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:     "inspect [file]",
		Short:   "Summarize the structure of a MyST document",
		Long:    inspectLongDescription,
		Example: inspectExamples,
		GroupID: groupDocuments,
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, flags)
		},
	}

	addInspectFlags(cmd, flags)

	return cmd
}

const inspectLongDescription = `Parse a MyST document and report on its structure.

The report lists the heading outline, node counts per kind, directives
with their nesting, role usage, targets, front matter keys, and code
fences. Fence content is classified to flag fences whose declared
language disagrees with what they contain.`

func runInspect(cmd *cobra.Command, args []string, flags *inspectFlags) (err error) {
	if !config.InspectFormat(flags.format).IsValid() {
		return categorize(ErrUsage, fmt.Errorf("invalid --format %q; must be one of: text, json", flags.format))
	}
	if !analysis.SortField(flags.sort).IsValid() {
		return categorize(ErrUsage, fmt.Errorf("invalid --sort %q; must be one of: count, alpha", flags.sort))
	}

	cliCfg := &config.Config{}
	if cmd.Flags().Changed("format") {
		cliCfg.Inspect.Format = config.InspectFormat(flags.format)
	}
	if cmd.Flags().Changed("sort") {
		cliCfg.Inspect.Sort = flags.sort
	}
	if flags.noDetect {
		cliCfg.Inspect.DetectLanguages = config.Bool(false)
	}
	if cmd.Flags().Changed("metrics-file") {
		cliCfg.MetricsFile = flags.metricsFile
	}

	sess, err := newSession(cmd, cliCfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sess.finish())
	}()

	doc, err := sess.parse(cmd, args)
	if err != nil {
		return err
	}
	defer doc.Free()

	opts := analysis.DefaultOptions()
	opts.IncludeOutline = !flags.noOutline
	opts.IncludeKinds = !flags.noKinds
	opts.DetectLanguages = sess.cfg.ShouldDetectLanguages()
	opts.SortBy = analysis.SortField(sess.cfg.Inspect.Sort)
	opts.SortDesc = !flags.ascending

	report := analysis.Analyze(doc, opts)
	out := cmd.OutOrStdout()

	switch sess.cfg.Inspect.Format {
	case config.InspectJSON:
		err = writeReportJSON(out, report)
	default:
		colorEnabled := pretty.IsColorEnabled(string(sess.cfg.Color), out)
		formatter := pretty.NewReportFormatter(pretty.NewStyles(colorEnabled), pretty.TerminalWidth(out))
		_, err = io.WriteString(out, formatter.Format(sourceName(args), report))
	}
	if err != nil {
		return categorize(ErrIO, fmt.Errorf("write report: %w", err))
	}
	return nil
}

func writeReportJSON(w io.Writer, report *analysis.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func addInspectFlags(cmd *cobra.Command, flags *inspectFlags) {
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "report `format`: text, json")
	cmd.Flags().StringVar(&flags.sort, "sort", "count", "sort count tables by `field`: count, alpha")
	cmd.Flags().BoolVar(&flags.ascending, "asc", false, "sort count tables in ascending order")
	cmd.Flags().BoolVar(&flags.noDetect, "no-detect", false, "skip code fence language detection")
	cmd.Flags().BoolVar(&flags.noOutline, "no-outline", false, "omit the heading outline")
	cmd.Flags().BoolVar(&flags.noKinds, "no-kinds", false, "omit per-kind node counts")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to a textfile at `path`")
}

const inspectExamples = `  atrus inspect doc.md                    # styled text report
  atrus inspect --format json doc.md      # machine-readable report
  atrus inspect --sort alpha --asc doc.md
  atrus inspect --no-detect doc.md        # skip language detection`
