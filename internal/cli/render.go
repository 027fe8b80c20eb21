package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/atrus/internal/logging"
	"github.com/yaklabco/atrus/pkg/config"
	"github.com/yaklabco/atrus/pkg/fsutil"
	"github.com/yaklabco/atrus/pkg/renderer"
)

type renderFlags struct {
	format         string
	pretty         bool
	indent         string
	output         string
	metricsFile    string
	maxOutputBytes int
	nodeLimit      int
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:     "render [file]",
		Short:   "Render a MyST document as JSON or HTML",
		Long:    renderLongDescription,
		Example: renderExamples,
		GroupID: groupDocuments,
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}

	addRenderFlags(cmd, flags)

	return cmd
}

const renderLongDescription = `Parse a MyST document and render its syntax tree.

Reads the named file, or standard input when the file is omitted or "-".
The json format emits the mdast tree as one JSON object; the html format
emits compact HTML. Output goes to standard output unless --output names
a file, which is replaced atomically and left untouched when unchanged.`

func runRender(cmd *cobra.Command, args []string, flags *renderFlags) (err error) {
	if cmd.Flags().Changed("format") && !config.OutputFormat(flags.format).IsValid() {
		return categorize(ErrUsage, fmt.Errorf("invalid --format %q; must be one of: json, html", flags.format))
	}
	cliCfg := renderFlagsToConfig(cmd, flags)

	sess, err := newSession(cmd, cliCfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sess.finish())
	}()
	applyLimitFlags(cmd, flags, sess.cfg)

	format, err := renderer.ParseFormat(string(sess.cfg.Format))
	if err != nil {
		return categorize(ErrUsage, err)
	}

	r, err := renderer.New(format, renderer.Options{
		Indent:         sess.cfg.RenderIndent(),
		MaxOutputBytes: sess.cfg.MaxOutputBytes,
	})
	if err != nil {
		return categorize(ErrUsage, err)
	}

	doc, err := sess.parse(cmd, args)
	if err != nil {
		return err
	}
	defer doc.Free()

	start := time.Now()
	out, err := renderer.RenderString(r, doc)
	sess.metrics.RecordRender(format.String(), err, time.Since(start), len(out))
	if err != nil {
		return categorize(ErrRender, fmt.Errorf("%s: %w", sourceName(args), err))
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	if sess.cfg.Output == "" {
		if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
			return categorize(ErrIO, fmt.Errorf("write output: %w", err))
		}
		return nil
	}

	changed, err := fsutil.WriteAtomicIfChanged(sess.ctx, sess.cfg.Output, []byte(out), 0)
	if err != nil {
		return categorize(ErrIO, err)
	}

	sess.logger.Debug("rendered document",
		logging.FieldOutput, sess.cfg.Output,
		logging.FieldFormat, format,
		logging.FieldOutputBytes, len(out),
		logging.FieldChanged, changed,
	)
	return nil
}

// renderFlagsToConfig maps explicitly set flags onto a config layer.
func renderFlagsToConfig(cmd *cobra.Command, flags *renderFlags) *config.Config {
	cfg := &config.Config{Output: flags.output}

	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Pretty = config.Bool(flags.pretty)
	}
	if cmd.Flags().Changed("indent") {
		cfg.Indent = flags.indent
		if !cmd.Flags().Changed("pretty") {
			cfg.Pretty = config.Bool(true)
		}
	}
	if cmd.Flags().Changed("metrics-file") {
		cfg.MetricsFile = flags.metricsFile
	}

	return cfg
}

// applyLimitFlags sets explicitly passed limits after merging, since a zero
// limit means unlimited rather than unset.
func applyLimitFlags(cmd *cobra.Command, flags *renderFlags, cfg *config.Config) {
	if cmd.Flags().Changed("max-output-bytes") {
		cfg.MaxOutputBytes = flags.maxOutputBytes
	}
	if cmd.Flags().Changed("node-limit") {
		cfg.NodeLimit = flags.nodeLimit
	}
}

func addRenderFlags(cmd *cobra.Command, flags *renderFlags) {
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "output `format`: json, html")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "indent json output")
	cmd.Flags().StringVar(&flags.indent, "indent", config.DefaultIndent, "indent json output with `string` (implies --pretty)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write output to `path` instead of stdout")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to a textfile at `path`")
	cmd.Flags().IntVar(&flags.maxOutputBytes, "max-output-bytes", config.DefaultMaxOutputBytes,
		"fail renders larger than `bytes` (0 = unlimited)")
	cmd.Flags().IntVar(&flags.nodeLimit, "node-limit", config.DefaultNodeLimit,
		"fail parses that allocate more than `count` nodes (0 = unlimited)")
}

const renderExamples = `  atrus render doc.md                      # mdast JSON on stdout
  atrus render --pretty doc.md             # indented JSON
  atrus render -f html -o doc.html doc.md  # HTML written atomically
  cat doc.md | atrus render -f html
  atrus render --metrics-file atrus.prom doc.md`
