package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/yaklabco/atrus/internal/configloader"
	"github.com/yaklabco/atrus/internal/logging"
	"github.com/yaklabco/atrus/pkg/config"
	"github.com/yaklabco/atrus/pkg/fsutil"
	"github.com/yaklabco/atrus/pkg/mdast"
	"github.com/yaklabco/atrus/pkg/metrics"
	"github.com/yaklabco/atrus/pkg/parser/myst"
)

// stdinName labels documents read from standard input.
const stdinName = "<stdin>"

// session carries the resolved configuration and shared services for one
// command invocation.
type session struct {
	ctx     context.Context
	cfg     *config.Config
	logger  *log.Logger
	metrics *metrics.Collector
}

// newSession resolves configuration for cmd, layering cliCfg on top of
// files and the environment.
func newSession(cmd *cobra.Command, cliCfg *config.Config) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	if cmd.Flags().Changed("color") {
		color, err := cmd.Flags().GetString("color")
		if err != nil {
			return nil, fmt.Errorf("get color flag: %w", err)
		}
		cliCfg.Color = config.ColorMode(color)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, categorize(ErrIO, fmt.Errorf("get working directory: %w", err))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, categorize(ErrConfig, fmt.Errorf("load configuration: %w", err))
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, loadResult.LoadedFrom)
	}

	sess := &session{
		ctx:    ctx,
		cfg:    loadResult.Config,
		logger: logger,
	}
	if sess.cfg.MetricsFile != "" {
		sess.metrics = metrics.NewCollector(metrics.Config{}, prometheus.NewRegistry())
	}
	return sess, nil
}

// sourceName returns the display name of the document named by args.
func sourceName(args []string) string {
	if len(args) == 0 || args[0] == fsutil.StdinPath {
		return stdinName
	}
	return args[0]
}

// parse reads the document named by args, or stdin, and parses it.
// The caller frees the returned document.
func (s *session) parse(cmd *cobra.Command, args []string) (*mdast.Document, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	source, err := fsutil.ReadSource(s.ctx, path, cmd.InOrStdin())
	if err != nil {
		return nil, categorize(ErrIO, err)
	}

	parser := myst.New(
		myst.WithLogger(s.logger),
		myst.WithNodeLimit(s.cfg.NodeLimit),
	)

	start := time.Now()
	doc, err := parser.Parse(string(source))
	elapsed := time.Since(start)

	nodes := 0
	if doc != nil {
		nodes = doc.Stats().Allocated
	}
	s.metrics.RecordParse(err, elapsed, len(source), nodes)

	if err != nil {
		return nil, categorize(ErrParse, fmt.Errorf("%s: %w", sourceName(args), err))
	}

	s.logger.Debug("parsed document",
		logging.FieldInput, sourceName(args),
		logging.FieldBytes, len(source),
		logging.FieldNodes, nodes,
		logging.FieldDuration, elapsed,
	)
	return doc, nil
}

// finish writes the metrics textfile when one is configured.
func (s *session) finish() error {
	if s.metrics == nil {
		return nil
	}
	if err := s.metrics.WriteTextfile(s.ctx, s.cfg.MetricsFile); err != nil {
		return categorize(ErrIO, fmt.Errorf("write metrics: %w", err))
	}
	s.logger.Debug("wrote metrics", logging.FieldMetrics, s.cfg.MetricsFile)
	return nil
}
