package metrics_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/atrus/pkg/metrics"
)

func TestNewCollector_UsesGivenRegistry(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(metrics.Config{}, registry)
	assert.Same(t, registry, collector.Registry())

	fresh := metrics.NewCollector(metrics.Config{}, nil)
	assert.NotNil(t, fresh.Registry())
}

func TestCollector_RecordParse(t *testing.T) {
	t.Parallel()

	collector := metrics.NewCollector(metrics.Config{}, nil)
	collector.RecordParse(nil, 2*time.Millisecond, 100, 12)
	collector.RecordParse(nil, time.Millisecond, 50, 3)
	collector.RecordParse(errors.New("budget"), time.Millisecond, 10, 0)

	expected := `
# HELP atrus_parse_total Total number of parse calls by status
# TYPE atrus_parse_total counter
atrus_parse_total{status="error"} 1
atrus_parse_total{status="success"} 2
# HELP atrus_parse_source_bytes_total Total bytes of source text parsed
# TYPE atrus_parse_source_bytes_total counter
atrus_parse_source_bytes_total 160
`
	err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected),
		"atrus_parse_total", "atrus_parse_source_bytes_total")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(collector.Registry(), "atrus_parse_nodes")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollector_RecordRender(t *testing.T) {
	t.Parallel()

	collector := metrics.NewCollector(metrics.Config{Namespace: "test"}, nil)
	collector.RecordRender("json", nil, time.Millisecond, 40)
	collector.RecordRender("html", nil, time.Millisecond, 25)
	collector.RecordRender("html", errors.New("limit"), time.Millisecond, 0)

	expected := `
# HELP test_render_output_bytes_total Total bytes of rendered output
# TYPE test_render_output_bytes_total counter
test_render_output_bytes_total{format="html"} 25
test_render_output_bytes_total{format="json"} 40
# HELP test_render_total Total number of render calls by format and status
# TYPE test_render_total counter
test_render_total{format="html",status="error"} 1
test_render_total{format="html",status="success"} 1
test_render_total{format="json",status="success"} 1
`
	err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected),
		"test_render_total", "test_render_output_bytes_total")
	require.NoError(t, err)
}

func TestCollector_Nil(t *testing.T) {
	t.Parallel()

	var collector *metrics.Collector
	assert.NotPanics(t, func() {
		collector.RecordParse(nil, time.Millisecond, 1, 1)
		collector.RecordRender("json", nil, time.Millisecond, 1)
	})
	assert.Nil(t, collector.Registry())
	assert.NoError(t, collector.WriteTextfile(context.Background(), filepath.Join(t.TempDir(), "x.prom")))
}

func TestCollector_WriteTextfile(t *testing.T) {
	t.Parallel()

	collector := metrics.NewCollector(metrics.Config{}, nil)
	collector.RecordParse(nil, time.Millisecond, 7, 2)

	var buf bytes.Buffer
	require.NoError(t, collector.WriteText(&buf))
	assert.Contains(t, buf.String(), `atrus_parse_total{status="success"} 1`)

	path := filepath.Join(t.TempDir(), "atrus.prom")
	require.NoError(t, collector.WriteTextfile(context.Background(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}
