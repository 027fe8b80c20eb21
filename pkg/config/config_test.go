package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/atrus/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.FormatJSON, cfg.Format)
	assert.Equal(t, config.ColorAuto, cfg.Color)
	assert.Equal(t, config.DefaultMaxOutputBytes, cfg.MaxOutputBytes)
	assert.Equal(t, config.DefaultNodeLimit, cfg.NodeLimit)
	assert.False(t, cfg.IsPretty())
	assert.Empty(t, cfg.RenderIndent())
	assert.True(t, cfg.ShouldDetectLanguages())
}

func TestConfig_RenderIndent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		pretty *bool
		indent string
		want   string
	}{
		{name: "unset is compact", pretty: nil, indent: "\t", want: ""},
		{name: "false is compact", pretty: config.Bool(false), indent: "\t", want: ""},
		{name: "pretty with indent", pretty: config.Bool(true), indent: "\t", want: "\t"},
		{name: "pretty without indent", pretty: config.Bool(true), indent: "", want: config.DefaultIndent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{Pretty: tt.pretty, Indent: tt.indent}
			assert.Equal(t, tt.want, cfg.RenderIndent())
		})
	}
}

func TestFormats_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, config.FormatJSON.IsValid())
	assert.True(t, config.FormatHTML.IsValid())
	assert.False(t, config.OutputFormat("xml").IsValid())

	assert.True(t, config.InspectText.IsValid())
	assert.True(t, config.InspectJSON.IsValid())
	assert.False(t, config.InspectFormat("html").IsValid())

	assert.True(t, config.ColorAlways.IsValid())
	assert.False(t, config.ColorMode("sometimes").IsValid())
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
format: html
pretty: true
indent: "    "
max_output_bytes: 1024
metrics_file: /tmp/atrus.prom
inspect:
  format: json
  detect_languages: false
`)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.FormatHTML, cfg.Format)
	assert.True(t, cfg.IsPretty())
	assert.Equal(t, "    ", cfg.RenderIndent())
	assert.Equal(t, 1024, cfg.MaxOutputBytes)
	assert.Equal(t, "/tmp/atrus.prom", cfg.MetricsFile)
	assert.Equal(t, config.InspectJSON, cfg.Inspect.Format)
	assert.False(t, cfg.ShouldDetectLanguages())
}

func TestFromYAML_Errors(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("format: [json"))
	require.Error(t, err)

	_, err = config.FromYAML([]byte("flavor: gfm\n"))
	require.Error(t, err, "unknown keys are rejected")

	cfg, err := config.FromYAML([]byte("  \n"))
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg)
}

func TestConfig_ToYAML(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Output = "out.json"

	data, err := cfg.ToYAMLWithHeader("# atrus configuration")
	require.NoError(t, err)
	assert.Contains(t, string(data), "# atrus configuration\n\n")
	assert.Contains(t, string(data), "format: json")
	assert.NotContains(t, string(data), "out.json")

	var nilCfg *config.Config
	data, err = nilCfg.ToYAML()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	var nilCfg *config.Config
	assert.Nil(t, nilCfg.Clone())

	original := config.NewConfig()
	original.Pretty = config.Bool(true)
	original.Inspect.DetectLanguages = config.Bool(true)
	original.Output = "x.html"

	clone := original.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, original, clone)

	*clone.Pretty = false
	*clone.Inspect.DetectLanguages = false
	assert.True(t, *original.Pretty)
	assert.True(t, *original.Inspect.DetectLanguages)
}
