package configloader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/atrus/pkg/config"
)

// envVarPrefix is the prefix for all atrus environment variables.
const envVarPrefix = "ATRUS_"

// envMapping applies one environment variable to the config.
type envMapping struct {
	description string
	apply       func(cfg *config.Config, value string) error
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FORMAT": {"Render format: json or html", func(cfg *config.Config, v string) error {
		cfg.Format = config.OutputFormat(v)
		return nil
	}},
	"PRETTY": {"Indent structured output: true or false", func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true/false/1/0: %w", err)
		}
		cfg.Pretty = config.Bool(b)
		return nil
	}},
	"INDENT": {"Indent string for pretty output", func(cfg *config.Config, v string) error {
		cfg.Indent = v
		return nil
	}},
	"COLOR": {"Colorize output: auto, always, or never", func(cfg *config.Config, v string) error {
		cfg.Color = config.ColorMode(v)
		return nil
	}},
	"MAX_OUTPUT_BYTES": {"Largest rendering in bytes (0 = unlimited)", func(cfg *config.Config, v string) error {
		return setInt(&cfg.MaxOutputBytes, v)
	}},
	"NODE_LIMIT": {"Largest parse in nodes (0 = unlimited)", func(cfg *config.Config, v string) error {
		return setInt(&cfg.NodeLimit, v)
	}},
	"METRICS_FILE": {"Prometheus textfile to write metrics to", func(cfg *config.Config, v string) error {
		cfg.MetricsFile = v
		return nil
	}},
	"INSPECT_FORMAT": {"Inspect format: text or json", func(cfg *config.Config, v string) error {
		cfg.Inspect.Format = config.InspectFormat(v)
		return nil
	}},
}

func setInt(target *int, value string) error {
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("expected an integer: %w", err)
	}
	*target = i
	return nil
}

// LoadFromEnv applies ATRUS_* overrides read through getenv to cfg.
// Unset or empty variables are skipped.
func LoadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil || getenv == nil {
		return nil
	}

	for _, suffix := range sortedEnvSuffixes() {
		envVar := envVarPrefix + suffix
		value := getenv(envVar)
		if value == "" {
			continue
		}
		if err := envMappings[suffix].apply(cfg, value); err != nil {
			return fmt.Errorf("invalid value for %s: %q: %w", envVar, value, err)
		}
	}

	return nil
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}

func sortedEnvSuffixes() []string {
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	slices.Sort(suffixes)
	return suffixes
}
