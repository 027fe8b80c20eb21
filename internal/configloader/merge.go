package configloader

import "github.com/yaklabco/atrus/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Optional booleans: override overwrites base if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Pretty != nil {
		result.Pretty = config.Bool(*override.Pretty)
	}
	if override.Indent != "" {
		result.Indent = override.Indent
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.MaxOutputBytes != 0 {
		result.MaxOutputBytes = override.MaxOutputBytes
	}
	if override.NodeLimit != 0 {
		result.NodeLimit = override.NodeLimit
	}
	if override.MetricsFile != "" {
		result.MetricsFile = override.MetricsFile
	}
	if override.Output != "" {
		result.Output = override.Output
	}

	if override.Inspect.Format != "" {
		result.Inspect.Format = override.Inspect.Format
	}
	if override.Inspect.DetectLanguages != nil {
		result.Inspect.DetectLanguages = config.Bool(*override.Inspect.DetectLanguages)
	}
	if override.Inspect.Sort != "" {
		result.Inspect.Sort = override.Inspect.Sort
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
