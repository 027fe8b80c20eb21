package metrics

import (
	"bytes"
	"context"
	"fmt"

	"github.com/prometheus/common/expfmt"

	"github.com/yaklabco/atrus/pkg/fsutil"
)

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (c *Collector) WriteText(buf *bytes.Buffer) error {
	if c == nil {
		return nil
	}

	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(buf, family); err != nil {
			return fmt.Errorf("encode %s: %w", family.GetName(), err)
		}
	}
	return nil
}

// WriteTextfile atomically replaces path with the current metrics, in the
// layout the node exporter textfile collector reads.
func (c *Collector) WriteTextfile(ctx context.Context, path string) error {
	if c == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := c.WriteText(&buf); err != nil {
		return err
	}
	if err := fsutil.WriteAtomic(ctx, path, buf.Bytes(), 0); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
