// Package renderer serializes MyST syntax trees.
//
// Two renderers share one error shape: the structured renderer emits a JSON
// object per node and the hypertext renderer emits compact HTML. Both are
// read-only traversals and may run concurrently over the same Document.
package renderer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/atrus/pkg/mdast"
)

// Render errors.
var (
	// ErrOutputLimit is returned when a rendering exceeds Options.MaxOutputBytes.
	ErrOutputLimit = errors.New("output limit exceeded")

	// ErrFreed is returned when rendering a nil or freed document.
	ErrFreed = errors.New("document has been freed")
)

// Compile-time interface checks.
var (
	_ Renderer = (*JSONRenderer)(nil)
	_ Renderer = (*HTMLRenderer)(nil)
)

// Renderer writes a Document in one output format.
type Renderer interface {
	// Render writes the document to w. On error, w may hold partial output.
	Render(w io.Writer, doc *mdast.Document) error
}

// New creates a Renderer for the specified format.
func New(format Format, opts Options) (Renderer, error) {
	if format == "" {
		format = FormatJSON
	}

	switch format {
	case FormatJSON:
		return NewJSONRenderer(opts), nil
	case FormatHTML:
		return NewHTMLRenderer(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// RenderString renders doc into a new string. No partial output is returned
// on failure.
func RenderString(r Renderer, doc *mdast.Document) (string, error) {
	var sb strings.Builder
	if err := r.Render(&sb, doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// output is a buffered writer with a byte budget. Errors are sticky so
// emitters can write freely and check once at the end.
type output struct {
	bw    *bufio.Writer
	limit int
	n     int
	err   error
}

func newOutput(w io.Writer, limit int) *output {
	return &output{bw: bufio.NewWriterSize(w, bufWriterSize), limit: limit}
}

func (o *output) writeString(s string) {
	if o.err != nil {
		return
	}
	if o.limit > 0 && o.n+len(s) > o.limit {
		o.err = ErrOutputLimit
		return
	}
	o.n += len(s)
	if _, err := o.bw.WriteString(s); err != nil {
		o.err = err
	}
}

func (o *output) write(b []byte) {
	if o.err != nil {
		return
	}
	if o.limit > 0 && o.n+len(b) > o.limit {
		o.err = ErrOutputLimit
		return
	}
	o.n += len(b)
	if _, err := o.bw.Write(b); err != nil {
		o.err = err
	}
}

func (o *output) writeByte(c byte) {
	o.write([]byte{c})
}

// finish flushes buffered output and returns the first error.
func (o *output) finish() error {
	if o.err != nil {
		return o.err
	}
	return o.bw.Flush()
}

func checkDocument(doc *mdast.Document) error {
	if doc == nil || doc.Freed() {
		return ErrFreed
	}
	return nil
}
