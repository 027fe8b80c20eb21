// Package atrus parses MyST Markdown into a syntax tree and renders that tree
// as structured JSON or as HTML.
//
// The package is the boundary surface of the module: Parse and ParseReader
// build a Tree, RenderStructured and RenderHypertext serialize it, and Free
// releases it. Lower-level control (node budgets, output limits, indentation)
// is available from the pkg/parser/myst and pkg/renderer packages.
package atrus

import (
	"errors"
	"fmt"
	"io"

	"github.com/yaklabco/atrus/pkg/mdast"
	"github.com/yaklabco/atrus/pkg/parser/myst"
	"github.com/yaklabco/atrus/pkg/renderer"
)

// Boundary errors. Every failure from this package wraps exactly one of them.
var (
	// ErrReadFailure reports that the source text could not be obtained.
	ErrReadFailure = errors.New("read failure")

	// ErrOther reports any other failure while building a tree.
	ErrOther = errors.New("parse failure")

	// ErrRenderFailure reports that a tree could not be rendered.
	ErrRenderFailure = errors.New("render failure")
)

// ParseStatus is the stable status code of a parse.
type ParseStatus int

// Parse status codes.
const (
	ParseSuccess    ParseStatus = 0
	ParseReadFailed ParseStatus = 1
	ParseOtherError ParseStatus = 2
)

// String returns the name of the status.
func (s ParseStatus) String() string {
	switch s {
	case ParseSuccess:
		return "success"
	case ParseReadFailed:
		return "read failed"
	case ParseOtherError:
		return "other error"
	default:
		return fmt.Sprintf("ParseStatus(%d)", int(s))
	}
}

// StatusOf maps the error returned by Parse or ParseReader to its status code.
func StatusOf(err error) ParseStatus {
	switch {
	case err == nil:
		return ParseSuccess
	case errors.Is(err, ErrReadFailure):
		return ParseReadFailed
	default:
		return ParseOtherError
	}
}

// Tree is a parsed document. A Tree is immutable and safe for concurrent
// reads until it is freed.
type Tree struct {
	doc *mdast.Document
}

// Document returns the underlying syntax tree.
func (t *Tree) Document() *mdast.Document {
	if t == nil {
		return nil
	}
	return t.doc
}

//nolint:gochecknoglobals // Stateless; safe for concurrent use.
var (
	defaultParser = myst.New()
	structured    = renderer.NewJSONRenderer(renderer.DefaultOptions())
	hypertext     = renderer.NewHTMLRenderer(renderer.DefaultOptions())
)

// Parse builds a tree from text. On failure no tree is returned and the error
// wraps ErrOther.
func Parse(text string) (*Tree, error) {
	doc, err := defaultParser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOther, err)
	}
	return &Tree{doc: doc}, nil
}

// ParseReader reads all of r and parses it. Read errors wrap ErrReadFailure.
func ParseReader(r io.Reader) (*Tree, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrReadFailure)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailure, err)
	}
	return Parse(string(data))
}

// Free releases the tree. Freeing a nil or already freed tree does nothing.
func Free(tree *Tree) {
	if tree == nil || tree.doc == nil {
		return
	}
	tree.doc.Free()
}

// RenderStructured renders the tree as a single JSON object.
func RenderStructured(tree *Tree) (string, error) {
	return render(structured, tree)
}

// RenderHypertext renders the tree as compact HTML.
func RenderHypertext(tree *Tree) (string, error) {
	return render(hypertext, tree)
}

func render(r renderer.Renderer, tree *Tree) (string, error) {
	out, err := renderer.RenderString(r, tree.Document())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	return out, nil
}
