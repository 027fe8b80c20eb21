// Package myst parses MyST Markdown into an mdast.Document.
//
// Parsing runs in two phases. The block phase walks the source line by line
// and maintains an explicit stack of open blocks; the inline phase resolves
// the text of each leaf block (paragraphs and headings) into inline nodes.
// Malformed markup never fails a parse: unmatched syntax degrades to text and
// unterminated fences are closed at the end of input.
package myst

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/atrus/pkg/mdast"
	"github.com/yaklabco/atrus/pkg/scanner"
)

// DefaultNodeLimit caps the number of nodes a single parse may allocate.
const DefaultNodeLimit = 1 << 24

// Parser converts MyST source text into a syntax tree.
// A Parser holds only configuration and may be shared between goroutines.
type Parser struct {
	logger    *log.Logger
	nodeLimit int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug output about recovered input.
func WithLogger(logger *log.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithNodeLimit sets the node budget. Zero or less disables the budget.
func WithNodeLimit(limit int) Option {
	return func(p *Parser) {
		p.nodeLimit = limit
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	parser := &Parser{
		logger:    log.New(io.Discard),
		nodeLimit: DefaultNodeLimit,
	}
	for _, opt := range opts {
		opt(parser)
	}
	return parser
}

// Parse builds the tree for source. The only failure is exhausting the
// node budget; no tree is returned in that case.
func (p *Parser) Parse(source string) (*mdast.Document, error) {
	lines := scanner.Scan(source)
	bld := mdast.NewBuilder(source, scanner.LineStarts(lines), p.nodeLimit)

	segments := make([]segment, len(lines))
	for i, line := range lines {
		segments[i] = segment{text: line.Text, offset: line.Offset}
	}

	blocks := newBlockParser(p.logger, bld, bld.Root(), 0)
	if count, ok := frontMatter(segments); ok {
		blocks.addFrontMatter(segments, count)
		segments = segments[count:]
		blocks.lineNo = count
	}
	blocks.run(segments)

	doc := bld.Seal()
	if doc == nil {
		return nil, fmt.Errorf("parse: %w", bld.Err())
	}

	p.logger.Debug("parsed document", "bytes", len(source), "lines", len(lines), "nodes", doc.Stats().Allocated)
	return doc, nil
}
