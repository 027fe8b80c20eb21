package mdast

import "fmt"

// NodeKind classifies the type of an AST node.
type NodeKind uint16

// Node kinds for block-level and inline-level MyST elements.
const (
	NodeDocument NodeKind = iota

	// Block-level nodes.
	NodeHeading
	NodeParagraph
	NodeList
	NodeListItem
	NodeBlockQuote
	NodeCodeFence
	NodeDirectiveFence
	NodeThematicBreak
	NodeFrontMatter
	NodeContainer
	NodeMathBlock
	NodeComment
	NodeTarget

	// Inline-level nodes.
	NodeText
	NodeEmphasis
	NodeStrong
	NodeCodeSpan
	NodeLink
	NodeImage
	NodeRole
	NodeRawMath
	NodeLineBreak

	nodeKindCount
)

// kindInfo is the static description of a node kind.
type kindInfo struct {
	name     string
	block    bool
	children bool
}

//nolint:gochecknoglobals // Read-only lookup table.
var kindTable = [nodeKindCount]kindInfo{
	NodeDocument:       {name: "Document", block: true, children: true},
	NodeHeading:        {name: "Heading", block: true, children: true},
	NodeParagraph:      {name: "Paragraph", block: true, children: true},
	NodeList:           {name: "List", block: true, children: true},
	NodeListItem:       {name: "ListItem", block: true, children: true},
	NodeBlockQuote:     {name: "BlockQuote", block: true, children: true},
	NodeCodeFence:      {name: "CodeFence", block: true},
	NodeDirectiveFence: {name: "DirectiveFence", block: true, children: true},
	NodeThematicBreak:  {name: "ThematicBreak", block: true},
	NodeFrontMatter:    {name: "FrontMatter", block: true},
	NodeContainer:      {name: "Container", block: true, children: true},
	NodeMathBlock:      {name: "MathBlock", block: true},
	NodeComment:        {name: "Comment", block: true},
	NodeTarget:         {name: "Target", block: true},
	NodeText:           {name: "Text"},
	NodeEmphasis:       {name: "Emphasis", children: true},
	NodeStrong:         {name: "Strong", children: true},
	NodeCodeSpan:       {name: "CodeSpan"},
	NodeLink:           {name: "Link", children: true},
	NodeImage:          {name: "Image", children: true},
	NodeRole:           {name: "Role"},
	NodeRawMath:        {name: "RawMath"},
	NodeLineBreak:      {name: "LineBreak"},
}

func init() {
	for kind, info := range kindTable {
		if info.name == "" {
			panic(fmt.Sprintf("mdast: node kind %d has no table entry", kind))
		}
	}
}

// Kinds returns every node kind in declaration order.
func Kinds() []NodeKind {
	kinds := make([]NodeKind, nodeKindCount)
	for i := range kinds {
		kinds[i] = NodeKind(i)
	}
	return kinds
}

// String returns the name of the kind.
func (k NodeKind) String() string {
	if k >= nodeKindCount {
		return fmt.Sprintf("NodeKind(%d)", k)
	}
	return kindTable[k].name
}

// IsBlock returns true for block-level kinds, including the document.
func (k NodeKind) IsBlock() bool {
	return k < nodeKindCount && kindTable[k].block
}

// IsInline returns true for inline-level kinds.
func (k NodeKind) IsInline() bool {
	return k < nodeKindCount && !kindTable[k].block
}

// HoldsChildren returns true if nodes of this kind carry a child list.
// Leaf kinds such as Text or CodeFence hold literal content instead.
func (k NodeKind) HoldsChildren() bool {
	return k < nodeKindCount && kindTable[k].children
}

// Node represents a single node in the MyST AST.
// Nodes form a tree with parent/child/sibling links. All fields are
// unexported; a published tree is only observable through accessors.
type Node struct {
	kind NodeKind

	parent     *Node
	firstChild *Node
	lastChild  *Node
	prev       *Node
	next       *Node

	span Span

	block  *BlockAttrs
	inline *InlineAttrs

	// released is set once the owning Document frees the node.
	released bool
}

// Kind returns the kind of this node.
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Span returns the byte range of the node in the document source.
func (n *Node) Span() Span {
	return n.span
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PrevSibling returns the previous sibling, or nil.
func (n *Node) PrevSibling() *Node {
	return n.prev
}

// NextSibling returns the next sibling, or nil.
func (n *Node) NextSibling() *Node {
	return n.next
}

// IsBlock returns true if this is a block-level node.
func (n *Node) IsBlock() bool {
	return n.kind.IsBlock()
}

// IsInline returns true if this is an inline-level node.
func (n *Node) IsInline() bool {
	return n.kind.IsInline()
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.firstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.firstChild; child != nil; child = child.next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.firstChild; child != nil; child = child.next {
		children = append(children, child)
	}
	return children
}

// Block returns the block attributes of the node.
// The zero value is returned for inline nodes and attribute-free blocks.
func (n *Node) Block() BlockAttrs {
	if n.block == nil {
		return BlockAttrs{}
	}
	return *n.block
}

// Inline returns the inline attributes of the node.
func (n *Node) Inline() InlineAttrs {
	if n.inline == nil {
		return InlineAttrs{}
	}
	return *n.inline
}

// Level returns the heading level, or 0 for other kinds.
func (n *Node) Level() int {
	if n.kind != NodeHeading || n.block == nil {
		return 0
	}
	return n.block.HeadingLevel
}

// Value returns the literal content carried by leaf kinds:
// text, code, math, comments, roles, and the raw body of fences.
func (n *Node) Value() string {
	switch n.kind {
	case NodeText, NodeCodeSpan, NodeRawMath, NodeRole:
		return n.Inline().Value
	case NodeCodeFence:
		if n.block != nil && n.block.Code != nil {
			return n.block.Code.Value
		}
	case NodeDirectiveFence:
		if n.block != nil && n.block.Directive != nil {
			return n.block.Directive.Value
		}
	case NodeFrontMatter:
		if n.block != nil && n.block.FrontMatter != nil {
			return n.block.FrontMatter.Value
		}
	case NodeMathBlock, NodeComment:
		return n.Block().Value
	}
	return ""
}

// Destination returns the link or image destination.
func (n *Node) Destination() string {
	if n.inline == nil || n.inline.Link == nil {
		return ""
	}
	return n.inline.Link.Destination
}

// Name returns the directive or role name.
func (n *Node) Name() string {
	switch n.kind {
	case NodeDirectiveFence:
		if n.block != nil && n.block.Directive != nil {
			return n.block.Directive.Name
		}
	case NodeRole:
		return n.Inline().Role
	}
	return ""
}
