package mdast

// BlockAttrs holds attributes for block-level nodes.
type BlockAttrs struct {
	// HeadingLevel is the heading level (1-6) for NodeHeading.
	HeadingLevel int

	// List holds list-specific attributes for NodeList.
	List *ListAttrs

	// Code holds fence attributes for NodeCodeFence.
	Code *CodeAttrs

	// Directive holds directive attributes for NodeDirectiveFence.
	Directive *DirectiveAttrs

	// FrontMatter holds the document metadata for NodeFrontMatter.
	FrontMatter *FrontMatterAttrs

	// Value is the literal body of NodeMathBlock and NodeComment.
	Value string

	// Label is the target label of NodeTarget.
	Label string

	// Meta is the text following the "+++" marker of NodeContainer.
	Meta string
}

// ListAttrs holds attributes for list nodes.
type ListAttrs struct {
	// Ordered is true for ordered lists (1., 2., etc.).
	Ordered bool

	// Marker is the bullet character ('-', '+', '*') or the ordered
	// delimiter ('.' or ')').
	Marker byte

	// Start is the starting number for ordered lists.
	Start int

	// Tight is true if no blank line separates items or their blocks.
	Tight bool
}

// CodeAttrs holds attributes for code fence nodes.
type CodeAttrs struct {
	// FenceChar is the fence character ('`' or '~'); zero for indented code.
	FenceChar byte

	// FenceLength is the number of fence characters.
	FenceLength int

	// Info is the full info string.
	Info string

	// Lang is the first word of the info string.
	Lang string

	// Value is the code content without the final line ending.
	Value string

	// Indented is true for indented code blocks.
	Indented bool
}

// Option is a single directive option.
type Option struct {
	Key   string
	Value string
}

// DirectiveAttrs holds attributes for directive fences.
type DirectiveAttrs struct {
	// Name is the directive name ("note", "figure", ...).
	Name string

	// Argument is the rest of the opening line after the name.
	Argument string

	// Options are the leading ":key: value" lines, in source order.
	Options []Option

	// Value is the raw directive body, options excluded.
	Value string

	// FenceChar is the fence character (':', '`' or '~').
	FenceChar byte

	// FenceLength is the number of fence characters.
	FenceLength int
}

// Option returns the value of the named option and whether it was present.
func (d *DirectiveAttrs) Option(key string) (string, bool) {
	for _, opt := range d.Options {
		if opt.Key == key {
			return opt.Value, true
		}
	}
	return "", false
}

// FrontMatterAttrs holds the document front matter.
type FrontMatterAttrs struct {
	// Value is the raw YAML text between the delimiters.
	Value string

	// Data is the decoded YAML mapping, or nil when the text is not a
	// valid YAML mapping.
	Data map[string]any
}

// InlineAttrs holds attributes for inline-level nodes.
type InlineAttrs struct {
	// Value holds the literal content of NodeText, NodeCodeSpan,
	// NodeRawMath, and NodeRole.
	Value string

	// Link holds link attributes for NodeLink and NodeImage.
	Link *LinkAttrs

	// Role is the role name for NodeRole.
	Role string
}

// LinkAttrs holds attributes for link and image nodes.
type LinkAttrs struct {
	// Destination is the link URL.
	Destination string

	// Title is the optional link title.
	Title string

	// Autolink is true for <scheme:...> links.
	Autolink bool
}
