package mailtext

import "strings"

// NodeKind distinguishes text runs from elements.
type NodeKind string

// Node kinds.
const (
	TextNode    NodeKind = "text"
	ElementNode NodeKind = "element"
)

// Display is the computed rendering mode of an element.
type Display string

// Display modes. DisplayUnknown is treated as inline.
const (
	DisplayUnknown Display = ""
	DisplayInline  Display = "inline"
	DisplayBlock   Display = "block"
	DisplayNone    Display = "none"
)

// Node is a node in a rendered document tree.
//
// Tag is set only for elements and is expected in lowercase. Text is set only
// for text nodes. Children is ordered in document order.
type Node struct {
	Kind     NodeKind `json:"kind"`
	Tag      string   `json:"tag,omitempty"`
	Display  Display  `json:"display,omitempty"`
	Text     string   `json:"text,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// NewText returns a text node.
func NewText(text string) *Node {
	return &Node{Kind: TextNode, Text: text}
}

// NewElement returns an element node with the given children.
// The display mode is left unknown.
func NewElement(tag string, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Tag: strings.ToLower(tag), Children: children}
}

// DisplayFunc reports the computed display mode of an element.
type DisplayFunc func(n *Node) Display

// NodeDisplay is the default DisplayFunc. It reads the mode recorded on the node
// by whoever built the tree.
func NodeDisplay(n *Node) Display {
	return n.Display
}

// ParseDisplay maps a CSS display value onto a Display mode.
// Values it does not recognize map to DisplayUnknown.
func ParseDisplay(css string) Display {
	v := strings.ToLower(strings.TrimSpace(css))
	// Multi-keyword syntax ("block flow", "inline flex") is decided by the outer keyword.
	if i := strings.IndexByte(v, ' '); i > 0 {
		v = v[:i]
	}
	switch {
	case v == "none":
		return DisplayNone
	case v == "inline", strings.HasPrefix(v, "inline-"), v == "contents", strings.HasPrefix(v, "ruby"):
		return DisplayInline
	case v == "block", v == "flex", v == "grid", v == "list-item", v == "flow-root",
		v == "table", v == "table-caption", v == "table-row",
		v == "table-row-group", v == "table-header-group", v == "table-footer-group":
		return DisplayBlock
	}
	return DisplayUnknown
}
