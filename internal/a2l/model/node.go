// Package model holds the in-memory form of A2L data: parser nodes, the
// entities built from them and the tag to class dispatch used to build them.
package model

// Node is one keyword invocation as delivered by a parser. Params carries the
// named parameters. Items feeds the single MULTIPLE parameter of the keyword
// (scalars, or tuples given as lists or maps). Children keep source order.
type Node struct {
	Tag      string         `json:"tag" yaml:"tag"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Items    []any          `json:"items,omitempty" yaml:"items,omitempty"`
	Children []*Node        `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewNode creates a node with the given children
func NewNode(tag string, params map[string]any, children ...*Node) *Node {
	return &Node{Tag: tag, Params: params, Children: children}
}

// WithItems sets the items of the node and returns it
func (n *Node) WithItems(items ...any) *Node {
	n.Items = items
	return n
}

// Count returns the number of nodes in the tree rooted at n
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}
