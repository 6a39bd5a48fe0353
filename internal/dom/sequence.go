package dom

import (
	"golang.org/x/net/html"
)

// NodeSequence is the live node projection produced for one renderable
// instance: an ordered set of sibling root nodes that move together.
type NodeSequence interface {
	// Nodes returns the sequence's root nodes in order.
	Nodes() []*html.Node
	// FindTargets returns the compiler-marked target nodes in document
	// order. Instruction rows line up with this order.
	FindTargets() []*html.Node
	// AppendTo moves the sequence's nodes to the end of parent.
	AppendTo(parent *html.Node)
	// InsertBefore moves the sequence's nodes in front of the anchor.
	InsertBefore(location *RenderLocation)
	// Remove detaches the sequence's nodes from their parent.
	Remove()
}

// NodeSequenceFactory stencils fresh node sequences from a parsed prototype
// fragment. One factory serves arbitrarily many instantiations.
type NodeSequenceFactory struct {
	prototype []*html.Node
}

// NewNodeSequenceFactory parses markup once into the prototype fragment.
func NewNodeSequenceFactory(markup string) (*NodeSequenceFactory, error) {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	return &NodeSequenceFactory{prototype: nodes}, nil
}

// CreateNodeSequence deep-clones the prototype into a fresh sequence.
func (f *NodeSequenceFactory) CreateNodeSequence() NodeSequence {
	nodes := make([]*html.Node, len(f.prototype))
	for i, n := range f.prototype {
		nodes[i] = CloneNode(n)
	}
	return &fragmentSequence{nodes: nodes}
}

// EmptySequence returns the canonical sequence with no nodes, used for
// logic-only components so callers never branch on "has view".
func EmptySequence() NodeSequence {
	return &fragmentSequence{}
}

// fragmentSequence is the shipped NodeSequence over x/net/html nodes.
type fragmentSequence struct {
	nodes []*html.Node
}

func (s *fragmentSequence) Nodes() []*html.Node {
	return s.nodes
}

func (s *fragmentSequence) FindTargets() []*html.Node {
	var targets []*html.Node
	for _, root := range s.nodes {
		Walk(root, func(n *html.Node) bool {
			if n.Type == html.ElementNode {
				if _, ok := GetAttr(n, TargetAttribute); ok {
					targets = append(targets, n)
				}
			}
			return true
		})
	}
	return targets
}

func (s *fragmentSequence) AppendTo(parent *html.Node) {
	s.Remove()
	for _, n := range s.nodes {
		parent.AppendChild(n)
	}
}

func (s *fragmentSequence) InsertBefore(location *RenderLocation) {
	if location == nil || location.Anchor == nil || location.Anchor.Parent == nil {
		return
	}
	s.Remove()
	parent := location.Anchor.Parent
	for _, n := range s.nodes {
		parent.InsertBefore(n, location.Anchor)
	}
}

func (s *fragmentSequence) Remove() {
	for _, n := range s.nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// RenderLocation is a comment-node anchor marking where view sequences are
// spliced into a host tree.
type RenderLocation struct {
	Anchor *html.Node
}

// NewRenderLocation appends an anchor comment to parent and returns the
// location wrapping it.
func NewRenderLocation(parent *html.Node) *RenderLocation {
	anchor := &html.Node{Type: html.CommentNode, Data: "lumen"}
	parent.AppendChild(anchor)
	return &RenderLocation{Anchor: anchor}
}

// ConvertToRenderLocation replaces a target node with an anchor comment,
// returning the location. Used by template controllers that stamp views in
// and out at the target's position.
func ConvertToRenderLocation(target *html.Node) *RenderLocation {
	anchor := &html.Node{Type: html.CommentNode, Data: "lumen"}
	if target.Parent != nil {
		target.Parent.InsertBefore(anchor, target)
		target.Parent.RemoveChild(target)
	}
	return &RenderLocation{Anchor: anchor}
}
