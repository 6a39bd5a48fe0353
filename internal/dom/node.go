// Package dom provides the node-projection layer for the Lumen runtime: a
// stencil factory that clones a parsed markup fragment into a fresh node
// sequence per instantiation, target location, render-location anchors, and
// HTML serialization for preview output and golden tests.
package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lumen-ui/lumen/internal/errors"
)

// TargetAttribute marks nodes the compiler located instructions for.
const TargetAttribute = "data-lumen-target"

// GetAttr returns the value of the named attribute on n.
func GetAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute on n.
func SetAttr(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr removes the named attribute from n if present.
func RemoveAttr(n *html.Node, name string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// SetText replaces n's children with a single text node.
func SetText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// CloneNode deep-copies a node and its subtree. Parent and sibling links of
// the returned node are nil.
func CloneNode(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		clone.Attr = make([]html.Attribute, len(n.Attr))
		copy(clone.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(CloneNode(c))
	}
	return clone
}

// ParseFragment parses markup as body content, returning the root nodes.
func ParseFragment(markup string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeBadMarkup, "parsing template markup", err)
	}
	return nodes, nil
}

// Serialize renders nodes as HTML to w.
func Serialize(w io.Writer, nodes []*html.Node) error {
	for _, n := range nodes {
		if err := html.Render(w, n); err != nil {
			return errors.NewIOError(errors.ErrCodeBadMarkup, "serializing node sequence", err)
		}
	}
	return nil
}

// SerializeString renders nodes as an HTML string.
func SerializeString(nodes []*html.Node) (string, error) {
	var sb strings.Builder
	if err := Serialize(&sb, nodes); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Walk visits n and its subtree in document order until fn returns false.
func Walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}
