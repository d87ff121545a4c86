// Package xmltree reads a project description into a generic node tree. The
// builder only needs tag names, attribute lookup, ordered children, and leaf
// text, so the tree is deliberately schema-free.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoRoot reports a document with no root element.
var ErrNoRoot = errors.New("document has no root element")

// Node is one element of the tree.
type Node struct {
	name     string
	attrs    []xml.Attr
	children []*Node
	text     strings.Builder
}

// Name returns the element's tag name.
func (n *Node) Name() string {
	return n.name
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Children returns the element's child elements in document order.
func (n *Node) Children() []*Node {
	return n.children
}

// Text returns the concatenated character data directly under the element.
func (n *Node) Text() string {
	return n.text.String()
}

// Load parses the file at path into its root node.
func Load(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project description: %w", err)
	}
	defer f.Close()

	root, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return root, nil
}

// Parse reads one XML document from r and returns its root node.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{name: t.Name.Local, attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}
