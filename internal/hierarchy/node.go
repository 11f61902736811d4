// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package hierarchy models the fixed tree of entity types. The tree is
// assembled once with Node.AddChild, handed to NewRegistry, and frozen.
package hierarchy

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// Node is one entity type in the taxonomy.
type Node struct {
	id        int
	idStr     string
	name      string
	lowerName string
	children  []*Node
	frozen    bool
}

// NewNode creates a detached node with no children.
func NewNode(id int, name string) *Node {
	return &Node{
		id:        id,
		idStr:     strconv.Itoa(id),
		name:      name,
		lowerName: strings.ToLower(name),
	}
}

// ID returns the node id.
func (n *Node) ID() int { return n.id }

// Name returns the display name.
func (n *Node) Name() string { return n.name }

// Children returns a copy of the direct children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// AddChild attaches children and returns n for chaining. It panics once the
// node belongs to a Registry.
func (n *Node) AddChild(children ...*Node) *Node {
	if n.frozen {
		panic(oops.Code("TYPE_TREE_FROZEN").
			With("type_id", n.id).
			Errorf("type %q is frozen and cannot gain children", n.name))
	}
	n.children = append(n.children, children...)
	return n
}

// matches reports whether a path part names this node.
func (n *Node) matches(part string) bool {
	return part == n.idStr || part == n.lowerName
}

// search walks the tree for parts[i:], see Registry.Search.
func (n *Node) search(parts []string, i int, out []*Node) []*Node {
	if n.matches(parts[i]) {
		if i == len(parts)-1 {
			out = append(out, n)
			return n.appendDescendants(out)
		}
		for _, child := range n.children {
			out = child.search(parts, i+1, out)
		}
		return out
	}
	for _, child := range n.children {
		out = child.search(parts, i, out)
	}
	return out
}

// appendDescendants appends every strict descendant in pre-order.
func (n *Node) appendDescendants(out []*Node) []*Node {
	for _, child := range n.children {
		out = append(out, child)
		out = child.appendDescendants(out)
	}
	return out
}

func (n *Node) freeze() {
	n.frozen = true
	for _, child := range n.children {
		child.freeze()
	}
}

// Display writes the subtree, indenting two spaces per level.
func (n *Node) Display(w io.Writer) error {
	return n.display(w, 0)
}

func (n *Node) display(w io.Writer, level int) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", level), n.name); err != nil {
		return oops.Wrapf(err, "display type %q", n.name)
	}
	for _, child := range n.children {
		if err := child.display(w, level+1); err != nil {
			return err
		}
	}
	return nil
}

type nodeJSON struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Children []*nodeJSON `json:"children"`
}

func (n *Node) toJSON() *nodeJSON {
	out := &nodeJSON{ID: n.id, Name: n.name, Children: make([]*nodeJSON, 0, len(n.children))}
	for _, child := range n.children {
		out.Children = append(out.Children, child.toJSON())
	}
	return out
}

func fromJSON(raw *nodeJSON) *Node {
	n := NewNode(raw.ID, raw.Name)
	for _, child := range raw.Children {
		n.children = append(n.children, fromJSON(child))
	}
	return n
}

// MarshalJSON encodes the subtree as {"id","name","children"}.
func (n *Node) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck // plain struct encoding cannot fail
	return json.Marshal(n.toJSON())
}

// UnmarshalJSON rebuilds an unfrozen subtree.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return oops.Code("TYPE_DECODE_FAILED").Wrap(err)
	}
	*n = *fromJSON(&raw)
	return nil
}
