// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package hierarchy

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/oops"
)

// RootID is the id of the entry node of every taxonomy.
const RootID = -1

// ErrTypeNotFound indicates an id that is not part of the taxonomy.
var ErrTypeNotFound = errors.New("type not found")

// ErrDuplicateType indicates two nodes share an id.
var ErrDuplicateType = errors.New("duplicate type id")

// Registry is a frozen taxonomy with memoized path searches and descendant
// sets. It is safe for concurrent use by multiple goroutines.
type Registry struct {
	root *Node
	byID map[int]*Node

	mu          sync.RWMutex
	searches    map[string][]*Node
	descendants map[int]map[int]struct{}
}

// NewRegistry validates and freezes the tree under root. Node ids must be
// unique and no node may appear twice.
func NewRegistry(root *Node) (*Registry, error) {
	if root == nil {
		return nil, oops.Code("TYPE_TREE_INVALID").Errorf("taxonomy root is nil")
	}

	byID := make(map[int]*Node)
	visited := make(map[*Node]struct{})
	var walk func(n *Node) error
	walk = func(n *Node) error {
		if _, seen := visited[n]; seen {
			return oops.Code("TYPE_TREE_INVALID").
				With("type_id", n.id).
				Errorf("type %q appears more than once in the taxonomy", n.name)
		}
		visited[n] = struct{}{}
		if other, dup := byID[n.id]; dup {
			return oops.Code("DUPLICATE_TYPE").
				With("type_id", n.id).
				With("names", []string{other.name, n.name}).
				Wrap(ErrDuplicateType)
		}
		byID[n.id] = n
		for _, child := range n.children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}

	root.freeze()
	return &Registry{
		root:        root,
		byID:        byID,
		searches:    make(map[string][]*Node),
		descendants: make(map[int]map[int]struct{}),
	}, nil
}

// MustNewRegistry is NewRegistry for static taxonomies; it panics on error.
func MustNewRegistry(root *Node) *Registry {
	r, err := NewRegistry(root)
	if err != nil {
		panic(err)
	}
	return r
}

// Root returns the entry node.
func (r *Registry) Root() *Node { return r.root }

// Len returns the number of types.
func (r *Registry) Len() int { return len(r.byID) }

// TypeByID returns the node with the given id.
func (r *Registry) TypeByID(id int) (*Node, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, oops.Code("TYPE_NOT_FOUND").With("type_id", id).Wrap(ErrTypeNotFound)
	}
	return n, nil
}

// MustTypeByID returns the node with the given id and panics if it does not
// exist. Unknown ids in static data are programmer errors.
func (r *Registry) MustTypeByID(id int) *Node {
	n, err := r.TypeByID(id)
	if err != nil {
		panic(err)
	}
	return n
}

// Search resolves a dot-separated path of names or ids, case-insensitively.
// A node matching the last part contributes itself and all of its
// descendants. A node matching an earlier part continues the search in its
// children with the next part. A node that does not match passes the same
// part down to its children. Results are memoized by path.
func (r *Registry) Search(path string) []*Node {
	r.mu.RLock()
	cached, ok := r.searches[path]
	r.mu.RUnlock()
	if !ok {
		parts := strings.Split(strings.ToLower(path), ".")
		cached = r.root.search(parts, 0, nil)

		r.mu.Lock()
		if existing, raced := r.searches[path]; raced {
			cached = existing
		} else {
			r.searches[path] = cached
			cacheBuilds.WithLabelValues("search").Inc()
		}
		r.mu.Unlock()
	}

	out := make([]*Node, len(cached))
	copy(out, cached)
	return out
}

// AllChildren returns the strict descendants of n in pre-order.
func (r *Registry) AllChildren(n *Node) []*Node {
	return n.appendDescendants(nil)
}

// IsChildOfType reports whether child is a strict descendant of ancestor.
// The descendant set of each ancestor is built on first use.
func (r *Registry) IsChildOfType(child, ancestor int) (bool, error) {
	set, err := r.descendantSet(ancestor)
	if err != nil {
		return false, err
	}
	_, ok := set[child]
	return ok, nil
}

// IsOfType reports whether child is ancestor or one of its descendants.
func (r *Registry) IsOfType(child, ancestor int) (bool, error) {
	if _, err := r.TypeByID(ancestor); err != nil {
		return false, err
	}
	if child == ancestor {
		return true, nil
	}
	return r.IsChildOfType(child, ancestor)
}

func (r *Registry) descendantSet(ancestor int) (map[int]struct{}, error) {
	r.mu.RLock()
	set, ok := r.descendants[ancestor]
	r.mu.RUnlock()
	if ok {
		return set, nil
	}

	node, err := r.TypeByID(ancestor)
	if err != nil {
		return nil, err
	}
	nodes := r.AllChildren(node)
	set = make(map[int]struct{}, len(nodes))
	for _, n := range nodes {
		set[n.id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, raced := r.descendants[ancestor]; raced {
		return existing, nil
	}
	r.descendants[ancestor] = set
	cacheBuilds.WithLabelValues("descendants").Inc()
	slog.Debug("built descendant set", "type_id", ancestor, "size", len(set))
	return set, nil
}

// Display writes the whole taxonomy as an indented tree.
func (r *Registry) Display(w io.Writer) error {
	return r.root.Display(w)
}
