// Package memory provides in-process configuration trees and transports.
package memory

import (
	"maps"

	"github.com/aretw0/testbench/pkg/ports"
)

// Tree implements ports.ConfigTree over Go maps.
// It is the in-process configuration source used by tests and by programs
// that compose their configuration in code.
type Tree struct {
	attrs    map[string]any
	children map[string]*Tree
}

// NewTree builds a tree from a nested map. Values that are themselves
// map[string]any (or *Tree) become named sub-trees; everything else is an
// attribute.
//
//	memory.NewTree(map[string]any{
//		"Stand": map[string]any{
//			"Used": true,
//			"Multimeter": map[string]any{"Used": true, "Info": "DMM"},
//		},
//	})
func NewTree(data map[string]any) *Tree {
	t := &Tree{
		attrs:    make(map[string]any),
		children: make(map[string]*Tree),
	}
	for k, v := range data {
		switch val := v.(type) {
		case map[string]any:
			t.children[k] = NewTree(val)
		case *Tree:
			t.children[k] = val
		default:
			t.attrs[k] = v
		}
	}
	return t
}

// Child implements ports.ConfigTree.
func (t *Tree) Child(name string) (ports.ConfigTree, bool) {
	child, ok := t.children[name]
	if !ok {
		return nil, false
	}
	return child, true
}

// Attr implements ports.ConfigTree.
func (t *Tree) Attr(key string) (any, bool) {
	v, ok := t.attrs[key]
	return v, ok
}

// Attrs implements ports.AttrLister.
func (t *Tree) Attrs() map[string]any {
	return maps.Clone(t.attrs)
}

// ChildNames returns the names of the direct sub-trees.
func (t *Tree) ChildNames() []string {
	names := make([]string, 0, len(t.children))
	for k := range t.children {
		names = append(names, k)
	}
	return names
}
