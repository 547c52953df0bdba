package http

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/testbench/pkg/node"
	"github.com/aretw0/testbench/pkg/param"
)

// NodeView is the JSON view of one node.
type NodeView struct {
	Path   string `json:"path"`
	Info   string `json:"info"`
	Active bool   `json:"active"`
}

// Reading is the JSON view of one parameter.
type Reading struct {
	Name       string    `json:"name"`
	Value      any       `json:"value"`
	Units      string    `json:"units,omitempty"`
	Valid      bool      `json:"valid"`
	Violations uint64    `json:"violations"`
	UpdatedAt  time.Time `json:"updated_at,omitzero"`
}

// Snapshot holds the latest bench state for concurrent readers. Writers are
// the parameter listeners, running on the goroutine that drives the bench.
type Snapshot struct {
	mu       sync.RWMutex
	nodes    []NodeView
	readings map[string]*Reading
	order    []string
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{readings: make(map[string]*Reading)}
}

// RecordNodes replaces the node list with the current state of the tree.
func (s *Snapshot) RecordNodes(root node.Component) {
	var nodes []NodeView
	node.WalkPaths(root, func(c node.Component, path string, _ int) bool {
		n := c.Base()
		nodes = append(nodes, NodeView{Path: path, Info: n.Info(), Active: n.Active()})
		return true
	})

	s.mu.Lock()
	s.nodes = nodes
	s.mu.Unlock()
}

// Nodes returns a copy of the recorded nodes.
func (s *Snapshot) Nodes() []NodeView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.nodes)
}

// Readings returns copies of the parameter readings in watch order.
func (s *Snapshot) Readings() []Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Reading, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.readings[name])
	}
	return out
}

// Reading returns the reading of parameter name.
func (s *Snapshot) Reading(name string) (Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.readings[name]
	if !ok {
		return Reading{}, false
	}
	return *r, true
}

func (s *Snapshot) update(name string, fn func(r *Reading)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.readings[name]
	if !ok {
		r = &Reading{Name: name, Valid: true}
		s.readings[name] = r
		s.order = append(s.order, name)
	}
	fn(r)
}

// WatchParameter keeps the reading of p current.
func WatchParameter[T any](s *Snapshot, p *param.Parameter[T]) {
	name := p.Name()
	s.update(name, func(r *Reading) { r.Value, r.Units = p.Value(), p.Units() })
	p.OnUpdate(func(v T) {
		s.update(name, func(r *Reading) {
			r.Value, r.Units, r.UpdatedAt = v, p.Units(), time.Now()
		})
	})
	p.OnClear(func() {
		var zero T
		s.update(name, func(r *Reading) {
			r.Value, r.UpdatedAt = zero, time.Now()
		})
	})
}

// WatchBounded keeps the reading of p current, including validity.
func WatchBounded[T cmp.Ordered](s *Snapshot, p *param.Bounded[T]) {
	WatchParameter(s, p.Parameter)
	refresh := func() {
		s.update(p.Name(), func(r *Reading) { r.Valid, r.Violations = p.Valid(), p.Violations() })
	}
	p.OnUpdate(func(T) { refresh() })
	p.OnClear(refresh)
}

// WatchCounter keeps the reading of c current. A counter is valid while its
// total is zero.
func (s *Snapshot) WatchCounter(c *param.ErrorsCounter) {
	WatchParameter(s, c.Parameter)
	refresh := func() {
		s.update(c.Name(), func(r *Reading) { r.Valid, r.Violations = c.Valid(), c.Total() })
	}
	c.OnUpdate(func(uint64) { refresh() })
	c.OnClear(refresh)
}
