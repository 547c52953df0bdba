package node

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/aretw0/testbench/internal/logging"
)

// Component is anything that can be placed in the composition tree.
// Concrete node types satisfy it by embedding *Node.
type Component interface {
	Base() *Node
}

// Node is the unit of composition: identity, descriptive text, activation
// state and a fixed, ordered list of children.
type Node struct {
	name     string
	info     string
	active   bool
	children []Component
	caps     Capabilities
	logger   *slog.Logger
}

// New composes a node named name that owns children in the given order.
//
// self is the concrete value whose optional lifecycle hooks are dispatched
// (usually the struct embedding the returned *Node). It may also be a
// Capabilities value, or nil for a plain grouping node.
func New(name string, self any, children ...Component) *Node {
	return &Node{
		name:     name,
		info:     name,
		children: slices.Clone(children),
		caps:     Resolve(self),
		logger:   logging.NewNop(),
	}
}

// Base implements Component.
func (n *Node) Base() *Node { return n }

// Name returns the identity used to locate the node's configuration sub-tree.
func (n *Node) Name() string { return n.name }

// Info returns the descriptive text (the name until configured otherwise).
func (n *Node) Info() string { return n.info }

// Active reports whether the node was marked "Used" by the last initialize cascade.
func (n *Node) Active() bool { return n.active }

// Children returns the declared children in traversal order.
func (n *Node) Children() []Component { return slices.Clone(n.children) }

// Capabilities returns the hooks resolved for this node at composition time.
func (n *Node) Capabilities() Capabilities { return n.caps }

// Logger returns the logger the node writes to.
func (n *Node) Logger() *slog.Logger { return n.logger }

// SetLogger replaces the node's logger. A nil logger discards output.
func (n *Node) SetLogger(l *slog.Logger) {
	if l == nil {
		l = logging.NewNop()
	}
	n.logger = l
}

// Log writes a message prefixed with the node name.
func (n *Node) Log(level slog.Level, msg string, args ...any) {
	n.logger.Log(context.Background(), level, n.name+": "+msg, args...)
}

func (n *Node) LogTrace(msg string, args ...any)   { n.Log(logging.LevelTrace, msg, args...) }
func (n *Node) LogDebug(msg string, args ...any)   { n.Log(slog.LevelDebug, msg, args...) }
func (n *Node) LogInfo(msg string, args ...any)    { n.Log(slog.LevelInfo, msg, args...) }
func (n *Node) LogWarning(msg string, args ...any) { n.Log(slog.LevelWarn, msg, args...) }
func (n *Node) LogError(msg string, args ...any)   { n.Log(slog.LevelError, msg, args...) }
func (n *Node) LogFatal(msg string, args ...any)   { n.Log(logging.LevelFatal, msg, args...) }

// Walk visits c and all its descendants depth-first in declared order.
// Returning false from fn skips the visited node's subtree.
func Walk(c Component, fn func(c Component, depth int) bool) {
	walk(c, 0, fn)
}

func walk(c Component, depth int, fn func(Component, int) bool) {
	if !fn(c, depth) {
		return
	}
	for _, child := range c.Base().children {
		walk(child, depth+1, fn)
	}
}

// WalkPaths is Walk that also passes each node's path: the names from the
// root down to the node joined with "/".
func WalkPaths(c Component, fn func(c Component, path string, depth int) bool) {
	var names []string
	Walk(c, func(c Component, depth int) bool {
		names = append(names[:depth], c.Base().name)
		return fn(c, strings.Join(names, "/"), depth)
	})
}

// AttachLogger sets l as the logger of every node in the tree rooted at c.
func AttachLogger(c Component, l *slog.Logger) {
	Walk(c, func(c Component, _ int) bool {
		c.Base().SetLogger(l)
		return true
	})
}

// Count returns the number of nodes in the tree rooted at c.
func Count(c Component) int {
	total := 0
	Walk(c, func(Component, int) bool {
		total++
		return true
	})
	return total
}
