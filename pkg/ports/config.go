package ports

// ConfigTree is a nested named mapping, loaded once before initialization.
//
// Each node of the composition tree locates its own sub-tree by name under the
// sub-tree of its parent. Attributes are scalar settings of the sub-tree.
type ConfigTree interface {
	// Child returns the direct sub-tree with the given name.
	Child(name string) (ConfigTree, bool)

	// Attr returns the raw value of an attribute of this sub-tree.
	// Values keep the type produced by the backing format (bool, int, float64, string...).
	Attr(key string) (any, bool)
}

// AttrLister is implemented by trees that can enumerate their attributes.
// It is used by decoders that map a whole sub-tree onto a settings struct.
type AttrLister interface {
	Attrs() map[string]any
}

// ChildLister is implemented by trees that can enumerate their sub-trees.
type ChildLister interface {
	ChildNames() []string
}
