/*
Package node implements the static composition tree of test-equipment nodes and
the three cascading lifecycle operations that drive it.

A concrete node type (a transport, an instrument, a parameter, a whole stand)
embeds *Node and declares its children when it is constructed. The tree shape
never changes afterwards. Each concrete type may optionally override any of the
lifecycle hooks simply by having the method:

	Initialize(cfg ports.ConfigTree) error
	Connect() error
	Disconnect() error

Hooks are resolved once, when New is called, into optional function values
(see Capabilities). A missing hook is a no-op success.

# Cascades

  - InitializeAll locates the node's configuration sub-tree by name, reads
    "Used" and "Info", runs the Initialize hook when the node is used, then
    descends into every child with the located sub-tree as the new root.
  - ConnectAll / DisconnectAll run the Connect / Disconnect hook of used nodes
    and always descend into every child.

Traversal is depth-first in declared child order. Activation gates only the
node's own hook, never the traversal. The first failure aborts the cascade
and is returned unchanged; nothing is rolled back.
*/
package node
