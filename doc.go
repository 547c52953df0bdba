/*
Package testbench composes test equipment into a static tree and drives it
through cascading lifecycle operations.

A bench is a tree of nodes: instruments, the links they talk through and the
observable parameters they measure. The tree shape is fixed in code; a
configuration file decides which nodes take part in a run.

# Concept

Every node has a name, a descriptive Info text and an activation flag. The
initialize cascade walks the tree depth-first, locating each node's
configuration sub-tree by name, reading "Used" and "Info", and calling the
node's own Initialize override when the node is active. Connect and
disconnect cascades follow the same order. A node only implements the
overrides it needs; everything else is a silent success.

Inactive nodes never run their overrides, but their children are still
visited, so a disabled grouping node does not hide an enabled instrument.
The first failure stops a cascade and is returned verbatim.

# Usage

	link := tcp.New("Link")
	voltage := param.NewBounded[float64]("Voltage")
	dmm := instrument.New("Multimeter", link, voltage)
	stand := node.New("Stand", nil, dmm)

	bench := testbench.New(stand, testbench.WithLogger(logger))
	if err := bench.Load("bench.yaml"); err != nil {
		log.Fatal(err)
	}
	if err := bench.Connect(); err != nil {
		bench.Disconnect()
		log.Fatal(err)
	}
	defer bench.Disconnect()

	_ = dmm.Measure("VOLT:DC", voltage)

with bench.yaml:

	Stand:
	  Used: true
	  Multimeter:
	    Used: true
	    Link:
	      Used: true
	      Address: 192.168.0.10
	      Port: 5025
	    Voltage:
	      Used: true
	      Units: V
	      min: 0
	      max: 5

# Errors

Lifecycle operations return nil or a domain.ErrorKind; use domain.KindOf to
classify any error. There is no retry and no rollback: when Connect fails the
caller decides whether to Disconnect what was already connected.
*/
package testbench
