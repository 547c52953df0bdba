/*
Package ports defines the driven ports (interfaces) consumed by the testbench core.

These interfaces decouple the lifecycle engine and the parameter model from the
external collaborators that feed them, so configuration sources and instrument
transports can be swapped without touching node code.

# Key Interfaces

  - ConfigTree: A named, nested configuration mapping, one sub-tree per node.
  - AttrLister / ChildLister: Optional enumeration of a sub-tree's attributes and children.
  - Transport: Byte-level I/O toward an instrument (TCP socket, serial line, loopback).
*/
package ports
