package node

import "github.com/aretw0/testbench/pkg/ports"

// Initializer is the optional hook run by InitializeAll on a used node.
// cfg is the node's own configuration sub-tree.
type Initializer interface {
	Initialize(cfg ports.ConfigTree) error
}

// Connector is the optional hook run by ConnectAll on a used node.
type Connector interface {
	Connect() error
}

// Disconnector is the optional hook run by DisconnectAll on a used node.
type Disconnector interface {
	Disconnect() error
}

// Hook0 is an optional nullary operation. The zero value is absent.
type Hook0 func() error

// Present reports whether an override exists.
func (h Hook0) Present() bool { return h != nil }

// Call runs the override, or succeeds without doing anything when absent.
func (h Hook0) Call() error {
	if h == nil {
		return nil
	}
	return h()
}

// Hook1 is an optional unary operation.
type Hook1[A any] func(A) error

func (h Hook1[A]) Present() bool { return h != nil }

func (h Hook1[A]) Call(a A) error {
	if h == nil {
		return nil
	}
	return h(a)
}

// Hook2 is an optional binary operation.
type Hook2[A, B any] func(A, B) error

func (h Hook2[A, B]) Present() bool { return h != nil }

func (h Hook2[A, B]) Call(a A, b B) error {
	if h == nil {
		return nil
	}
	return h(a, b)
}

// Capabilities holds the lifecycle overrides of one node.
type Capabilities struct {
	Initialize Hook1[ports.ConfigTree]
	Connect    Hook0
	Disconnect Hook0
}

// Resolve detects which lifecycle hooks self provides.
// Detection is structural: any method with the right name and signature
// qualifies. A Capabilities value (or pointer) is taken as is.
func Resolve(self any) Capabilities {
	switch v := self.(type) {
	case nil:
		return Capabilities{}
	case Capabilities:
		return v
	case *Capabilities:
		if v == nil {
			return Capabilities{}
		}
		return *v
	}

	var caps Capabilities
	if v, ok := self.(Initializer); ok {
		caps.Initialize = v.Initialize
	}
	if v, ok := self.(Connector); ok {
		caps.Connect = v.Connect
	}
	if v, ok := self.(Disconnector); ok {
		caps.Disconnect = v.Disconnect
	}
	return caps
}
