package param

import (
	"github.com/aretw0/testbench/pkg/config"
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/aretw0/testbench/pkg/ports"
)

// Parameter is an observable value of type T.
type Parameter[T any] struct {
	*node.Node

	value    T
	units    string
	onUpdate []func(T)
	onClear  []func()

	// Installed by wrapping types so that assignments made through the
	// embedded parameter still go through their validation.
	setHook   func(T) T
	resetHook func()
}

// New creates a parameter named name.
func New[T any](name string) *Parameter[T] {
	return newParameter[T](name, nil)
}

// newParameter binds the lifecycle hooks of self (the wrapping type) instead
// of the plain parameter's, when self is not nil.
func newParameter[T any](name string, self any) *Parameter[T] {
	p := &Parameter[T]{}
	if self == nil {
		self = p
	}
	p.Node = node.New(name, self)
	return p
}

// Set stores v, notifies the update listeners and returns v.
// On a parameter embedded in a Bounded or an ErrorsCounter, Set behaves as
// the wrapper's Set.
func (p *Parameter[T]) Set(v T) T {
	if p.setHook != nil {
		return p.setHook(v)
	}
	return p.store(v)
}

func (p *Parameter[T]) store(v T) T {
	p.value = v
	p.notify()
	return v
}

// Value returns the current value.
func (p *Parameter[T]) Value() T { return p.value }

// Units returns the configured unit label.
func (p *Parameter[T]) Units() string { return p.units }

// Reset restores the zero value and notifies the clear listeners.
func (p *Parameter[T]) Reset() {
	if p.resetHook != nil {
		p.resetHook()
		return
	}
	p.clear()
}

func (p *Parameter[T]) clear() {
	var zero T
	p.value = zero
	for _, fn := range p.onClear {
		fn()
	}
}

// OnUpdate registers fn to receive every stored value.
func (p *Parameter[T]) OnUpdate(fn func(T)) {
	p.onUpdate = append(p.onUpdate, fn)
}

// OnClear registers fn to be called on every Reset.
func (p *Parameter[T]) OnClear(fn func()) {
	p.onClear = append(p.onClear, fn)
}

// Initialize implements node.Initializer.
func (p *Parameter[T]) Initialize(cfg ports.ConfigTree) error {
	units, err := config.String(cfg, domain.KeyUnits, "")
	if err != nil {
		p.LogFatal("attribute is not a string", "attr", domain.KeyUnits)
		return err
	}
	p.units = units
	return nil
}

func (p *Parameter[T]) notify() {
	for _, fn := range p.onUpdate {
		fn(p.value)
	}
}
