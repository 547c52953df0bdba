package param

import (
	"cmp"

	"github.com/aretw0/testbench/pkg/config"
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/ports"
)

// Bounded is a Parameter validated against the closed range [min, max].
type Bounded[T cmp.Ordered] struct {
	*Parameter[T]

	min         T
	max         T
	valid       bool
	violations  uint64
	onViolation []func(uint64)
}

// NewBounded creates a bounded parameter. Until configured, both bounds are
// the zero value of T.
func NewBounded[T cmp.Ordered](name string) *Bounded[T] {
	b := &Bounded[T]{valid: true}
	b.Parameter = newParameter[T](name, b)
	b.setHook = b.Set
	b.resetHook = b.Reset
	return b
}

// Set stores v and validates it. The update listeners always run; when v is
// out of range the violation count is incremented and the violation
// listeners run afterwards with the new count. Valid and Violations already
// reflect v while the update listeners run.
func (b *Bounded[T]) Set(v T) T {
	b.value = v
	b.valid = b.inRange(v)
	if !b.valid {
		b.violations++
	}
	b.notify()
	if !b.valid {
		for _, fn := range b.onViolation {
			fn(b.violations)
		}
	}
	return v
}

// Reset restores the zero value, validity and violation count, then
// notifies the clear listeners.
func (b *Bounded[T]) Reset() {
	b.valid = true
	b.violations = 0
	b.clear()
}

// Min returns the lower bound.
func (b *Bounded[T]) Min() T { return b.min }

// Max returns the upper bound.
func (b *Bounded[T]) Max() T { return b.max }

// SetBounds replaces the range. It does not re-validate the current value.
func (b *Bounded[T]) SetBounds(lo, hi T) {
	b.min, b.max = lo, hi
}

// Valid reports the result of the most recent bounds check.
func (b *Bounded[T]) Valid() bool { return b.valid }

// Violations returns the number of out-of-range assignments since the last Reset.
func (b *Bounded[T]) Violations() uint64 { return b.violations }

// OnViolation registers fn to receive the running violation count.
func (b *Bounded[T]) OnViolation(fn func(uint64)) {
	b.onViolation = append(b.onViolation, fn)
}

// Initialize implements node.Initializer: Units, min and max.
func (b *Bounded[T]) Initialize(cfg ports.ConfigTree) error {
	if err := b.Parameter.Initialize(cfg); err != nil {
		return err
	}
	var zero T
	lo, err := config.Value(cfg, domain.KeyMin, zero)
	if err != nil {
		b.LogFatal("attribute has the wrong type", "attr", domain.KeyMin)
		return err
	}
	hi, err := config.Value(cfg, domain.KeyMax, zero)
	if err != nil {
		b.LogFatal("attribute has the wrong type", "attr", domain.KeyMax)
		return err
	}
	b.SetBounds(lo, hi)
	return nil
}

// inRange uses cmp.Less so that a NaN value is always out of range.
func (b *Bounded[T]) inRange(v T) bool {
	return !cmp.Less(v, b.min) && !cmp.Less(b.max, v)
}
