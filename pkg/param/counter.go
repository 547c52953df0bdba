package param

// ErrorsCounter accumulates error increments. Each Set adds its argument to
// a running total, which is the value listeners observe; a non-zero
// increment also reports the new total to the violation listeners.
type ErrorsCounter struct {
	*Parameter[uint64]
	onViolation []func(uint64)
}

// NewErrorsCounter creates a counter starting at zero.
func NewErrorsCounter(name string) *ErrorsCounter {
	c := &ErrorsCounter{Parameter: newParameter[uint64](name, nil)}
	c.setHook = c.Set
	return c
}

// Set adds increment to the total and returns the new total.
func (c *ErrorsCounter) Set(increment uint64) uint64 {
	total := c.store(c.value + increment)
	if increment != 0 {
		for _, fn := range c.onViolation {
			fn(total)
		}
	}
	return total
}

// Total returns the running total.
func (c *ErrorsCounter) Total() uint64 { return c.value }

// Valid reports whether no error has been counted.
func (c *ErrorsCounter) Valid() bool { return c.value == 0 }

// OnViolation registers fn to receive the new total after each non-zero increment.
func (c *ErrorsCounter) OnViolation(fn func(uint64)) {
	c.onViolation = append(c.onViolation, fn)
}
