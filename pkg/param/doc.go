/*
Package param provides observable measurement parameters.

A Parameter[T] is a node of the composition tree holding a single value.
Every Set stores the value and then synchronously calls the registered update
listeners, in registration order. Reset restores the zero value and calls the
clear listeners. Listeners can only be added, never removed.

Bounded[T] additionally validates each value against a [min, max] range loaded
from configuration, counts violations and reports each one to its violation
listeners. ErrorsCounter treats every assignment as an increment of a running
total.

	voltage := param.NewBounded[float64]("Voltage")
	voltage.OnViolation(func(n uint64) { log.Printf("out of range %d times", n) })
	voltage.Set(12.5)

Parameters take part in the initialize cascade: a used parameter loads its
"Units" (and, for Bounded, "min"/"max") attributes from its sub-tree.
Parameters are not safe for concurrent use.
*/
package param
