// Package stand composes the demo bench driven by the testbench CLI:
//
//	Stand
//	├── Multimeter   (Keithley 2010 over TCP)
//	│   ├── Link
//	│   └── Voltage
//	├── SourceMeter  (SCPI source meter over TCP)
//	│   ├── Link
//	│   └── Current
//	└── Errors
package stand

import (
	"errors"

	"github.com/aretw0/testbench/pkg/adapters/tcp"
	"github.com/aretw0/testbench/pkg/instrument"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/aretw0/testbench/pkg/param"
)

// Measurement functions used for one round.
const (
	VoltageFunction = "VOLT:DC"
	CurrentFunction = "CURR:DC"
)

// Stand is the demo bench.
type Stand struct {
	*node.Node

	Multimeter  *instrument.Instrument
	Voltage     *param.Bounded[float64]
	SourceMeter *instrument.Instrument
	Current     *param.Bounded[float64]
	Errors      *param.ErrorsCounter
}

// New composes the stand over TCP links.
func New() *Stand {
	return NewWithLinks(tcp.New("Link"), tcp.New("Link"))
}

// NewWithLinks composes the stand over the given instrument links.
func NewWithLinks(multimeter, sourceMeter instrument.Link) *Stand {
	s := &Stand{
		Voltage: param.NewBounded[float64]("Voltage"),
		Current: param.NewBounded[float64]("Current"),
		Errors:  param.NewErrorsCounter("Errors"),
	}
	s.Multimeter = instrument.New("Multimeter", multimeter, s.Voltage)
	s.SourceMeter = instrument.New("SourceMeter", sourceMeter, s.Current)
	s.Node = node.New("Stand", nil, s.Multimeter, s.SourceMeter, s.Errors)
	return s
}

// Measure takes one reading from every active instrument. Failed readings
// are added to Errors (a clean round adds zero) and the round goes on; the
// joined failures are returned.
func (s *Stand) Measure() error {
	var errs []error
	if s.Multimeter.Active() {
		if err := s.Multimeter.Measure(VoltageFunction, s.Voltage); err != nil {
			errs = append(errs, err)
		}
	}
	if s.SourceMeter.Active() {
		if err := s.SourceMeter.Measure(CurrentFunction, s.Current); err != nil {
			errs = append(errs, err)
		}
	}
	s.Errors.Set(uint64(len(errs)))
	return errors.Join(errs...)
}
