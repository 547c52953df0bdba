package instrument_test

import (
	"testing"

	"github.com/aretw0/testbench/pkg/adapters/memory"
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/instrument"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/aretw0/testbench/pkg/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	link    *memory.Transport
	voltage *param.Bounded[float64]
	dmm     *instrument.Instrument
}

func newFixture(t *testing.T, voltageUsed bool) fixture {
	t.Helper()
	f := fixture{
		link:    memory.NewTransport("Link"),
		voltage: param.NewBounded[float64]("Voltage"),
	}
	f.dmm = instrument.New("Multimeter", f.link, f.voltage)

	cfg := memory.NewTree(map[string]any{
		"Multimeter": map[string]any{
			"Used": true,
			"Info": "Keithley 2010",
			"Link": map[string]any{"Used": true},
			"Voltage": map[string]any{
				"Used":  voltageUsed,
				"Units": "V",
				"min":   0,
				"max":   5,
			},
		},
	})
	require.NoError(t, node.InitializeAll(f.dmm, cfg))
	require.NoError(t, node.ConnectAll(f.dmm))
	return f
}

func TestInstrument_LinkIsFirstChild(t *testing.T) {
	f := newFixture(t, true)
	children := f.dmm.Children()
	require.Len(t, children, 2)
	assert.Same(t, f.link.Base(), children[0].Base())
	assert.Equal(t, "Keithley 2010", f.dmm.Info())
	assert.True(t, f.link.Connected())
}

func TestInstrument_Identify(t *testing.T) {
	f := newFixture(t, true)
	f.link.QueueReply("KEITHLEY INSTRUMENTS INC.,MODEL 2010,0,A01\r\n")

	idn, err := f.dmm.Identify()
	require.NoError(t, err)
	assert.Equal(t, "KEITHLEY INSTRUMENTS INC.,MODEL 2010,0,A01", idn)
	assert.Equal(t, idn, f.dmm.Identity())
	assert.Equal(t, []string{"*IDN?\n"}, f.link.Writes())
}

func TestInstrument_Measure(t *testing.T) {
	f := newFixture(t, true)
	var updates []float64
	var violations []uint64
	f.voltage.OnUpdate(func(v float64) { updates = append(updates, v) })
	f.voltage.OnViolation(func(n uint64) { violations = append(violations, n) })

	f.link.QueueReply("+3.30000E+00", "7.5,VDC", "+1.25E+00")
	require.NoError(t, f.dmm.Measure("VOLT:DC", f.voltage))
	require.NoError(t, f.dmm.Measure("VOLT:DC", f.voltage))
	require.NoError(t, f.dmm.Read(f.voltage))

	assert.Equal(t, []string{":MEAS:VOLT:DC?\n", ":MEAS:VOLT:DC?\n", ":READ?\n"}, f.link.Writes())
	assert.InDeltaSlice(t, []float64{3.3, 7.5, 1.25}, updates, 1e-9)
	assert.Equal(t, []uint64{1}, violations)
	assert.Equal(t, "V", f.voltage.Units())
}

func TestInstrument_MeasureErrors(t *testing.T) {
	f := newFixture(t, true)

	f.link.QueueReply("OVERFLOW")
	assert.Equal(t, domain.InvalidValue, f.dmm.Measure("VOLT", f.voltage))
	assert.Zero(t, f.voltage.Value())

	assert.Equal(t, domain.IOFailure, f.dmm.Measure("VOLT", f.voltage), "no reply queued")

	require.NoError(t, node.DisconnectAll(f.dmm))
	assert.Equal(t, domain.InvalidHandle, f.dmm.Write("*RST"))
}

func TestInstrument_InactiveParameterIsSkipped(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, f.dmm.Measure("VOLT", f.voltage))
	assert.Empty(t, f.link.Writes())
}

func TestInstrument_WriteKeepsTerminator(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.dmm.Write("*RST\n"))
	require.NoError(t, f.dmm.Write("*CLS"))
	assert.Equal(t, []string{"*RST\n", "*CLS\n"}, f.link.Writes())
}

func TestInstrument_MeasureChannel(t *testing.T) {
	f := newFixture(t, true)
	f.link.QueueReply("1.0")
	require.NoError(t, f.dmm.MeasureChannel(3, "VOLT:DC", f.voltage))
	assert.Equal(t, []string{":ROUT:CLOS (@ 3)\n", ":MEAS:VOLT:DC?\n"}, f.link.Writes())
	assert.Equal(t, 1.0, f.voltage.Value())
}

func TestInstrument_Offline(t *testing.T) {
	link := memory.NewTransport("Link")
	voltage := param.NewBounded[float64]("Voltage")
	dmm := instrument.New("Multimeter", link, voltage)
	require.NoError(t, node.InitializeAll(dmm, memory.NewTree(map[string]any{
		"Multimeter": map[string]any{
			"Used":    true,
			"Offline": true,
			"Info":    "DMM (simulated)",
			"Link":    map[string]any{"Used": false},
			"Voltage": map[string]any{"Used": true, "max": 1},
		},
	})))
	require.NoError(t, node.ConnectAll(dmm))
	assert.True(t, dmm.Offline())

	require.NoError(t, dmm.Measure("VOLT:DC", voltage))
	assert.Equal(t, instrument.DefaultReading, voltage.Value())
	require.NoError(t, dmm.MeasureChannel(2, "VOLT:DC", voltage))

	idn, err := dmm.Identify()
	require.NoError(t, err)
	assert.Equal(t, "DMM (simulated)", idn)
	assert.Empty(t, link.Writes())
}

func TestInstrument_DefaultReading(t *testing.T) {
	dmm := instrument.New("Multimeter", memory.NewTransport("Link"))
	err := node.InitializeAll(dmm, memory.NewTree(map[string]any{
		"Multimeter": map[string]any{"Used": true, "Default": "n/a", "Link": map[string]any{}},
	}))
	assert.Equal(t, domain.MalformedConfig, err)
}
