// Package instrument implements SCPI instruments on top of a transport node.
package instrument

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/testbench/pkg/config"
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/aretw0/testbench/pkg/param"
	"github.com/aretw0/testbench/pkg/ports"
)

// Terminator ends every command sent to an instrument.
const Terminator = "\n"

// DefaultReading is what an offline instrument measures unless configured.
const DefaultReading = 0.1

// Configuration attributes of an instrument.
const (
	KeyOffline = "Offline"
	KeyDefault = "Default"
)

// Link is a transport that can be composed into the tree.
type Link interface {
	node.Component
	ports.Transport
}

// Instrument is a SCPI device reached through its link. The link is the
// first child, so it is initialized and connected before anything the
// instrument owns.
type Instrument struct {
	*node.Node

	link     Link
	idn      string
	offline  bool
	fallback float64
}

// New composes an instrument named name talking through link. Further
// children (usually parameters) follow the link in traversal order.
func New(name string, link Link, children ...node.Component) *Instrument {
	i := &Instrument{link: link, fallback: DefaultReading}
	i.Node = node.New(name, i, append([]node.Component{link}, children...)...)
	return i
}

// Link returns the transport the instrument talks through.
func (i *Instrument) Link() Link { return i.link }

// Identity returns the last reply to Identify.
func (i *Instrument) Identity() string { return i.idn }

// Initialize implements node.Initializer. An offline instrument answers
// every measurement with its Default reading and never touches the link.
func (i *Instrument) Initialize(cfg ports.ConfigTree) error {
	offline, err := config.Bool(cfg, KeyOffline, false)
	if err != nil {
		i.LogFatal("attribute is not a boolean", "attr", KeyOffline)
		return err
	}
	fallback, err := config.Value(cfg, KeyDefault, DefaultReading)
	if err != nil {
		i.LogFatal("attribute is not a number", "attr", KeyDefault)
		return err
	}
	i.offline, i.fallback = offline, fallback
	return nil
}

// Offline reports whether measurements are simulated.
func (i *Instrument) Offline() bool { return i.offline }

// Connect implements node.Connector. It runs before the link is connected,
// so it must not talk to the instrument.
func (i *Instrument) Connect() error {
	i.LogDebug("ready", "info", i.Info())
	return nil
}

// Write sends a command, appending the terminator when missing.
func (i *Instrument) Write(cmd string) error {
	if !strings.HasSuffix(cmd, Terminator) {
		cmd += Terminator
	}
	if _, err := i.link.Write(cmd); err != nil {
		i.LogError("write failed", "command", strings.TrimSpace(cmd), "error", err)
		return err
	}
	return nil
}

// Query sends cmd and returns the reply.
func (i *Instrument) Query(cmd string) (string, error) {
	if err := i.Write(cmd); err != nil {
		return "", err
	}
	reply, err := i.link.Read()
	if err != nil {
		i.LogError("no reply", "command", cmd, "error", err)
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// Identify asks the instrument for its identification string. Offline
// instruments identify with their info text.
func (i *Instrument) Identify() (string, error) {
	if i.offline {
		i.idn = i.Info()
		return i.idn, nil
	}
	idn, err := i.Query("*IDN?")
	if err != nil {
		return "", err
	}
	i.idn = idn
	i.LogInfo("identified", "idn", idn)
	return idn, nil
}

// SetChannel closes scanner channel ch.
func (i *Instrument) SetChannel(ch uint8) error {
	return i.Write(fmt.Sprintf(":ROUT:CLOS (@ %d)", ch))
}

// MeasureChannel selects channel ch, then measures like Measure.
func (i *Instrument) MeasureChannel(ch uint8, function string, p *param.Bounded[float64]) error {
	if !p.Active() {
		return nil
	}
	if !i.offline {
		if err := i.SetChannel(ch); err != nil {
			return err
		}
	}
	return i.Measure(function, p)
}

// Measure triggers a measurement of function (for example "VOLT:DC") and
// stores the result in p.
func (i *Instrument) Measure(function string, p *param.Bounded[float64]) error {
	return i.read(":MEAS:"+function+"?", p)
}

// Read fetches the last reading without triggering a new one and stores it in p.
func (i *Instrument) Read(p *param.Bounded[float64]) error {
	return i.read(":READ?", p)
}

func (i *Instrument) read(cmd string, p *param.Bounded[float64]) error {
	if !p.Active() {
		return nil
	}
	if i.offline {
		p.Set(i.fallback)
		return nil
	}
	reply, err := i.Query(cmd)
	if err != nil {
		return err
	}
	v, err := parseReading(reply)
	if err != nil {
		i.LogError("unparseable reading", "reply", reply, "parameter", p.Name())
		return domain.InvalidValue
	}
	p.Set(v)
	return nil
}

// parseReading accepts a bare number or the first field of a
// comma-separated reading.
func parseReading(reply string) (float64, error) {
	field, _, _ := strings.Cut(reply, ",")
	return strconv.ParseFloat(strings.TrimSpace(field), 64)
}
