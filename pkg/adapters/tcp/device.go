// Package tcp provides a line-oriented TCP link to an instrument.
package tcp

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/testbench/pkg/config"
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/aretw0/testbench/pkg/ports"
)

const (
	DefaultAddress = "127.0.0.1"
	DefaultPort    = 3128
	DefaultTimeout = 2 * time.Second
)

// Settings are read from the device's configuration sub-tree.
type Settings struct {
	Address string        `mapstructure:"Address"`
	Port    int           `mapstructure:"Port"`
	Timeout time.Duration `mapstructure:"Timeout"`
	// Offline skips the network entirely: connects succeed, writes are
	// swallowed and reads return an empty reply.
	Offline bool `mapstructure:"Offline"`
}

// Endpoint returns the host:port pair dialled on connect.
func (s Settings) Endpoint() string {
	return net.JoinHostPort(s.Address, strconv.Itoa(s.Port))
}

// Device is a transport node talking to an instrument over TCP.
type Device struct {
	*node.Node

	settings Settings
	conn     net.Conn
	reader   *bufio.Reader
}

var _ ports.Transport = (*Device)(nil)

// New composes a TCP device node.
func New(name string, children ...node.Component) *Device {
	d := &Device{settings: defaults()}
	d.Node = node.New(name, d, children...)
	return d
}

func defaults() Settings {
	return Settings{Address: DefaultAddress, Port: DefaultPort, Timeout: DefaultTimeout}
}

// Settings returns the active connection settings.
func (d *Device) Settings() Settings { return d.settings }

// Initialize implements node.Initializer.
func (d *Device) Initialize(cfg ports.ConfigTree) error {
	s := Settings{Timeout: DefaultTimeout}
	if err := config.Decode(cfg, &s); err != nil {
		d.LogFatal("invalid connection settings", "error", err)
		return err
	}
	// The port is only taken from the configuration together with an address.
	if s.Address == "" {
		s.Address, s.Port = DefaultAddress, DefaultPort
	} else if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	d.settings = s
	d.LogDebug("configured", "endpoint", s.Endpoint(), "offline", s.Offline)
	return nil
}

// Connect implements node.Connector.
func (d *Device) Connect() error {
	if d.settings.Offline {
		d.LogInfo("offline mode, not connecting")
		return nil
	}
	if d.conn != nil {
		d.close()
	}

	endpoint := d.settings.Endpoint()
	conn, err := net.DialTimeout("tcp", endpoint, d.settings.Timeout)
	if err != nil {
		d.LogFatal("couldn't connect", "endpoint", endpoint, "error", err)
		return domain.ConnectionFailed
	}
	d.conn = conn
	d.reader = bufio.NewReader(conn)
	d.LogInfo("connected", "endpoint", endpoint)
	return nil
}

// Disconnect implements node.Disconnector.
func (d *Device) Disconnect() error {
	if d.conn == nil {
		return nil
	}
	if err := d.close(); err != nil {
		d.LogError("close failed", "error", err)
		return domain.IOFailure
	}
	d.LogInfo("disconnected")
	return nil
}

func (d *Device) close() error {
	err := d.conn.Close()
	d.conn, d.reader = nil, nil
	return err
}

// Connected reports whether a socket is open.
func (d *Device) Connected() bool { return d.conn != nil }

// Write implements ports.Transport.
func (d *Device) Write(data string) (int, error) {
	if !d.Active() || d.settings.Offline {
		return len(data), nil
	}
	if d.conn == nil {
		d.LogError("write on a closed link")
		return 0, domain.InvalidHandle
	}
	if err := d.conn.SetWriteDeadline(time.Now().Add(d.settings.Timeout)); err != nil {
		d.LogWarning("couldn't set write deadline", "error", err)
	}
	n, err := d.conn.Write([]byte(data))
	if err != nil {
		d.LogError("write failed", "error", err)
		return n, domain.IOFailure
	}
	d.LogTrace("sent", "data", strings.TrimSpace(data))
	return n, nil
}

// Read implements ports.Transport. It returns one reply line without its
// terminator.
func (d *Device) Read() (string, error) {
	if !d.Active() || d.settings.Offline {
		return "", nil
	}
	if d.conn == nil {
		d.LogError("read on a closed link")
		return "", domain.InvalidHandle
	}
	if err := d.conn.SetReadDeadline(time.Now().Add(d.settings.Timeout)); err != nil {
		d.LogWarning("couldn't set read deadline", "error", err)
	}
	line, err := d.reader.ReadString('\n')
	if err != nil {
		d.LogError("read failed", "error", err)
		return "", domain.IOFailure
	}
	line = strings.TrimRight(line, "\r\n")
	d.LogTrace("received", "data", line)
	return line, nil
}
