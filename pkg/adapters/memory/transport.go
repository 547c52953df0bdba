package memory

import (
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/node"
)

// Transport is an in-process loopback link. It records every write and
// answers reads from a queue of scripted replies, which makes it the
// offline stand-in for a real instrument connection.
type Transport struct {
	*node.Node

	connected   bool
	failConnect error
	writes      []string
	replies     []string

	Connects    int
	Disconnects int
}

// NewTransport composes a loopback transport node.
func NewTransport(name string, children ...node.Component) *Transport {
	t := &Transport{}
	t.Node = node.New(name, t, children...)
	return t
}

// Connect implements node.Connector.
func (t *Transport) Connect() error {
	t.Connects++
	if t.failConnect != nil {
		t.LogFatal("couldn't connect", "error", t.failConnect)
		return t.failConnect
	}
	t.connected = true
	t.LogInfo("connected")
	return nil
}

// Disconnect implements node.Disconnector.
func (t *Transport) Disconnect() error {
	t.Disconnects++
	t.connected = false
	t.LogInfo("disconnected")
	return nil
}

// Connected reports whether the last connect succeeded and was not undone.
func (t *Transport) Connected() bool { return t.connected }

// FailConnect makes every following Connect return err (nil restores success).
func (t *Transport) FailConnect(err error) { t.failConnect = err }

// QueueReply appends replies returned by subsequent reads.
func (t *Transport) QueueReply(replies ...string) {
	t.replies = append(t.replies, replies...)
}

// Writes returns everything written so far.
func (t *Transport) Writes() []string {
	return append([]string(nil), t.writes...)
}

// Write implements ports.Transport.
func (t *Transport) Write(data string) (int, error) {
	if !t.connected {
		return 0, domain.InvalidHandle
	}
	t.writes = append(t.writes, data)
	return len(data), nil
}

// Read implements ports.Transport. It fails with domain.IOFailure when no
// reply is queued.
func (t *Transport) Read() (string, error) {
	if !t.connected {
		return "", domain.InvalidHandle
	}
	if len(t.replies) == 0 {
		t.LogError("no reply available")
		return "", domain.IOFailure
	}
	reply := t.replies[0]
	t.replies = t.replies[1:]
	return reply, nil
}
