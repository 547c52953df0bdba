package tcp

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/aretw0/testbench/internal/logging"
	"github.com/aretw0/testbench/pkg/adapters/memory"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noDeadlineConn is a connection whose deadlines cannot be set.
type noDeadlineConn struct {
	net.Conn
}

func (noDeadlineConn) SetReadDeadline(time.Time) error  { return errors.New("deadlines unsupported") }
func (noDeadlineConn) SetWriteDeadline(time.Time) error { return errors.New("deadlines unsupported") }

func TestDevice_DeadlineFailuresAreLogged(t *testing.T) {
	d := New("Link")
	require.NoError(t, node.InitializeAll(d, memory.NewTree(map[string]any{
		"Link": map[string]any{"Used": true, "Address": "127.0.0.1"},
	})))
	stats := logging.NewStats(logging.NewHandler(io.Discard, slog.LevelDebug, logging.FormatText))
	node.AttachLogger(d, slog.New(stats))

	local, remote := net.Pipe()
	t.Cleanup(func() {
		local.Close()
		remote.Close()
	})
	go func() {
		r := bufio.NewReader(remote)
		if _, err := r.ReadString('\n'); err == nil {
			remote.Write([]byte("ok\r\n"))
		}
	}()

	conn := noDeadlineConn{local}
	d.conn, d.reader = conn, bufio.NewReader(conn)

	n, err := d.Write("*OPC?\n")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	reply, err := d.Read()
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)

	assert.Equal(t, uint64(2), stats.Count(slog.LevelWarn))
	assert.Zero(t, stats.Count(slog.LevelError))
}
