package memory_test

import (
	"testing"

	"github.com/aretw0/testbench/pkg/adapters/memory"
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_Loopback(t *testing.T) {
	link := memory.NewTransport("Link")

	_, err := link.Write("*IDN?\n")
	assert.Equal(t, domain.InvalidHandle, err)
	_, err = link.Read()
	assert.Equal(t, domain.InvalidHandle, err)

	require.NoError(t, link.Connect())
	assert.True(t, link.Connected())

	n, err := link.Write("*IDN?\n")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	link.QueueReply("KEITHLEY,2010", "1.5")
	reply, err := link.Read()
	require.NoError(t, err)
	assert.Equal(t, "KEITHLEY,2010", reply)
	reply, err = link.Read()
	require.NoError(t, err)
	assert.Equal(t, "1.5", reply)

	_, err = link.Read()
	assert.Equal(t, domain.IOFailure, err)

	require.NoError(t, link.Disconnect())
	assert.False(t, link.Connected())
	assert.Equal(t, []string{"*IDN?\n"}, link.Writes())
}

func TestTransport_CascadeGating(t *testing.T) {
	link := memory.NewTransport("Link")
	root := node.New("Stand", nil, link)
	cfg := memory.NewTree(map[string]any{
		"Stand": map[string]any{
			"Used": true,
			"Link": map[string]any{"Used": false},
		},
	})

	require.NoError(t, node.InitializeAll(root, cfg))
	require.NoError(t, node.ConnectAll(root))
	assert.Zero(t, link.Connects, "inactive transports are not connected")

	cfg = memory.NewTree(map[string]any{
		"Stand": map[string]any{
			"Used": true,
			"Link": map[string]any{"Used": true},
		},
	})
	require.NoError(t, node.InitializeAll(root, cfg))
	link.FailConnect(domain.ConnectionFailed)
	assert.Equal(t, domain.ConnectionFailed, node.ConnectAll(root))
	assert.Equal(t, 1, link.Connects)
	assert.False(t, link.Connected())
}
