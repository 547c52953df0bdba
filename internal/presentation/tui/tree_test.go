package tui_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/aretw0/testbench/internal/presentation/tui"
	"github.com/aretw0/testbench/pkg/adapters/memory"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTree(t *testing.T) {
	dmm := node.New("Multimeter", nil, node.New("Link", nil), node.New("Voltage", nil))
	src := node.New("Source", nil, node.New("Link", nil))
	root := node.New("Stand", nil, dmm, src)
	require.NoError(t, node.InitializeAll(root, memory.NewTree(map[string]any{
		"Stand": map[string]any{
			"Used": true,
			"Multimeter": map[string]any{
				"Used":    true,
				"Info":    "Keithley 2010",
				"Link":    map[string]any{"Used": true},
				"Voltage": map[string]any{"Used": false},
			},
			"Source": map[string]any{
				"Used": false,
				"Link": map[string]any{"Used": true},
			},
		},
	})))

	var buf bytes.Buffer
	tui.RenderTree(&buf, root, termenv.Ascii)

	assert.Equal(t, ""+
		"● Stand\n"+
		"├── ● Multimeter  Keithley 2010\n"+
		"│   ├── ● Link\n"+
		"│   └── ○ Voltage\n"+
		"└── ○ Source\n"+
		"    └── ● Link\n", buf.String())
}

func TestRenderReadings(t *testing.T) {
	var buf bytes.Buffer
	tui.RenderReadings(&buf, []tui.Row{
		{Name: "Voltage", Value: "3.300", Units: "V", Valid: true},
		{Name: "Errors", Value: "2", Valid: false},
	}, termenv.Ascii)

	assert.Equal(t, ""+
		"Voltage  3.300 V  ok\n"+
		"Errors   2  out of range\n", buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, termenv.Ascii)
	assert.Contains(t, buf.String(), "|_.__/")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestProfileFor_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, termenv.Ascii, tui.ProfileFor(f))
}
