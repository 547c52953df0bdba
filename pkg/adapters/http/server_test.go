package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/testbench/pkg/adapters/memory"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/aretw0/testbench/pkg/observability"
	"github.com/aretw0/testbench/pkg/param"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bench struct {
	root    *node.Node
	voltage *param.Bounded[float64]
	errs    *param.ErrorsCounter
}

func newBench(t *testing.T) bench {
	t.Helper()
	b := bench{
		voltage: param.NewBounded[float64]("Voltage"),
		errs:    param.NewErrorsCounter("Errors"),
	}
	b.root = node.New("Stand", nil, b.voltage, b.errs)
	require.NoError(t, node.InitializeAll(b.root, memory.NewTree(map[string]any{
		"Stand": map[string]any{
			"Used":    true,
			"Voltage": map[string]any{"Used": true, "Units": "V", "min": 0, "max": 5},
			"Errors":  map[string]any{"Used": false},
		},
	})))
	return b
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_Nodes(t *testing.T) {
	b := newBench(t)
	snap := NewSnapshot()
	snap.RecordNodes(b.root)
	h := NewHandler(snap, nil)

	w := get(t, h, "/nodes")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var nodes []NodeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nodes))
	assert.Equal(t, []NodeView{
		{Path: "Stand", Info: "Stand", Active: true},
		{Path: "Stand/Voltage", Info: "Voltage", Active: true},
		{Path: "Stand/Errors", Info: "Errors", Active: false},
	}, nodes)
}

func TestHandler_Parameters(t *testing.T) {
	b := newBench(t)
	snap := NewSnapshot()
	WatchBounded(snap, b.voltage)
	snap.WatchCounter(b.errs)
	h := NewHandler(snap, nil)

	b.voltage.Set(7.5)
	b.errs.Set(2)

	w := get(t, h, "/parameters")
	require.Equal(t, http.StatusOK, w.Code)
	var readings []Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readings))
	require.Len(t, readings, 2)

	assert.Equal(t, "Voltage", readings[0].Name)
	assert.Equal(t, 7.5, readings[0].Value)
	assert.Equal(t, "V", readings[0].Units)
	assert.False(t, readings[0].Valid)
	assert.Equal(t, uint64(1), readings[0].Violations)

	assert.Equal(t, "Errors", readings[1].Name)
	assert.Equal(t, 2.0, readings[1].Value)
	assert.False(t, readings[1].Valid)

	b.voltage.Reset()
	w = get(t, h, "/parameters/Voltage")
	require.Equal(t, http.StatusOK, w.Code)
	var one Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	assert.Equal(t, 0.0, one.Value)
	assert.True(t, one.Valid)
	assert.Zero(t, one.Violations)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/parameters/Current").Code)
}

func TestHandler_Metrics(t *testing.T) {
	b := newBench(t)
	reg := prometheus.NewRegistry()
	exp, err := observability.NewExporter(reg)
	require.NoError(t, err)
	observability.WatchBounded(exp, b.voltage)
	b.voltage.Set(3)

	h := NewHandler(NewSnapshot(), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	w := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `testbench_parameter_value{parameter="Voltage",units="V"} 3`))

	assert.Equal(t, http.StatusNotFound, get(t, NewHandler(NewSnapshot(), nil), "/metrics").Code)
}

func TestSnapshot_ConcurrentReaders(t *testing.T) {
	b := newBench(t)
	snap := NewSnapshot()
	WatchBounded(snap, b.voltage)
	h := NewHandler(snap, nil)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				assert.Equal(t, http.StatusOK, get(t, h, "/parameters").Code)
			}
		}()
	}
	for i := range 200 {
		b.voltage.Set(float64(i % 10))
	}
	wg.Wait()
}
