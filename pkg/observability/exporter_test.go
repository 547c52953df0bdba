package observability

import (
	"testing"

	"github.com/aretw0/testbench/pkg/adapters/memory"
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/aretw0/testbench/pkg/param"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExporter(t *testing.T) (*Exporter, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	e, err := NewExporter(reg)
	require.NoError(t, err)
	return e, reg
}

func TestNewExporter_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewExporter(reg)
	require.NoError(t, err)
	_, err = NewExporter(reg)
	assert.Error(t, err)
}

func TestWatchBounded(t *testing.T) {
	e, _ := newExporter(t)
	voltage := param.NewBounded[float64]("Voltage")
	voltage.SetBounds(0, 5)
	WatchBounded(e, voltage)

	voltage.Set(3.3)
	assert.Equal(t, 3.3, testutil.ToFloat64(e.values.WithLabelValues("Voltage", "")))

	voltage.Set(9)
	voltage.Set(-1)
	assert.Equal(t, -1.0, testutil.ToFloat64(e.values.WithLabelValues("Voltage", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.violations.WithLabelValues("Voltage")))

	voltage.Reset()
	assert.Equal(t, 0.0, testutil.ToFloat64(e.values.WithLabelValues("Voltage", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.violations.WithLabelValues("Voltage")), "violations_total survives Reset")
}

func TestWatchParameter_Units(t *testing.T) {
	e, _ := newExporter(t)
	current := param.New[int32]("Current")
	require.NoError(t, node.InitializeAll(current, memory.NewTree(map[string]any{
		"Current": map[string]any{"Used": true, "Units": "mA"},
	})))
	WatchParameter(e, current)

	current.Set(12)
	assert.Equal(t, 12.0, testutil.ToFloat64(e.values.WithLabelValues("Current", "mA")))
}

func TestWatchCounter(t *testing.T) {
	e, _ := newExporter(t)
	errs := param.NewErrorsCounter("Errors")
	e.WatchCounter(errs)

	errs.Set(3)
	errs.Set(0)
	errs.Set(2)
	assert.Equal(t, 5.0, testutil.ToFloat64(e.values.WithLabelValues("Errors", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.violations.WithLabelValues("Errors")))
}

func TestRecordNodesAndHooks(t *testing.T) {
	e, reg := newExporter(t)
	link := memory.NewTransport("Link")
	dmm := node.New("DMM", nil, link)
	root := node.New("Stand", nil, dmm)

	engine := node.NewEngine(node.WithLifecycleHooks(e.Hooks()))
	require.NoError(t, engine.InitializeAll(root, memory.NewTree(map[string]any{
		"Stand": map[string]any{
			"Used": true,
			"DMM": map[string]any{
				"Used": false,
				"Link": map[string]any{"Used": true},
			},
		},
	})))
	e.RecordNodes(root)

	assert.Equal(t, 1.0, testutil.ToFloat64(e.active.WithLabelValues("Stand")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.active.WithLabelValues("Stand/DMM")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.active.WithLabelValues("Stand/DMM/Link")))

	link.FailConnect(domain.ConnectionFailed)
	assert.Equal(t, domain.ConnectionFailed, engine.ConnectAll(root))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.visits.WithLabelValues("initialize", "Link", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.visits.WithLabelValues("connect", "Link", "connection failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.visits.WithLabelValues("connect", "DMM", "aborted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.visits.WithLabelValues("connect", "Stand", "aborted")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.visits.WithLabelValues("connect", "Stand", "connection failed")))

	count, err := testutil.GatherAndCount(reg, "testbench_node_active")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
