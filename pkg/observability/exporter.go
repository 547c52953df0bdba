package observability

import (
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/aretw0/testbench/pkg/param"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "testbench"

// Number is the set of parameter types that can be exported as a gauge.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Exporter owns the bench metrics.
type Exporter struct {
	values     *prometheus.GaugeVec
	violations *prometheus.CounterVec
	active     *prometheus.GaugeVec
	visits     *prometheus.CounterVec
}

// NewExporter creates the metrics and registers them on reg.
func NewExporter(reg prometheus.Registerer) (*Exporter, error) {
	e := &Exporter{
		values: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "parameter",
				Name:      "value",
				Help:      "Current value of a parameter",
			},
			[]string{"parameter", "units"},
		),
		violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "parameter",
				Name:      "violations_total",
				Help:      "Out-of-range assignments and counted errors per parameter",
			},
			[]string{"parameter"},
		),
		active: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "node",
				Name:      "active",
				Help:      "Node activation after the last initialize cascade (0=unused, 1=used)",
			},
			[]string{"node"},
		),
		visits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "node",
				Name:      "visits_total",
				Help:      "Node visits per cascade operation and outcome",
			},
			[]string{"op", "node", "status"},
		),
	}

	for _, c := range []prometheus.Collector{e.values, e.violations, e.active, e.visits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// WatchParameter mirrors p into the value gauge.
func WatchParameter[T Number](e *Exporter, p *param.Parameter[T]) {
	e.watch(p.Name(), p.Units, func(fn func(float64)) {
		p.OnUpdate(func(v T) { fn(float64(v)) })
	}, p.OnClear)
}

// WatchBounded mirrors p into the value gauge and counts its violations.
func WatchBounded[T Number](e *Exporter, p *param.Bounded[T]) {
	WatchParameter(e, p.Parameter)
	counter := e.violations.WithLabelValues(p.Name())
	p.OnViolation(func(uint64) { counter.Inc() })
}

// WatchCounter mirrors the running total of c and counts every non-zero increment.
func (e *Exporter) WatchCounter(c *param.ErrorsCounter) {
	WatchParameter(e, c.Parameter)
	counter := e.violations.WithLabelValues(c.Name())
	c.OnViolation(func(uint64) { counter.Inc() })
}

func (e *Exporter) watch(name string, units func() string, onUpdate func(func(float64)), onClear func(func())) {
	onUpdate(func(v float64) {
		e.values.WithLabelValues(name, units()).Set(v)
	})
	onClear(func() {
		e.values.WithLabelValues(name, units()).Set(0)
	})
}

// RecordNodes sets the activation gauge of every node under root, keyed by
// node path.
func (e *Exporter) RecordNodes(root node.Component) {
	node.WalkPaths(root, func(c node.Component, path string, _ int) bool {
		v := 0.0
		if c.Base().Active() {
			v = 1
		}
		e.active.WithLabelValues(path).Set(v)
		return true
	})
}

// Hooks returns lifecycle hooks counting node visits per operation. A failure
// is counted on the failing node only; its ancestors count as "aborted".
func (e *Exporter) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLeave: func(ev *domain.VisitEvent) {
			status := "ok"
			switch {
			case ev.Err != nil:
				status = domain.KindOf(ev.Err).String()
			case ev.Aborted:
				status = "aborted"
			}
			e.visits.WithLabelValues(string(ev.Op), ev.Node, status).Inc()
		},
	}
}
