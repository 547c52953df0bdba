package testbench

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/testbench/internal/logging"
	"github.com/aretw0/testbench/pkg/adapters/yaml"
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/node"
	"github.com/aretw0/testbench/pkg/ports"
	"github.com/google/uuid"
)

// Bench is the high-level entry point: a composed tree plus the engine
// driving its cascades.
type Bench struct {
	root   node.Component
	engine *node.Engine
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	runID  string
}

// Option defines a functional option for configuring the Bench.
type Option func(*Bench)

// WithLogger sets the structured logger shared by the bench and every node.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bench) {
		b.logger = logger
	}
}

// WithHooks registers per-node visit callbacks for every cascade.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bench) {
		b.hooks = hooks
	}
}

// WithRunID overrides the generated run identifier attached to every log record.
func WithRunID(id string) Option {
	return func(b *Bench) {
		b.runID = id
	}
}

// New wraps the tree rooted at root.
func New(root node.Component, opts ...Option) *Bench {
	b := &Bench{root: root}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if b.runID == "" {
		b.runID = uuid.NewString()
	}
	b.logger = b.logger.With("run_id", b.runID)

	node.AttachLogger(root, b.logger)
	b.engine = node.NewEngine(
		node.WithLogger(b.logger),
		node.WithLifecycleHooks(b.hooks),
	)
	return b
}

// Root returns the composed tree.
func (b *Bench) Root() node.Component { return b.root }

// RunID returns the identifier correlating this bench's log records.
func (b *Bench) RunID() string { return b.runID }

// Load reads a YAML configuration file and runs the initialize cascade with it.
func (b *Bench) Load(path string) error {
	tree, err := yaml.Load(path)
	if err != nil {
		b.logger.Error("failed to load config", "path", path, "error", err)
		return fmt.Errorf("load config: %w", err)
	}
	return b.Initialize(tree)
}

// Initialize runs the initialize cascade. The returned error is the failing
// node's domain.ErrorKind, unwrapped.
func (b *Bench) Initialize(cfg ports.ConfigTree) error {
	return b.run(domain.OpInitialize, func() error {
		return b.engine.InitializeAll(b.root, cfg)
	})
}

// Connect runs the connect cascade. Nodes connected before a failure stay
// connected.
func (b *Bench) Connect() error {
	return b.run(domain.OpConnect, func() error {
		return b.engine.ConnectAll(b.root)
	})
}

// Disconnect runs the disconnect cascade.
func (b *Bench) Disconnect() error {
	return b.run(domain.OpDisconnect, func() error {
		return b.engine.DisconnectAll(b.root)
	})
}

func (b *Bench) run(op domain.Operation, fn func() error) error {
	start := time.Now()
	b.logger.Info("cascade started", "op", op, "nodes", node.Count(b.root))

	if err := fn(); err != nil {
		b.logger.Error("cascade failed", "op", op, "error", err, "duration", time.Since(start))
		return err
	}

	b.logger.Info("cascade finished", "op", op, "duration", time.Since(start))
	return nil
}

// NodeInfo is a read-only view of one node of the tree.
type NodeInfo struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Info   string `json:"info"`
	Active bool   `json:"active"`
	Depth  int    `json:"depth"`
}

// Nodes lists the tree depth-first in declared order. Paths join the names
// from the root with "/".
func (b *Bench) Nodes() []NodeInfo {
	return Snapshot(b.root)
}

// Snapshot lists the tree rooted at root like Bench.Nodes.
func Snapshot(root node.Component) []NodeInfo {
	var out []NodeInfo
	node.WalkPaths(root, func(c node.Component, path string, depth int) bool {
		n := c.Base()
		out = append(out, NodeInfo{
			Path:   path,
			Name:   n.Name(),
			Info:   n.Info(),
			Active: n.Active(),
			Depth:  depth,
		})
		return true
	})
	return out
}
