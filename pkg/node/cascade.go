package node

import (
	"log/slog"
	"time"

	"github.com/aretw0/testbench/internal/logging"
	"github.com/aretw0/testbench/pkg/config"
	"github.com/aretw0/testbench/pkg/domain"
	"github.com/aretw0/testbench/pkg/ports"
)

// Engine runs the lifecycle cascades. Its zero value is not usable; build
// it with NewEngine. An Engine holds no per-tree state and may drive any
// number of trees, one cascade at a time.
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for cascade-level messages.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers visit callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates a cascade engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e
}

var defaultEngine = NewEngine()

// InitializeAll runs the initialize cascade with a default engine.
func InitializeAll(c Component, cfg ports.ConfigTree) error {
	return defaultEngine.InitializeAll(c, cfg)
}

// ConnectAll runs the connect cascade with a default engine.
func ConnectAll(c Component) error {
	return defaultEngine.ConnectAll(c)
}

// DisconnectAll runs the disconnect cascade with a default engine.
func DisconnectAll(c Component) error {
	return defaultEngine.DisconnectAll(c)
}

// InitializeAll loads c's activation and info from the sub-tree of cfg named
// after c, runs c's Initialize hook if c is used, then initializes every child
// against that sub-tree. It returns domain.MalformedConfig when cfg or the
// sub-tree is missing, and otherwise the first hook error, unchanged.
func (e *Engine) InitializeAll(c Component, cfg ports.ConfigTree) error {
	e.logger.Debug("initialize cascade", "root", c.Base().name)
	return e.initialize(c, cfg, 0)
}

// ConnectAll runs the Connect hook of every used node, parents before
// children. The first failure stops the cascade; nodes already connected
// stay connected.
func (e *Engine) ConnectAll(c Component) error {
	e.logger.Debug("connect cascade", "root", c.Base().name)
	return e.cascade(domain.OpConnect, c, 0)
}

// DisconnectAll runs the Disconnect hook of every used node, parents before
// children, with the same failure semantics as ConnectAll.
func (e *Engine) DisconnectAll(c Component) error {
	e.logger.Debug("disconnect cascade", "root", c.Base().name)
	return e.cascade(domain.OpDisconnect, c, 0)
}

func (e *Engine) initialize(c Component, cfg ports.ConfigTree, depth int) (err error) {
	n := c.Base()
	ev := e.enter(domain.OpInitialize, n, depth)
	var own error
	defer func() { e.leave(ev, n, own, err) }()

	if cfg == nil {
		n.LogFatal("configuration is absent")
		own = domain.MalformedConfig
		return own
	}
	sub, ok := cfg.Child(n.name)
	if !ok || sub == nil {
		n.LogFatal("configuration sub-tree not found")
		own = domain.MalformedConfig
		return own
	}

	used, own := config.Bool(sub, domain.KeyUsed, false)
	if own != nil {
		n.LogFatal("attribute is not a boolean", "attr", domain.KeyUsed)
		return own
	}
	info, own := config.String(sub, domain.KeyInfo, n.name)
	if own != nil {
		n.LogFatal("attribute is not a string", "attr", domain.KeyInfo)
		return own
	}
	n.active = used
	n.info = info
	n.LogTrace("configured", "used", used, "info", info)

	if n.active {
		ev.Hooked = n.caps.Initialize.Present()
		if own = n.caps.Initialize.Call(sub); own != nil {
			n.LogError("initialize failed", "error", own)
			return own
		}
	}

	for _, child := range n.children {
		if err := e.initialize(child, sub, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) cascade(op domain.Operation, c Component, depth int) (err error) {
	n := c.Base()
	ev := e.enter(op, n, depth)
	var own error
	defer func() { e.leave(ev, n, own, err) }()

	if n.active {
		hook := n.caps.Connect
		if op == domain.OpDisconnect {
			hook = n.caps.Disconnect
		}
		ev.Hooked = hook.Present()
		if own = hook.Call(); own != nil {
			n.LogError(string(op)+" failed", "error", own)
			return own
		}
		if ev.Hooked {
			n.LogTrace(string(op) + " done")
		}
	}

	for _, child := range n.children {
		if err := e.cascade(op, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) enter(op domain.Operation, n *Node, depth int) *domain.VisitEvent {
	ev := &domain.VisitEvent{
		Timestamp: time.Now(),
		Op:        op,
		Node:      n.name,
		Depth:     depth,
		Active:    n.active,
	}
	if e.hooks.OnEnter != nil {
		e.hooks.OnEnter(ev)
	}
	return ev
}

// leave reports own as the node's error; a failure below the node only marks
// the visit as aborted.
func (e *Engine) leave(ev *domain.VisitEvent, n *Node, own, err error) {
	if e.hooks.OnLeave == nil {
		return
	}
	out := *ev
	out.Timestamp = time.Now()
	out.Active = n.active
	out.Err = own
	out.Aborted = own == nil && err != nil
	e.hooks.OnLeave(&out)
}
