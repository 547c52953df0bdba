package domain

import "time"

// Operation names one of the cascading lifecycle operations.
type Operation string

const (
	OpInitialize Operation = "initialize"
	OpConnect    Operation = "connect"
	OpDisconnect Operation = "disconnect"
)

// VisitEvent describes one node visited by a cascade.
type VisitEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Op        Operation `json:"op"`
	Node      string    `json:"node"`
	Depth     int       `json:"depth"`
	Active    bool      `json:"active"`
	// Hooked is true when the node's own override ran (active and present).
	Hooked bool `json:"hooked"`
	// Err is the node's own failure: its configuration or its hook.
	Err error `json:"-"`
	// Aborted is true when the node succeeded but a descendant failed and
	// stopped the cascade.
	Aborted bool `json:"aborted"`
}

// LifecycleHooks defines callbacks for cascade observability.
// OnEnter fires before a node's override is considered, OnLeave after the
// node and its whole subtree have been processed (or the first failure).
type LifecycleHooks struct {
	OnEnter func(*VisitEvent)
	OnLeave func(*VisitEvent)
}
