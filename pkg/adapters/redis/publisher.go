// Package redis publishes parameter events to Redis.
package redis

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/testbench/internal/logging"
	"github.com/aretw0/testbench/pkg/param"
	backend "github.com/redis/go-redis/v9"
)

// ErrNoEvent is returned by Last when nothing was recorded for a parameter.
var ErrNoEvent = errors.New("no event recorded")

// Event kinds.
const (
	KindUpdate    = "update"
	KindClear     = "clear"
	KindViolation = "violation"
)

// Event is the JSON payload published for every parameter notification.
type Event struct {
	Parameter string    `json:"parameter"`
	Kind      string    `json:"kind"`
	Value     any       `json:"value,omitempty"`
	Units     string    `json:"units,omitempty"`
	Count     uint64    `json:"count,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher sends events on channel <prefix><parameter> and keeps the last
// event of each parameter under <prefix>last:<parameter>.
type Publisher struct {
	client  *backend.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*Publisher)

// WithPrefix sets the channel and key prefix.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithTTL sets the expiration of the stored last events.
func WithTTL(ttl time.Duration) Option {
	return func(p *Publisher) {
		p.ttl = ttl
	}
}

// WithTimeout bounds each round trip to Redis.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		p.timeout = d
	}
}

// WithLogger sets the logger receiving publish failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New creates a publisher connected to address.
func New(address, password string, db int, opts ...Option) *Publisher {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a publisher from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		prefix:  "testbench:",
		ttl:     0, // No expiration by default
		timeout: time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Channel returns the channel events of parameter name are published on.
func (p *Publisher) Channel(name string) string {
	return p.prefix + name
}

func (p *Publisher) lastKey(name string) string {
	return p.prefix + "last:" + name
}

// Publish sends ev and records it as the parameter's last event.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	pipe := p.client.TxPipeline()
	pipe.Publish(ctx, p.Channel(ev.Parameter), data)
	pipe.Set(ctx, p.lastKey(ev.Parameter), data, p.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Last returns the most recent event recorded for parameter name.
func (p *Publisher) Last(ctx context.Context, name string) (Event, error) {
	var ev Event
	data, err := p.client.Get(ctx, p.lastKey(name)).Bytes()
	if errors.Is(err, backend.Nil) {
		return ev, ErrNoEvent
	}
	if err != nil {
		return ev, fmt.Errorf("failed to load event: %w", err)
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return ev, nil
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// emit runs inside parameter listeners, which cannot fail.
func (p *Publisher) emit(ev Event) {
	if err := p.Publish(context.Background(), ev); err != nil {
		p.logger.Error("publish failed", "parameter", ev.Parameter, "kind", ev.Kind, "error", err)
	}
}

// WatchParameter publishes every update and clear of prm.
func WatchParameter[T any](p *Publisher, prm *param.Parameter[T]) {
	prm.OnUpdate(func(v T) {
		p.emit(Event{Parameter: prm.Name(), Kind: KindUpdate, Value: v, Units: prm.Units()})
	})
	prm.OnClear(func() {
		p.emit(Event{Parameter: prm.Name(), Kind: KindClear, Units: prm.Units()})
	})
}

// WatchBounded publishes updates, clears and violations of prm.
func WatchBounded[T cmp.Ordered](p *Publisher, prm *param.Bounded[T]) {
	WatchParameter(p, prm.Parameter)
	prm.OnViolation(func(n uint64) {
		p.emit(Event{Parameter: prm.Name(), Kind: KindViolation, Value: prm.Value(), Units: prm.Units(), Count: n})
	})
}

// WatchCounter publishes the running total of c and every non-zero increment.
func (p *Publisher) WatchCounter(c *param.ErrorsCounter) {
	WatchParameter(p, c.Parameter)
	c.OnViolation(func(total uint64) {
		p.emit(Event{Parameter: c.Name(), Kind: KindViolation, Value: total, Count: total})
	})
}
