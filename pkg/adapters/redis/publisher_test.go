package redis_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/testbench/internal/logging"
	"github.com/aretw0/testbench/pkg/adapters/redis"
	"github.com/aretw0/testbench/pkg/param"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *backend.Client, *redis.Publisher) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client, redis.NewFromClient(client, opts...)
}

func subscribe(t *testing.T, client *backend.Client, channel string) *backend.PubSub {
	t.Helper()
	ctx := context.Background()
	sub := client.Subscribe(ctx, channel)
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	return sub
}

func next(t *testing.T, sub *backend.PubSub) redis.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	var ev redis.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	return ev
}

func TestPublisher_Bounded(t *testing.T) {
	_, client, pub := setup(t, redis.WithPrefix("bench:"))
	assert.Equal(t, "bench:Voltage", pub.Channel("Voltage"))
	sub := subscribe(t, client, "bench:Voltage")

	voltage := param.NewBounded[float64]("Voltage")
	voltage.SetBounds(0, 5)
	redis.WatchBounded(pub, voltage)

	voltage.Set(2.5)
	voltage.Set(7)
	voltage.Reset()

	ev := next(t, sub)
	assert.Equal(t, redis.KindUpdate, ev.Kind)
	assert.Equal(t, 2.5, ev.Value)
	assert.False(t, ev.At.IsZero())

	ev = next(t, sub)
	assert.Equal(t, redis.KindUpdate, ev.Kind)
	assert.Equal(t, 7.0, ev.Value)

	ev = next(t, sub)
	assert.Equal(t, redis.KindViolation, ev.Kind)
	assert.Equal(t, uint64(1), ev.Count)
	assert.Equal(t, "Voltage", ev.Parameter)

	ev = next(t, sub)
	assert.Equal(t, redis.KindClear, ev.Kind)
	assert.Nil(t, ev.Value)

	last, err := pub.Last(context.Background(), "Voltage")
	require.NoError(t, err)
	assert.Equal(t, redis.KindClear, last.Kind)
}

func TestPublisher_Counter(t *testing.T) {
	_, client, pub := setup(t)
	sub := subscribe(t, client, "testbench:Errors")

	errs := param.NewErrorsCounter("Errors")
	pub.WatchCounter(errs)
	errs.Set(3)

	ev := next(t, sub)
	assert.Equal(t, redis.KindUpdate, ev.Kind)
	assert.Equal(t, 3.0, ev.Value)

	ev = next(t, sub)
	assert.Equal(t, redis.KindViolation, ev.Kind)
	assert.Equal(t, uint64(3), ev.Count)
}

func TestPublisher_LastMissing(t *testing.T) {
	_, _, pub := setup(t)
	_, err := pub.Last(context.Background(), "Current")
	assert.ErrorIs(t, err, redis.ErrNoEvent)
}

func TestPublisher_TTL(t *testing.T) {
	mr, _, pub := setup(t, redis.WithTTL(time.Minute))
	require.NoError(t, pub.Publish(context.Background(), redis.Event{Parameter: "Current", Kind: redis.KindUpdate, Value: 1}))

	assert.True(t, mr.Exists("testbench:last:Current"))
	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("testbench:last:Current"))
}

func TestPublisher_FailuresAreLogged(t *testing.T) {
	stats := logging.NewStats(logging.NewHandler(io.Discard, slog.LevelInfo, logging.FormatText))
	mr, _, pub := setup(t,
		redis.WithLogger(slog.New(stats)),
		redis.WithTimeout(200*time.Millisecond),
	)
	mr.Close()

	current := param.New[int]("Current")
	redis.WatchParameter(pub, current)

	assert.Equal(t, 4, current.Set(4), "listeners never fail the notifying parameter")
	assert.Equal(t, uint64(1), stats.Count(slog.LevelError))
}
