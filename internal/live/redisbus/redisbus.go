// Package redisbus relays live-update notifications between server replicas
// over Redis pub/sub.
//
// Only the (tenant, resource) pair travels over the bus. Each replica reloads
// the snapshot through its own guard and fans it out to its local subscribers.
package redisbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mmynk/petpals/internal/live"
	"github.com/mmynk/petpals/internal/metrics"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "petpals:live"

// Event is the wire form of one change notification.
type Event struct {
	Origin   string `cbor:"1,keyasint"`
	TenantID string `cbor:"2,keyasint"`
	Resource string `cbor:"3,keyasint"`
}

var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("redisbus: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("redisbus: CBOR decoder initialization failed: " + err.Error())
	}
}

// FanOuter delivers a locally loaded snapshot to local subscribers.
// *live.Hub implements it.
type FanOuter interface {
	FanOut(ctx context.Context, tenantID string, resource live.Resource) int
}

// Bus publishes and consumes change notifications on one Redis channel.
type Bus struct {
	client  *redis.Client
	channel string
	origin  string
	metrics *metrics.Metrics
}

var _ live.Broadcaster = (*Bus)(nil)

// New connects to Redis at addr and returns a Bus with a fresh origin id.
func New(ctx context.Context, addr, channel string, m *metrics.Metrics) (*Bus, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newBus(client, channel, uuid.New().String(), m), nil
}

func newBus(client *redis.Client, channel, origin string, m *metrics.Metrics) *Bus {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Bus{
		client:  client,
		channel: channel,
		origin:  origin,
		metrics: m,
	}
}

// Origin returns this replica's id.
func (b *Bus) Origin() string {
	return b.origin
}

// Publish announces a change for (tenantID, resource) to the other replicas.
func (b *Bus) Publish(ctx context.Context, tenantID string, resource live.Resource) error {
	payload, err := encodeEvent(Event{
		Origin:   b.origin,
		TenantID: tenantID,
		Resource: string(resource),
	})
	if err != nil {
		return err
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish live event: %w", err)
	}
	b.metrics.RecordBusEvent("published")
	return nil
}

// Run subscribes to the channel and fans out every foreign event locally
// until ctx is done.
func (b *Bus) Run(ctx context.Context, target FanOuter) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}
	slog.Info("Live bus subscribed", "channel", b.channel, "origin", b.origin)

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := b.handle(ctx, []byte(msg.Payload), target); err != nil {
				slog.Warn("Dropping live bus event", "channel", b.channel, "error", err)
			}
		}
	}
}

// Close releases the Redis client.
func (b *Bus) Close() error {
	return b.client.Close()
}

func (b *Bus) handle(ctx context.Context, payload []byte, target FanOuter) error {
	ev, err := decodeEvent(payload)
	if err != nil {
		return err
	}
	if ev.Origin == b.origin {
		return nil
	}

	resource, err := live.ParseResource(ev.Resource)
	if err != nil {
		return err
	}
	if ev.TenantID == "" {
		return fmt.Errorf("live event from %s has no tenant", ev.Origin)
	}

	b.metrics.RecordBusEvent("received")
	target.FanOut(ctx, ev.TenantID, resource)
	return nil
}

func encodeEvent(ev Event) ([]byte, error) {
	data, err := encMode.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to encode live event: %w", err)
	}
	return data, nil
}

func decodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := decMode.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("failed to decode live event: %w", err)
	}
	return ev, nil
}
