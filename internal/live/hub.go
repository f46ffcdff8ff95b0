package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mmynk/petpals/internal/metrics"
)

// Hub connects the registry to a snapshot loader. It is the process-wide
// notifier that guarded writes report to.
type Hub struct {
	registry    *Registry
	loader      Loader
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	now         func() time.Time
	seq         atomic.Uint64
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithBroadcaster forwards every Notify to other replicas.
func WithBroadcaster(b Broadcaster) HubOption {
	return func(h *Hub) { h.broadcaster = b }
}

// WithMetrics records subscriber and push metrics.
func WithMetrics(m *metrics.Metrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) HubOption {
	return func(h *Hub) { h.now = now }
}

// NewHub creates a Hub backed by loader.
func NewHub(loader Loader, opts ...HubOption) *Hub {
	h := &Hub{
		registry: NewRegistry(),
		loader:   loader,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetBroadcaster installs b after construction. The Redis bus needs the hub
// to exist before it can be built.
func (h *Hub) SetBroadcaster(b Broadcaster) {
	h.broadcaster = b
}

// Registry exposes the underlying subscriber registry.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Snapshot loads the current snapshot for a key.
func (h *Hub) Snapshot(ctx context.Context, tenantID string, resource Resource) (Snapshot, error) {
	seq := h.seq.Add(1)
	data, err := h.loader.Load(ctx, tenantID, resource)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load %s snapshot for %s: %w", resource, tenantID, err)
	}
	return Snapshot{
		TenantID: tenantID,
		Resource: resource,
		Data:     data,
		TakenAt:  h.now(),
		Seq:      seq,
	}, nil
}

// Register subscribes sink to (tenantID, resource) and immediately delivers
// the current snapshot. If that first push fails the subscription is removed
// and the error returned.
func (h *Hub) Register(ctx context.Context, tenantID string, resource Resource, sink Sink) (*Subscription, error) {
	if !resource.Valid() {
		return nil, fmt.Errorf("unknown resource %q", resource)
	}

	sub := h.registry.Add(Key{TenantID: tenantID, Resource: resource}, sink)
	h.metrics.SubscriberAdded(string(resource))

	snap, err := h.Snapshot(ctx, tenantID, resource)
	if err != nil {
		h.Deregister(sub)
		return nil, err
	}
	if err := sink.Deliver(snap); err != nil {
		h.Deregister(sub)
		return nil, fmt.Errorf("failed to deliver initial snapshot: %w", err)
	}
	h.metrics.RecordPush(string(resource), metrics.TriggerRegister)

	slog.Debug("Live subscriber registered",
		"org_id", tenantID,
		"resource", resource,
		"subscription_id", sub.ID(),
	)
	return sub, nil
}

// Deregister removes sub. Calling it more than once is safe.
func (h *Hub) Deregister(sub *Subscription) {
	if h.registry.Remove(sub) {
		h.metrics.SubscriberRemoved(string(sub.key.Resource))
		slog.Debug("Live subscriber deregistered",
			"org_id", sub.key.TenantID,
			"resource", sub.key.Resource,
			"subscription_id", sub.ID(),
		)
	}
}

// Notify pushes a fresh snapshot to every local subscriber of the key and,
// when a broadcaster is configured, tells the other replicas to do the same.
// Failures are logged and never returned: the caller's write already
// committed.
func (h *Hub) Notify(ctx context.Context, tenantID string, resource Resource) {
	h.FanOut(ctx, tenantID, resource)

	if h.broadcaster == nil {
		return
	}
	if err := h.broadcaster.Publish(ctx, tenantID, resource); err != nil {
		slog.Warn("Live broadcast failed",
			"org_id", tenantID,
			"resource", resource,
			"error", err,
		)
	}
}

// FanOut delivers one freshly loaded snapshot to every local subscriber of
// the key and returns how many accepted it. A subscriber whose sink fails is
// deregistered; the others still receive the snapshot.
func (h *Hub) FanOut(ctx context.Context, tenantID string, resource Resource) int {
	subs := h.registry.Subscribers(Key{TenantID: tenantID, Resource: resource})
	if len(subs) == 0 {
		return 0
	}

	snap, err := h.Snapshot(ctx, tenantID, resource)
	if err != nil {
		slog.Error("Live fan-out failed", "org_id", tenantID, "resource", resource, "error", err)
		return 0
	}

	delivered := 0
	for _, sub := range subs {
		if err := sub.sink.Deliver(snap); err != nil {
			h.metrics.RecordDeliveryFailure(string(resource))
			slog.Info("Dropping live subscriber",
				"org_id", tenantID,
				"resource", resource,
				"subscription_id", sub.ID(),
				"error", err,
			)
			h.Deregister(sub)
			continue
		}
		h.metrics.RecordPush(string(resource), metrics.TriggerNotify)
		delivered++
	}
	return delivered
}
