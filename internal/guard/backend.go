// Package guard is the tenant-scoped gateway to persistent storage.
//
// Every read and write of tenant data goes through a Guard built from a
// resolved tenant.Context. The guard injects the tenant id into every query,
// rejects rows owned by other tenants, records history for writes and
// notifies live subscribers once a write has committed.
package guard

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/mmynk/petpals/internal/live"
	"github.com/mmynk/petpals/internal/metrics"
	"github.com/mmynk/petpals/internal/models"
	"github.com/mmynk/petpals/internal/pet"
	"github.com/mmynk/petpals/internal/storage"
)

const lockStripes = 64

// DefaultHungerTick is how long it takes a pet to lose one unit of hunger.
const DefaultHungerTick = time.Hour

// Notifier is told about committed writes. *live.Hub implements it.
type Notifier interface {
	Notify(ctx context.Context, tenantID string, resource live.Resource)
}

// Backend holds the long-lived collaborators shared by all guards.
type Backend struct {
	store      storage.Store
	engine     *pet.Engine
	notifier   Notifier
	metrics    *metrics.Metrics
	now        func() time.Time
	hungerTick time.Duration

	locks [lockStripes]sync.Mutex
}

// Option configures a Backend.
type Option func(*Backend)

// WithNotifier sets the receiver of post-commit notifications.
func WithNotifier(n Notifier) Option {
	return func(b *Backend) { b.notifier = n }
}

// WithMetrics records mutation and conflict metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Backend) { b.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithHungerTick sets the decay interval.
func WithHungerTick(d time.Duration) Option {
	return func(b *Backend) {
		if d > 0 {
			b.hungerTick = d
		}
	}
}

// NewBackend creates a Backend over store using engine for pet transitions.
func NewBackend(store storage.Store, engine *pet.Engine, opts ...Option) *Backend {
	b := &Backend{
		store:      store,
		engine:     engine,
		now:        time.Now,
		hungerTick: DefaultHungerTick,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetNotifier installs the notifier after construction. The live hub loads
// snapshots through this backend, so it is built second.
func (b *Backend) SetNotifier(n Notifier) {
	b.notifier = n
}

// CreateOrganization provisions an organization owned by ownerID together
// with a freshly laid egg. It is not tenant-scoped: there is no tenant yet.
func (b *Backend) CreateOrganization(ctx context.Context, ownerID, name string) (*models.Organization, *models.Pet, error) {
	if ownerID == "" || name == "" {
		return nil, nil, fmt.Errorf("owner and name are required")
	}

	now := b.now()
	org := &models.Organization{
		Name:      name,
		CreatedBy: ownerID,
		CreatedAt: now.Unix(),
	}
	p := fromState(&models.Pet{}, b.engine.Hatchling(now))
	if err := b.store.CreateOrganization(ctx, org, p); err != nil {
		return nil, nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return org, p, nil
}

// lockFor returns the stripe lock serializing in-process writers of key.
func (b *Backend) lockFor(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &b.locks[h.Sum32()%lockStripes]
}

func (b *Backend) notify(ctx context.Context, tenantID string, resources ...live.Resource) {
	if b.notifier == nil {
		return
	}
	for _, r := range resources {
		b.notifier.Notify(ctx, tenantID, r)
	}
}

func toState(p *models.Pet) pet.State {
	return pet.State{
		Hunger:        p.Hunger,
		Age:           p.Age,
		FeedCount:     p.FeedCount,
		Species:       p.Species,
		Color:         p.Color,
		LastFedAt:     time.Unix(p.LastFedAt, 0),
		LastCheckedAt: time.Unix(p.LastCheckedAt, 0),
	}
}

// fromState returns a copy of base carrying s.
func fromState(base *models.Pet, s pet.State) *models.Pet {
	p := *base
	p.Hunger = s.Hunger
	p.Age = s.Age
	p.FeedCount = s.FeedCount
	p.Species = s.Species
	p.Color = s.Color
	p.LastFedAt = s.LastFedAt.Unix()
	p.LastCheckedAt = s.LastCheckedAt.Unix()
	return &p
}
