package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/petpals/internal/apperr"
	"github.com/mmynk/petpals/internal/live"
	"github.com/mmynk/petpals/internal/models"
	"github.com/mmynk/petpals/internal/permissions"
	"github.com/mmynk/petpals/internal/pet"
	"github.com/mmynk/petpals/internal/storage"
)

// maxWriteAttempts bounds optimistic retries when another process wins the
// race for a pet or todo row.
const maxWriteAttempts = 8

// Pet returns the tenant's pet.
func (g *Guard) Pet(ctx context.Context) (*models.Pet, error) {
	if _, err := g.Member(ctx); err != nil {
		return nil, err
	}

	p, err := g.b.store.GetPet(ctx, g.tenantID)
	if err != nil {
		return nil, storeError(err)
	}
	if p.OrgID != g.tenantID {
		return nil, fmt.Errorf("pet for %s: %w", g.tenantID, apperr.ErrNotFound)
	}
	return p, nil
}

// FeedPet feeds the tenant's pet once and records it in history.
func (g *Guard) FeedPet(ctx context.Context) (*models.Pet, pet.Transition, error) {
	m, err := g.Require(ctx, permissions.PetFeed)
	if err != nil {
		return nil, "", err
	}

	updated, tr, err := g.updatePet(ctx, func(s pet.State, now time.Time) (pet.State, pet.Transition, bool) {
		next, tr := g.b.engine.Feed(s, now)
		return next, tr, true
	}, func(p *models.Pet, tr pet.Transition, now time.Time) *models.HistoryEntry {
		return g.entry(m, models.InteractionPetFed, models.EntityPet, p.OrgID, now.Unix(), map[string]any{
			"transition": string(tr),
			"hunger":     p.Hunger,
			"age":        p.Age,
			"stage":      pet.StageName(p.Age),
			"feed_count": p.FeedCount,
			"species":    p.Species,
		})
	})
	if err != nil {
		return nil, "", err
	}

	g.b.metrics.RecordMutation("feed_pet")
	g.b.metrics.RecordPetTransition(string(tr))
	g.b.notify(ctx, g.tenantID, live.ResourcePet, live.ResourceHistory)
	return updated, tr, nil
}

// DecayPet applies the hunger ticks elapsed since the pet was last checked.
// When no full tick has passed nothing is written and the pet is returned
// as stored.
func (g *Guard) DecayPet(ctx context.Context) (*models.Pet, pet.Transition, error) {
	if _, err := g.Require(ctx, permissions.PetUpdate); err != nil {
		return nil, "", err
	}

	written := false
	updated, tr, err := g.updatePet(ctx, func(s pet.State, now time.Time) (pet.State, pet.Transition, bool) {
		ticks := pet.ElapsedTicks(s.LastCheckedAt, now, g.b.hungerTick)
		written = ticks > 0
		if !written {
			return s, pet.TransitionNone, false
		}
		next, tr := g.b.engine.Decay(s, ticks, now)
		return next, tr, true
	}, nil)
	if err != nil {
		return nil, "", err
	}

	if written {
		g.b.metrics.RecordMutation("decay_pet")
		g.b.metrics.RecordPetTransition(string(tr))
		g.b.notify(ctx, g.tenantID, live.ResourcePet)
	}
	return updated, tr, nil
}

type petApply func(s pet.State, now time.Time) (pet.State, pet.Transition, bool)

type petEntry func(p *models.Pet, tr pet.Transition, now time.Time) *models.HistoryEntry

// updatePet runs a read-modify-write of the tenant's pet. Writers in this
// process are serialized by a striped per-tenant lock; writers in other
// processes are caught by the version check and the transition is re-applied
// to the fresh row.
func (g *Guard) updatePet(ctx context.Context, apply petApply, mkEntry petEntry) (*models.Pet, pet.Transition, error) {
	lock := g.b.lockFor("pet/" + g.tenantID)
	lock.Lock()
	defer lock.Unlock()

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		current, err := g.b.store.GetPet(ctx, g.tenantID)
		if err != nil {
			return nil, "", storeError(err)
		}

		now := g.b.now()
		next, tr, write := apply(toState(current), now)
		if !write {
			return current, tr, nil
		}

		updated := fromState(current, next)
		var entry *models.HistoryEntry
		if mkEntry != nil {
			entry = mkEntry(updated, tr, now)
		}

		err = g.b.store.UpdatePet(ctx, updated, entry)
		if errors.Is(err, storage.ErrVersionConflict) {
			g.b.metrics.RecordPetConflict()
			continue
		}
		if err != nil {
			return nil, "", storeError(err)
		}
		return updated, tr, nil
	}
	return nil, "", fmt.Errorf("failed to update pet for %s after %d attempts: %w",
		g.tenantID, maxWriteAttempts, storage.ErrVersionConflict)
}
