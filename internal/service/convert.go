package service

import (
	"context"

	"github.com/mmynk/petpals/internal/apperr"
	"github.com/mmynk/petpals/internal/guard"
	"github.com/mmynk/petpals/internal/models"
	"github.com/mmynk/petpals/internal/pet"
	"github.com/mmynk/petpals/internal/tenant"
	"github.com/mmynk/petpals/pkg/api"
)

// guardFor builds the request's guard from the tenant context the
// interceptor stored.
func guardFor(ctx context.Context, b *guard.Backend) (*guard.Guard, error) {
	tc, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, apperr.ErrUnauthorized
	}
	return guard.New(b, tc)
}

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func membershipToAPI(m *models.Membership) *api.Membership {
	return &api.Membership{
		OrgID:    m.OrgID,
		OrgName:  m.OrgName,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

func membershipsToAPI(ms []*models.Membership) []*api.Membership {
	out := make([]*api.Membership, 0, len(ms))
	for _, m := range ms {
		out = append(out, membershipToAPI(m))
	}
	return out
}

func todoToAPI(t *models.Todo) *api.Todo {
	return &api.Todo{
		ID:        t.ID,
		OrgID:     t.OrgID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}

func todosToAPI(todos []*models.Todo) []*api.Todo {
	out := make([]*api.Todo, 0, len(todos))
	for _, t := range todos {
		out = append(out, todoToAPI(t))
	}
	return out
}

func petToAPI(p *models.Pet) *api.Pet {
	if p == nil {
		return nil
	}
	return &api.Pet{
		OrgID:         p.OrgID,
		Hunger:        int32(p.Hunger),
		Age:           int32(p.Age),
		Stage:         pet.StageName(p.Age),
		FeedCount:     int32(p.FeedCount),
		Species:       p.Species,
		Color:         p.Color,
		LastFedAt:     p.LastFedAt,
		LastCheckedAt: p.LastCheckedAt,
	}
}

func historyToAPI(entries []*models.HistoryEntry) []*api.HistoryEntry {
	out := make([]*api.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, &api.HistoryEntry{
			ID:              e.ID,
			InteractionType: e.InteractionType,
			EntityType:      e.EntityType,
			EntityID:        e.EntityID,
			ActorID:         e.ActorID,
			ActorName:       e.ActorName,
			ActorRole:       string(e.ActorRole),
			Metadata:        e.Metadata,
			CreatedAt:       e.CreatedAt,
		})
	}
	return out
}

func messageToAPI(m *models.Message) *api.Message {
	return &api.Message{
		ID:         m.ID,
		AuthorID:   m.AuthorID,
		AuthorName: m.AuthorName,
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}

func messagesToAPI(msgs []*models.Message) []*api.Message {
	out := make([]*api.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageToAPI(m))
	}
	return out
}
