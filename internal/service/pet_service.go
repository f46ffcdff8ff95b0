package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/petpals/internal/apperr"
	"github.com/mmynk/petpals/internal/guard"
	"github.com/mmynk/petpals/pkg/api"
)

// PetService implements the Connect PetService.
type PetService struct {
	backend *guard.Backend
}

var _ api.PetServiceHandler = (*PetService)(nil)

// NewPetService creates a PetService over the guard backend.
func NewPetService(backend *guard.Backend) *PetService {
	return &PetService{backend: backend}
}

// GetPet returns the active organization's pet.
func (s *PetService) GetPet(ctx context.Context, req *connect.Request[api.GetPetRequest]) (*connect.Response[api.GetPetResponse], error) {
	g, err := guardFor(ctx, s.backend)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}

	p, err := g.Pet(ctx)
	if err != nil {
		slog.Error("GetPet failed", "org_id", g.TenantID(), "error", err)
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&api.GetPetResponse{Pet: petToAPI(p)}), nil
}

// FeedPet feeds the pet once.
func (s *PetService) FeedPet(ctx context.Context, req *connect.Request[api.FeedPetRequest]) (*connect.Response[api.FeedPetResponse], error) {
	g, err := guardFor(ctx, s.backend)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	slog.Info("FeedPet request received", "org_id", g.TenantID(), "user_id", g.UserID())

	p, tr, err := g.FeedPet(ctx)
	if err != nil {
		slog.Error("FeedPet failed", "org_id", g.TenantID(), "error", err)
		return nil, apperr.ToConnect(err)
	}

	slog.Info("Pet fed",
		"org_id", g.TenantID(),
		"transition", tr,
		"hunger", p.Hunger,
		"age", p.Age,
		"feed_count", p.FeedCount,
	)
	return connect.NewResponse(&api.FeedPetResponse{Pet: petToAPI(p), Transition: string(tr)}), nil
}

// UpdatePetHunger applies elapsed hunger decay.
func (s *PetService) UpdatePetHunger(ctx context.Context, req *connect.Request[api.UpdatePetHungerRequest]) (*connect.Response[api.UpdatePetHungerResponse], error) {
	g, err := guardFor(ctx, s.backend)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}

	p, tr, err := g.DecayPet(ctx)
	if err != nil {
		slog.Error("UpdatePetHunger failed", "org_id", g.TenantID(), "error", err)
		return nil, apperr.ToConnect(err)
	}

	slog.Debug("Pet hunger checked", "org_id", g.TenantID(), "transition", tr, "hunger", p.Hunger)
	return connect.NewResponse(&api.UpdatePetHungerResponse{Pet: petToAPI(p), Transition: string(tr)}), nil
}
