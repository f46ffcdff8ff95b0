package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/petpals/internal/apperr"
	"github.com/mmynk/petpals/internal/guard"
	"github.com/mmynk/petpals/internal/live"
	"github.com/mmynk/petpals/internal/models"
	"github.com/mmynk/petpals/pkg/api"
)

// LiveService implements the Connect LiveService streams.
type LiveService struct {
	backend *guard.Backend
	hub     *live.Hub
	poll    time.Duration
}

var _ api.LiveServiceHandler = (*LiveService)(nil)

// NewLiveService creates a LiveService. poll is the idle re-send interval;
// zero means live.DefaultPollInterval.
func NewLiveService(backend *guard.Backend, hub *live.Hub, poll time.Duration) *LiveService {
	return &LiveService{backend: backend, hub: hub, poll: poll}
}

func (s *LiveService) WatchTodos(ctx context.Context, req *connect.Request[api.WatchRequest], stream *connect.ServerStream[api.TodosSnapshot]) error {
	return watch(ctx, s, live.ResourceTodos, stream, func(snap live.Snapshot) *api.TodosSnapshot {
		todos, _ := snap.Data.([]*models.Todo)
		return &api.TodosSnapshot{Todos: todosToAPI(todos), TakenAt: snap.TakenAt.UnixMilli()}
	})
}

func (s *LiveService) WatchPet(ctx context.Context, req *connect.Request[api.WatchRequest], stream *connect.ServerStream[api.PetSnapshot]) error {
	return watch(ctx, s, live.ResourcePet, stream, func(snap live.Snapshot) *api.PetSnapshot {
		p, _ := snap.Data.(*models.Pet)
		return &api.PetSnapshot{Pet: petToAPI(p), TakenAt: snap.TakenAt.UnixMilli()}
	})
}

func (s *LiveService) WatchMessages(ctx context.Context, req *connect.Request[api.WatchRequest], stream *connect.ServerStream[api.MessagesSnapshot]) error {
	return watch(ctx, s, live.ResourceMessages, stream, func(snap live.Snapshot) *api.MessagesSnapshot {
		msgs, _ := snap.Data.([]*models.Message)
		return &api.MessagesSnapshot{Messages: messagesToAPI(msgs), TakenAt: snap.TakenAt.UnixMilli()}
	})
}

func (s *LiveService) WatchHistory(ctx context.Context, req *connect.Request[api.WatchRequest], stream *connect.ServerStream[api.HistorySnapshot]) error {
	return watch(ctx, s, live.ResourceHistory, stream, func(snap live.Snapshot) *api.HistorySnapshot {
		entries, _ := snap.Data.([]*models.HistoryEntry)
		return &api.HistorySnapshot{Entries: historyToAPI(entries), TakenAt: snap.TakenAt.UnixMilli()}
	})
}

// watch checks the caller may read the tenant, then serves the stream until
// the client goes away. A caller without an active tenant or membership is
// refused before anything is sent.
func watch[T any](ctx context.Context, s *LiveService, resource live.Resource, stream *connect.ServerStream[T], convert func(live.Snapshot) *T) error {
	g, err := guardFor(ctx, s.backend)
	if err != nil {
		return apperr.ToConnect(err)
	}
	if _, err := g.Member(ctx); err != nil {
		return apperr.ToConnect(err)
	}

	slog.Info("Live stream opened", "org_id", g.TenantID(), "user_id", g.UserID(), "resource", resource)
	err = s.hub.Serve(ctx, g.TenantID(), resource, s.poll, func(snap live.Snapshot) error {
		return stream.Send(convert(snap))
	})
	slog.Info("Live stream closed", "org_id", g.TenantID(), "user_id", g.UserID(), "resource", resource)

	if err != nil {
		return apperr.ToConnect(err)
	}
	return nil
}
