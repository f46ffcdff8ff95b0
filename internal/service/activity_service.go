package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/petpals/internal/apperr"
	"github.com/mmynk/petpals/internal/guard"
	"github.com/mmynk/petpals/pkg/api"
)

// ActivityService implements the Connect ActivityService: history and chat.
type ActivityService struct {
	backend *guard.Backend
}

var _ api.ActivityServiceHandler = (*ActivityService)(nil)

// NewActivityService creates an ActivityService over the guard backend.
func NewActivityService(backend *guard.Backend) *ActivityService {
	return &ActivityService{backend: backend}
}

// ListHistory returns the newest history entries.
func (s *ActivityService) ListHistory(ctx context.Context, req *connect.Request[api.ListHistoryRequest]) (*connect.Response[api.ListHistoryResponse], error) {
	g, err := guardFor(ctx, s.backend)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}

	entries, err := g.History(ctx, int(req.Msg.Limit))
	if err != nil {
		slog.Error("ListHistory failed", "org_id", g.TenantID(), "error", err)
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&api.ListHistoryResponse{Entries: historyToAPI(entries)}), nil
}

// ListMessages returns the newest chat messages.
func (s *ActivityService) ListMessages(ctx context.Context, req *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	g, err := guardFor(ctx, s.backend)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}

	msgs, err := g.Messages(ctx, int(req.Msg.Limit))
	if err != nil {
		slog.Error("ListMessages failed", "org_id", g.TenantID(), "error", err)
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&api.ListMessagesResponse{Messages: messagesToAPI(msgs)}), nil
}

// PostMessage appends a chat message.
func (s *ActivityService) PostMessage(ctx context.Context, req *connect.Request[api.PostMessageRequest]) (*connect.Response[api.PostMessageResponse], error) {
	g, err := guardFor(ctx, s.backend)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}
	slog.Info("PostMessage request received", "org_id", g.TenantID(), "user_id", g.UserID())

	msg, err := g.PostMessage(ctx, req.Msg.Body)
	if err != nil {
		slog.Error("PostMessage failed", "org_id", g.TenantID(), "error", err)
		return nil, apperr.ToConnect(err)
	}
	return connect.NewResponse(&api.PostMessageResponse{Message: messageToAPI(msg)}), nil
}
