package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LiveServiceName is the fully-qualified name of the LiveService.
const LiveServiceName = "petpals.v1.LiveService"

// Procedure paths, suitable for http.ServeMux patterns and interceptor checks.
const (
	LiveServiceWatchTodosProcedure    = "/petpals.v1.LiveService/WatchTodos"
	LiveServiceWatchPetProcedure      = "/petpals.v1.LiveService/WatchPet"
	LiveServiceWatchMessagesProcedure = "/petpals.v1.LiveService/WatchMessages"
	LiveServiceWatchHistoryProcedure  = "/petpals.v1.LiveService/WatchHistory"
)

// LiveServiceHandler is implemented by the server. Each stream sends the
// current snapshot of the active organization's state on open, after every
// change and periodically while idle.
type LiveServiceHandler interface {
	WatchTodos(context.Context, *connect.Request[WatchRequest], *connect.ServerStream[TodosSnapshot]) error
	WatchPet(context.Context, *connect.Request[WatchRequest], *connect.ServerStream[PetSnapshot]) error
	WatchMessages(context.Context, *connect.Request[WatchRequest], *connect.ServerStream[MessagesSnapshot]) error
	WatchHistory(context.Context, *connect.Request[WatchRequest], *connect.ServerStream[HistorySnapshot]) error
}

// NewLiveServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewLiveServiceHandler(svc LiveServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	watchTodos := connect.NewServerStreamHandler(LiveServiceWatchTodosProcedure, svc.WatchTodos, opts...)
	watchPet := connect.NewServerStreamHandler(LiveServiceWatchPetProcedure, svc.WatchPet, opts...)
	watchMessages := connect.NewServerStreamHandler(LiveServiceWatchMessagesProcedure, svc.WatchMessages, opts...)
	watchHistory := connect.NewServerStreamHandler(LiveServiceWatchHistoryProcedure, svc.WatchHistory, opts...)
	return "/" + LiveServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LiveServiceWatchTodosProcedure:
			watchTodos.ServeHTTP(w, r)
		case LiveServiceWatchPetProcedure:
			watchPet.ServeHTTP(w, r)
		case LiveServiceWatchMessagesProcedure:
			watchMessages.ServeHTTP(w, r)
		case LiveServiceWatchHistoryProcedure:
			watchHistory.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LiveServiceClient calls the LiveService.
type LiveServiceClient interface {
	WatchTodos(context.Context, *connect.Request[WatchRequest]) (*connect.ServerStreamForClient[TodosSnapshot], error)
	WatchPet(context.Context, *connect.Request[WatchRequest]) (*connect.ServerStreamForClient[PetSnapshot], error)
	WatchMessages(context.Context, *connect.Request[WatchRequest]) (*connect.ServerStreamForClient[MessagesSnapshot], error)
	WatchHistory(context.Context, *connect.Request[WatchRequest]) (*connect.ServerStreamForClient[HistorySnapshot], error)
}

type liveServiceClient struct {
	watchTodos    *connect.Client[WatchRequest, TodosSnapshot]
	watchPet      *connect.Client[WatchRequest, PetSnapshot]
	watchMessages *connect.Client[WatchRequest, MessagesSnapshot]
	watchHistory  *connect.Client[WatchRequest, HistorySnapshot]
}

// NewLiveServiceClient creates a client for the service at baseURL.
func NewLiveServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LiveServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &liveServiceClient{
		watchTodos: connect.NewClient[WatchRequest, TodosSnapshot](httpClient, baseURL+LiveServiceWatchTodosProcedure, opts...),
		watchPet: connect.NewClient[WatchRequest, PetSnapshot](httpClient, baseURL+LiveServiceWatchPetProcedure, opts...),
		watchMessages: connect.NewClient[WatchRequest, MessagesSnapshot](httpClient, baseURL+LiveServiceWatchMessagesProcedure, opts...),
		watchHistory: connect.NewClient[WatchRequest, HistorySnapshot](httpClient, baseURL+LiveServiceWatchHistoryProcedure, opts...),
	}
}

func (c *liveServiceClient) WatchTodos(ctx context.Context, req *connect.Request[WatchRequest]) (*connect.ServerStreamForClient[TodosSnapshot], error) {
	return c.watchTodos.CallServerStream(ctx, req)
}

func (c *liveServiceClient) WatchPet(ctx context.Context, req *connect.Request[WatchRequest]) (*connect.ServerStreamForClient[PetSnapshot], error) {
	return c.watchPet.CallServerStream(ctx, req)
}

func (c *liveServiceClient) WatchMessages(ctx context.Context, req *connect.Request[WatchRequest]) (*connect.ServerStreamForClient[MessagesSnapshot], error) {
	return c.watchMessages.CallServerStream(ctx, req)
}

func (c *liveServiceClient) WatchHistory(ctx context.Context, req *connect.Request[WatchRequest]) (*connect.ServerStreamForClient[HistorySnapshot], error) {
	return c.watchHistory.CallServerStream(ctx, req)
}
