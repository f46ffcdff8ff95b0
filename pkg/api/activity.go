package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ActivityServiceName is the fully-qualified name of the ActivityService.
const ActivityServiceName = "petpals.v1.ActivityService"

// Procedure paths, suitable for http.ServeMux patterns and interceptor checks.
const (
	ActivityServiceListHistoryProcedure  = "/petpals.v1.ActivityService/ListHistory"
	ActivityServiceListMessagesProcedure = "/petpals.v1.ActivityService/ListMessages"
	ActivityServicePostMessageProcedure  = "/petpals.v1.ActivityService/PostMessage"
)

// ActivityServiceHandler is implemented by the server. The service
// exposes the history log and the chat.
type ActivityServiceHandler interface {
	ListHistory(context.Context, *connect.Request[ListHistoryRequest]) (*connect.Response[ListHistoryResponse], error)
	ListMessages(context.Context, *connect.Request[ListMessagesRequest]) (*connect.Response[ListMessagesResponse], error)
	PostMessage(context.Context, *connect.Request[PostMessageRequest]) (*connect.Response[PostMessageResponse], error)
}

// NewActivityServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewActivityServiceHandler(svc ActivityServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listHistory := connect.NewUnaryHandler(ActivityServiceListHistoryProcedure, svc.ListHistory, opts...)
	listMessages := connect.NewUnaryHandler(ActivityServiceListMessagesProcedure, svc.ListMessages, opts...)
	postMessage := connect.NewUnaryHandler(ActivityServicePostMessageProcedure, svc.PostMessage, opts...)
	return "/" + ActivityServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ActivityServiceListHistoryProcedure:
			listHistory.ServeHTTP(w, r)
		case ActivityServiceListMessagesProcedure:
			listMessages.ServeHTTP(w, r)
		case ActivityServicePostMessageProcedure:
			postMessage.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ActivityServiceClient calls the ActivityService.
type ActivityServiceClient interface {
	ListHistory(context.Context, *connect.Request[ListHistoryRequest]) (*connect.Response[ListHistoryResponse], error)
	ListMessages(context.Context, *connect.Request[ListMessagesRequest]) (*connect.Response[ListMessagesResponse], error)
	PostMessage(context.Context, *connect.Request[PostMessageRequest]) (*connect.Response[PostMessageResponse], error)
}

type activityServiceClient struct {
	listHistory  *connect.Client[ListHistoryRequest, ListHistoryResponse]
	listMessages *connect.Client[ListMessagesRequest, ListMessagesResponse]
	postMessage  *connect.Client[PostMessageRequest, PostMessageResponse]
}

// NewActivityServiceClient creates a client for the service at baseURL.
func NewActivityServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ActivityServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &activityServiceClient{
		listHistory: connect.NewClient[ListHistoryRequest, ListHistoryResponse](httpClient, baseURL+ActivityServiceListHistoryProcedure, opts...),
		listMessages: connect.NewClient[ListMessagesRequest, ListMessagesResponse](httpClient, baseURL+ActivityServiceListMessagesProcedure, opts...),
		postMessage: connect.NewClient[PostMessageRequest, PostMessageResponse](httpClient, baseURL+ActivityServicePostMessageProcedure, opts...),
	}
}

func (c *activityServiceClient) ListHistory(ctx context.Context, req *connect.Request[ListHistoryRequest]) (*connect.Response[ListHistoryResponse], error) {
	return c.listHistory.CallUnary(ctx, req)
}

func (c *activityServiceClient) ListMessages(ctx context.Context, req *connect.Request[ListMessagesRequest]) (*connect.Response[ListMessagesResponse], error) {
	return c.listMessages.CallUnary(ctx, req)
}

func (c *activityServiceClient) PostMessage(ctx context.Context, req *connect.Request[PostMessageRequest]) (*connect.Response[PostMessageResponse], error) {
	return c.postMessage.CallUnary(ctx, req)
}
