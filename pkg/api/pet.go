package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// PetServiceName is the fully-qualified name of the PetService.
const PetServiceName = "petpals.v1.PetService"

// Procedure paths, suitable for http.ServeMux patterns and interceptor checks.
const (
	PetServiceGetPetProcedure          = "/petpals.v1.PetService/GetPet"
	PetServiceFeedPetProcedure         = "/petpals.v1.PetService/FeedPet"
	PetServiceUpdatePetHungerProcedure = "/petpals.v1.PetService/UpdatePetHunger"
)

// PetServiceHandler is implemented by the server. The service
// reads and feeds the active organization's pet.
type PetServiceHandler interface {
	GetPet(context.Context, *connect.Request[GetPetRequest]) (*connect.Response[GetPetResponse], error)
	FeedPet(context.Context, *connect.Request[FeedPetRequest]) (*connect.Response[FeedPetResponse], error)
	// UpdatePetHunger applies hunger decay for the time elapsed since the last check.
	UpdatePetHunger(context.Context, *connect.Request[UpdatePetHungerRequest]) (*connect.Response[UpdatePetHungerResponse], error)
}

// NewPetServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewPetServiceHandler(svc PetServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getPet := connect.NewUnaryHandler(PetServiceGetPetProcedure, svc.GetPet, opts...)
	feedPet := connect.NewUnaryHandler(PetServiceFeedPetProcedure, svc.FeedPet, opts...)
	updatePetHunger := connect.NewUnaryHandler(PetServiceUpdatePetHungerProcedure, svc.UpdatePetHunger, opts...)
	return "/" + PetServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PetServiceGetPetProcedure:
			getPet.ServeHTTP(w, r)
		case PetServiceFeedPetProcedure:
			feedPet.ServeHTTP(w, r)
		case PetServiceUpdatePetHungerProcedure:
			updatePetHunger.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// PetServiceClient calls the PetService.
type PetServiceClient interface {
	GetPet(context.Context, *connect.Request[GetPetRequest]) (*connect.Response[GetPetResponse], error)
	FeedPet(context.Context, *connect.Request[FeedPetRequest]) (*connect.Response[FeedPetResponse], error)
	UpdatePetHunger(context.Context, *connect.Request[UpdatePetHungerRequest]) (*connect.Response[UpdatePetHungerResponse], error)
}

type petServiceClient struct {
	getPet          *connect.Client[GetPetRequest, GetPetResponse]
	feedPet         *connect.Client[FeedPetRequest, FeedPetResponse]
	updatePetHunger *connect.Client[UpdatePetHungerRequest, UpdatePetHungerResponse]
}

// NewPetServiceClient creates a client for the service at baseURL.
func NewPetServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PetServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &petServiceClient{
		getPet: connect.NewClient[GetPetRequest, GetPetResponse](httpClient, baseURL+PetServiceGetPetProcedure, opts...),
		feedPet: connect.NewClient[FeedPetRequest, FeedPetResponse](httpClient, baseURL+PetServiceFeedPetProcedure, opts...),
		updatePetHunger: connect.NewClient[UpdatePetHungerRequest, UpdatePetHungerResponse](httpClient, baseURL+PetServiceUpdatePetHungerProcedure, opts...),
	}
}

func (c *petServiceClient) GetPet(ctx context.Context, req *connect.Request[GetPetRequest]) (*connect.Response[GetPetResponse], error) {
	return c.getPet.CallUnary(ctx, req)
}

func (c *petServiceClient) FeedPet(ctx context.Context, req *connect.Request[FeedPetRequest]) (*connect.Response[FeedPetResponse], error) {
	return c.feedPet.CallUnary(ctx, req)
}

func (c *petServiceClient) UpdatePetHunger(ctx context.Context, req *connect.Request[UpdatePetHungerRequest]) (*connect.Response[UpdatePetHungerResponse], error) {
	return c.updatePetHunger.CallUnary(ctx, req)
}
