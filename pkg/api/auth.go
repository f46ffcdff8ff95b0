package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AuthServiceName is the fully-qualified name of the AuthService.
const AuthServiceName = "petpals.v1.AuthService"

// Procedure paths, suitable for http.ServeMux patterns and interceptor checks.
const (
	AuthServiceRegisterProcedure           = "/petpals.v1.AuthService/Register"
	AuthServiceLoginProcedure              = "/petpals.v1.AuthService/Login"
	AuthServiceListMembershipsProcedure    = "/petpals.v1.AuthService/ListMemberships"
	AuthServiceSwitchOrganizationProcedure = "/petpals.v1.AuthService/SwitchOrganization"
)

// AuthServiceHandler is implemented by the server. The service
// issues session tokens and switches the active organization.
type AuthServiceHandler interface {
	// Register creates an account and returns a token with no active organization.
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	// Login verifies credentials and returns a token.
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	// ListMemberships lists the organizations the caller belongs to.
	ListMemberships(context.Context, *connect.Request[ListMembershipsRequest]) (*connect.Response[ListMembershipsResponse], error)
	// SwitchOrganization re-issues the caller's token with a new active organization.
	SwitchOrganization(context.Context, *connect.Request[SwitchOrganizationRequest]) (*connect.Response[SwitchOrganizationResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc and returns the path to
// mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	register := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	login := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	listMemberships := connect.NewUnaryHandler(AuthServiceListMembershipsProcedure, svc.ListMemberships, opts...)
	switchOrganization := connect.NewUnaryHandler(AuthServiceSwitchOrganizationProcedure, svc.SwitchOrganization, opts...)
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			register.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			login.ServeHTTP(w, r)
		case AuthServiceListMembershipsProcedure:
			listMemberships.ServeHTTP(w, r)
		case AuthServiceSwitchOrganizationProcedure:
			switchOrganization.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AuthServiceClient calls the AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	ListMemberships(context.Context, *connect.Request[ListMembershipsRequest]) (*connect.Response[ListMembershipsResponse], error)
	SwitchOrganization(context.Context, *connect.Request[SwitchOrganizationRequest]) (*connect.Response[SwitchOrganizationResponse], error)
}

type authServiceClient struct {
	register           *connect.Client[RegisterRequest, RegisterResponse]
	login              *connect.Client[LoginRequest, LoginResponse]
	listMemberships    *connect.Client[ListMembershipsRequest, ListMembershipsResponse]
	switchOrganization *connect.Client[SwitchOrganizationRequest, SwitchOrganizationResponse]
}

// NewAuthServiceClient creates a client for the service at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register: connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login: connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		listMemberships: connect.NewClient[ListMembershipsRequest, ListMembershipsResponse](httpClient, baseURL+AuthServiceListMembershipsProcedure, opts...),
		switchOrganization: connect.NewClient[SwitchOrganizationRequest, SwitchOrganizationResponse](httpClient, baseURL+AuthServiceSwitchOrganizationProcedure, opts...),
	}
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) ListMemberships(ctx context.Context, req *connect.Request[ListMembershipsRequest]) (*connect.Response[ListMembershipsResponse], error) {
	return c.listMemberships.CallUnary(ctx, req)
}

func (c *authServiceClient) SwitchOrganization(ctx context.Context, req *connect.Request[SwitchOrganizationRequest]) (*connect.Response[SwitchOrganizationResponse], error) {
	return c.switchOrganization.CallUnary(ctx, req)
}
