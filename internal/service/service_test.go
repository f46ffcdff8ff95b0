package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/petpals/internal/auth"
	"github.com/mmynk/petpals/internal/guard"
	"github.com/mmynk/petpals/internal/live"
	"github.com/mmynk/petpals/internal/middleware"
	"github.com/mmynk/petpals/internal/models"
	"github.com/mmynk/petpals/internal/pet"
	"github.com/mmynk/petpals/internal/storage/sqlstore"
	"github.com/mmynk/petpals/pkg/api"
)

type testEnv struct {
	server  *httptest.Server
	store   *sqlstore.SQLStore
	backend *guard.Backend
	jwt     *auth.JWTManager
}

// setupTestServer starts every service behind the production interceptors.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlstore.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	engine := pet.NewEngineWithPicker(pet.DefaultRules(), func(int) int { return 0 })
	backend := guard.NewBackend(store, engine)
	hub := live.NewHub(guard.NewLoader(backend))
	backend.SetNotifier(hub)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticatorWithCost(store, bcrypt.MinCost)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handlers := Handlers{
		Auth:     NewAuthService(authenticator, jwtManager, store, logger),
		Todo:     NewTodoService(backend),
		Pet:      NewPetService(backend),
		Activity: NewActivityService(backend),
		Live:     NewLiveService(backend, hub, time.Hour),
	}

	mux := http.NewServeMux()
	handlers.Mount(mux, connect.WithInterceptors(
		middleware.NewTenantInterceptor(auth.NewTokenResolver(jwtManager), PublicProcedures...),
		middleware.NewLoggingInterceptor(nil),
	))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{server: server, store: store, backend: backend, jwt: jwtManager}
}

type clients struct {
	auth     api.AuthServiceClient
	todo     api.TodoServiceClient
	pet      api.PetServiceClient
	activity api.ActivityServiceClient
	live     api.LiveServiceClient
}

func (e *testEnv) clients(token string) clients {
	opt := connect.WithInterceptors(middleware.BearerAuth{Token: token})
	hc := e.server.Client()
	return clients{
		auth:     api.NewAuthServiceClient(hc, e.server.URL, opt),
		todo:     api.NewTodoServiceClient(hc, e.server.URL, opt),
		pet:      api.NewPetServiceClient(hc, e.server.URL, opt),
		activity: api.NewActivityServiceClient(hc, e.server.URL, opt),
		live:     api.NewLiveServiceClient(hc, e.server.URL, opt),
	}
}

func (e *testEnv) register(t *testing.T, email, name string) (*api.User, string) {
	t.Helper()
	resp, err := e.clients("").auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "password123",
	}))
	require.NoError(t, err)
	return resp.Msg.User, resp.Msg.Token
}

func (e *testEnv) provision(t *testing.T, ownerID, name string) *models.Organization {
	t.Helper()
	org, _, err := e.backend.CreateOrganization(context.Background(), ownerID, name)
	require.NoError(t, err)
	return org
}

func (e *testEnv) switchOrg(t *testing.T, token, orgID string) string {
	t.Helper()
	resp, err := e.clients(token).auth.SwitchOrganization(context.Background(),
		connect.NewRequest(&api.SwitchOrganizationRequest{OrgID: orgID}))
	require.NoError(t, err)
	return resp.Msg.Token
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}

func TestAuthService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	user, token := env.register(t, "ann@example.com", "Ann")
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := env.clients("").auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "ann@example.com", DisplayName: "Ann again", Password: "password123",
		}))
		assertCode(t, connect.CodeAlreadyExists, err)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := env.clients("").auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "zed@example.com", DisplayName: "Zed", Password: "short",
		}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("tenant calls need a token", func(t *testing.T) {
		_, err := env.clients("").todo.ListTodos(ctx, connect.NewRequest(&api.ListTodosRequest{}))
		assertCode(t, connect.CodeUnauthenticated, err)

		_, err = env.clients("garbage").todo.ListTodos(ctx, connect.NewRequest(&api.ListTodosRequest{}))
		assertCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("no active tenant", func(t *testing.T) {
		_, err := env.clients(token).todo.ListTodos(ctx, connect.NewRequest(&api.ListTodosRequest{}))
		assertCode(t, connect.CodeFailedPrecondition, err)
	})

	org := env.provision(t, user.ID, "Flatmates")

	t.Run("login selects the only organization", func(t *testing.T) {
		resp, err := env.clients("").auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "ann@example.com", Password: "password123",
		}))
		require.NoError(t, err)
		assert.Equal(t, org.ID, resp.Msg.ActiveOrgID)
		require.Len(t, resp.Msg.Memberships, 1)
		assert.Equal(t, "owner", resp.Msg.Memberships[0].Role)
		assert.Equal(t, "Flatmates", resp.Msg.Memberships[0].OrgName)

		_, err = env.clients(resp.Msg.Token).todo.ListTodos(ctx, connect.NewRequest(&api.ListTodosRequest{}))
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.clients("").auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email: "ann@example.com", Password: "wrong-password",
		}))
		assertCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("list memberships and switch", func(t *testing.T) {
		resp, err := env.clients(token).auth.ListMemberships(ctx, connect.NewRequest(&api.ListMembershipsRequest{}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Memberships, 1)
		assert.Empty(t, resp.Msg.ActiveOrgID)

		switched := env.switchOrg(t, token, org.ID)
		resp, err = env.clients(switched).auth.ListMemberships(ctx, connect.NewRequest(&api.ListMembershipsRequest{}))
		require.NoError(t, err)
		assert.Equal(t, org.ID, resp.Msg.ActiveOrgID)
	})

	t.Run("switch to a foreign organization", func(t *testing.T) {
		other, _ := env.register(t, "bob@example.com", "Bob")
		foreign := env.provision(t, other.ID, "Platform Team")

		_, err := env.clients(token).auth.SwitchOrganization(ctx,
			connect.NewRequest(&api.SwitchOrganizationRequest{OrgID: foreign.ID}))
		assertCode(t, connect.CodePermissionDenied, err)
	})
}
