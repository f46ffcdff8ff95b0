package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/petpals/internal/metrics"
	"github.com/mmynk/petpals/internal/tenant"
	"github.com/mmynk/petpals/pkg/api"
)

const (
	whoamiProcedure = "/test.v1.Echo/Whoami"
	publicProcedure = "/test.v1.Echo/Public"
)

type empty struct{}

type identity struct {
	UserID   string `json:"userId"`
	TenantID string `json:"tenantId"`
}

type fakeResolver struct{}

func (fakeResolver) Resolve(header http.Header) (tenant.Context, error) {
	if header.Get("Authorization") != "Bearer good" {
		return tenant.Context{}, errors.New("bad token")
	}
	return tenant.Context{UserID: "user-1", TenantID: "org-1"}, nil
}

func whoami(ctx context.Context, _ *connect.Request[empty]) (*connect.Response[identity], error) {
	return connect.NewResponse(&identity{UserID: GetUserID(ctx), TenantID: GetTenantID(ctx)}), nil
}

func setupEchoServer(t *testing.T) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	opts := []connect.HandlerOption{
		connect.WithCodec(api.JSONCodec{}),
		connect.WithInterceptors(
			NewTenantInterceptor(fakeResolver{}, publicProcedure),
			NewLoggingInterceptor(metrics.New(reg)),
		),
	}
	mux := http.NewServeMux()
	mux.Handle(whoamiProcedure, connect.NewUnaryHandler(whoamiProcedure, whoami, opts...))
	mux.Handle(publicProcedure, connect.NewUnaryHandler(publicProcedure, whoami, opts...))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, reg
}

func call(t *testing.T, server *httptest.Server, procedure, token string) (*identity, error) {
	t.Helper()
	client := connect.NewClient[empty, identity](
		server.Client(),
		server.URL+procedure,
		connect.WithCodec(api.JSONCodec{}),
		connect.WithInterceptors(BearerAuth{Token: token}),
	)
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&empty{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func TestTenantInterceptor(t *testing.T) {
	server, _ := setupEchoServer(t)

	t.Run("resolved", func(t *testing.T) {
		got, err := call(t, server, whoamiProcedure, "good")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "org-1", got.TenantID)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := call(t, server, whoamiProcedure, "")
		require.Error(t, err)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("bad token", func(t *testing.T) {
		_, err := call(t, server, whoamiProcedure, "forged")
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("public procedure skips resolution", func(t *testing.T) {
		got, err := call(t, server, publicProcedure, "")
		require.NoError(t, err)
		assert.Empty(t, got.UserID)
		assert.Empty(t, got.TenantID)
	})
}

func TestLoggingInterceptorRecordsDuration(t *testing.T) {
	server, reg := setupEchoServer(t)

	_, err := call(t, server, whoamiProcedure, "good")
	require.NoError(t, err)
	_, err = call(t, server, publicProcedure, "")
	require.NoError(t, err)

	// Rejected by the tenant interceptor before reaching the logger.
	_, err = call(t, server, whoamiProcedure, "")
	require.Error(t, err)

	count, err := testutil.GatherAndCount(reg, "petpals_rpc_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestContextAccessorsWithoutTenant(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUserID(ctx))
	assert.Empty(t, GetTenantID(ctx))
}
