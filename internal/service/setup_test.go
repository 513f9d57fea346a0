package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/cache"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/middleware"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
)

type testServer struct {
	url     string
	jwt     *auth.JWTManager
	store   *sqlite.SQLiteStore
	cache   *cache.LRUCache[GroupReport]
	metrics *metrics.Metrics
	ledger  apiconnect.LedgerServiceClient
}

type clients struct {
	groups   apiconnect.GroupServiceClient
	expenses apiconnect.ExpenseServiceClient
}

// setupTestServer serves all three services over httptest against a temp
// SQLite database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	jwtManager, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	reportCache := cache.NewLRUCache[GroupReport](16, time.Minute)
	m := metrics.New()
	reports := NewReports(store, WithCache(reportCache), WithMetrics(m), WithConcurrency(2))

	authed := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor())
	open := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor())

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(), open))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, reports), authed))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, reports), authed))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{
		url:     server.URL,
		jwt:     jwtManager,
		store:   store,
		cache:   reportCache,
		metrics: m,
		ledger:  apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
	}
}

// as returns clients that authenticate as the given member.
func (s *testServer) as(t *testing.T, userID string) clients {
	t.Helper()
	token, err := s.jwt.Generate(userID)
	require.NoError(t, err)

	bearer := connect.WithInterceptors(connect.UnaryInterceptorFunc(
		func(next connect.UnaryFunc) connect.UnaryFunc {
			return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				req.Header().Set("Authorization", "Bearer "+token)
				return next(ctx, req)
			}
		},
	))
	return clients{
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, s.url, bearer),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, s.url, bearer),
	}
}

func (s *testServer) anonymous() clients {
	return clients{
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, s.url),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, s.url),
	}
}

func requireCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, connect.CodeOf(err), err.Error())
}
