package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coder/quartz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/tally/internal/domain/activity"
	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/domain/tracker"
	"github.com/rpggio/tally/internal/domain/tracking"
	"github.com/rpggio/tally/internal/mcp"
	"github.com/rpggio/tally/internal/metrics"
	"github.com/rpggio/tally/internal/sqlite"
	"github.com/rpggio/tally/internal/transport"
	"github.com/stretchr/testify/require"
)

// Authority is the catalog authority of every test server.
const Authority = "admin"

// TestServer is a fully wired HTTP server over a private in-memory database.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Clock    *quartz.Mock
	Registry *prometheus.Registry
	Token    string
	UserID   string

	keys *sqlite.APIKeyRepository
}

// New starts a server and registers token for userID.
func New(t *testing.T, token, userID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	clock := quartz.NewMock(t)
	registry := prometheus.NewRegistry()
	recorder, err := metrics.New(registry)
	require.NoError(t, err)

	activityRepo := sqlite.NewActivityRepository(db)
	keys := sqlite.NewAPIKeyRepository(db)

	trackerSvc := tracker.NewService(sqlite.NewTrackerRepository(db), tracker.StaticAuthority(Authority), activityRepo, recorder, nil)
	statsSvc := stats.NewService(sqlite.NewStatsRepository(db), trackerSvc, nil)
	services := mcp.Services{
		Trackers: trackerSvc,
		Tracking: tracking.NewService(sqlite.NewTrackingRepository(db), statsSvc, trackerSvc, nil,
			tracking.WithClock(clock),
			tracking.WithActivity(activityRepo),
			tracking.WithRecorder(recorder),
		),
		Stats:    statsSvc,
		Activity: activity.NewService(activityRepo, nil),
	}

	router := transport.NewServer(mcp.NewHandler(services), transport.AuthMiddleware(keys),
		transport.WithMetrics(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
	)
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Clock:    clock,
		Registry: registry,
		Token:    token,
		UserID:   userID,
		keys:     keys,
	}

	require.NoError(t, ts.AddAPIKey(token, userID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey registers an additional bearer token.
func (ts *TestServer) AddAPIKey(token, userID string) error {
	return ts.keys.Create(context.Background(), token, userID, "test")
}
