package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	panels "solarfarm/internal/panels/domain"
)

func TestLoggingMiddlewareRecordsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), zap.New(core))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/solar-panel/Flats", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/solar-panel/Flats", fields["path"])
}

func TestOpenRepositorySQLite(t *testing.T) {
	cfg := config{StoreDriver: "sqlite", SQLitePath: ":memory:"}
	repo, db, err := openRepository(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()

	list, err := repo.FindBySection(context.Background(), "Flats")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPanelCounterFollowsRepository(t *testing.T) {
	ctx := context.Background()
	repo, db, err := openRepository(ctx, config{StoreDriver: "sqlite", SQLitePath: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	count := panelCounter(repo)
	require.NotNil(t, count)
	_, err = repo.Create(ctx, &panels.SolarPanel{Section: "Flats", Row: 1, Column: 1, YearInstalled: 2012, Material: panels.MaterialCIGS})
	require.NoError(t, err)
	n, err := count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	memRepo, _, err := openRepository(ctx, config{StoreDriver: driverMemory}, zap.NewNop())
	require.NoError(t, err)
	n, err = panelCounter(memRepo)(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Nil(t, panelCounter(nil))
}

func TestOpenRepositoryMemory(t *testing.T) {
	repo, db, err := openRepository(context.Background(), config{StoreDriver: driverMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.NotNil(t, repo)
}

func TestSystemClockIsUTC(t *testing.T) {
	assert.True(t, strings.EqualFold(systemClock{}.Now().Location().String(), "UTC"))
}
