package meta_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/gateway"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/member"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/meta"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/database"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service struct {
		DataMode string `json:"dataMode"`
	} `json:"service"`
	Checks struct {
		Roster struct {
			Status  string `json:"status"`
			Members int    `json:"members"`
		} `json:"roster"`
		Database struct {
			Status string `json:"status"`
		} `json:"database"`
	} `json:"checks"`
}

func health(t *testing.T, h *meta.Handler) (int, healthResponse) {
	t.Helper()
	router := testutil.SetupTestRouter()
	router.GET("/health", h.Health)

	rec := testutil.ExecuteRequest(t, router, testutil.TestRequest{Method: http.MethodGet, URL: "/health"})
	var resp healthResponse
	testutil.ParseResponse(t, rec, &resp)
	return rec.Code, resp
}

func TestHealth_PersistedReady(t *testing.T) {
	// Given: a loaded roster on a reachable store
	cfg := testutil.NewTestConfig()
	db := testutil.SetupTestDB(t)
	gw := gateway.New(db)
	require.NoError(t, gw.SeedInitialData(context.Background(), []model.Member{{
		ID:         "MEM1001",
		Name:       "Abbas Al-Farsi",
		Email:      "abbas.al-farsi@example.com",
		JoinDate:   model.MustParseDate("2024-04-01"),
		PayoutTurn: 1,
		PayoutDate: model.MustParseDate("2025-09-24"),
	}}))
	directory := member.NewDirectory(gw)
	_, err := directory.Load(context.Background())
	require.NoError(t, err)

	// When
	code, resp := health(t, meta.NewHandler(cfg, &database.DB{DB: db}, directory))

	// Then
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ready", resp.Checks.Roster.Status)
	assert.Equal(t, 1, resp.Checks.Roster.Members)
	assert.Equal(t, "up", resp.Checks.Database.Status)
}

func TestHealth_NotConfigured(t *testing.T) {
	cfg := testutil.NewTestConfig()
	directory := member.NewDirectory(gateway.New(nil))
	_, _ = directory.Load(context.Background())

	code, resp := health(t, meta.NewHandler(cfg, nil, directory))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "not_configured", resp.Checks.Roster.Status)
	assert.Equal(t, "not_configured", resp.Checks.Database.Status)
}

func TestHealth_Fallback(t *testing.T) {
	cfg := testutil.NewTestConfig()
	cfg.Data.Mode = config.ModeFallback
	directory := member.NewFallbackDirectory([]model.Member{{ID: "MEM1001", Name: "A", PayoutTurn: 1}})

	code, resp := health(t, meta.NewHandler(cfg, nil, directory))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "fallback", resp.Service.DataMode)
	assert.Equal(t, "ready", resp.Checks.Roster.Status)
}
