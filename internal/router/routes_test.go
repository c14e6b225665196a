package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/auth"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/fallback"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/member"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/payout"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/router"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/metrics"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoutes(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := testutil.NewTestConfig()
	set, err := cfg.StatusSet()
	require.NoError(t, err)

	today := model.MustParseDate("2025-10-10")
	rotation := payoutRotation(cfg.PayoutStart(), cfg.Payout.IntervalDays)
	roster := fallback.Generator{Rotation: rotation, Statuses: set, HistoryDays: 5, Seed: 1, Today: today}.Generate()
	recorder := metrics.New()
	directory := member.NewFallbackDirectory(roster, member.WithStatusSet(set), member.WithMetrics(recorder))
	service := member.NewMemberService(directory, rotation, member.WithClock(func() model.Date { return today }))

	engine := testutil.SetupTestRouter()
	require.NoError(t, router.Setup(engine, cfg, router.Dependencies{
		Directory: directory,
		Service:   service,
		Metrics:   recorder,
	}))
	return engine
}

func login(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	rec := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/login",
		Body:   auth.LoginRequest{Username: testutil.TestAdminUsername, Password: testutil.TestAdminPassword},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp auth.LoginResponse
	testutil.ParseResponse(t, rec, &resp)
	return resp.AccessToken
}

func withToken(t *testing.T, engine *gin.Engine, method, url, accessToken string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.ExecuteRequest(t, engine, testutil.TestRequest{Method: method, URL: url, BearerToken: accessToken})
}

func TestAdminRoutes_RequireLogin(t *testing.T) {
	engine := setupRoutes(t)

	anonymous := testutil.ExecuteRequest(t, engine, testutil.TestRequest{Method: http.MethodGet, URL: "/api/v1/members"})
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	forged := withToken(t, engine, http.MethodGet, "/api/v1/members", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, forged.Code)

	accessToken := login(t, engine)
	authorized := withToken(t, engine, http.MethodGet, "/api/v1/members", accessToken)
	assert.Equal(t, http.StatusOK, authorized.Code)

	var resp member.MembersResponse
	testutil.ParseResponse(t, authorized, &resp)
	assert.Equal(t, 20, resp.Count)
}

func TestAdminRoutes_RefreshTokenIsNotAccess(t *testing.T) {
	engine := setupRoutes(t)
	rec := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/login",
		Body:   auth.LoginRequest{Username: testutil.TestAdminUsername, Password: testutil.TestAdminPassword},
	})
	var tokens auth.LoginResponse
	testutil.ParseResponse(t, rec, &tokens)

	denied := withToken(t, engine, http.MethodGet, "/api/v1/members", tokens.RefreshToken)

	assert.Equal(t, http.StatusUnauthorized, denied.Code)
}

func TestGuestRoutes_AreOpenAndReadOnly(t *testing.T) {
	engine := setupRoutes(t)

	for _, url := range []string{"/api/v1/guest/members", "/api/v1/guest/payouts", "/api/v1/guest/stats"} {
		rec := testutil.ExecuteRequest(t, engine, testutil.TestRequest{Method: http.MethodGet, URL: url})
		assert.Equal(t, http.StatusOK, rec.Code, url)
	}

	edit := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodPut,
		URL:    "/api/v1/guest/members/MEM1001/statuses/2025-10-10",
		Body:   member.UpdatePaymentRequest{Status: "paid"},
	})
	assert.Equal(t, http.StatusNotFound, edit.Code)
}

func TestUpdateThenExport(t *testing.T) {
	engine := setupRoutes(t)
	accessToken := login(t, engine)

	rec := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method:      http.MethodPut,
		URL:         "/api/v1/members/MEM1001/statuses/2025-10-10",
		Body:        member.UpdatePaymentRequest{Status: "paid"},
		BearerToken: accessToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var update member.UpdatePaymentResponse
	testutil.ParseResponse(t, rec, &update)
	assert.Equal(t, member.SyncLocal, update.Sync)

	export := withToken(t, engine, http.MethodGet, "/api/v1/members/export.csv?from=2025-10-10&q=abbas", accessToken)
	require.Equal(t, http.StatusOK, export.Code)
	assert.Equal(t, "Name,2025-10-10\n\"Abbas Al-Farsi\",Yes", export.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	engine := setupRoutes(t)

	rec := testutil.ExecuteRequest(t, engine, testutil.TestRequest{Method: http.MethodGet, URL: "/metrics"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "committee_roster_members 20")
}

func payoutRotation(start model.Date, interval int) payout.Rotation {
	return payout.Rotation{StartDate: start, IntervalDays: interval}
}

