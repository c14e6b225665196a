package bootstrap_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/bootstrap"
	sharedError "github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/error"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/middleware"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetupEngine_RecoversPanics(t *testing.T) {
	// Given: An engine with a handler that panics
	engine := bootstrap.NewBootstrap(testutil.NewTestConfig()).SetupEngine()
	engine.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	// When
	rec := testutil.ExecuteRequest(t, engine, testutil.TestRequest{Method: http.MethodGet, URL: "/boom"})

	// Then: Generic 500 body, request id still attached
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body sharedError.ErrorResponse
	testutil.ParseResponse(t, rec, &body)
	assert.Equal(t, sharedError.InternalServerError.Code, body.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestSetupEngine_RequestIDAndDeadline(t *testing.T) {
	cfg := testutil.NewTestConfig()
	cfg.Server.RequestTimeout = 2 * time.Second
	engine := bootstrap.NewBootstrap(cfg).SetupEngine()

	var remaining time.Duration
	engine.GET("/ping", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		remaining = time.Until(deadline)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, 2*time.Second)
}
