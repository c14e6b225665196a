package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// SetupTestRouter returns a bare gin engine with the custom validators registered.
func SetupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	_ = validator.RegisterAll()
	return gin.New()
}

// TestRequest describes one request. Body is JSON encoded unless it is a string.
type TestRequest struct {
	Method      string
	URL         string
	Body        any
	BearerToken string
}

// ExecuteRequest serves req through router and returns the recorded response.
func ExecuteRequest(t *testing.T, router *gin.Engine, req TestRequest) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	switch b := req.Body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err, "marshal request body")
		body = bytes.NewReader(encoded)
	}

	httpReq := httptest.NewRequest(req.Method, req.URL, body)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.BearerToken)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httpReq)
	return recorder
}

// ParseResponse decodes the JSON response body into v.
func ParseResponse(t *testing.T, recorder *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), v), "parse response body: %s", recorder.Body.String())
}
