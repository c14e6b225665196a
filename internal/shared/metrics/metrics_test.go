package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_StatusWrites(t *testing.T) {
	r := New()

	r.StatusWriteStarted()
	r.StatusWriteStarted()
	r.StatusWriteFinished(nil)
	r.StatusWriteFinished(errors.New("boom"))

	expected := `
# HELP committee_status_writes_total Asynchronous daily status writes by outcome.
# TYPE committee_status_writes_total counter
committee_status_writes_total{result="failure"} 1
committee_status_writes_total{result="success"} 1
# HELP committee_status_writes_in_flight Status writes not yet confirmed by the store.
# TYPE committee_status_writes_in_flight gauge
committee_status_writes_in_flight 0
`
	err := testutil.GatherAndCompare(r.registry, strings.NewReader(expected),
		"committee_status_writes_total", "committee_status_writes_in_flight")
	require.NoError(t, err)
}

func TestRecorder_RosterLoaded(t *testing.T) {
	r := New()

	r.RosterLoaded(20, nil)
	r.RosterLoaded(0, errors.New("down"))

	expected := `
# HELP committee_roster_members Members currently held in the directory cache.
# TYPE committee_roster_members gauge
committee_roster_members 20
`
	require.NoError(t, testutil.GatherAndCompare(r.registry, strings.NewReader(expected), "committee_roster_members"))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.StatusWriteStarted()
		r.StatusWriteFinished(nil)
		r.RosterLoaded(3, nil)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.RosterLoaded(5, nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "committee_roster_members 5")
}
