package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := model.ParseDate("2025-09-24")
	require.NoError(t, err)
	assert.Equal(t, "2025-09-24", d.String())

	_, err = model.ParseDate("24/09/2025")
	assert.Error(t, err)
}

func TestDate_Arithmetic(t *testing.T) {
	start := model.MustParseDate("2025-09-24")

	assert.Equal(t, "2025-10-09", start.AddDays(15).String())
	assert.Equal(t, "2026-03-23", start.AddDays(15*12).String())
	assert.Equal(t, 15, start.AddDays(15).DaysSince(start))
	assert.True(t, start.Before(start.AddDays(1)))
	assert.True(t, start.AddDays(1).After(start))

	assert.Equal(t, "2025-09-01", start.FirstOfMonth().String())
	assert.Equal(t, "2025-09-30", start.LastOfMonth().String())
	assert.Equal(t, "2024-02-29", model.MustParseDate("2024-02-10").LastOfMonth().String())
	assert.Equal(t, "2025-03-24", start.AddMonths(-6).String())
}

func TestDate_Scan(t *testing.T) {
	testCases := []struct {
		name  string
		value any
		want  string
	}{
		{name: "time", value: time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC), want: "2025-10-09"},
		{name: "string", value: "2025-10-09", want: "2025-10-09"},
		{name: "datetime string", value: "2025-10-09 00:00:00+00:00", want: "2025-10-09"},
		{name: "bytes", value: []byte("2025-10-09"), want: "2025-10-09"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d model.Date
			require.NoError(t, d.Scan(tc.value))
			assert.Equal(t, tc.want, d.String())
		})
	}

	var d model.Date
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := model.MustParseDate("2025-10-09").Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC), v)

	v, err = model.Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDate_JSON(t *testing.T) {
	body, err := json.Marshal(struct {
		Date model.Date `json:"date"`
	}{Date: model.MustParseDate("2025-10-24")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-10-24"}`, string(body))
}
