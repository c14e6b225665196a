package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("production", &buf)

	log.Info("hello", "member_id", "MEM1001")
	log.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "MEM1001", entry["member_id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_DevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("dev", &buf)

	log.Debug("visible")

	assert.Contains(t, buf.String(), "msg=visible")
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	scoped := logger.New("test", &buf).With("request_id", "req-1")

	ctx := logger.WithLogger(context.Background(), scoped)
	logger.FromContext(ctx).Info("scoped")

	assert.Contains(t, buf.String(), "request_id=req-1")
	assert.NotNil(t, logger.FromContext(context.Background()))
}

func TestNewFileSink(t *testing.T) {
	assert.Nil(t, logger.NewFileSink(config.LogConfig{}))

	path := filepath.Join(t.TempDir(), "app.log")
	sink := logger.NewFileSink(config.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	require.NotNil(t, sink)

	log := logger.New("production", sink)
	log.Info("to file")
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "ada.lovelace@example.com", want: "a***@example.com"},
		{in: "@example.com", want: "***@example.com"},
		{in: "broken", want: "***@***"},
		{in: "a@b@c", want: "***@***"},
		{in: "éloïse@example.com", want: "é***@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.MaskEmail(tt.in))
		})
	}
}

func TestWith_BindsAttributesForCallees(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.WithLogger(context.Background(), logger.New("local", &buf))

	ctx = logger.With(ctx, "member_id", "MEM1001")
	logger.FromContext(ctx).Info("write confirmed")

	assert.Contains(t, buf.String(), "member_id=MEM1001")
	assert.Contains(t, buf.String(), "write confirmed")
}

func TestFromContext_DefaultsToSlogDefault(t *testing.T) {
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
}
