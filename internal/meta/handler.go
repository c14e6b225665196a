package meta

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/member"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/database"
	"github.com/gin-gonic/gin"
)

// Handler handles meta endpoints (health check)
type Handler struct {
	cfg       *config.Config
	db        *database.DB // nil when no store is configured
	directory *member.Directory
}

// NewHandler creates a new meta handler
func NewHandler(cfg *config.Config, db *database.DB, directory *member.Directory) *Handler {
	return &Handler{
		cfg:       cfg,
		db:        db,
		directory: directory,
	}
}

// Health reports the data mode, the roster state and database connectivity.
// It answers 503 unless the roster can be served.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	healthy := true
	checks := gin.H{
		"roster":   h.rosterCheck(&healthy),
		"database": h.databaseCheck(ctx, &healthy),
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status": status,
		"service": gin.H{
			"name":        h.cfg.App.Name,
			"environment": h.cfg.App.Env,
			"port":        h.cfg.App.Port,
			"dataMode":    h.cfg.Data.Mode,
			"statusMode":  h.cfg.Data.StatusMode,
		},
		"checks": checks,
	})
}

func (h *Handler) rosterCheck(healthy *bool) gin.H {
	state, err := h.directory.State()
	check := gin.H{
		"status":  string(state),
		"members": len(h.directory.GetAll()),
	}
	if err != nil {
		check["error"] = err.Error()
	}
	if state != member.StateReady {
		*healthy = false
	}
	return check
}

func (h *Handler) databaseCheck(ctx context.Context, healthy *bool) gin.H {
	if h.db == nil {
		return gin.H{"status": "not_configured"}
	}

	start := time.Now()
	if err := h.db.HealthCheck(ctx); err != nil {
		slog.Error("Health check 실패", "error", err)
		*healthy = false
		return gin.H{"status": "down", "error": err.Error()}
	}
	return gin.H{
		"status":     "up",
		"latency_ms": time.Since(start).Milliseconds(),
	}
}
