package bootstrap

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
)

const readHeaderTimeout = 5 * time.Second

// Server owns the HTTP listener lifecycle; routing lives in the handler.
type Server struct {
	cfg    *config.Config
	server *http.Server
}

func New(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:              net.JoinHostPort("", strconv.Itoa(cfg.App.Port)),
			Handler:           handler,
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
			MaxHeaderBytes:    1 << 20,
		},
	}
}

func (s *Server) Port() int {
	return s.cfg.App.Port
}

// Start blocks until the server stops; after Shutdown it returns http.ErrServerClosed.
func (s *Server) Start() error {
	slog.Info("서버 시작 중",
		"addr", s.server.Addr,
		"env", s.cfg.App.Env,
		"data_mode", s.cfg.Data.Mode,
		"read_timeout", s.cfg.Server.ReadTimeout,
		"write_timeout", s.cfg.Server.WriteTimeout,
	)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for active requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
