package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"merchfinder/internal/config"
	"merchfinder/internal/domain"
	"merchfinder/internal/targets"
)

// Searcher is the coordinator surface the API needs.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) (*domain.SearchResult, error)
}

// Pinger reports backing-store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	searcher   Searcher
	registry   *targets.Registry
	cachePing  Pinger
	logger     *zap.Logger
}

// NewServer wires the routes. cachePing may be nil when the in-process
// cache is in use.
func NewServer(cfg *config.Config, searcher Searcher, registry *targets.Registry, cachePing Pinger, logger *zap.Logger) *Server {
	s := &Server{
		config:    cfg,
		searcher:  searcher,
		registry:  registry,
		cachePing: cachePing,
		logger:    logger,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.config.SearchTimeout + 10*time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
