// Package server provides the HTTP prediction API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/fakenews/internal/config"
	"github.com/hyperjump/fakenews/internal/models"
	"github.com/hyperjump/fakenews/internal/store"
)

// Predictor is the read-only model the handlers share across requests.
type Predictor interface {
	PredictWithExplanation(text string, topN int) (*models.Prediction, error)
	Meta() store.Meta
	Classes() [2]models.Label
	VocabularySize() int
}

// Server is the HTTP server for the prediction API.
type Server struct {
	predictor Predictor
	config    *config.ServerConfig
	topN      int
	logger    *zap.Logger
	newID     func() string
	server    *http.Server
}

// NewServer creates a server answering with p. topN is used when a request omits top_n.
func NewServer(p Predictor, cfg *config.ServerConfig, topN int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		predictor: p,
		config:    cfg,
		topN:      topN,
		logger:    logger,
		newID:     func() string { return uuid.New().String() },
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Post("/api/v1/predict", s.handlePredict)
	r.Get("/api/v1/model", s.handleModel)
	r.Get("/health", s.handleHealth)
	return r
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
