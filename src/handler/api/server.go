// Package api exposes the debt aggregator over an authenticated HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/service/auth"
	"tech-debt-manager/src/service/metrics"
	"tech-debt-manager/src/util"
)

// DebtCollector runs one aggregation
type DebtCollector interface {
	CollectDebts(ctx context.Context) ([]model.DebtItem, error)
}

// Authenticator issues and validates bearer tokens
type Authenticator interface {
	Login(email, password string) (string, auth.User, error)
	Validate(token string) (auth.User, error)
	Revoke(token string)
}

// Server wires the gin engine to the aggregator and the token service
type Server struct {
	cfg       config.ServerConfig
	engine    *gin.Engine
	collector DebtCollector
	auth      Authenticator
	recorder  *metrics.Recorder
}

// NewServer creates the API server and registers all routes. recorder may be nil.
func NewServer(cfg config.ServerConfig, collector DebtCollector, authenticator Authenticator, recorder *metrics.Recorder) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestMetrics(recorder))

	s := &Server{
		cfg:       cfg,
		engine:    engine,
		collector: collector,
		auth:      authenticator,
		recorder:  recorder,
	}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		util.Info("API listening on %s", s.cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	util.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
