// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package server exposes the insight pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"wosool/insight/internal/auth"
	"wosool/insight/internal/cache"
	"wosool/insight/internal/config"
	"wosool/insight/internal/engine"
	"wosool/insight/internal/pipeline"
)

// Server hosts the HTTP API.
type Server struct {
	echo   *echo.Echo
	cfg    config.Config
	pipe   *pipeline.Pipeline
	store  *HistoryStore
	authn  *auth.Authenticator
	cache  *cache.Cache
	runner engine.Runner
	logger *slog.Logger
}

// New wires the API routes over the given collaborators.
func New(cfg config.Config, pipe *pipeline.Pipeline, store *HistoryStore, authn *auth.Authenticator, c *cache.Cache, runner engine.Runner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:   e,
		cfg:    cfg,
		pipe:   pipe,
		store:  store,
		authn:  authn,
		cache:  c,
		runner: runner,
		logger: logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	e := s.echo
	e.POST("/auth/login", s.handleLogin)
	e.POST("/generate-sql", s.handleGenerateSQL)
	e.POST("/fix-sql", s.handleFixSQL)
	e.POST("/explain-sql", s.handleExplainSQL)
	e.GET("/health", s.handleHealth)

	authed := s.authn.Middleware()
	e.POST("/sql/validate", s.handleValidateSQL, authed)
	e.POST("/sql/execute", s.handleExecuteSQL, authed)
	e.GET("/sql/history", s.handleHistory, authed)
	e.POST("/feedback", s.handleFeedback, authed)
	e.POST("/chat/stream", s.handleChatStream, authed)

	e.GET("/admin/config", s.handleAdminConfig, authed)
	e.GET("/admin/db/target/health", s.handleTargetDBHealth, authed)
	e.POST("/admin/db/target/test", s.handleTargetDBTest, authed)
	e.POST("/admin/train", s.handleTrain, authed)
}

// Handler exposes the routed server for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(s.cfg.Server.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("server listening", "addr", s.cfg.Server.ListenAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
