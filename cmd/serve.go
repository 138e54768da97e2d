// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wosool/insight/internal/auth"
	"wosool/insight/internal/cache"
	"wosool/insight/internal/config"
	"wosool/insight/internal/engine"
	ierr "wosool/insight/internal/errors"
	"wosool/insight/internal/llm"
	"wosool/insight/internal/logging"
	"wosool/insight/internal/pipeline"
	"wosool/insight/internal/server"
)

// serveCmd hosts the insight backend: target database, language model,
// result cache, and the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the insight backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logging.NewLogger(cfg.LogLevel)

		// Configuration errors are fatal at startup: the server must not
		// come up with an invalid descriptor or without credentials.
		if cfg.Server.JWTSecret == "" {
			return ierr.New(ierr.MissingConfiguration, "JWT_SECRET is required")
		}
		if cfg.Server.AdminUsername == "" || cfg.Server.AdminPassword == "" {
			return ierr.New(ierr.MissingConfiguration, "ADMIN_USERNAME and ADMIN_PASSWORD are required")
		}

		kind, err := engine.KindFromString(cfg.Engine)
		if err != nil {
			return err
		}
		desc, err := engine.BuildDescriptor(kind, os.Getenv)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner, err := engine.Open(ctx, desc)
		if err != nil {
			return err
		}
		defer runner.Close()
		log.Info("target database ready", "engine", string(kind), "target", desc.String())

		var store cache.Store
		if cfg.Cache.Host != "" {
			redisStore := cache.NewRedisStore(cfg.Cache.Host, cfg.Cache.Port)
			defer redisStore.Close()
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := redisStore.Ping(pingCtx); err != nil {
				log.Warn("redis unreachable, cache will disable itself on first failure", "error", err)
			}
			cancel()
			store = redisStore
		} else {
			log.Info("REDIS_HOST not set, using in-memory result cache")
			store = cache.NewMemoryStore()
		}
		resultCache := cache.New(store, cfg.Cache.TTL, log)

		gen := &llm.Client{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Logger:      log,
		}
		pipe := pipeline.New(runner, gen, resultCache, kind, log)

		history, err := server.NewHistoryStore(cfg.Server.HistoryDB)
		if err != nil {
			return err
		}
		defer history.Close()

		authn := auth.New(cfg.Server.JWTSecret, cfg.Server.AdminUsername, cfg.Server.AdminPassword)
		srv := server.New(cfg, pipe, history, authn, resultCache, runner, log)
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
