// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for insight. It covers
// the client workflow (login, ask, exec, chat, history) and hosting the
// backend itself via the serve command, built on the Cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wosool/insight/internal/backend"
	"wosool/insight/internal/config"
	"wosool/insight/internal/logging"
	"wosool/insight/internal/session"
)

var showVersion bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "insight",
	Short:         "Ask your database questions in plain language",
	Long:          `Insight converts natural-language questions into SQL, runs them against your database, and streams agent answers to the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("insight %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("insight", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}

// newBackendClient builds the API client with the persisted session.
// A broken credential store degrades to an in-memory session so read
// endpoints keep working.
func newBackendClient() (*backend.Client, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}

	var store session.Store
	if ks, err := session.OpenKeyring(); err == nil {
		store = ks
	}
	sess := session.New(store)

	log := logging.NewLogger(cfg.LogLevel)
	return backend.New(cfg.BackendURL, sess, cfg.Timeout, log), cfg, nil
}
