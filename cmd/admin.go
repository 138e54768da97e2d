// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations on the backend",
}

// adminConfigCmd shows the backend's configuration with secrets
// redacted server-side.
var adminConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show backend configuration (redacted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		cfg, err := client.AdminConfig(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cfg)
	},
}

var adminDBHealthCmd = &cobra.Command{
	Use:   "db-health",
	Short: "Check the backend's target database",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		out, err := client.TargetDBHealth(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(out)
	},
}

var dbTestVars []string

// adminDBTestCmd runs a one-off connectivity check with env-style keys
// passed as --set ENGINE=..., --set POSTGRES_HOST=... pairs.
var adminDBTestCmd = &cobra.Command{
	Use:   "db-test",
	Short: "Test connectivity with a candidate database configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		payload := map[string]any{}
		for _, kv := range dbTestVars {
			if k, v, ok := strings.Cut(kv, "="); ok {
				payload[k] = v
			}
		}
		out, err := client.TargetDBTest(cmd.Context(), payload)
		if err != nil {
			return err
		}
		return printJSON(out)
	},
}

var adminTrainCmd = &cobra.Command{
	Use:   "train",
	Short: "Trigger training on accumulated feedback",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		out, err := client.Train(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(out)
	},
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	pterm.Println(string(b))
	return nil
}

func init() {
	adminDBTestCmd.Flags().StringArrayVar(&dbTestVars, "set", nil, "KEY=VALUE descriptor entry (repeatable), e.g. --set engine=postgres")
	adminCmd.AddCommand(adminConfigCmd, adminDBHealthCmd, adminDBTestCmd, adminTrainCmd)
	rootCmd.AddCommand(adminCmd)
}
