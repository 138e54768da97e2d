// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// healthCmd checks backend liveness and its dependencies.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend health",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newBackendClient()
		if err != nil {
			return err
		}
		h, err := client.Health(cmd.Context())
		if err != nil {
			return err
		}

		printer := pterm.Success
		if h.Status != "healthy" {
			printer = pterm.Warning
		}
		printer.Printfln("%s: %s", cfg.BackendURL, h.Status)
		pterm.Println(pterm.Gray(fmt.Sprintf("providers active: %d", h.ProvidersActive)))
		for name, status := range h.Dependencies {
			pterm.Printfln("  %s: %s", name, status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
