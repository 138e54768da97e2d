// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd shows the current session state without a round trip.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		sess := client.Session()
		if !sess.Valid() {
			pterm.Info.Println("Not logged in. Run 'insight login' to get started.")
			return nil
		}
		if user := sess.Username(); user != "" {
			pterm.Printfln("Logged in as %s", user)
		} else {
			pterm.Println("Logged in")
		}
		if exp := sess.Expiry(); !exp.IsZero() {
			pterm.Println(pterm.Gray("Session expires " + exp.Local().Format(time.RFC1123)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
