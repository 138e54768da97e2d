// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

// loginCmd authenticates against the backend and stores the access
// token in the OS credential store for later invocations.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Authenticate against the insight backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}

		if client.Session().Valid() {
			pterm.Info.Printfln("Already logged in as %s", client.Session().Username())
			return nil
		}

		username := loginUsername
		if username == "" {
			username, err = pterm.DefaultInteractiveTextInput.Show("Username")
			if err != nil {
				return err
			}
		}
		password := loginPassword
		if password == "" {
			password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
		}

		if err := client.Login(cmd.Context(), username, password); err != nil {
			return err
		}
		pterm.Success.Printfln("Logged in as %s", username)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}
