// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// execCmd runs caller-provided SQL through the backend's safety gate
// and target database.
var execCmd = &cobra.Command{
	Use:   "exec <sql>",
	Short: "Execute a SQL statement",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlText := strings.Join(args, " ")
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}

		stop := spinner("Executing")
		res, err := client.ExecuteSQL(cmd.Context(), "", sqlText)
		stop()
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
