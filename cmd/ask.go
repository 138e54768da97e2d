// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var askGenerateOnly bool

// askCmd resolves a natural-language question: the backend generates
// SQL, then executes it against the target database.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question in plain language",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		stop := spinner("Generating SQL")
		gen, err := client.GenerateSQL(ctx, question)
		stop()
		if err != nil {
			return err
		}

		if askGenerateOnly {
			pterm.Println(gen.SQL)
			return nil
		}

		stop = spinner("Executing")
		res, err := client.ExecuteSQL(ctx, question, gen.SQL)
		stop()
		if err != nil {
			return err
		}
		if res.SQL == "" {
			res.SQL = gen.SQL
		}
		printResult(res)
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askGenerateOnly, "sql-only", false, "Print the generated SQL without executing it")
	rootCmd.AddCommand(askCmd)
}
