// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// explainCmd asks the backend to describe a SQL statement in plain
// language.
var explainCmd = &cobra.Command{
	Use:   "explain <sql>",
	Short: "Explain what a SQL statement does",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		stop := spinner("Explaining")
		explanation, err := client.ExplainSQL(cmd.Context(), strings.Join(args, " "))
		stop()
		if err != nil {
			return err
		}
		pterm.Println(explanation)
		return nil
	},
}

var fixError string

// fixCmd asks the backend to repair a statement that failed with the
// given error message.
var fixCmd = &cobra.Command{
	Use:   "fix <sql>",
	Short: "Fix a failing SQL statement",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		stop := spinner("Fixing")
		fixed, err := client.FixSQL(cmd.Context(), strings.Join(args, " "), fixError)
		stop()
		if err != nil {
			return err
		}
		pterm.Println(fixed)
		return nil
	},
}

// validateCmd asks the backend to review a statement.
var validateCmd = &cobra.Command{
	Use:   "validate <sql>",
	Short: "Review a SQL statement for problems",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		stop := spinner("Validating")
		v, err := client.ValidateSQL(cmd.Context(), strings.Join(args, " "))
		stop()
		if err != nil {
			return err
		}
		if v.IsValid {
			pterm.Success.Println("Statement looks valid")
		} else {
			pterm.Warning.Println("Statement has issues")
		}
		for _, issue := range v.Issues {
			switch strings.ToLower(issue.Severity) {
			case "error":
				pterm.Error.Println(issue.Message)
			default:
				pterm.Warning.Println(issue.Message)
			}
		}
		return nil
	},
}

func init() {
	fixCmd.Flags().StringVarP(&fixError, "error", "e", "", "The error message the statement failed with")
	rootCmd.AddCommand(explainCmd, fixCmd, validateCmd)
}
