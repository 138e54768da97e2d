// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// historyCmd lists the user's recent query round trips.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your recent queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		records, err := client.History(cmd.Context())
		if err != nil {
			return err
		}
		if len(records) == 0 {
			pterm.Info.Println("No queries yet")
			return nil
		}

		data := pterm.TableData{{"When", "Question", "SQL", "Rows"}}
		for _, r := range records {
			data = append(data, []string{r.CreatedAt, r.Question, r.SQL, fmt.Sprint(r.RowCount)})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var (
	feedbackQueryID  string
	feedbackQuestion string
	feedbackRating   int
)

// feedbackCmd records whether a generated query was right.
var feedbackCmd = &cobra.Command{
	Use:   "feedback <comment>",
	Short: "Rate a generated query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		comment := args[0]
		if err := client.Feedback(cmd.Context(), feedbackQueryID, feedbackQuestion, comment, feedbackRating); err != nil {
			return err
		}
		pterm.Success.Println("Feedback recorded")
		return nil
	},
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackQueryID, "query-id", "", "Id of the query being rated")
	feedbackCmd.Flags().StringVar(&feedbackQuestion, "question", "", "The original question")
	feedbackCmd.Flags().IntVar(&feedbackRating, "rating", 3, "Rating from 1 to 5")
	rootCmd.AddCommand(historyCmd, feedbackCmd)
}
