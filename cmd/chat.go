// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"wosool/insight/internal/render"
)

// chatCmd holds a streaming conversation with the agent. Each reply is
// rendered chunk by chunk as it arrives; the conversation id from the
// last chunk is carried into the next turn. Typing "new" discards the
// conversation locally and starts fresh.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the insight agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newBackendClient()
		if err != nil {
			return err
		}
		renderer := render.New(os.Stdout)
		reader := bufio.NewScanner(os.Stdin)
		conversationID := ""

		pterm.Info.Println("Type a question, 'new' to start over, or 'exit' to quit.")
		for {
			pterm.Print(pterm.NewStyle(pterm.Bold).Sprint("> "))
			if !reader.Scan() {
				return reader.Err()
			}
			line := strings.TrimSpace(reader.Text())
			switch strings.ToLower(line) {
			case "":
				continue
			case "exit", "quit":
				return nil
			case "new":
				conversationID = ""
				pterm.Info.Println("Starting a new conversation")
				continue
			}

			chunks, errs, err := client.ChatStream(cmd.Context(), line, conversationID)
			if err != nil {
				pterm.Error.Println(err.Error())
				continue
			}
			for chunk := range chunks {
				if chunk.ConversationID != "" {
					conversationID = chunk.ConversationID
				}
				renderer.RenderChunk(&chunk)
			}
			if err := <-errs; err != nil {
				pterm.Error.Println(err.Error())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
