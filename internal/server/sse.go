// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"wosool/insight/internal/auth"
	"wosool/insight/internal/render"
)

// handleChatStream answers a question over server-sent events. Each
// frame is a ChatChunk; the turn ends with a [DONE] sentinel. Reusing
// the previous conversation id continues that conversation.
func (s *Server) handleChatStream(c echo.Context) error {
	var in struct {
		Message        string `json:"message"`
		ConversationID string `json:"conversation_id"`
	}
	if err := c.Bind(&in); err != nil || strings.TrimSpace(in.Message) == "" {
		return c.JSON(http.StatusUnprocessableEntity, detail("message must not be empty"))
	}
	convID := in.ConversationID
	if convID == "" {
		convID = uuid.New().String()
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	send := func(chunk render.ChatChunk) {
		chunk.ConversationID = convID
		b, err := json.Marshal(chunk)
		if err != nil {
			return
		}
		fmt.Fprintf(resp, "data: %s\n\n", b)
		resp.Flush()
	}

	send(render.ChatChunk{Rich: &render.Component{
		Type: "status_update",
		Data: map[string]any{"status": "info", "message": "Generating SQL..."},
	}})

	ctx := c.Request().Context()
	answer, err := s.pipe.Answer(ctx, in.Message)
	if err != nil {
		send(render.ChatChunk{Rich: &render.Component{
			Type: "notification",
			Data: map[string]any{"level": "error", "message": err.Error()},
		}})
		fmt.Fprint(resp, "data: [DONE]\n\n")
		resp.Flush()
		return nil
	}

	username, _ := c.Get(auth.ContextKeyUser).(string)
	if !answer.Cached {
		if _, err := s.store.RecordQuery(ctx, username, in.Message, answer.SQL, answer.RowCount); err != nil {
			s.logger.Warn("recording query history", "error", err)
		}
	}

	send(render.ChatChunk{Rich: &render.Component{
		Type: "rich_text",
		Data: map[string]any{"content": answer.SQL},
	}})
	send(render.ChatChunk{Rich: &render.Component{
		Type: "dataframe",
		Data: map[string]any{"rows": anySlice(rowsAsObjects(answer.Columns, answer.Rows))},
	}})
	send(render.ChatChunk{Simple: &render.Component{
		Type: "text",
		Text: fmt.Sprintf("%d row(s)", answer.RowCount),
	}})

	fmt.Fprint(resp, "data: [DONE]\n\n")
	resp.Flush()
	return nil
}

func anySlice(in []map[string]any) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
