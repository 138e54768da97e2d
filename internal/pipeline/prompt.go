// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pipeline

import (
	"fmt"
	"strings"
)

const generateSystemPrompt = "You are a SQL expert. Return exactly one SQL statement for the " +
	"requested database engine. Return only SQL, no commentary."

func generateUserPrompt(kind, schema, question string) string {
	return fmt.Sprintf("Database engine: %s\n\nSchema:\n%s\n\nQuestion: %s\n\nSQL:",
		kind, schema, question)
}

const fixSystemPrompt = "You are a SQL expert. Fix the SQL statement so it runs without the " +
	"reported error. Return only the corrected SQL, no commentary."

func fixUserPrompt(kind, sqlText, errMsg string) string {
	return fmt.Sprintf("Database engine: %s\n\nSQL:\n%s\n\nError:\n%s\n\nCorrected SQL:",
		kind, sqlText, errMsg)
}

const explainSystemPrompt = "You are a SQL expert. Explain in plain language what the given " +
	"SQL statement does."

const validateSystemPrompt = "You are a SQL reviewer. Analyze the given SQL statement and " +
	"respond with JSON of the form " +
	`{"is_valid": bool, "issues": [{"severity": "error|warning", "message": "..."}]}. ` +
	"Return only JSON."

// stripFence removes a Markdown code fence around a model response.
// Both ```sql and bare ``` openings are handled.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "sql")
	}
	if end := strings.LastIndex(s, "```"); end != -1 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
