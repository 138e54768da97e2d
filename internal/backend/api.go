// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"net/http"

	ierr "wosool/insight/internal/errors"
)

// GenerateResult is the outcome of a generate-sql call.
type GenerateResult struct {
	SQL        string `json:"sql"`
	QuestionID string `json:"question_id,omitempty"`
}

// ValidationIssue is one finding from SQL validation.
type ValidationIssue struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ValidationResult reports whether a statement passed review.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Issues  []ValidationIssue `json:"issues"`
}

// ExecuteResult carries executed query output.
type ExecuteResult struct {
	SQL      string           `json:"sql,omitempty"`
	Columns  []string         `json:"columns,omitempty"`
	Results  []map[string]any `json:"results"`
	RowCount int              `json:"row_count"`
	Cached   bool             `json:"cached,omitempty"`
}

// QueryRecord is one entry of the user's query history.
type QueryRecord struct {
	ID        string `json:"id"`
	Username  string `json:"username,omitempty"`
	Question  string `json:"question"`
	SQL       string `json:"sql"`
	RowCount  int    `json:"row_count"`
	CreatedAt string `json:"created_at"`
}

// HealthStatus is the backend's health report.
type HealthStatus struct {
	Status          string            `json:"status"`
	ProvidersActive int               `json:"providers_active"`
	Dependencies    map[string]string `json:"dependencies"`
}

// Login authenticates and stores the returned token in the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login",
		map[string]string{"username": username, "password": password}, &out, false)
	if err != nil {
		return err
	}
	if out.AccessToken == "" {
		return ierr.New(ierr.Unauthorized, "login response carried no token")
	}
	return c.session.SetToken(out.AccessToken)
}

// Logout clears the local session. The server holds no session state.
func (c *Client) Logout() error { return c.session.Clear() }

// GenerateSQL turns a question into SQL without executing it.
func (c *Client) GenerateSQL(ctx context.Context, question string) (*GenerateResult, error) {
	var out GenerateResult
	err := c.do(ctx, http.MethodPost, "/generate-sql",
		map[string]string{"question": question}, &out, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FixSQL asks the backend to repair a failing statement.
func (c *Client) FixSQL(ctx context.Context, sql, errMsg string) (string, error) {
	var out struct {
		SQL string `json:"sql"`
	}
	err := c.do(ctx, http.MethodPost, "/fix-sql",
		map[string]string{"sql": sql, "error_msg": errMsg}, &out, false)
	if err != nil {
		return "", err
	}
	return out.SQL, nil
}

// ValidateSQL reviews a statement. Requires authentication.
func (c *Client) ValidateSQL(ctx context.Context, sql string) (*ValidationResult, error) {
	var out ValidationResult
	err := c.do(ctx, http.MethodPost, "/sql/validate",
		map[string]string{"sql": sql}, &out, true)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExplainSQL returns a plain-language description of a statement.
func (c *Client) ExplainSQL(ctx context.Context, sql string) (string, error) {
	var out struct {
		Explanation string `json:"explanation"`
	}
	err := c.do(ctx, http.MethodPost, "/explain-sql",
		map[string]string{"sql": sql}, &out, false)
	if err != nil {
		return "", err
	}
	return out.Explanation, nil
}

// ExecuteSQL runs a statement against the target database. Requires
// authentication.
func (c *Client) ExecuteSQL(ctx context.Context, question, sql string) (*ExecuteResult, error) {
	if question == "" {
		question = sql
	}
	var out ExecuteResult
	err := c.do(ctx, http.MethodPost, "/sql/execute",
		map[string]string{"question": question, "sql": sql}, &out, true)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches the user's query history. A bare list response is
// normalized to the object shape.
func (c *Client) History(ctx context.Context) ([]QueryRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/sql/history", nil, &raw, true); err != nil {
		return nil, err
	}
	var list []QueryRecord
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var obj struct {
		Queries []QueryRecord `json:"queries"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj.Queries, nil
}

// Feedback records the user's rating of a generated query. Requires
// authentication.
func (c *Client) Feedback(ctx context.Context, queryID, question, feedback string, rating int) error {
	return c.do(ctx, http.MethodPost, "/feedback", map[string]any{
		"query_id": queryID,
		"question": question,
		"feedback": feedback,
		"rating":   rating,
	}, nil, true)
}

// Health checks backend liveness. No authentication required.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminConfig fetches the backend's redacted configuration.
func (c *Client) AdminConfig(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/admin/config", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// TargetDBHealth checks the target database behind the backend.
func (c *Client) TargetDBHealth(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/admin/db/target/health", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// TargetDBTest runs a one-off connectivity check with the given
// descriptor payload. Credentials are not persisted server-side.
func (c *Client) TargetDBTest(ctx context.Context, payload map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, "/admin/db/target/test", payload, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Train triggers model training on accumulated feedback.
func (c *Client) Train(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, "/admin/train", map[string]any{}, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}
