// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"wosool/insight/internal/auth"
	ierr "wosool/insight/internal/errors"
)

func detail(msg string) map[string]string { return map[string]string{"detail": msg} }

// httpStatus maps an error kind to the response status.
func httpStatus(err error) int {
	switch ierr.KindOf(err) {
	case ierr.DangerousOperation:
		// Not 403: the client renders 403 as a fixed access-denied message
		// and the rejection detail must survive to the user.
		return http.StatusBadRequest
	case ierr.Unauthorized, ierr.AuthenticationRequired:
		return http.StatusUnauthorized
	case ierr.AccessDenied:
		return http.StatusForbidden
	case ierr.NotFound:
		return http.StatusNotFound
	case ierr.GenerationFailure:
		return http.StatusBadGateway
	case ierr.ExecutionFailure:
		return http.StatusBadRequest
	case ierr.Timeout, ierr.ConnectionError:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c echo.Context, err error) error {
	s.logger.Warn("request failed", "path", c.Path(), "error", err)
	return c.JSON(httpStatus(err), detail(err.Error()))
}

func (s *Server) handleLogin(c echo.Context) error {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, detail("malformed request body"))
	}
	token, err := s.authn.Login(in.Username, in.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, detail("invalid username or password"))
	}
	return c.JSON(http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

func (s *Server) handleGenerateSQL(c echo.Context) error {
	var in struct {
		Question string `json:"question"`
	}
	if err := c.Bind(&in); err != nil || strings.TrimSpace(in.Question) == "" {
		return c.JSON(http.StatusUnprocessableEntity, detail("question must not be empty"))
	}
	sqlText, err := s.pipe.Generate(c.Request().Context(), in.Question)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"sql": sqlText})
}

func (s *Server) handleFixSQL(c echo.Context) error {
	var in struct {
		SQL      string `json:"sql"`
		ErrorMsg string `json:"error_msg"`
	}
	if err := c.Bind(&in); err != nil || strings.TrimSpace(in.SQL) == "" {
		return c.JSON(http.StatusUnprocessableEntity, detail("sql must not be empty"))
	}
	fixed, err := s.pipe.Fix(c.Request().Context(), in.SQL, in.ErrorMsg)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"sql": fixed})
}

func (s *Server) handleExplainSQL(c echo.Context) error {
	var in struct {
		SQL string `json:"sql"`
	}
	if err := c.Bind(&in); err != nil || strings.TrimSpace(in.SQL) == "" {
		return c.JSON(http.StatusUnprocessableEntity, detail("sql must not be empty"))
	}
	explanation, err := s.pipe.Explain(c.Request().Context(), in.SQL)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"explanation": explanation})
}

func (s *Server) handleValidateSQL(c echo.Context) error {
	var in struct {
		SQL string `json:"sql"`
	}
	if err := c.Bind(&in); err != nil || strings.TrimSpace(in.SQL) == "" {
		return c.JSON(http.StatusUnprocessableEntity, detail("sql must not be empty"))
	}
	v, err := s.pipe.Validate(c.Request().Context(), in.SQL)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (s *Server) handleExecuteSQL(c echo.Context) error {
	var in struct {
		Question string `json:"question"`
		SQL      string `json:"sql"`
	}
	if err := c.Bind(&in); err != nil || strings.TrimSpace(in.SQL) == "" {
		return c.JSON(http.StatusUnprocessableEntity, detail("sql must not be empty"))
	}

	ctx := c.Request().Context()
	res, err := s.pipe.Execute(ctx, in.SQL)
	if err != nil {
		return s.fail(c, err)
	}

	question := in.Question
	if question == "" {
		question = in.SQL
	}
	username, _ := c.Get(auth.ContextKeyUser).(string)
	if _, err := s.store.RecordQuery(ctx, username, question, in.SQL, res.RowCount); err != nil {
		s.logger.Warn("recording query history", "error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"sql":       in.SQL,
		"columns":   res.Columns,
		"results":   rowsAsObjects(res.Columns, res.Rows),
		"row_count": res.RowCount,
	})
}

func (s *Server) handleHistory(c echo.Context) error {
	username, _ := c.Get(auth.ContextKeyUser).(string)
	records, err := s.store.History(c.Request().Context(), username, 50)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"queries": records})
}

func (s *Server) handleFeedback(c echo.Context) error {
	var in struct {
		QueryID  string `json:"query_id"`
		Question string `json:"question"`
		Feedback string `json:"feedback"`
		Rating   int    `json:"rating"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, detail("malformed request body"))
	}
	username, _ := c.Get(auth.ContextKeyUser).(string)
	id, err := s.store.RecordFeedback(c.Request().Context(), FeedbackRecord{
		QueryID:  in.QueryID,
		Username: username,
		Question: in.Question,
		Feedback: in.Feedback,
		Rating:   in.Rating,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id, "status": "recorded"})
}

func (s *Server) handleHealth(c echo.Context) error {
	ctx := c.Request().Context()
	deps := map[string]string{}

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = "unreachable"
	}
	deps["database"] = dbStatus

	cacheStatus := "healthy"
	if !s.cache.Enabled() {
		cacheStatus = "disabled"
	}
	deps["cache"] = cacheStatus

	providers := 0
	if s.cfg.LLM.BaseURL != "" {
		providers = 1
	}

	status := "healthy"
	if dbStatus != "healthy" {
		status = "degraded"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":           status,
		"providers_active": providers,
		"dependencies":     deps,
	})
}

func (s *Server) handleAdminConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, s.cfg.Redacted())
}

func (s *Server) handleTargetDBHealth(c echo.Context) error {
	if err := s.runner.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusOK, map[string]any{"status": "unreachable", "detail": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "healthy", "engine": string(s.pipe.Kind)})
}

// handleTargetDBTest runs a one-off connectivity check against a
// caller-supplied descriptor. Credentials are never persisted.
func (s *Server) handleTargetDBTest(c echo.Context) error {
	var payload map[string]string
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, detail("malformed request body"))
	}
	result, err := testConnection(c.Request().Context(), payload)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]any{"status": "failed", "detail": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// handleTrain acknowledges a training request. Model training itself is
// beyond the backend; the endpoint reports the feedback volume that
// would feed it.
func (s *Server) handleTrain(c echo.Context) error {
	n, err := s.store.FeedbackCount(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "accepted", "feedback_rows": n})
}

func rowsAsObjects(columns []string, rows [][]any) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		out = append(out, obj)
	}
	return out
}
