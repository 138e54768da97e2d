// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend is the resilient HTTP client for the insight API.
//
// Every call resolves to either a decoded payload or an error with a
// user-facing message; transport-level failures never leak to callers.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	ierr "wosool/insight/internal/errors"
	"wosool/insight/internal/session"
)

var sleepFn = time.Sleep

// Fault is a server-reported error carried through unchanged.
type Fault struct {
	StatusCode int
	Message    string
}

func (f *Fault) Error() string { return f.Message }

// Client calls the insight backend with automatic retries and session
// handling.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	policy  *RetryPolicy
	logger  *slog.Logger
}

// New creates a Client against the given base URL.
func New(baseURL string, sess *session.Session, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
		policy:  DefaultRetryPolicy(),
		logger:  log,
	}
}

// Session exposes the client's auth session.
func (c *Client) Session() *session.Session { return c.session }

// do performs one logical request with up to MaxAttempts tries. Calls
// that require authentication refuse locally when the session is not
// valid, avoiding a wasted round trip.
func (c *Client) do(ctx context.Context, method, path string, body, out any, needAuth bool) error {
	if needAuth && !c.session.Valid() {
		return ierr.New(ierr.AuthenticationRequired, "Authentication required. Please log in first.")
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			sleepFn(c.policy.NextDelay(attempt - 1))
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if tok := c.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ierr.Wrap(ierr.Timeout, "request cancelled", ctx.Err())
			}
			c.logger.Debug("request failed", "method", method, "path", path, "attempt", attempt, "error", err)
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				lastErr = ierr.Wrap(ierr.Timeout, fmt.Sprintf("Request timed out: %v", err), err)
			} else {
				lastErr = ierr.Wrap(ierr.ConnectionError, fmt.Sprintf("Connection error: %v", err), err)
			}
			continue
		}

		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = ierr.Wrap(ierr.ConnectionError, "reading response", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
			if out != nil && len(data) > 0 {
				if err := json.Unmarshal(data, out); err != nil {
					return fmt.Errorf("decoding response: %w", err)
				}
			}
			return nil
		case resp.StatusCode == http.StatusUnauthorized:
			_ = c.session.Clear()
			return ierr.New(ierr.Unauthorized, "Unauthorized. Please log in again.")
		case resp.StatusCode == http.StatusForbidden:
			return ierr.New(ierr.AccessDenied, "Access denied.")
		case resp.StatusCode == http.StatusNotFound:
			return ierr.New(ierr.NotFound, "Endpoint not found.")
		case retryableStatus(resp.StatusCode):
			c.logger.Debug("retryable status", "method", method, "path", path, "attempt", attempt, "status", resp.StatusCode)
			lastErr = &Fault{StatusCode: resp.StatusCode, Message: errorDetail(resp.StatusCode, data)}
			continue
		default:
			return &Fault{StatusCode: resp.StatusCode, Message: errorDetail(resp.StatusCode, data)}
		}
	}
	return lastErr
}

// errorDetail extracts a server-provided detail field, falling back to
// the raw status and body.
func errorDetail(status int, body []byte) string {
	var out struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &out); err == nil {
		if out.Detail != "" {
			return out.Detail
		}
		if out.Error != "" {
			return out.Error
		}
	}
	return fmt.Sprintf("HTTP %d: %s", status, strings.TrimSpace(string(body)))
}
