// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	ierr "wosool/insight/internal/errors"
	"wosool/insight/internal/render"
)

// streamDone is the sentinel frame that ends a conversation turn.
const streamDone = "[DONE]"

// ChatStream opens a streaming chat turn and yields chunks in arrival
// order. Passing the previous turn's conversation id continues that
// conversation; an empty id starts a new one. The chunk channel closes
// when the turn ends; the error channel delivers at most one terminal
// error. Consuming a stream twice is not supported.
func (c *Client) ChatStream(ctx context.Context, message, conversationID string) (<-chan render.ChatChunk, <-chan error, error) {
	if !c.session.Valid() {
		return nil, nil, ierr.New(ierr.AuthenticationRequired, "Authentication required. Please log in first.")
	}

	payload, err := json.Marshal(map[string]string{
		"message":         message,
		"conversation_id": conversationID,
	})
	if err != nil {
		return nil, nil, err
	}

	// Connection attempts honor the retry policy; once the stream is
	// open there are no mid-stream retries.
	var resp *http.Response
	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			sleepFn(c.policy.NextDelay(attempt - 1))
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/stream", bytes.NewReader(payload))
		if err != nil {
			return nil, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")
		if tok := c.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}

		// The client's fixed timeout would kill a long-lived stream, so
		// the stream request relies on ctx alone.
		streamClient := &http.Client{Transport: c.http.Transport}
		resp, err = streamClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ierr.Wrap(ierr.Timeout, "stream request cancelled", ctx.Err())
			}
			lastErr = ierr.Wrap(ierr.ConnectionError, fmt.Sprintf("Connection error: %v", err), err)
			continue
		}
		if resp.StatusCode == http.StatusOK {
			break
		}
		status := resp.StatusCode
		data, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		resp = nil
		switch {
		case status == http.StatusUnauthorized:
			_ = c.session.Clear()
			return nil, nil, ierr.New(ierr.Unauthorized, "Unauthorized. Please log in again.")
		case status == http.StatusForbidden:
			return nil, nil, ierr.New(ierr.AccessDenied, "Access denied.")
		case status == http.StatusNotFound:
			return nil, nil, ierr.New(ierr.NotFound, "Endpoint not found.")
		case retryableStatus(status):
			lastErr = &Fault{StatusCode: status, Message: errorDetail(status, data)}
		default:
			return nil, nil, &Fault{StatusCode: status, Message: errorDetail(status, data)}
		}
	}
	if resp == nil {
		return nil, nil, lastErr
	}

	chunks := make(chan render.ChatChunk)
	errs := make(chan error, 1)
	go func() {
		defer close(chunks)
		defer close(errs)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			data, ok := strings.CutPrefix(line, "data:")
			if !ok {
				continue
			}
			data = strings.TrimSpace(data)
			if data == "" || data == streamDone {
				if data == streamDone {
					return
				}
				continue
			}
			var chunk render.ChatChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				c.logger.Debug("skipping malformed stream frame", "error", err)
				continue
			}
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			errs <- ierr.Wrap(ierr.ConnectionError, "stream interrupted", err)
		}
	}()
	return chunks, errs, nil
}
