// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package llm talks to an OpenAI-compatible chat completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	ierr "wosool/insight/internal/errors"
)

// Client is an OpenAI-compatible chat completions client.
type Client struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

var sleepFn = time.Sleep

const maxRetries = 3

// Chat sends a system and user prompt and returns the first choice's
// content. Transient failures (transport errors, 429, 5xx) are retried
// with exponential backoff.
func (c *Client) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	payload := map[string]any{
		"model":       c.Model,
		"max_tokens":  c.MaxTokens,
		"temperature": c.Temperature,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	if c.Logger != nil {
		c.Logger.Debug("llm request", "url", endpoint, "model", c.Model)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.APIKey)
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ierr.Wrap(ierr.Timeout, "language model request cancelled", ctx.Err())
			}
			lastErr = err
			if attempt < maxRetries {
				sleepFn(backoff(attempt))
				continue
			}
			return "", ierr.Wrap(ierr.GenerationFailure, "language model unreachable", err)
		}
		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				sleepFn(backoff(attempt))
				continue
			}
			return "", ierr.Wrap(ierr.GenerationFailure, "reading language model response", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("llm error status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
			if attempt < maxRetries {
				wait := backoff(attempt)
				if resp.StatusCode == http.StatusTooManyRequests {
					if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
						if secs, err := strconv.Atoi(ra); err == nil {
							wait = time.Duration(secs) * time.Second
						}
					}
				}
				sleepFn(wait)
				continue
			}
			return "", ierr.Wrap(ierr.GenerationFailure, "language model request failed", lastErr)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", ierr.New(ierr.GenerationFailure,
				fmt.Sprintf("llm error status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
		}

		var out struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			return "", ierr.Wrap(ierr.GenerationFailure, "decoding language model response", err)
		}
		if len(out.Choices) == 0 {
			return "", ierr.New(ierr.GenerationFailure, "language model response has no choices")
		}
		content := out.Choices[0].Message.Content
		if c.Logger != nil {
			c.Logger.Debug("llm response", "content", content)
		}
		return content, nil
	}
	if lastErr == nil {
		lastErr = ierr.New(ierr.GenerationFailure, "language model request failed")
	}
	return "", lastErr
}

func backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return time.Second << attempt
}
