// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	ierr "wosool/insight/internal/errors"
)

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
}

func TestChatReturnsContent(t *testing.T) {
	var hit int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hit, 1)
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(chatResponse("SELECT 1;"))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL, APIKey: "test-key", Model: "gpt-4o-mini"}
	got, err := client.Chat(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if got != "SELECT 1;" {
		t.Fatalf("content = %q", got)
	}
	if atomic.LoadInt32(&hit) != 1 {
		t.Fatalf("expected 1 request, got %d", hit)
	}
}

func TestChatRetriesOn5xx(t *testing.T) {
	var hit int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hit, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse("SELECT 2;"))
	}))
	defer srv.Close()

	origSleep := sleepFn
	sleepFn = func(time.Duration) {}
	defer func() { sleepFn = origSleep }()

	client := &Client{BaseURL: srv.URL, Model: "gpt-4o-mini"}
	got, err := client.Chat(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if got != "SELECT 2;" {
		t.Fatalf("content = %q", got)
	}
	if atomic.LoadInt32(&hit) != 2 {
		t.Fatalf("expected 2 requests, got %d", hit)
	}
}

func TestChatWrapsClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad prompt"}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL, Model: "gpt-4o-mini"}
	_, err := client.Chat(context.Background(), "sys", "user")
	if !ierr.Is(err, ierr.GenerationFailure) {
		t.Fatalf("expected generation_failure, got %v", err)
	}
}

func TestChatEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL, Model: "gpt-4o-mini"}
	_, err := client.Chat(context.Background(), "sys", "user")
	if !ierr.Is(err, ierr.GenerationFailure) {
		t.Fatalf("expected generation_failure, got %v", err)
	}
}
