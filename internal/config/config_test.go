// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Engine != "sqlite" {
		t.Errorf("default engine = %q, want sqlite", c.Engine)
	}
	if c.Timeout != 30*time.Second {
		t.Errorf("default timeout = %v, want 30s", c.Timeout)
	}
	if c.Cache.TTL != time.Hour {
		t.Errorf("default cache TTL = %v, want 1h", c.Cache.TTL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DB_ENGINE", "postgres")
	t.Setenv("REQUEST_TIMEOUT", "5")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("LLM_MODEL", "llama3-70b-8192")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Engine != "postgres" {
		t.Errorf("engine = %q, want postgres", c.Engine)
	}
	if c.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c.Timeout)
	}
	if c.Cache.Host != "cache.internal" || c.Cache.Port != 6380 {
		t.Errorf("cache = %s:%d, want cache.internal:6380", c.Cache.Host, c.Cache.Port)
	}
	if c.LLM.Model != "llama3-70b-8192" {
		t.Errorf("model = %q", c.LLM.Model)
	}
}

func TestFileNeverSuppliesSecrets(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("LLM_API_KEY", "")

	dir := filepath.Join(home, "insight")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	file := "llm:\n  base_url: http://llm.internal/v1\n  api_key: sk-from-file\n  model: from-file\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(file), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.LLM.Model != "from-file" || c.LLM.BaseURL != "http://llm.internal/v1" {
		t.Errorf("non-secret file settings not applied: %+v", c.LLM)
	}
	if c.LLM.APIKey != "" {
		t.Errorf("api_key read from file: %q", c.LLM.APIKey)
	}
}

func TestRedactedHidesSecrets(t *testing.T) {
	c := defaults()
	c.LLM.APIKey = "sk-secret"

	m := c.Redacted()
	llm, ok := m["llm"].(map[string]any)
	if !ok {
		t.Fatalf("redacted config missing llm section: %v", m)
	}
	if llm["api_key"] != "***" {
		t.Errorf("api_key not redacted: %v", llm["api_key"])
	}
}
