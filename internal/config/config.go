// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads insight configuration from an optional YAML file with
// environment variable overrides. Engine credentials and API keys come from
// the environment only and are never read from or written to the file.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"wosool/insight/internal/xdg"
)

// LLMConfig holds language-model provider settings.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"-"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// CacheConfig holds result cache store settings. An empty Host disables Redis
// and falls back to the in-process store.
type CacheConfig struct {
	Host string        `yaml:"host"`
	Port int           `yaml:"port"`
	TTL  time.Duration `yaml:"ttl"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	ListenAddr    string `yaml:"listen_addr"`
	JWTSecret     string `yaml:"-"`
	AdminUsername string `yaml:"-"`
	AdminPassword string `yaml:"-"`
	HistoryDB     string `yaml:"history_db"`
}

// Config holds all insight settings.
type Config struct {
	Engine     string        `yaml:"engine"`
	LLM        LLMConfig     `yaml:"llm"`
	Cache      CacheConfig   `yaml:"cache"`
	Server     ServerConfig  `yaml:"server"`
	BackendURL string        `yaml:"backend_url"`
	Timeout    time.Duration `yaml:"timeout"`
	LogLevel   string        `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		Engine: "sqlite",
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			MaxTokens:   1024,
			Temperature: 0.5,
		},
		Cache: CacheConfig{Port: 6379, TTL: time.Hour},
		Server: ServerConfig{
			ListenAddr: ":7262",
			HistoryDB:  "insight-history.db",
		},
		BackendURL: "http://localhost:7262",
		Timeout:    30 * time.Second,
		LogLevel:   "info",
	}
}

// path returns the path to the optional config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads configuration: defaults, then the optional YAML file, then
// environment overrides. A missing file is not an error.
func Load() (Config, error) {
	c := defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, err
		}
	}
	applyEnv(&c)
	return c, nil
}

// applyEnv overlays environment variables onto the configuration.
// Secrets are environment-only and never read from the YAML file.
func applyEnv(c *Config) {
	setStr(&c.Engine, "DB_ENGINE")
	setStr(&c.LLM.BaseURL, "LLM_BASE_URL")
	setStr(&c.LLM.APIKey, "LLM_API_KEY")
	setStr(&c.LLM.Model, "LLM_MODEL")
	setStr(&c.Cache.Host, "REDIS_HOST")
	setInt(&c.Cache.Port, "REDIS_PORT")
	setStr(&c.BackendURL, "BACKEND_URL")
	setStr(&c.Server.ListenAddr, "LISTEN_ADDR")
	setStr(&c.Server.JWTSecret, "JWT_SECRET")
	setStr(&c.Server.AdminUsername, "ADMIN_USERNAME")
	setStr(&c.Server.AdminPassword, "ADMIN_PASSWORD")
	setStr(&c.Server.HistoryDB, "HISTORY_DB")
	setStr(&c.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Cache.TTL = time.Duration(secs) * time.Second
		}
	}
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Redacted returns a map view of the configuration suitable for the admin
// config endpoint: secrets replaced, structure preserved.
func (c Config) Redacted() map[string]any {
	red := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	out := map[string]any{
		"engine":      c.Engine,
		"backend_url": c.BackendURL,
		"timeout":     c.Timeout.String(),
		"log_level":   c.LogLevel,
		"llm": map[string]any{
			"base_url": c.LLM.BaseURL,
			"api_key":  red(c.LLM.APIKey),
			"model":    c.LLM.Model,
		},
		"cache": map[string]any{
			"host": c.Cache.Host,
			"port": c.Cache.Port,
			"ttl":  c.Cache.TTL.String(),
		},
		"server": map[string]any{
			"listen_addr": c.Server.ListenAddr,
			"history_db":  c.Server.HistoryDB,
		},
	}
	// Round-trip to drop typed nils for stable JSON rendering.
	b, _ := json.Marshal(out)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}
