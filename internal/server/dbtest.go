// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"time"

	"wosool/insight/internal/engine"
)

// testConnection builds a descriptor from env-style keys in the payload
// (plus an "engine" kind selector) and pings the target once.
func testConnection(ctx context.Context, payload map[string]string) (map[string]any, error) {
	kind, err := engine.KindFromString(payload["engine"])
	if err != nil {
		return nil, err
	}
	desc, err := engine.BuildDescriptor(kind, func(key string) string { return payload[key] })
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	runner, err := engine.Open(ctx, desc)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	if err := runner.Ping(ctx); err != nil {
		return nil, err
	}
	return map[string]any{"status": "healthy", "engine": string(kind)}, nil
}
