// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"strings"
	"testing"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		hidden string
	}{
		{
			name:   "postgres url password",
			in:     "connect failed: postgresql://app:s3cr3t@db:5432/sales",
			hidden: "s3cr3t",
		},
		{
			name:   "bearer token",
			in:     "request rejected: Bearer eyJhbGciOiJIUzI1NiJ9.abc.def",
			hidden: "eyJhbGciOiJIUzI1NiJ9",
		},
		{
			name:   "password pair",
			in:     "dial error password=hunter2 host=db",
			hidden: "hunter2",
		},
		{
			name:   "api key pair",
			in:     "llm call failed api_key=sk-12345",
			hidden: "sk-12345",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Mask(tt.in)
			if strings.Contains(out, tt.hidden) {
				t.Errorf("Mask(%q) = %q, still contains %q", tt.in, out, tt.hidden)
			}
		})
	}
}

func TestMaskKeepsContext(t *testing.T) {
	out := Mask("connect failed: postgresql://app:s3cr3t@db:5432/sales")
	if !strings.Contains(out, "db:5432/sales") {
		t.Errorf("Mask removed non-secret context: %q", out)
	}
}
