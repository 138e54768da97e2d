// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderChunkDepthFirstChildrenAfterContent(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	chunk := &ChatChunk{
		Rich: &Component{
			Type: "rich_text",
			Data: map[string]any{"content": "root"},
			Children: []*Component{
				{
					Type: "rich_text",
					Data: map[string]any{"content": "child-a"},
					Children: []*Component{
						{Type: "rich_text", Data: map[string]any{"content": "grandchild"}},
					},
				},
				{Type: "rich_text", Data: map[string]any{"content": "child-b"}},
			},
		},
	}
	r.RenderChunk(chunk)

	out := buf.String()
	order := []string{"root", "child-a", "grandchild", "child-b"}
	last := -1
	for _, leaf := range order {
		idx := strings.Index(out, leaf)
		if idx < 0 {
			t.Fatalf("output missing %q:\n%s", leaf, out)
		}
		if idx <= last {
			t.Fatalf("%q rendered out of order:\n%s", leaf, out)
		}
		if strings.Count(out, leaf) != 1 {
			t.Fatalf("%q rendered more than once:\n%s", leaf, out)
		}
		last = idx
	}
}

func TestRenderUnknownTypeFallsBackToRaw(t *testing.T) {
	payload := []byte(`{"type":"hologram","data":{"shape":"cube"}}`)
	var c Component
	if err := json.Unmarshal(payload, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var buf bytes.Buffer
	New(&buf).RenderChunk(&ChatChunk{Rich: &c})

	if !strings.Contains(buf.String(), "hologram") || !strings.Contains(buf.String(), "cube") {
		t.Errorf("raw payload not shown:\n%s", buf.String())
	}
}

func TestRenderAbsentFieldsRenderNothing(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.RenderChunk(nil)
	r.RenderChunk(&ChatChunk{})
	r.RenderChunk(&ChatChunk{Rich: &Component{Type: "rich_text"}})

	if buf.Len() != 0 {
		t.Errorf("expected no output, got:\n%s", buf.String())
	}
}

func TestRenderSimpleLink(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).RenderChunk(&ChatChunk{
		Simple: &Component{Type: "link", Text: "docs", Href: "https://example.com"},
	})
	got := buf.String()
	if !strings.Contains(got, "docs") || !strings.Contains(got, "https://example.com") {
		t.Errorf("link not rendered: %q", got)
	}
}

func TestRenderDataframe(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).RenderChunk(&ChatChunk{
		Rich: &Component{
			Type: "dataframe",
			Data: map[string]any{"rows": []any{
				map[string]any{"name": "alice", "total": float64(3)},
				map[string]any{"name": "bob", "total": float64(5)},
			}},
		},
	})
	out := buf.String()
	for _, want := range []string{"name", "total", "alice", "bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDataframeEmpty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).RenderChunk(&ChatChunk{
		Rich: &Component{Type: "dataframe", Data: map[string]any{"rows": []any{}}},
	})
	if !strings.Contains(buf.String(), "No rows returned") {
		t.Errorf("empty dataframe message missing:\n%s", buf.String())
	}
}

func TestStatusLevels(t *testing.T) {
	for _, level := range []string{"error", "warning", "success", "info", ""} {
		var buf bytes.Buffer
		New(&buf).RenderChunk(&ChatChunk{
			Rich: &Component{Type: "notification", Data: map[string]any{
				"level":   level,
				"message": "something happened",
			}},
		})
		if !strings.Contains(buf.String(), "something happened") {
			t.Errorf("level %q: message missing:\n%s", level, buf.String())
		}
	}
}
