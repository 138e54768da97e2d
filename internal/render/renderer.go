// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pterm/pterm"
)

// Renderer draws chat chunks onto a terminal writer. Chunks are drawn
// strictly in arrival order; a component's children render after the
// component's own content, depth first.
type Renderer struct {
	out io.Writer
}

// New creates a Renderer. A nil writer means stdout.
func New(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderChunk draws one chunk: the rich tree first, then the simple
// component. Absent parts render nothing.
func (r *Renderer) RenderChunk(chunk *ChatChunk) {
	if chunk == nil {
		return
	}
	if chunk.Rich != nil {
		r.renderRich(chunk.Rich)
	}
	if chunk.Simple != nil {
		r.renderSimple(chunk.Simple)
	}
}

func (r *Renderer) renderRich(c *Component) {
	switch strings.ToLower(c.Type) {
	case "rich_text", "text":
		if content := c.dataString("content", "text"); content != "" {
			fmt.Fprintln(r.out, content)
		}
	case "status_card":
		title := c.dataString("title")
		if title == "" {
			title = "Status"
		}
		r.status(c.dataString("status"), title, c.dataString("description"))
	case "status_bar_update", "status_update":
		msg := c.dataString("message")
		if msg == "" {
			msg = "Status update"
		}
		r.status(c.dataString("status"), msg, c.dataString("detail"))
	case "notification":
		msg := c.dataString("message")
		if msg == "" {
			msg = "Notification"
		}
		r.status(c.dataString("level"), msg, c.dataString("description"))
	case "progress_display":
		if p, ok := c.Data["progress"].(float64); ok {
			fmt.Fprintf(r.out, "[%3.0f%%]", clamp01(p)*100)
			if msg := c.dataString("message"); msg != "" {
				fmt.Fprintf(r.out, " %s", msg)
			}
			fmt.Fprintln(r.out)
		} else if msg := c.dataString("message"); msg != "" {
			fmt.Fprintln(r.out, msg)
		}
	case "dataframe":
		r.renderRows(c.Data["rows"])
	case "card", "container":
		if title := c.dataString("title"); title != "" {
			fmt.Fprintln(r.out, pterm.NewStyle(pterm.Bold).Sprint(title))
		}
		if body := c.dataString("body", "description"); body != "" {
			fmt.Fprintln(r.out, body)
		}
	case "log_viewer", "task_list", "task_tracker_update":
		r.renderJSON(c.Data)
	default:
		r.renderJSON(json.RawMessage(c.Raw()))
	}

	for _, child := range c.Children {
		r.renderRich(child)
	}
}

func (r *Renderer) renderSimple(c *Component) {
	switch strings.ToLower(c.Type) {
	case "text":
		if c.Text != "" {
			fmt.Fprintln(r.out, pterm.Gray(c.Text))
		}
	case "link":
		href := c.Href
		if href == "" {
			href = c.URL
		}
		if href == "" {
			return
		}
		label := c.Text
		if label == "" {
			label = href
		}
		fmt.Fprintf(r.out, "%s <%s>\n", label, href)
	default:
		r.renderJSON(json.RawMessage(c.Raw()))
	}
}

func (r *Renderer) status(level, message, detail string) {
	printer := pterm.Info
	switch strings.ToLower(level) {
	case "error", "danger", "fail":
		printer = pterm.Error
	case "warning", "warn":
		printer = pterm.Warning
	case "success", "ok", "ready":
		printer = pterm.Success
	}
	body := message
	if detail != "" {
		body = message + "\n" + detail
	}
	printer.WithWriter(r.out).Println(body)
}

// renderRows draws a dataframe payload: a slice of row objects sharing
// column names.
func (r *Renderer) renderRows(v any) {
	rows, ok := v.([]any)
	if !ok || len(rows) == 0 {
		pterm.Info.WithWriter(r.out).Println("Query executed successfully. No rows returned.")
		return
	}

	first, ok := rows[0].(map[string]any)
	if !ok {
		r.renderJSON(v)
		return
	}
	cols := make([]string, 0, len(first))
	for k := range first {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	data := pterm.TableData{cols}
	for _, rowAny := range rows {
		row, ok := rowAny.(map[string]any)
		if !ok {
			continue
		}
		line := make([]string, len(cols))
		for i, col := range cols {
			line[i] = fmt.Sprint(row[col])
		}
		data = append(data, line)
	}
	_ = pterm.DefaultTable.WithHasHeader().WithWriter(r.out).WithData(data).Render()
}

func (r *Renderer) renderJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintln(r.out, string(b))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
