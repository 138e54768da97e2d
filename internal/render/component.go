// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render draws streamed chat chunks and their component trees
// on the terminal.
package render

import "encoding/json"

// ChatChunk is one streamed message of a conversation turn. Any field
// may be absent; an absent field simply renders nothing.
type ChatChunk struct {
	ConversationID string     `json:"conversation_id,omitempty"`
	Rich           *Component `json:"rich,omitempty"`
	Simple         *Component `json:"simple,omitempty"`
}

// Component is a node of the agent's UI tree. Unknown types keep their
// raw payload so they can still be shown verbatim.
type Component struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	Href     string         `json:"href,omitempty"`
	URL      string         `json:"url,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Children []*Component   `json:"children,omitempty"`

	raw json.RawMessage
}

func (c *Component) UnmarshalJSON(b []byte) error {
	type alias Component
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*c = Component(a)
	c.raw = append(json.RawMessage(nil), b...)
	return nil
}

// Raw returns the component's original JSON payload, re-serializing
// when the component was built in memory rather than decoded.
func (c *Component) Raw() []byte {
	if c.raw != nil {
		return c.raw
	}
	b, err := json.Marshal(c)
	if err != nil {
		return []byte("{}")
	}
	return b
}

func (c *Component) dataString(keys ...string) string {
	for _, k := range keys {
		if v, ok := c.Data[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
