package jamai

import (
	"encoding/json"
	"strings"
)

// cell is a single column value in a row response. Input columns come
// back as plain JSON strings while generated columns arrive as
// chat-completion objects; both decode to the text the caller cares about.
type cell struct {
	Text string
}

// completionCell mirrors the chat-completion shape generated columns use.
type completionCell struct {
	Object  string `json:"object"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Text string `json:"text"`
}

func (c *cell) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		c.Text = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Text = s
		return nil
	}

	var comp completionCell
	if err := json.Unmarshal(data, &comp); err == nil {
		if len(comp.Choices) > 0 && comp.Choices[0].Message.Content != "" {
			c.Text = comp.Choices[0].Message.Content
			return nil
		}
		if comp.Text != "" {
			c.Text = comp.Text
			return nil
		}
	}

	// Scalars and unrecognized objects keep their literal JSON text so
	// downstream parsing can still make sense of them.
	c.Text = raw
	return nil
}
