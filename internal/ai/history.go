package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Turn is one message of the refinement chat.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History is the chat transcript sent by the client. It decodes from a
// plain string, an array of strings or an array of {role, content} objects.
type History []Turn

func (h *History) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*h = nil
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*h = nil
		if strings.TrimSpace(s) != "" {
			*h = History{{Content: s}}
		}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("chat history must be a string or an array: %w", err)
	}

	out := make(History, 0, len(raw))
	for i, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, Turn{Content: s})
			continue
		}
		var t Turn
		if err := json.Unmarshal(item, &t); err != nil {
			return fmt.Errorf("chat history entry %d: %w", i, err)
		}
		out = append(out, t)
	}
	*h = out
	return nil
}

// String renders one line per turn, "role: content" when a role is known.
func (h History) String() string {
	lines := make([]string, 0, len(h))
	for _, t := range h {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		if t.Role != "" {
			lines = append(lines, t.Role+": "+content)
		} else {
			lines = append(lines, content)
		}
	}
	return strings.Join(lines, "\n")
}
