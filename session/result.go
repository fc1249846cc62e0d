package session

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// Content types seen in tool replies.
const (
	ContentText    = "text"
	ContentUnknown = "unknown"
)

// Content is one item of a tool reply. Text is only set for text items.
type Content struct {
	Type string
	Text string
}

// ToolResult is the reply of a tool call.
type ToolResult struct {
	Content []Content
	IsError bool
}

// FirstText returns the first text item, if any.
func (r *ToolResult) FirstText() (string, bool) {
	if r == nil {
		return "", false
	}
	for _, c := range r.Content {
		if c.Type == ContentText {
			return c.Text, true
		}
	}
	return "", false
}

// Kinds lists the content types in reply order.
func (r *ToolResult) Kinds() []string {
	if r == nil {
		return nil
	}
	kinds := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		kinds = append(kinds, c.Type)
	}
	return kinds
}

func fromMCP(res *mcp.CallToolResult) *ToolResult {
	if res == nil {
		return nil
	}
	out := &ToolResult{
		IsError: res.IsError,
		Content: make([]Content, 0, len(res.Content)),
	}
	for _, c := range res.Content {
		out.Content = append(out.Content, contentFromMCP(c))
	}
	return out
}

func contentFromMCP(c mcp.Content) Content {
	if tc, ok := mcp.AsTextContent(c); ok {
		return Content{Type: ContentText, Text: tc.Text}
	}
	// Every content variant serializes its discriminator as "type".
	var head struct {
		Type string `json:"type"`
	}
	raw, err := json.Marshal(c)
	if err != nil || json.Unmarshal(raw, &head) != nil || head.Type == "" {
		return Content{Type: ContentUnknown}
	}
	return Content{Type: head.Type}
}
