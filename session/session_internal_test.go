package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestCallToolSingleSlot(t *testing.T) {
	s := newSession(nil, nil)
	s.slot <- struct{}{} // a request is in flight

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.CallTool(ctx, "transcribe_audio", nil); err != context.Canceled {
		t.Fatalf("expected second request to wait for the slot, got %v", err)
	}
}

func TestCallToolReportsServerExit(t *testing.T) {
	s := newSession(nil, nil)
	s.slot <- struct{}{}

	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(fmt.Errorf("%w: exit status 1", ErrServerExited))
	_, err := s.CallTool(ctx, "transcribe_audio", nil)
	if !errors.Is(err, ErrServerExited) || err.Error() != "tool server exited: exit status 1" {
		t.Fatalf("expected the exit cause, got %v", err)
	}
}

func TestFromMCP(t *testing.T) {
	if fromMCP(nil) != nil {
		t.Error("expected nil for nil result")
	}

	res := &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewImageContent("aGk=", "image/png"),
			mcp.NewTextContent("first"),
			mcp.NewTextContent("second"),
		},
		IsError: true,
	}
	got := fromMCP(res)
	if !got.IsError {
		t.Error("expected IsError carried over")
	}
	kinds := got.Kinds()
	if len(kinds) != 3 || kinds[0] != "image" || kinds[1] != ContentText {
		t.Errorf("unexpected kinds %v", kinds)
	}
	if text, ok := got.FirstText(); !ok || text != "first" {
		t.Errorf("expected first text item, got %q", text)
	}
}

func TestToolResultNilSafe(t *testing.T) {
	var r *ToolResult
	if _, ok := r.FirstText(); ok {
		t.Error("nil result has no text")
	}
	if r.Kinds() != nil {
		t.Error("nil result has no kinds")
	}
}
