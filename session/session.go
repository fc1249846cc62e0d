package session

import (
	"context"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// Session is an initialized connection to a tool server. At most one
// request is outstanding at a time.
type Session interface {
	CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error)
	Server() ServerInfo
}

// ServerInfo identifies the tool server as reported in the handshake.
type ServerInfo struct {
	Name            string
	Version         string
	ProtocolVersion string
}

type mcpSession struct {
	client *client.Client
	server ServerInfo
	slot   chan struct{}
}

func newSession(c *client.Client, init *mcp.InitializeResult) *mcpSession {
	s := &mcpSession{
		client: c,
		slot:   make(chan struct{}, 1),
	}
	if init != nil {
		s.server = ServerInfo{
			Name:            init.ServerInfo.Name,
			Version:         init.ServerInfo.Version,
			ProtocolVersion: init.ProtocolVersion,
		}
	}
	return s
}

func (s *mcpSession) Server() ServerInfo { return s.server }

// CallTool sends one tools/call request and waits for its reply. When the
// server exits first the error is the exit cause.
func (s *mcpSession) CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, serverExit(ctx, ctx.Err())
	}
	defer func() { <-s.slot }()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := s.client.CallTool(ctx, req)
	if err != nil {
		return nil, serverExit(ctx, err)
	}
	return fromMCP(res), nil
}
