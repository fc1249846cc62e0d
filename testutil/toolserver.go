package testutil

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fyaic/multimedia-to-note/session"
)

// ToolServer is an MCP server served over in-memory pipes.
type ToolServer struct {
	t   testing.TB
	srv *server.MCPServer

	mu       sync.Mutex
	launches int
	stops    int
	calls    []mcp.CallToolRequest
}

// NewToolServer creates an empty tool server named name.
func NewToolServer(t testing.TB, name string) *ToolServer {
	t.Helper()
	return &ToolServer{
		t:   t,
		srv: server.NewMCPServer(name, "test", server.WithToolCapabilities(false)),
	}
}

// AddTool registers a tool. Every call is recorded before h runs.
func (ts *ToolServer) AddTool(tool mcp.Tool, h server.ToolHandlerFunc) {
	ts.srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ts.mu.Lock()
		ts.calls = append(ts.calls, req)
		ts.mu.Unlock()
		return h(ctx, req)
	})
}

// AddTextTool registers a tool that always replies with one text item.
func (ts *ToolServer) AddTextTool(name, reply string) {
	ts.AddTool(mcp.NewTool(name), func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(reply), nil
	})
}

// Calls returns the recorded tool calls.
func (ts *ToolServer) Calls() []mcp.CallToolRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]mcp.CallToolRequest(nil), ts.calls...)
}

// Launches returns how many times the launcher ran.
func (ts *ToolServer) Launches() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.launches
}

// Stops returns how many launched servers were stopped.
func (ts *ToolServer) Stops() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.stops
}

// Launcher returns a session.Launcher serving this server over io.Pipe.
func (ts *ToolServer) Launcher() session.Launcher {
	return func(ctx context.Context, _ session.Config) (session.Pipe, error) {
		ts.mu.Lock()
		ts.launches++
		ts.mu.Unlock()

		inR, inW := io.Pipe()
		outR, outW := io.Pipe()
		sctx, cancel := context.WithCancel(context.Background())
		p := &memPipe{
			stdin:  inW,
			stdout: outR,
			cancel: cancel,
			done:   make(chan struct{}),
			onStop: func() {
				ts.mu.Lock()
				ts.stops++
				ts.mu.Unlock()
			},
		}
		go func() {
			defer close(p.done)
			_ = server.NewStdioServer(ts.srv).Listen(sctx, inR, outW)
			_ = outW.Close()
		}()
		ts.t.Cleanup(func() { _ = p.Stop(context.Background()) })
		return p, nil
	}
}

type memPipe struct {
	stdin  *io.PipeWriter
	stdout *io.PipeReader
	cancel context.CancelFunc
	done   chan struct{}
	onStop func()
	once   sync.Once
}

func (p *memPipe) Stdout() io.Reader      { return p.stdout }
func (p *memPipe) Stdin() io.WriteCloser { return p.stdin }
func (p *memPipe) Done() <-chan struct{}  { return p.done }
func (p *memPipe) Err() error             { return nil }

func (p *memPipe) Stop(ctx context.Context) error {
	p.once.Do(func() {
		_ = p.stdin.Close()
		_ = p.stdout.Close()
		p.cancel()
		select {
		case <-p.done:
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
		p.onStop()
	})
	return nil
}
