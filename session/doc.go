// Package session manages one MCP client session against a tool server
// running as a child process.
//
// A Manager launches the server, performs the initialize handshake and hands
// an initialized Session to a callback. The transport is released on every
// exit path of the callback, panics included:
//
//	m := session.NewManager(cfg, session.WithLogger(log))
//	err := m.WithSession(ctx, func(ctx context.Context, s session.Session) error {
//	    res, err := s.CallTool(ctx, "transcribe_audio", args)
//	    ...
//	})
package session
