// Package testutil provides test doubles and helpers shared by the package
// tests: an in-process MCP tool server that plugs into session.Manager, a
// concurrency-safe log capture, and small filesystem helpers.
//
//	ts := testutil.NewToolServer(t, "fake-deepgram")
//	ts.AddTextTool("transcribe_audio", `{"transcript":"hi"}`)
//	m := session.NewManager(cfg, session.WithLauncher(ts.Launcher()))
package testutil
