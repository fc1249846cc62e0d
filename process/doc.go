// Package process launches a long-lived child process whose standard input
// and output carry a line-oriented protocol, and tears it down again.
//
// The child runs in its own process group. Stop closes its stdin first, then
// escalates to SIGTERM and SIGKILL on the whole group, waiting GracePeriod
// between steps:
//
//	h, err := process.Start(ctx, process.Command{Binary: "uvx", Args: []string{"deepgram-mcp"}})
//	if err != nil {
//	    return err
//	}
//	defer h.Stop(context.Background())
//	// write requests to h.Stdin(), read replies from h.Stdout()
package process
