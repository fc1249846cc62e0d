package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Handle is a running child process.
type Handle struct {
	cmd   *exec.Cmd
	grace time.Duration

	// parent ends of the stdio pipes
	stdin  *os.File
	stdout *os.File

	done    chan struct{}
	waitErr error

	stopOnce sync.Once
	stopErr  error
}

// Start launches cmd and returns once the process is running. The context
// bounds the process lifetime: when it is canceled the process group gets
// SIGTERM, then SIGKILL after the grace period.
func Start(ctx context.Context, cmd Command) (*Handle, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	// os.Pipe rather than StdinPipe/StdoutPipe: exec.Cmd.Wait closes the
	// latter, racing with a reader that still drains buffered replies.
	childIn, parentIn, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdin pipe: %w", err)
	}
	parentOut, childOut, err := os.Pipe()
	if err != nil {
		closeAll(childIn, parentIn)
		return nil, fmt.Errorf("process: stdout pipe: %w", err)
	}

	grace := cmd.gracePeriod()
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	c.Stdin = childIn
	c.Stdout = childOut
	c.Stderr = cmd.Stderr

	// Use process group so we can kill the entire tree
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = grace

	if err := c.Start(); err != nil {
		closeAll(childIn, parentIn, parentOut, childOut)
		return nil, fmt.Errorf("process: start %s: %w", cmd.Binary, err)
	}
	// The child holds its own copies now.
	closeAll(childIn, childOut)

	h := &Handle{
		cmd:    c,
		grace:  grace,
		stdin:  parentIn,
		stdout: parentOut,
		done:   make(chan struct{}),
	}
	go func() {
		h.waitErr = c.Wait()
		close(h.done)
	}()
	return h, nil
}

// Stdin returns the write end of the child's standard input.
func (h *Handle) Stdin() io.WriteCloser { return h.stdin }

// Stdout returns the read end of the child's standard output.
func (h *Handle) Stdout() io.Reader { return h.stdout }

// Pid returns the child's process id.
func (h *Handle) Pid() int { return h.cmd.Process.Pid }

// Done is closed once the process has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }

// ExitCode returns the exit code, or -1 while running or when killed by a signal.
func (h *Handle) ExitCode() int {
	select {
	case <-h.done:
		return h.cmd.ProcessState.ExitCode()
	default:
		return -1
	}
}

// Err returns the result of waiting on the process once it has exited.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.waitErr
	default:
		return nil
	}
}

// Stop shuts the process down: close stdin and wait, SIGTERM the group and
// wait, then SIGKILL. A canceled ctx skips the remaining waits. Stop is
// idempotent; later calls return the first result.
func (h *Handle) Stop(ctx context.Context) error {
	h.stopOnce.Do(func() {
		h.stopErr = h.stop(ctx)
	})
	return h.stopErr
}

func (h *Handle) stop(ctx context.Context) error {
	defer h.stdout.Close()

	_ = h.stdin.Close()
	if h.wait(ctx) {
		return nil
	}

	_ = h.signal(syscall.SIGTERM)
	if h.wait(ctx) {
		return nil
	}

	if err := h.signal(syscall.SIGKILL); err != nil {
		return fmt.Errorf("process: kill %d: %w", h.Pid(), err)
	}
	<-h.done
	return fmt.Errorf("process: %d did not exit within %s of SIGTERM, killed", h.Pid(), h.grace)
}

// wait reports whether the process exited within the grace period.
func (h *Handle) wait(ctx context.Context) bool {
	timer := time.NewTimer(h.grace)
	defer timer.Stop()

	select {
	case <-h.done:
		return true
	case <-ctx.Done():
		select {
		case <-h.done:
			return true
		default:
			return false
		}
	case <-timer.C:
		return false
	}
}

func (h *Handle) signal(sig syscall.Signal) error {
	select {
	case <-h.done:
		return nil
	default:
	}
	err := syscall.Kill(-h.cmd.Process.Pid, sig)
	if err == syscall.ESRCH {
		return nil
	}
	return err
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
