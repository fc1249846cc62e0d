package process_test

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fyaic/multimedia-to-note/process"
)

func TestStartEchoRoundTrip(t *testing.T) {
	h, err := process.Start(context.Background(), process.Command{Binary: "cat"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Stop(context.Background())

	if _, err := io.WriteString(h.Stdin(), "ping\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err := bufio.NewReader(h.Stdout()).ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if line != "ping\n" {
		t.Fatalf("expected 'ping', got %q", line)
	}
	if h.Pid() <= 0 {
		t.Errorf("expected a pid, got %d", h.Pid())
	}
}

func TestStopClosesStdinFirst(t *testing.T) {
	h, err := process.Start(context.Background(), process.Command{
		Binary:      "cat",
		GracePeriod: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	start := time.Now()
	if err := h.Stop(context.Background()); err != nil {
		t.Fatalf("expected graceful stop, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cat should exit on EOF without waiting, took %s", elapsed)
	}
	if h.ExitCode() != 0 {
		t.Errorf("expected exit code 0, got %d", h.ExitCode())
	}
}

func TestStopEscalatesToSIGTERM(t *testing.T) {
	h, err := process.Start(context.Background(), process.Command{
		Binary:      "sleep",
		Args:        []string{"30"},
		GracePeriod: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.Stop(context.Background()); err != nil {
		t.Fatalf("expected SIGTERM to be enough, got %v", err)
	}
	select {
	case <-h.Done():
	default:
		t.Fatal("expected process to have exited")
	}
}

func TestStopEscalatesToSIGKILL(t *testing.T) {
	h, err := process.Start(context.Background(), process.Command{
		Binary:      "sh",
		Args:        []string{"-c", `trap "" TERM; sleep 30`},
		GracePeriod: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// let the shell install its trap
	time.Sleep(100 * time.Millisecond)

	err = h.Stop(context.Background())
	if err == nil || !strings.Contains(err.Error(), "killed") {
		t.Fatalf("expected kill error, got %v", err)
	}
	if again := h.Stop(context.Background()); again != err {
		t.Errorf("expected idempotent Stop, got %v then %v", err, again)
	}
}

func TestStderrForwarded(t *testing.T) {
	var stderr bytes.Buffer
	h, err := process.Start(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo oops >&2; cat"},
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if got := strings.TrimSpace(stderr.String()); got != "oops" {
		t.Fatalf("expected 'oops' on stderr, got %q", got)
	}
}

func TestEnvMerged(t *testing.T) {
	t.Setenv("PARENT_ONLY", "inherited")
	h, err := process.Start(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", `echo "$PARENT_ONLY $EXTRA"`},
		Env:    []string{"EXTRA=added"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.Stop(context.Background())

	line, err := bufio.NewReader(h.Stdout()).ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(line) != "inherited added" {
		t.Fatalf("expected merged env, got %q", line)
	}
}

func TestContextCancelTerminates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h, err := process.Start(ctx, process.Command{
		Binary:      "sleep",
		Args:        []string{"30"},
		GracePeriod: 500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cancel()

	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process survived context cancellation")
	}
	if h.Err() == nil {
		t.Error("expected a wait error after cancellation")
	}
	_ = h.Stop(context.Background())
}

func TestStartErrors(t *testing.T) {
	if _, err := process.Start(context.Background(), process.Command{}); err == nil {
		t.Error("expected error for empty binary")
	}
	if _, err := process.Start(context.Background(), process.Command{Binary: "/nonexistent/tool-server"}); err == nil {
		t.Error("expected error for missing binary")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := process.Start(ctx, process.Command{Binary: "cat"}); err == nil {
		t.Error("expected error for canceled context")
	}
}
