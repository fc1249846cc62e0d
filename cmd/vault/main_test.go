package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/fyaic/multimedia-to-note/errors"
	"github.com/fyaic/multimedia-to-note/testutil"
)

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// isolate clears the variables the command reads and returns flags that
// keep the loader away from files outside the test.
func isolate(t *testing.T) []string {
	t.Helper()
	for _, k := range []string{"OBSIDIAN_API_KEY", "OBSIDIAN_HOST", "OBSIDIAN_PORT", "LOG_LEVEL", "LOG_FORMAT", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	dir := t.TempDir()
	return []string{"--config", filepath.Join(dir, "missing.yml"), "--env-file", filepath.Join(dir, "missing.env")}
}

func TestRun_Usage(t *testing.T) {
	if code, _, stderr := runCmd(t); code != errors.ExitFailure || !strings.Contains(stderr, "Usage:") {
		t.Errorf("expected usage and exit 1, got %d %q", code, stderr)
	}
	if code, _, _ := runCmd(t, "bogus"); code != errors.ExitFailure {
		t.Errorf("expected exit 1 for unknown command, got %d", code)
	}
	if code, out, _ := runCmd(t, "version"); code != errors.ExitOK || !strings.HasPrefix(out, "vault ") {
		t.Errorf("unexpected version output %d %q", code, out)
	}
}

func TestSync(t *testing.T) {
	flags := isolate(t)

	var mu sync.Mutex
	got := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer obs-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		got[r.URL.Path] = string(b)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	host, port, _ := net.SplitHostPort(srv.Listener.Addr().String())

	dir := t.TempDir()
	envFile := testutil.WriteFile(t, dir, ".env", []byte(
		"OBSIDIAN_API_KEY=obs-key\nOBSIDIAN_HOST="+host+"\nOBSIDIAN_PORT="+port+"\n"))
	note := testutil.WriteFile(t, dir, "笔记.md", []byte("# hi"))

	code, out, stderr := runCmd(t, "sync", flags[0], flags[1], "--env-file", envFile, note)
	if code != errors.ExitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr)
	}
	if !strings.Contains(out, "synced") || !strings.Contains(out, "HTTP 204") {
		t.Errorf("unexpected stdout %q", out)
	}
	mu.Lock()
	defer mu.Unlock()
	if got["/vault/笔记.md"] != "# hi" {
		t.Errorf("unexpected uploads %v", got)
	}
}

func TestSync_Errors(t *testing.T) {
	flags := isolate(t)

	if code, _, _ := runCmd(t, append([]string{"sync"}, flags...)...); code != errors.ExitFailure {
		t.Errorf("expected exit 1 without files, got %d", code)
	}

	code, _, stderr := runCmd(t, append([]string{"sync"}, append(flags, "note.md")...)...)
	if code != errors.ExitMissingCredential {
		t.Errorf("expected exit %d without a key, got %d", errors.ExitMissingCredential, code)
	}
	if !strings.Contains(stderr, "OBSIDIAN_API_KEY") {
		t.Errorf("expected credential name, got %q", stderr)
	}

	t.Setenv("OBSIDIAN_API_KEY", "k")
	missing := filepath.Join(t.TempDir(), "gone.md")
	code, out, _ := runCmd(t, append([]string{"sync"}, append(flags, missing)...)...)
	if code != errors.ExitInputNotFound || !strings.Contains(out, "FAILED") {
		t.Errorf("expected input not found, got %d %q", code, out)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "a/讲解员手册.md", nil)
	testutil.WriteFile(t, root, "b.md", nil)

	code, out, _ := runCmd(t, "find", "--root", root, "讲解员", "Museum")
	if code != errors.ExitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "讲解员\t"+filepath.Join(root, "a", "讲解员手册.md")) {
		t.Errorf("unexpected output %q", out)
	}

	code, out, _ = runCmd(t, "find", "--root", root, "nothing")
	if code != errors.ExitOK || !strings.Contains(out, "No matching files found.") {
		t.Errorf("unexpected empty result %d %q", code, out)
	}

	if code, _, _ := runCmd(t, "find", "--root", filepath.Join(root, "none"), "x"); code != errors.ExitInputNotFound {
		t.Errorf("expected exit %d for a missing root, got %d", errors.ExitInputNotFound, code)
	}
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	source := testutil.WriteFile(t, dir, "src.md", []byte("new"))
	target := testutil.WriteFile(t, dir, "dst.md", []byte("old"))

	code, out, stderr := runCmd(t, "merge", "--title", "Video Notes", source, target)
	if code != errors.ExitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr)
	}
	if !strings.Contains(out, "Merged") {
		t.Errorf("unexpected output %q", out)
	}
	if got := testutil.ReadFile(t, target); got != "old\n\n---\n\n## Video Notes\n\nnew" {
		t.Errorf("unexpected merged content %q", got)
	}

	if code, _, _ := runCmd(t, "merge", "--title", "T", source); code != errors.ExitFailure {
		t.Errorf("expected exit 1 for a missing target arg, got %d", code)
	}
	if code, _, _ := runCmd(t, "merge", "--title", "T", source, filepath.Join(dir, "none.md")); code != errors.ExitInputNotFound {
		t.Errorf("expected exit %d for a missing target, got %d", errors.ExitInputNotFound, code)
	}
}

func TestStatus(t *testing.T) {
	flags := isolate(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed := r.Header.Get("Authorization") == "Bearer obs-key"
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","service":"Obsidian Local REST API","authenticated":` + strconv.FormatBool(authed) + `}`))
	}))
	defer srv.Close()
	host, port, _ := net.SplitHostPort(srv.Listener.Addr().String())
	t.Setenv("OBSIDIAN_HOST", host)
	t.Setenv("OBSIDIAN_PORT", port)

	t.Setenv("OBSIDIAN_API_KEY", "obs-key")
	code, out, stderr := runCmd(t, "status", flags[0], flags[1])
	if code != errors.ExitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr)
	}
	if !strings.HasPrefix(out, "vault: up") || !strings.Contains(out, "obsidian") {
		t.Errorf("unexpected stdout %q", out)
	}

	t.Setenv("OBSIDIAN_API_KEY", "wrong")
	code, out, _ = runCmd(t, "status", flags[0], flags[1], "--json")
	if code != errors.ExitOK {
		t.Fatalf("a rejected key is degraded, not down; got exit %d", code)
	}
	var report struct {
		Status     string `json:"status"`
		Components []struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"components"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if report.Status != "degraded" || len(report.Components) != 1 || report.Components[0].Message == "" {
		t.Errorf("unexpected report %+v", report)
	}
}

func TestStatus_Down(t *testing.T) {
	flags := isolate(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	host, port, _ := net.SplitHostPort(srv.Listener.Addr().String())
	srv.Close()
	t.Setenv("OBSIDIAN_HOST", host)
	t.Setenv("OBSIDIAN_PORT", port)
	t.Setenv("OBSIDIAN_API_KEY", "obs-key")

	code, out, _ := runCmd(t, "status", flags[0], flags[1])
	if code != errors.ExitFailure || !strings.HasPrefix(out, "vault: down") {
		t.Errorf("expected down and exit 1, got %d %q", code, out)
	}
}

func TestStatus_MissingCredential(t *testing.T) {
	flags := isolate(t)
	code, _, stderr := runCmd(t, "status", flags[0], flags[1])
	if code != errors.ExitMissingCredential || !strings.Contains(stderr, "OBSIDIAN_API_KEY") {
		t.Errorf("expected missing credential, got %d %q", code, stderr)
	}
}
