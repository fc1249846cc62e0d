package audio_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/fyaic/multimedia-to-note/audio"
	"github.com/fyaic/multimedia-to-note/errors"
	"github.com/fyaic/multimedia-to-note/testutil"
)

type mapFS map[string]bool

func (m mapFS) IsFile(path string) bool { return m[path] }

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		files     mapFS
		requested string
		want      string
		wantErr   bool
	}{
		{"requested exists", mapFS{"talk.m4a": true}, "talk.m4a", "talk.m4a", false},
		{"default exists", mapFS{audio.DefaultInput: true, audio.FallbackInput: true}, audio.DefaultInput, audio.DefaultInput, false},
		{"default falls back", mapFS{audio.FallbackInput: true}, audio.DefaultInput, audio.FallbackInput, false},
		{"empty means default", mapFS{audio.FallbackInput: true}, "", audio.FallbackInput, false},
		{"non-default never falls back", mapFS{audio.FallbackInput: true}, "talk.m4a", "", true},
		{"nothing exists", mapFS{}, audio.DefaultInput, "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := audio.NewResolver(audio.Config{}, audio.WithFileSystem(tc.files))
			got, err := r.Resolve(tc.requested)
			if tc.wantErr {
				if !errors.HasCode(err, errors.ErrCodeInputNotFound) {
					t.Fatalf("expected INPUT_NOT_FOUND, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResolveErrorNamesRequestedPath(t *testing.T) {
	r := audio.NewResolver(audio.Config{}, audio.WithFileSystem(mapFS{}))
	_, err := r.Resolve("missing.m4a")
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Details["path"] != "missing.m4a" {
		t.Fatalf("expected path detail, got %v", err)
	}
}

func TestResolveFallbackLogsWarning(t *testing.T) {
	log, buf := testutil.NewLogger("test")
	r := audio.NewResolver(audio.Config{}, audio.WithFileSystem(mapFS{audio.FallbackInput: true}), audio.WithLogger(log))
	if _, err := r.Resolve(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, ok := buf.Find(t, "default input not found, using fallback")
	if !ok || entry["level"] != "warn" {
		t.Fatalf("expected fallback warning, got %s", buf.String())
	}
}

func TestResolveCustomNames(t *testing.T) {
	r := audio.NewResolver(audio.Config{Default: "in.wav", Fallback: "backup.wav"}, audio.WithFileSystem(mapFS{"backup.wav": true}))
	if r.Default() != "in.wav" {
		t.Errorf("unexpected default %q", r.Default())
	}
	got, err := r.Resolve("in.wav")
	if err != nil || got != "backup.wav" {
		t.Fatalf("expected backup.wav, got %q, %v", got, err)
	}
}

func TestOSFileSystemDirectoryIsAbsent(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, audio.DefaultInput), 0o755); err != nil {
		t.Fatal(err)
	}
	fallback := testutil.WriteFile(t, dir, audio.FallbackInput, []byte("x"))

	r := audio.NewResolver(audio.Config{
		Default:  filepath.Join(dir, audio.DefaultInput),
		Fallback: fallback,
	})
	got, err := r.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != fallback {
		t.Errorf("expected directory to be skipped in favor of %q, got %q", fallback, got)
	}
}

func TestLoad(t *testing.T) {
	payload := []byte{0x00, 0x01, 0xfe, 0xff, 'm', '4', 'a'}
	path := testutil.WriteFile(t, t.TempDir(), "clip.m4a", payload)

	a, err := audio.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Name != "clip.m4a" || a.Path != path || a.Size() != len(payload) {
		t.Errorf("unexpected asset %+v", a)
	}
	decoded, err := base64.StdEncoding.DecodeString(a.Base64())
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if string(decoded) != string(payload) {
		t.Error("base64 round trip changed the payload")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "empty.m4a", nil)
	a, err := audio.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Base64() != "" {
		t.Errorf("expected empty encoding, got %q", a.Base64())
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := audio.Load(filepath.Join(t.TempDir(), "gone.m4a"))
	if !errors.HasCode(err, errors.ErrCodeInputNotFound) {
		t.Fatalf("expected INPUT_NOT_FOUND, got %v", err)
	}
}
