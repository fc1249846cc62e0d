package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocateScript(t *testing.T) {
	exeDir := t.TempDir()
	if got := locateScript(exeDir); got != DefaultScript {
		t.Errorf("expected the working-directory fallback, got %q", got)
	}
	if got := locateScript(""); got != DefaultScript {
		t.Errorf("expected the fallback without an executable dir, got %q", got)
	}

	script := filepath.Join(exeDir, "dist", "index.js")
	if err := os.MkdirAll(filepath.Dir(script), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(script, []byte("// server"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := locateScript(exeDir); got != script {
		t.Errorf("expected the script next to the executable, got %q", got)
	}
}
