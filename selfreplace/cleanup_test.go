package selfreplace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanupIfRequested_DeletesAndStrips(t *testing.T) {
	resetSeams(t)

	staged := filepath.Join(t.TempDir(), "healthform.new")
	writeFile(t, staged, "staged binary")

	argv := CleanupIfRequested([]string{"healthform", flagCleanup, staged, "check"})

	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Error("expected the staged file to be deleted")
	}
	if len(argv) != 2 || argv[0] != "healthform" || argv[1] != "check" {
		t.Errorf("expected protocol args to be stripped, got %v", argv)
	}
}

func TestCleanupIfRequested_NoDirective(t *testing.T) {
	in := []string{"healthform", "check"}
	out := CleanupIfRequested(in)
	if len(out) != 2 || out[0] != "healthform" || out[1] != "check" {
		t.Errorf("argv without the directive must pass through, got %v", out)
	}
}

func TestCleanupIfRequested_MissingFileIsSilent(t *testing.T) {
	resetSeams(t)

	argv := CleanupIfRequested([]string{"healthform", flagCleanup, filepath.Join(t.TempDir(), "gone.new")})
	if len(argv) != 1 {
		t.Errorf("expected protocol args to be stripped, got %v", argv)
	}
}

func TestStripFlag(t *testing.T) {
	argv := []string{"healthform", flagCleanup, "/tmp/x", flagSelfReplace, "name"}
	out := stripFlag(argv, flagCleanup)
	if len(out) != 3 || out[0] != "healthform" || out[1] != flagSelfReplace || out[2] != "name" {
		t.Errorf("unexpected stripped argv: %v", out)
	}
}

func TestArgValue(t *testing.T) {
	argv := []string{"healthform", flagSelfReplace, "target.exe"}

	if v, ok := argValue(argv, flagSelfReplace); !ok || v != "target.exe" {
		t.Errorf("expected target.exe, got %q (%v)", v, ok)
	}
	if _, ok := argValue(argv, flagCleanup); ok {
		t.Error("expected no cleanup value")
	}
	if _, ok := argValue([]string{"x", flagSelfReplace}, flagSelfReplace); ok {
		t.Error("a trailing flag has no value")
	}
}
