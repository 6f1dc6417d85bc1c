package selfreplace

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestStagedName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"HealthForm.exe", "HealthForm.new.exe"},
		{"healthform", "healthform.new"},
		{"app.v2.exe", "app.v2.new.exe"},
	}

	for _, tt := range tests {
		if got := StagedName(tt.in); got != tt.want {
			t.Errorf("StagedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStage(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "downloaded.bin")
	writeFile(t, artifact, "new binary")

	exeDir := t.TempDir()
	runningExe := filepath.Join(exeDir, "healthform")
	writeFile(t, runningExe, "old binary")

	staged, err := Stage(artifact, runningExe)
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}

	if filepath.Dir(staged) != exeDir {
		t.Errorf("staged file must live beside the running executable, got %s", staged)
	}
	if filepath.Base(staged) != "healthform.new" {
		t.Errorf("unexpected staged name: %s", filepath.Base(staged))
	}
	if readFile(t, staged) != "new binary" {
		t.Error("staged content does not match artifact")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(staged)
		if err != nil {
			t.Fatalf("failed to stat staged file: %v", err)
		}
		if info.Mode().Perm()&0o100 == 0 {
			t.Error("staged file must be executable")
		}
	}

	// The running executable is untouched by staging.
	if readFile(t, runningExe) != "old binary" {
		t.Error("staging must not modify the running executable")
	}
}

func TestStage_MissingArtifact(t *testing.T) {
	runningExe := filepath.Join(t.TempDir(), "healthform")
	writeFile(t, runningExe, "old binary")

	_, err := Stage(filepath.Join(t.TempDir(), "nope.bin"), runningExe)
	if err == nil {
		t.Fatal("expected an error for a missing artifact")
	}
	if !errors.Is(err, ErrStageCopy) {
		t.Errorf("expected ErrStageCopy, got %v", err)
	}
}

func TestHandoff(t *testing.T) {
	var gotPath string
	var gotArgs []string
	startProcess = func(path string, args ...string) error {
		gotPath = path
		gotArgs = args
		return nil
	}
	t.Cleanup(func() { startProcess = defaultStartProcess })

	if err := Handoff("/apps/healthform.new", "healthform", "/apps/healthform.new"); err != nil {
		t.Fatalf("Handoff failed: %v", err)
	}

	if gotPath != "/apps/healthform.new" {
		t.Errorf("expected the staged binary to be spawned, got %s", gotPath)
	}
	want := []string{flagSelfReplace, "healthform", flagCleanup, "/apps/healthform.new"}
	if len(gotArgs) != len(want) {
		t.Fatalf("unexpected args: %v", gotArgs)
	}
	for i := range want {
		if gotArgs[i] != want[i] {
			t.Errorf("arg %d: got %q, want %q", i, gotArgs[i], want[i])
		}
	}
}

func TestHandoff_LaunchFailure(t *testing.T) {
	startProcess = func(path string, args ...string) error {
		return errors.New("spawn refused")
	}
	t.Cleanup(func() { startProcess = defaultStartProcess })

	err := Handoff("/apps/healthform.new", "healthform", "")
	if !errors.Is(err, ErrLaunchFailed) {
		t.Errorf("expected ErrLaunchFailed, got %v", err)
	}
}
