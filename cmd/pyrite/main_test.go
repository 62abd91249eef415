package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRun_Version(t *testing.T) {
	if code := run([]string{"version"}); code != 0 {
		t.Errorf("version exited with %d, want 0", code)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	if code := run([]string{"frobnicate"}); code != 2 {
		t.Errorf("unknown command exited with %d, want 2", code)
	}
}

func TestRun_Script(t *testing.T) {
	path := writeScript(t, "ok.pyr", "x = 1\n")
	if code := run([]string{"run", path}); code != 0 {
		t.Errorf("run exited with %d, want 0", code)
	}
}

func TestRun_ScriptStopCode(t *testing.T) {
	path := writeScript(t, "stop.pyr", "stop_(7)\n")
	if code := run([]string{"run", path}); code != 7 {
		t.Errorf("run exited with %d, want 7", code)
	}
}

func TestRun_Check(t *testing.T) {
	good := writeScript(t, "good.pyr", "x = 1\n")
	bad := writeScript(t, "bad.pyr", "x = 'oops\n")
	if code := run([]string{"check", good}); code != 0 {
		t.Errorf("check of valid script exited with %d, want 0", code)
	}
	if code := run([]string{"check", bad}); code != 2 {
		t.Errorf("check of invalid script exited with %d, want 2", code)
	}
}

func TestRun_ExplicitMissingConfig(t *testing.T) {
	path := writeScript(t, "ok.pyr", "x = 1\n")
	code := run([]string{"--config", filepath.Join(t.TempDir(), "no.yaml"), "run", path})
	if code != 2 {
		t.Errorf("run with missing config exited with %d, want 2", code)
	}
}

func writeScript(t *testing.T, name, code string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(code), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
