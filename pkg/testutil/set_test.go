package testutil

import (
	"os"
	"testing"
)

func TestSet(t *testing.T) {
	x := 1
	c := &cleanuper{}
	Set(c, &x, 2)
	if x != 2 {
		t.Errorf("x = %d after Set, want 2", x)
	}
	c.runCleanups()
	if x != 1 {
		t.Errorf("x = %d after cleanup, want 1", x)
	}
}

func TestSetenv_RestoresOldValue(t *testing.T) {
	os.Setenv("PYRITE_TESTUTIL_VAR", "old")
	defer os.Unsetenv("PYRITE_TESTUTIL_VAR")

	c := &cleanuper{}
	Setenv(c, "PYRITE_TESTUTIL_VAR", "new")
	if got := os.Getenv("PYRITE_TESTUTIL_VAR"); got != "new" {
		t.Errorf("variable = %q after Setenv, want %q", got, "new")
	}
	c.runCleanups()
	if got := os.Getenv("PYRITE_TESTUTIL_VAR"); got != "old" {
		t.Errorf("variable = %q after cleanup, want %q", got, "old")
	}
}

func TestSetenv_RestoresAbsence(t *testing.T) {
	os.Unsetenv("PYRITE_TESTUTIL_VAR")

	c := &cleanuper{}
	Setenv(c, "PYRITE_TESTUTIL_VAR", "new")
	c.runCleanups()
	if _, exists := os.LookupEnv("PYRITE_TESTUTIL_VAR"); exists {
		t.Errorf("variable still set after cleanup")
	}
}
