package diag

import (
	"errors"
	"strings"
	"testing"
)

// selfShowingError implements both error and Shower.
type selfShowingError struct{ shown string }

func (e selfShowingError) Error() string { return "message" }

func (e selfShowingError) Show(_ string) string { return e.shown }

func TestShowError_UsesShowMethod(t *testing.T) {
	var sb strings.Builder
	ShowError(&sb, selfShowingError{"Runtime error: division by zero"})
	if got, want := sb.String(), "Runtime error: division by zero\n"; got != want {
		t.Errorf("wrote %q, want %q", got, want)
	}
}

func TestShowError_ComplainsAboutPlainErrors(t *testing.T) {
	var sb strings.Builder
	ShowError(&sb, errors.New("no such file"))
	if got, want := sb.String(), "\033[31;1mno such file\033[m\n"; got != want {
		t.Errorf("wrote %q, want %q", got, want)
	}
}

func TestComplainf(t *testing.T) {
	var sb strings.Builder
	Complainf(&sb, "cannot open %s", "config.yaml")
	if got := sb.String(); !strings.Contains(got, "cannot open config.yaml") {
		t.Errorf("wrote %q, want it to contain the formatted message", got)
	}
}
