//go:build unix

package sys

import (
	"os"
	"strings"
	"testing"

	"github.com/creack/pty"
)

func TestIsATTY(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("cannot open pty: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if !IsATTY(tty.Fd()) {
		t.Errorf("IsATTY(tty) = false, want true")
	}

	f, err := os.CreateTemp(t.TempDir(), "file")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsATTY(f.Fd()) {
		t.Errorf("IsATTY(regular file) = true, want false")
	}
}

func TestWinSize(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("cannot open pty: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 53}); err != nil {
		t.Fatal(err)
	}
	row, col := WinSize(tty)
	if row != 24 || col != 53 {
		t.Errorf("WinSize = (%d, %d), want (24, 53)", row, col)
	}
}

func TestWinSize_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "file")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	row, col := WinSize(f)
	if row != -1 || col != -1 {
		t.Errorf("WinSize = (%d, %d), want (-1, -1)", row, col)
	}
}

func TestDumpStack(t *testing.T) {
	stack := DumpStack()
	if !strings.Contains(stack, "goroutine") {
		t.Errorf("DumpStack output does not mention goroutine:\n%s", stack)
	}
}
