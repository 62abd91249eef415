package logutil

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pyritelang/pyrite/pkg/must"
	"github.com/pyritelang/pyrite/pkg/testutil"
)

func TestLogger_InitiallyDiscards(t *testing.T) {
	logger := GetLogger("[test] ")
	logger.Println("discarded")
}

func TestSetOutput(t *testing.T) {
	defer SetOutput(io.Discard)

	var sb strings.Builder
	SetOutput(&sb)
	logger := GetLogger("[test] ")
	logger.Println("hello")
	if !strings.Contains(sb.String(), "[test] ") ||
		!strings.Contains(sb.String(), "hello") {
		t.Errorf("log output %q misses prefix or message", sb.String())
	}
}

func TestSetOutputFile(t *testing.T) {
	defer SetOutput(io.Discard)

	dir := testutil.TempDir(t)
	fname := filepath.Join(dir, "log")
	if err := SetOutputFile(fname); err != nil {
		t.Fatal(err)
	}
	logger := GetLogger("[test] ")
	logger.Println("to file")
	must.OK(SetOutputFile(""))

	content := must.ReadFileString(fname)
	if !strings.Contains(content, "to file") {
		t.Errorf("log file content %q misses message", content)
	}
}

func TestSetOutputFile_Error(t *testing.T) {
	err := SetOutputFile("/nonexistent/dir/log")
	if err == nil {
		t.Errorf("want error for bad log path, got nil")
	}
}
