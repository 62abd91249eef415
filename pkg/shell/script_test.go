package shell

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyritelang/pyrite/pkg/eval"
)

func TestRunPath(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "hello.pyr",
		"print('hello ' + getSysVar_('scriptArgs')[0])\n")
	eng, out, errOut := testEngine(t)

	code := RunPath(eng, errOut.file, path, []string{"world"}, false)

	assert.Equal(t, 0, code)
	assert.Equal(t, "hello world\n", out.String())
	assert.Equal(t, "", errOut.String())
}

func TestRunPath_StopCode(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "stop.pyr", "stop_(3)\nprint('unreached')\n")
	eng, out, errOut := testEngine(t)

	code := RunPath(eng, errOut.file, path, nil, false)

	assert.Equal(t, 3, code)
	assert.Equal(t, "", out.String())
}

func TestRunPath_Error(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "boom.pyr", "x = 1 / 0\n")
	eng, _, errOut := testEngine(t)

	code := RunPath(eng, errOut.file, path, nil, false)

	assert.Equal(t, 2, code)
	assert.True(t, strings.HasPrefix(errOut.String(), "!!! "),
		"stderr %q does not start with the error prefix", errOut.String())
	assert.Contains(t, errOut.String(), "division by zero")
}

func TestRunPath_MissingFile(t *testing.T) {
	eng, _, errOut := testEngine(t)

	code := RunPath(eng, errOut.file, filepath.Join(t.TempDir(), "no.pyr"), nil, false)

	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "no.pyr")
}

func TestCheckPaths(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "good.pyr", "x = 1\n")
	bad := writeScript(t, dir, "bad.pyr", "x = 'oops\n")
	_, out, errOut := testEngine(t)

	code := CheckPaths(out.file, errOut.file, []string{good}, false)
	assert.Equal(t, 0, code)
	assert.Equal(t, "", errOut.String())

	code = CheckPaths(out.file, errOut.file, []string{good, bad}, false)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "not terminated")
	assert.Contains(t, errOut.String(), "bad.pyr")
}

func TestCheckPaths_JSON(t *testing.T) {
	dir := t.TempDir()
	bad := writeScript(t, dir, "bad.pyr", "x =\n")
	_, out, errOut := testEngine(t)

	code := CheckPaths(out.file, errOut.file, []string{bad}, true)

	assert.Equal(t, 2, code)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out.String()), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, bad, entries[0]["fileName"])
	assert.Contains(t, entries[0]["message"], "expected expression")
}

func TestCheckPaths_JSONNoErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "good.pyr", "x = 1\n")
	_, out, _ := testEngine(t)

	code := CheckPaths(out.file, out.file, []string{good}, true)

	assert.Equal(t, 0, code)
	assert.Equal(t, "[]\n", out.String())
}

// capture is an *os.File sink whose contents can be read back.
type capture struct {
	file *os.File
}

func newCapture(t *testing.T) *capture {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return &capture{f}
}

func (c *capture) String() string {
	b, err := os.ReadFile(c.file.Name())
	if err != nil {
		return ""
	}
	return string(b)
}

func testEngine(t *testing.T) (*eval.Engine, *capture, *capture) {
	t.Helper()
	out, errOut := newCapture(t), newCapture(t)
	eng := InitEngine(&Config{}, out.file, errOut.file)
	return eng, out, errOut
}

func writeScript(t *testing.T, dir, name, code string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(code), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
