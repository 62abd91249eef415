package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/parse"
)

// RunPath executes the script file at path with the given positional
// arguments and returns the process exit code: 0 on success or the code
// passed to stop_(), 2 on read or evaluation failure.
//
// The script sees the arguments as the scriptArgs sysvar and its own path
// as currentScript.
func RunPath(eng *eval.Engine, stderr *os.File, path string, args []string, verbose bool) int {
	abs, err := filepath.Abs(path)
	if err != nil {
		fmt.Fprintf(stderr, "cannot get full path of script %q: %v\n", path, err)
		return 2
	}
	eng.SetSysVar("scriptArgs", args)
	err = eng.RunFile(abs)
	if err != nil {
		showError(stderr, err, verbose)
		return 2
	}
	return eng.ExitCode()
}

// CheckPaths parses the given script files without running them. Errors are
// shown as diagnostics on stderr, or written to stdout as a JSON array of
// {fileName, start, end, message} when jsonOut is set. The exit code is 2
// if any file fails to parse and 0 otherwise.
func CheckPaths(stdout, stderr *os.File, paths []string, jsonOut bool) int {
	var parseErrs []*parse.Error
	failed := false
	for _, path := range paths {
		code, err := readFileUTF8(path)
		if err != nil {
			fmt.Fprintf(stderr, "cannot read script %q: %v\n", path, err)
			failed = true
			continue
		}
		_, err = parse.Parse(parse.Source{Name: path, Code: code, IsFile: true})
		if err == nil {
			continue
		}
		failed = true
		if !jsonOut {
			showError(stderr, err, true)
		}
		parseErrs = append(parseErrs, parse.UnpackErrors(err)...)
	}
	if jsonOut {
		fmt.Fprintf(stdout, "%s\n", errorsToJSON(parseErrs))
	}
	if failed {
		return 2
	}
	return 0
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

func errorsToJSON(entries []*parse.Error) []byte {
	converted := []errorInJSON{}
	for _, e := range entries {
		converted = append(converted,
			errorInJSON{e.Diag.Context.Name, e.Diag.Context.From,
				e.Diag.Context.To, e.Diag.Message})
	}
	jsonError, err := json.Marshal(converted)
	if err != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
