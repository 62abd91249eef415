package eval

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/parse"
)

// Script loading. Script names coming from scripts or hosts are untrusted:
// they are sanitized down to a strict filename alphabet before touching the
// filesystem, and resolution never leaves the configured directories.

const (
	scriptExt     = ".pyr"
	maxScriptName = 256
)

// SanitizeScriptName reduces an untrusted script name to the allowed
// alphabet: path separators, parent references and drive/pipe characters
// are stripped, then anything outside [a-zA-Z0-9_-] is dropped. The .pyr
// extension may be present and is preserved.
func SanitizeScriptName(name string) (string, error) {
	name = strings.TrimSuffix(name, scriptExt)
	for _, bad := range []string{"\\", "..", "|", ":"} {
		name = strings.ReplaceAll(name, bad, "")
	}
	name = strings.TrimPrefix(filepath.Clean("/"+name), "/")
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '_', r == '-':
			sb.WriteRune(r)
		}
	}
	out := sb.String()
	if out == "" {
		return "", errs.Newf(errs.Value, "invalid script name %q", name)
	}
	if len(out)+len(scriptExt) > maxScriptName {
		return "", errs.Newf(errs.Value, "script name too long (%d bytes)", len(out))
	}
	return out + scriptExt, nil
}

// findScript resolves a sanitized filename against the script directories,
// in order.
func (e *Engine) findScript(filename string) (string, error) {
	for _, dir := range e.cfg.ScriptDirs {
		path := filepath.Join(dir, filename)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", errs.Newf(errs.Extension, "script '%s' not found", filename)
}

// RunScript locates and runs a named script. The name is sanitized, given
// the .pyr extension when missing, and searched for in ScriptDirs. The
// currentScript sysvar is set for the duration of the run.
func (e *Engine) RunScript(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.runScriptLocked(name)
	return err
}

// RunScriptPersist runs a script like RunScript and additionally marks the
// functions it defines as persistent, so they survive ClearProcs.
func (e *Engine) RunScriptPersist(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	before := make(map[string]bool)
	for _, def := range e.defsLocked() {
		before[def] = true
	}
	_, err := e.runScriptLocked(name)
	for _, def := range e.defsLocked() {
		if !before[def] {
			e.persist[def] = true
		}
	}
	return err
}

// RunFile reads and runs a script file by path, bypassing ScriptDirs and
// name sanitization. It is meant for hosts running a file the user named
// directly; script-initiated loads always go through RunScript. The
// currentScript sysvar is set to the path for the duration of the run.
func (e *Engine) RunFile(path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return errs.Newf(errs.Extension, "reading script %q: %v", path, err)
	}
	if !utf8.Valid(code) {
		return errs.Newf(errs.Value, "script %q is not valid UTF-8", path)
	}
	src := parse.Source{Name: path, Code: string(code), IsFile: true}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastScript = path
	prev, hadPrev := e.sysvars["currentScript"]
	e.sysvars["currentScript"] = path
	defer func() {
		if hadPrev {
			e.sysvars["currentScript"] = prev
		} else {
			delete(e.sysvars, "currentScript")
		}
	}()
	_, err = e.runLocked(src)
	return err
}

func (e *Engine) runScriptLocked(name string) (any, error) {
	src, err := e.loadScript(name)
	if err != nil {
		return nil, err
	}
	e.lastScript = src.Name
	prev, hadPrev := e.sysvars["currentScript"]
	e.sysvars["currentScript"] = src.Name
	defer func() {
		if hadPrev {
			e.sysvars["currentScript"] = prev
		} else {
			delete(e.sysvars, "currentScript")
		}
	}()
	logger.Printf("running script %s", src.Name)
	return e.runLocked(src)
}

// runScriptNested is the loadScript_ command path: it shares the step
// budget of the running call instead of resetting it.
func (e *Engine) runScriptNested(name string) (any, error) {
	src, err := e.loadScript(name)
	if err != nil {
		return nil, err
	}
	e.lastScript = src.Name
	prev, hadPrev := e.sysvars["currentScript"]
	e.sysvars["currentScript"] = src.Name
	defer func() {
		if hadPrev {
			e.sysvars["currentScript"] = prev
		} else {
			delete(e.sysvars, "currentScript")
		}
	}()
	return e.nested(src)
}

func (e *Engine) loadScript(name string) (parse.Source, error) {
	filename, err := SanitizeScriptName(name)
	if err != nil {
		return parse.Source{}, err
	}
	path, err := e.findScript(filename)
	if err != nil {
		return parse.Source{}, err
	}
	code, err := os.ReadFile(path)
	if err != nil {
		return parse.Source{}, errs.Newf(errs.Extension,
			"reading script '%s': %v", filename, err)
	}
	if !utf8.Valid(code) {
		return parse.Source{}, errs.Newf(errs.Value,
			"script '%s' is not valid UTF-8", filename)
	}
	return parse.Source{Name: filename, Code: string(code), IsFile: true}, nil
}
