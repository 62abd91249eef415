package eval

import (
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
	"github.com/pyritelang/pyrite/pkg/parse"
)

// Script-callable engine commands, bound read-only at construction. They
// follow the trailing-underscore naming convention so they never collide
// with ordinary script names.

func commandFns() map[string]any {
	return map[string]any{
		"eval_":        evalCmd,
		"check_":       checkCmd,
		"loadScript_":  loadScriptCmd,
		"install_":     installCmd,
		"listModules_": listModulesCmd,
		"isDef_":       isDefCmd,
		"listDefs_":    listDefsCmd,
		"getvar_":      getvarCmd,
		"setvar_":      setvarCmd,
		"getSysVar_":   getSysVarCmd,
		"stop_":        stopCmd,
	}
}

// evalCmd runs code against the same engine state, sharing the step budget
// of the enclosing call, and returns the value of a trailing expression.
func evalCmd(fm *Frame, code string) (any, error) {
	return fm.eng.nested(parse.Source{Name: "[eval_]", Code: code})
}

// checkCmd reports whether code parses.
func checkCmd(fm *Frame, code string) bool {
	_, err := parse.Parse(parse.Source{Name: "[check_]", Code: code})
	return err == nil
}

func loadScriptCmd(fm *Frame, name string) (any, error) {
	return fm.eng.runScriptNested(name)
}

func installCmd(fm *Frame, module string) error {
	return fm.eng.installLocked(module)
}

func listModulesCmd(fm *Frame) *vals.List {
	names := fm.eng.modulesLocked()
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return vals.NewList(out...)
}

func isDefCmd(fm *Frame, name string) bool {
	return fm.eng.isDefLocked(name)
}

func listDefsCmd(fm *Frame) *vals.List {
	names := fm.eng.defsLocked()
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return vals.NewList(out...)
}

func getvarCmd(fm *Frame, args ...any) (any, error) {
	if err := checkVariadicArity("getvar_", args, 1, 2); err != nil {
		return nil, err
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, errs.Newf(errs.Type,
			"argument 1 to getvar_ must be str, but is %s", vals.Kind(args[0]))
	}
	if err := fm.eng.checkVarName(name); err != nil {
		return nil, err
	}
	if v, ok := fm.eng.global.local(name); ok {
		return v.Get(), nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return nil, nil
}

func setvarCmd(fm *Frame, name string, v any) error {
	return fm.eng.setVarLocked(name, v)
}

func getSysVarCmd(fm *Frame, args ...any) (any, error) {
	if err := checkVariadicArity("getSysVar_", args, 1, 2); err != nil {
		return nil, err
	}
	name, ok := args[0].(string)
	if !ok {
		return nil, errs.Newf(errs.Type,
			"argument 1 to getSysVar_ must be str, but is %s", vals.Kind(args[0]))
	}
	if v, found := fm.eng.sysvarLocked(name); found {
		return vals.FromGo(v), nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return nil, nil
}

// stopCmd ends the current top-level call gracefully, with an optional exit
// code reported through Engine.ExitCode.
func stopCmd(fm *Frame, code ...int) (any, error) {
	if len(code) > 1 {
		return nil, errs.ArityMismatch{
			What: "arguments to stop_", ValidLow: 0, ValidHigh: 1, Actual: len(code)}
	}
	c := 0
	if len(code) == 1 {
		c = code[0]
	}
	return nil, stopSignal{code: c}
}
