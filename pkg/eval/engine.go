package eval

import (
	"io"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vars"
	"github.com/pyritelang/pyrite/pkg/logutil"
	"github.com/pyritelang/pyrite/pkg/parse"
)

var logger = logutil.GetLogger("[eval] ")

// Default resource ceilings.
const (
	DefaultMaxDepth = 200
	DefaultMaxSteps = 10_000_000
)

// ModuleBuilder constructs an installable module namespace against an
// engine. The names it binds are the final script-visible names, trailing
// underscore included.
type ModuleBuilder func(*Engine) (*Ns, error)

// Config configures a new Engine. The zero value is usable: default
// ceilings, read-only builtins, standard output writers, no script
// directories and no installable modules.
type Config struct {
	// ScriptDirs is the script search path, in order.
	ScriptDirs []string
	// Modules is the allowlist of installable modules.
	Modules map[string]ModuleBuilder
	// WritableBuiltins lets scripts rebind builtin and registered names.
	// Off by default: assigning to one is a ValueError.
	WritableBuiltins bool
	// GlobalFuncs is a compatibility mode in which function bodies execute
	// directly in the Global scope instead of a private one.
	GlobalFuncs bool
	// MaxDepth caps the function call depth.
	MaxDepth int
	// MaxSteps caps the number of evaluation steps per top-level call.
	MaxSteps int64
	// Out and Err are where print and error output go.
	Out, Err io.Writer
	// StorePath is the path of the persistent store database, if any.
	StorePath string
}

// ExtensionInfo describes one registered extension entry.
type ExtensionInfo struct {
	Name string
	Tag  string
}

// Engine is a sandboxed interpreter instance. The Global scope, registered
// extensions, installed modules, sysvars and persistent procs all live for
// the engine's lifetime; nothing resets between calls. All entry points are
// serialized by an internal mutex, so an instance may be shared across
// goroutines at call granularity.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	policy  *Policy
	builtin *Ns
	global  *Ns

	registry  map[string]string // name -> capability tag
	installed map[string]*Ns
	sysvars   map[string]any
	persist   map[string]bool

	steps      int64
	abort      atomic.Bool
	exitCode   int
	lastScript string
}

// NewEngine creates an engine: policy fixed, builtins and script-callable
// commands bound in the builtin scope, Global empty.
func NewEngine(cfg Config) *Engine {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	e := &Engine{
		cfg:       cfg,
		policy:    defaultPolicy(),
		registry:  make(map[string]string),
		installed: make(map[string]*Ns),
		sysvars:   make(map[string]any),
		persist:   make(map[string]bool),
	}

	b := NsBuilder{}
	for name, impl := range builtinFns() {
		e.bindBuiltin(b, name, NewGoFn(name, impl), "core")
	}
	for name, impl := range commandFns() {
		e.bindBuiltin(b, name, NewGoFn(name, impl), "core")
	}
	e.builtin = b.Ns()
	e.global = NewNs(e.builtin)
	logger.Printf("new engine: depth cap %d, step cap %d", cfg.MaxDepth, cfg.MaxSteps)
	return e
}

func (e *Engine) bindBuiltin(b NsBuilder, name string, v any, tag string) {
	if e.cfg.WritableBuiltins {
		b.AddVal(name, v)
	} else {
		b.AddReadOnly(name, v)
	}
	e.registry[name] = tag
}

func (e *Engine) out() io.Writer {
	if e.cfg.Out != nil {
		return e.cfg.Out
	}
	return os.Stdout
}

func (e *Engine) errOut() io.Writer {
	if e.cfg.Err != nil {
		return e.cfg.Err
	}
	return os.Stderr
}

// StorePath returns the configured store database path.
func (e *Engine) StorePath() string { return e.cfg.StorePath }

// Eval parses and executes code against the engine's persistent state. If
// the final statement is an expression statement, its value is returned;
// otherwise the value is nil.
func (e *Engine) Eval(code string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runLocked(parse.Source{Name: "[eval]", Code: code})
}

// Check parses code without executing it.
func (e *Engine) Check(code string) error {
	_, err := parse.Parse(parse.Source{Name: "[check]", Code: code})
	return err
}

// runLocked runs one top-level call. The caller must hold the mutex.
func (e *Engine) runLocked(src parse.Source) (value any, err error) {
	e.steps = 0
	e.abort.Store(false)
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("recovered panic in %s: %v", src.Name, r)
			value, err = nil, errs.Newf(errs.Runtime, "internal error: %v", r)
		}
	}()

	tree, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	fm := &Frame{eng: e, src: src, local: e.global}
	var last parse.Stmt
	for _, stmt := range tree.Root {
		last = stmt
		if err := fm.exec(stmt); err != nil {
			return nil, e.classify(err, src)
		}
	}
	if _, ok := last.(*parse.ExprStmt); ok {
		return fm.lastValue, nil
	}
	return nil, nil
}

// classify converts internal signals escaping the top level into their
// external form.
func (e *Engine) classify(err error, src parse.Source) error {
	switch sig := err.(type) {
	case *flowSignal:
		return wrapError(sig.syntaxError(), src, sig)
	case stopSignal:
		e.exitCode = sig.code
		return nil
	}
	if err == errAborted {
		return errs.New(errs.Runtime, "execution interrupted")
	}
	return err
}

// nested runs code in a fresh top-level frame sharing this engine's state
// and step budget. Used by the eval_ and loadScript_ commands; the mutex is
// already held by the outer call.
func (e *Engine) nested(src parse.Source) (any, error) {
	tree, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	fm := &Frame{eng: e, src: src, local: e.global}
	var last parse.Stmt
	for _, stmt := range tree.Root {
		last = stmt
		if err := fm.exec(stmt); err != nil {
			if sig, ok := err.(*flowSignal); ok {
				return nil, wrapError(sig.syntaxError(), src, sig)
			}
			return nil, err
		}
	}
	if _, ok := last.(*parse.ExprStmt); ok {
		return fm.lastValue, nil
	}
	return nil, nil
}

// SetVar binds a value in the Global scope from the host. The name must be
// a valid identifier not ending in underscore; a nil value deletes the
// binding.
func (e *Engine) SetVar(name string, v any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setVarLocked(name, v)
}

func (e *Engine) setVarLocked(name string, v any) error {
	if err := e.checkVarName(name); err != nil {
		return err
	}
	if v == nil {
		e.delVarLocked(name)
		return nil
	}
	if existing, ok := e.global.local(name); ok {
		return existing.Set(v)
	}
	if existing, ok := e.global.lookup(name); ok && vars.IsReadOnly(existing) {
		return errs.SetReadOnlyVar{VarName: name}
	}
	e.global.setLocal(name, vars.FromInit(v))
	return nil
}

// GetVar reads a Global binding from the host.
func (e *Engine) GetVar(name string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.getVarLocked(name)
}

func (e *Engine) getVarLocked(name string) (any, error) {
	if err := e.checkVarName(name); err != nil {
		return nil, err
	}
	if v, ok := e.global.local(name); ok {
		return v.Get(), nil
	}
	return nil, errs.Newf(errs.Name, "name '%s' is not defined", name)
}

// DelVar removes a Global binding.
func (e *Engine) DelVar(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkVarName(name); err != nil {
		return err
	}
	if v, ok := e.global.local(name); ok && vars.IsReadOnly(v) {
		return errs.SetReadOnlyVar{VarName: name}
	}
	e.delVarLocked(name)
	return nil
}

func (e *Engine) delVarLocked(name string) { e.global.delLocal(name) }

func (e *Engine) checkVarName(name string) error {
	if !ValidName(name) {
		return errs.Newf(errs.Value, "invalid name %q", name)
	}
	if len(name) > 0 && name[len(name)-1] == '_' {
		return errs.Newf(errs.Value, "names ending in '_' are reserved: %q", name)
	}
	return e.policy.checkName(name)
}

// SysVarNames is the read-only sysvar listing the names of all sysvars.
const SysVarNames = "_sysvars_"

// SetSysVar sets a host-owned system variable, readable from scripts via
// getSysVar_. A nil value deletes. The name listing sysvar cannot be set.
func (e *Engine) SetSysVar(name string, v any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setSysVarLocked(name, v)
}

func (e *Engine) setSysVarLocked(name string, v any) error {
	if name == "" || name == SysVarNames {
		return errs.Newf(errs.Value, "invalid sysvar name %q", name)
	}
	if v == nil {
		delete(e.sysvars, name)
		return nil
	}
	e.sysvars[name] = v
	return nil
}

// SysVar reads a system variable.
func (e *Engine) SysVar(name string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.sysvarLocked(name)
	return v, ok
}

func (e *Engine) sysvarLocked(name string) (any, bool) {
	if name == SysVarNames {
		names := make([]string, 0, len(e.sysvars))
		for n := range e.sysvars {
			names = append(names, n)
		}
		sort.Strings(names)
		out := make([]any, len(names))
		for i, n := range names {
			out[i] = n
		}
		return out, true
	}
	v, ok := e.sysvars[name]
	return v, ok
}

// Install installs a module from the allowlist, binding each of its symbols
// read-only in Global. Re-installing is a no-op success; a name not on the
// allowlist fails.
func (e *Engine) Install(module string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.installLocked(module)
}

func (e *Engine) installLocked(module string) error {
	if _, done := e.installed[module]; done {
		return nil
	}
	builder, ok := e.cfg.Modules[module]
	if !ok {
		return errs.Newf(errs.Extension, "module '%s' is not installable", module)
	}
	ns, err := builder(e)
	if err != nil {
		return errs.Newf(errs.Extension, "installing '%s': %s", module, errs.MessageOf(err))
	}
	for _, name := range ns.Names() {
		v, _ := ns.local(name)
		if _, taken := e.registry[name]; taken {
			return errs.Newf(errs.Extension,
				"module '%s' symbol '%s' is already bound", module, name)
		}
		e.global.setLocal(name, vars.NewReadOnly(name, v.Get()))
		e.registry[name] = "module:" + module
	}
	e.installed[module] = ns
	logger.Printf("installed module %s (%d symbols)", module, len(ns.Names()))
	return nil
}

// Modules returns the names of installed modules, sorted.
func (e *Engine) Modules() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modulesLocked()
}

func (e *Engine) modulesLocked() []string {
	out := make([]string, 0, len(e.installed))
	for name := range e.installed {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// RegisterFn adapts and registers a host Go function under name, read-only.
// The name must be a valid identifier; duplicate registration fails.
func (e *Engine) RegisterFn(name string, impl any) error {
	return e.register(name, NewGoFn(name, impl), "host")
}

// RegisterNs registers a host namespace reachable by attribute access.
func (e *Engine) RegisterNs(name string, ns *Ns) error {
	return e.register(name, ns, "host")
}

func (e *Engine) register(name string, v any, tag string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !ValidName(name) {
		return errs.Newf(errs.Value, "invalid name %q", name)
	}
	if err := e.policy.checkName(name); err != nil {
		return err
	}
	if _, taken := e.registry[name]; taken {
		return errs.Newf(errs.Extension, "name '%s' is already registered", name)
	}
	e.global.setLocal(name, vars.NewReadOnly(name, v))
	e.registry[name] = tag
	return nil
}

// Extensions lists registered extension entries with their capability tags,
// sorted by name.
func (e *Engine) Extensions() []ExtensionInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]ExtensionInfo, 0, len(e.registry))
	for name, tag := range e.registry {
		out = append(out, ExtensionInfo{Name: name, Tag: tag})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsDef reports whether name is a script-defined function in Global.
func (e *Engine) IsDef(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isDefLocked(name)
}

func (e *Engine) isDefLocked(name string) bool {
	v, ok := e.global.local(name)
	if !ok {
		return false
	}
	_, isClosure := v.Get().(*Closure)
	return isClosure
}

// Defs returns the names of script-defined functions, sorted.
func (e *Engine) Defs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.defsLocked()
}

func (e *Engine) defsLocked() []string {
	var out []string
	for _, name := range e.global.Names() {
		if e.isDefLocked(name) {
			out = append(out, name)
		}
	}
	return out
}

// SetProcPersist marks or unmarks a script-defined function as persistent,
// surviving ClearProcs. It reports whether the name is a defined function.
func (e *Engine) SetProcPersist(name string, flag bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.isDefLocked(name) {
		return false
	}
	if flag {
		e.persist[name] = true
	} else {
		delete(e.persist, name)
	}
	return true
}

// DelProc removes a script-defined function, reporting whether it existed.
func (e *Engine) DelProc(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.isDefLocked(name) {
		return false
	}
	e.global.delLocal(name)
	delete(e.persist, name)
	return true
}

// ClearProcs removes all script-defined functions except persistent ones
// and those named in keep.
func (e *Engine) ClearProcs(keep []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := make(map[string]bool, len(keep))
	for _, name := range keep {
		kept[name] = true
	}
	for _, name := range e.defsLocked() {
		if !e.persist[name] && !kept[name] {
			e.global.delLocal(name)
		}
	}
}

// Abort requests that the running top-level call stop at its next
// checkpoint. Safe to call from any goroutine.
func (e *Engine) Abort() { e.abort.Store(true) }

// Aborted reports whether an abort has been requested for the running call.
// Long-running extensions should poll it and return early.
func (e *Engine) Aborted() bool { return e.abort.Load() }

// ExitCode returns the code passed to the most recent script stop_().
func (e *Engine) ExitCode() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exitCode
}

// LastScript returns the name of the most recently run script.
func (e *Engine) LastScript() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastScript
}
