// Package shell is the entry point for the terminal interface of pyrite.
//
// It turns a host [Config] into a ready engine, runs script files, checks
// them without running, and drives the interactive loop. The cobra command
// tree in cmd/pyrite is a thin layer over this package.
package shell

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pyritelang/pyrite/pkg/diag"
	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/logutil"
	"github.com/pyritelang/pyrite/pkg/mods"
	"github.com/pyritelang/pyrite/pkg/sys"
)

var logger = logutil.GetLogger("[shell] ")

// InitEngine creates an engine from the host configuration, with the bundled
// modules from the config's module list registered and output connected to
// the given writers.
func InitEngine(cfg *Config, out, errw io.Writer) *eval.Engine {
	builders := mods.Default()
	enabled := make(map[string]eval.ModuleBuilder)
	for _, name := range cfg.moduleNames() {
		if b, ok := builders[name]; ok {
			enabled[name] = b
		} else {
			fmt.Fprintf(errw, "warning: unknown module %q in config, ignored\n", name)
		}
	}
	return eval.NewEngine(eval.Config{
		ScriptDirs: cfg.Scripts,
		Modules:    enabled,
		MaxDepth:   cfg.Limits.Depth,
		MaxSteps:   cfg.Limits.Steps,
		StorePath:  cfg.Store,
		Out:        out,
		Err:        errw,
	})
}

// initSignal starts a goroutine relaying process signals to the engine and
// returns a cleanup function. SIGINT aborts the running statement; other
// signals are OS-specific (see handleSignal).
func initSignal(eng *eval.Engine, stderr *os.File) func() {
	sigCh := sys.NotifySignals()
	go func() {
		for sig := range sigCh {
			logger.Println("signal", sig)
			handleSignal(eng, sig, stderr)
		}
	}()
	return func() { signal.Stop(sigCh) }
}

// showError prints an evaluation or parse error to w. In verbose mode
// errors render with their full source excerpt; otherwise they are one
// line prefixed with "!!! ".
func showError(w io.Writer, err error, verbose bool) {
	if verbose {
		diag.ShowError(w, err)
		return
	}
	fmt.Fprintf(w, "!!! %v\n", err)
}
