package eval

import (
	"errors"

	"github.com/pyritelang/pyrite/pkg/diag"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
)

// Control flow inside the evaluator travels as error-shaped signals, so the
// ordinary error-propagation path unwinds loops and calls for free. The
// signals are not engine error kinds: try/except never catches them.

type flowKind int

const (
	flowReturn flowKind = iota
	flowBreak
	flowContinue
)

type flowSignal struct {
	kind  flowKind
	value any
	diag.Ranging
}

func (f *flowSignal) Error() string {
	switch f.kind {
	case flowReturn:
		return "'return' outside function"
	case flowBreak:
		return "'break' outside loop"
	default:
		return "'continue' outside loop"
	}
}

// syntaxError converts an escaped flow signal into the error reported to the
// caller.
func (f *flowSignal) syntaxError() error {
	return errs.New(errs.Syntax, f.Error())
}

// stopSignal is raised by stop_ to end the current top-level call
// gracefully with an exit code.
type stopSignal struct{ code int }

func (s stopSignal) Error() string { return "script stopped" }

// errAborted unwinds evaluation after the host calls Abort. It is reported
// as an interruption and is never catchable.
var errAborted = errors.New("execution aborted")

// uncatchable reports whether err must pass through except clauses
// untouched: flow signals, stop, abort, and error kinds the taxonomy marks
// uncatchable.
func uncatchable(err error) bool {
	var flow *flowSignal
	var stop stopSignal
	if errors.As(err, &flow) || errors.As(err, &stop) || errors.Is(err, errAborted) {
		return true
	}
	return !errs.Catchable(err)
}
