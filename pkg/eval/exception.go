package eval

import (
	"strings"

	"github.com/pyritelang/pyrite/pkg/diag"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/parse"
)

// Exception is an evaluation error annotated with source context: the range
// of the node that raised it, plus the call sites crossed while unwinding,
// innermost first. The underlying reason carries the error kind; Exception
// itself is transparent to the taxonomy.
type Exception struct {
	reason error
	ctx    *diag.Context
	calls  []*diag.Context
}

// Error returns the message of the underlying reason.
func (e *Exception) Error() string { return e.reason.Error() }

// Unwrap returns the underlying reason.
func (e *Exception) Unwrap() error { return e.reason }

// Reason returns the underlying reason.
func (e *Exception) Reason() error { return e.reason }

// ErrorKind returns the kind of the underlying reason.
func (e *Exception) ErrorKind() errs.Kind { return errs.KindOf(e.reason) }

// Context returns the source context of the node that raised the error.
func (e *Exception) Context() *diag.Context { return e.ctx }

// Range returns the range of the node that raised the error.
func (e *Exception) Range() diag.Ranging { return e.ctx.Ranging }

// Show renders the error with a source excerpt and, when the error crossed
// function calls, a traceback of the call sites.
func (e *Exception) Show(indent string) string {
	var sb strings.Builder
	sb.WriteString("Exception: ")
	sb.WriteString(e.reason.Error())
	sb.WriteString("\n" + indent + "  ")
	sb.WriteString(e.ctx.Show(indent + "  "))
	if len(e.calls) > 0 {
		sb.WriteString("\n" + indent + "Traceback:")
		for _, c := range e.calls {
			sb.WriteString("\n" + indent + "  ")
			sb.WriteString(c.ShowCompact(indent + "  "))
		}
	}
	return sb.String()
}

func (e *Exception) addCall(ctx *diag.Context) { e.calls = append(e.calls, ctx) }

// wrapError attaches source context to err if it does not have any yet.
// Exceptions, flow signals, stop and abort pass through unchanged, so the
// innermost context wins.
func wrapError(err error, src parse.Source, r diag.Ranger) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *Exception, *flowSignal, stopSignal, *parse.Error:
		return err
	}
	if err == errAborted {
		return err
	}
	return &Exception{
		reason: err,
		ctx:    diag.NewContext(src.Name, src.Code, r),
	}
}
