package parse

import (
	"github.com/pyritelang/pyrite/pkg/diag"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
)

// Error is a syntax error. It wraps a [diag.Error] with type "syntax error",
// so it renders with the file name, line range and a source excerpt. The
// wrapped value is a named field rather than an embedded one: embedding a
// type called Error would shadow the Error method with the field and the
// type would stop satisfying the error interface.
type Error struct {
	Diag diag.Error
}

var (
	_ error       = &Error{}
	_ diag.Ranger = &Error{}
	_ diag.Shower = &Error{}
)

func newError(src Source, r diag.Ranger, msg string) *Error {
	return &Error{diag.Error{
		Type:    "syntax error",
		Message: msg,
		Context: *diag.NewContext(src.Name, src.Code, r),
	}}
}

func (e *Error) Error() string { return e.Diag.Error() }

// Range returns the range of the culprit source text.
func (e *Error) Range() diag.Ranging { return e.Diag.Range() }

// Show renders the error with its source excerpt.
func (e *Error) Show(indent string) string { return e.Diag.Show(indent) }

// ErrorKind classifies parse failures as syntax errors, which try/except
// never catches.
func (e *Error) ErrorKind() errs.Kind { return errs.Syntax }

// GetError returns err unchanged if it is a *Error, and nil otherwise. It is
// useful for callers that need the structured form of a parse failure.
func GetError(err error) *Error {
	if pe, ok := err.(*Error); ok {
		return pe
	}
	return nil
}

// UnpackErrors returns the parse errors contained in err. The parser fails
// fast, so the slice has at most one element; the slice form keeps callers
// like the language server uniform.
func UnpackErrors(err error) []*Error {
	if pe := GetError(err); pe != nil {
		return []*Error{pe}
	}
	return nil
}
