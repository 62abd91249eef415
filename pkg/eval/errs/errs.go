// Package errs declares the error kinds the interpreter can raise, and a
// small number of error types with structured fields that are reused across
// the codebase.
//
// Every error the engine reports to a script or to the host carries a Kind.
// Script-level except clauses match on kinds; kinds that are not catchable
// always unwind to the engine boundary.
package errs

import (
	"fmt"
	"strconv"
)

// Kind identifies one of the closed set of error kinds. The set is fixed:
// scripts cannot define exception types, so an except clause can only ever
// name one of these.
type Kind int

// The error kinds, in rough order of the pipeline stage that produces them.
const (
	// Syntax is reported by the parser, and by evaluation for statements
	// that are syntactically valid but misplaced (return outside a function,
	// break outside a loop).
	Syntax Kind = iota
	// Name is an unresolved identifier.
	Name
	// Security is a denied construct, identifier or attribute. It is never
	// catchable from script code.
	Security
	// Type is an operand or argument type mismatch, including bad call
	// arity.
	Type
	// Value is a bad value of the right type: failed conversions, unpacking
	// size mismatches, assignment to read-only names.
	Value
	// Index is a sequence index out of range.
	Index
	// Key is a missing dict key.
	Key
	// Attribute is an unknown attribute or method.
	Attribute
	// ZeroDivision is division or modulo by zero.
	ZeroDivision
	// Runtime covers resource-guard violations, raise misuse, and any
	// failure that fits no other kind.
	Runtime
	// Assertion is a failed assert statement.
	Assertion
	// Limit is an exceeded recursion or step ceiling. It is never catchable
	// from script code.
	Limit
	// Extension is a failure inside a host-supplied callable or the module
	// machinery.
	Extension
)

var kindNames = [...]string{
	Syntax:       "SyntaxError",
	Name:         "NameError",
	Security:     "SecurityError",
	Type:         "TypeError",
	Value:        "ValueError",
	Index:        "IndexError",
	Key:          "KeyError",
	Attribute:    "AttributeError",
	ZeroDivision: "ZeroDivisionError",
	Runtime:      "RuntimeError",
	Assertion:    "AssertionError",
	Limit:        "LimitExceeded",
	Extension:    "ExtensionError",
}

// String returns the name of the kind as it appears in scripts.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "error(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Catchable reports whether a script-level except clause may consume errors
// of this kind. SecurityError always terminates the current top-level call so
// that a script cannot probe-and-retry its way past the sandbox; LimitExceeded
// terminates it so that a runaway script cannot outlive its ceiling; syntax
// errors are reported before (or instead of) the code that could catch them.
func (k Kind) Catchable() bool {
	switch k {
	case Security, Limit, Syntax:
		return false
	}
	return true
}

// KindByName resolves a kind from its script-visible name. It is used by
// raise statements and except clauses. The pseudo-name "Exception" is not
// resolved here; it is handled by the except machinery as "all catchable
// kinds".
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinder is implemented by every error type in this package, and by any
// other error that wants to report a kind.
type Kinder interface {
	error
	ErrorKind() Kind
}

// KindOf returns the kind of an error. Errors that do not implement Kinder
// are classified as Runtime, so that no failure leaves the engine
// unclassified.
func KindOf(err error) Kind {
	if k, ok := err.(Kinder); ok {
		return k.ErrorKind()
	}
	return Runtime
}

// Catchable reports whether the error may be consumed by a script-level
// except clause.
func Catchable(err error) bool {
	return KindOf(err).Catchable()
}

// MessageOf returns the message of err without the kind-name prefix that
// Error values render with, for embedding inside a larger message.
func MessageOf(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Message
	}
	msg := err.Error()
	if prefix := KindOf(err).String() + ": "; len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}

// Error is a generic kinded error with a plain message.
type Error struct {
	Kind    Kind
	Message string
}

// New returns an Error of the given kind.
func New(k Kind, msg string) *Error {
	return &Error{k, msg}
}

// Newf returns an Error of the given kind with a formatted message.
func Newf(k Kind, format string, args ...any) *Error {
	return &Error{k, fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Message }

// ErrorKind returns the kind tag.
func (e *Error) ErrorKind() Kind { return e.Kind }

// OutOfRange encodes an error where a value is out of its valid range: a
// list index beyond the list, a slice bound beyond the sequence.
type OutOfRange struct {
	What      string
	ValidLow  int
	ValidHigh int
	Actual    string
}

func (e OutOfRange) Error() string {
	if e.ValidHigh < e.ValidLow {
		return fmt.Sprintf("IndexError: %s has no valid value, but is %s",
			e.What, e.Actual)
	}
	return fmt.Sprintf("IndexError: %s must be from %d to %d, but is %s",
		e.What, e.ValidLow, e.ValidHigh, e.Actual)
}

// ErrorKind returns Index.
func (OutOfRange) ErrorKind() Kind { return Index }

// ArityMismatch encodes an error where the number of arguments or unpacking
// targets does not match what is required. ValidHigh == -1 means "or more".
type ArityMismatch struct {
	What      string
	ValidLow  int
	ValidHigh int
	Actual    int
}

func plural(n int) string {
	if n == 1 {
		return "value"
	}
	return "values"
}

func (e ArityMismatch) Error() string {
	var valid string
	switch {
	case e.ValidHigh == -1:
		valid = fmt.Sprintf("%d or more values", e.ValidLow)
	case e.ValidHigh == e.ValidLow:
		valid = fmt.Sprintf("%d %s", e.ValidLow, plural(e.ValidLow))
	default:
		valid = fmt.Sprintf("%d to %d values", e.ValidLow, e.ValidHigh)
	}
	return fmt.Sprintf("TypeError: %s must be %s, but is %d %s",
		e.What, valid, e.Actual, plural(e.Actual))
}

// ErrorKind returns Type.
func (ArityMismatch) ErrorKind() Kind { return Type }

// BadValue encodes an error where a value is invalid: a conversion that
// cannot succeed, an argument outside a function's domain.
type BadValue struct {
	What   string
	Valid  string
	Actual string
}

func (e BadValue) Error() string {
	return fmt.Sprintf("ValueError: %s must be %s, but is %s",
		e.What, e.Valid, e.Actual)
}

// ErrorKind returns Value.
func (BadValue) ErrorKind() Kind { return Value }

// SetReadOnlyVar encodes an attempt to assign to or delete a read-only name.
type SetReadOnlyVar struct {
	VarName string
}

func (e SetReadOnlyVar) Error() string {
	return fmt.Sprintf("ValueError: cannot overwrite read-only name %q", e.VarName)
}

// ErrorKind returns Value.
func (SetReadOnlyVar) ErrorKind() Kind { return Value }
