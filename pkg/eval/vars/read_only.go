package vars

import (
	"github.com/pyritelang/pyrite/pkg/eval/errs"
)

type readOnly struct {
	name  string
	value any
}

// NewReadOnly creates a variable that is read-only and always returns an
// error on Set. Built-ins and registered commands are bound this way.
func NewReadOnly(name string, v any) Var {
	return readOnly{name, v}
}

func (rv readOnly) Set(val any) error {
	return errs.SetReadOnlyVar{VarName: rv.name}
}

func (rv readOnly) Get() any { return rv.value }

// IsReadOnly returns whether v is a read-only variable.
func IsReadOnly(v Var) bool {
	_, ok := v.(readOnly)
	return ok
}
