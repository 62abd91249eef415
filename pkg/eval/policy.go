package eval

import (
	"strings"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/parse"
)

// Policy is the security policy: data tables consulted at exactly three
// checkpoints during evaluation — node-kind dispatch, name resolution and
// attribute access. The tables are fixed at engine construction; denials
// happen before the denied construct has any side effect.
type Policy struct {
	deniedKinds map[parse.Kind]bool
	deniedNames map[string]bool
	deniedAttrs map[string]bool
}

func defaultPolicy() *Policy {
	return &Policy{
		deniedKinds: map[parse.Kind]bool{
			parse.KindImport:       true,
			parse.KindImportFrom:   true,
			parse.KindClassDef:     true,
			parse.KindLambda:       true,
			parse.KindYield:        true,
			parse.KindGlobal:       true,
			parse.KindNonlocal:     true,
			parse.KindWith:         true,
			parse.KindStarred:      true,
			parse.KindGeneratorExp: true,
		},
		deniedNames: set(
			"eval", "exec", "execfile", "compile",
			"getattr", "setattr", "delattr",
			"globals", "locals", "vars", "dir",
			"open", "input",
			"__import__", "__builtins__", "__package__",
		),
		deniedAttrs: set(
			"__class__", "__dict__", "__globals__", "__code__",
			"__closure__", "__subclasses__", "__bases__", "__mro__",
			"__init__", "__new__", "__call__", "__getattribute__",
			"__self__", "__func__", "__module__", "__doc__",
			"__builtins__",
		),
	}
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// checkNode is checkpoint (a): it rejects denied node kinds, and function
// definitions carrying decorators, before they are dispatched.
func (p *Policy) checkNode(n parse.Node) error {
	if p.deniedKinds[n.Kind()] {
		return errs.Newf(errs.Security, "use of %s is not allowed", n.Kind())
	}
	if def, ok := n.(*parse.FunctionDef); ok && len(def.Decorators) > 0 {
		return errs.New(errs.Security, "use of decorators is not allowed")
	}
	return nil
}

// checkName is checkpoint (b): it rejects denied identifiers before any
// scope lookup or binding.
func (p *Policy) checkName(name string) error {
	if p.deniedNames[name] || strings.HasPrefix(name, "__") {
		return errs.Newf(errs.Security, "access to name '%s' is not allowed", name)
	}
	return nil
}

// checkAttr is checkpoint (c): it rejects denied attributes before the
// attribute is resolved on any value.
func (p *Policy) checkAttr(attr string) error {
	if p.deniedAttrs[attr] || strings.HasPrefix(attr, "__") {
		return errs.Newf(errs.Security, "access to attribute '%s' is not allowed", attr)
	}
	return nil
}

// ValidName reports whether name is a valid identifier that is not a
// reserved word. It gates host-facing binding APIs as well as script-side
// name binding.
func ValidName(name string) bool {
	if name == "" || parse.IsKeyword(name) {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
