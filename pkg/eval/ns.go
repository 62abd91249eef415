package eval

import (
	"sort"

	"github.com/pyritelang/pyrite/pkg/eval/vars"
)

// Ns is one scope of name bindings: an ordered mapping from names to
// variables, with a read-only reference to the parent scope for lookup
// chaining. The bottom of every chain is the engine's builtin scope.
//
// An Ns is also the value type of host-registered namespaces: scripts reach
// its members through attribute access, gated by the security policy.
type Ns struct {
	parent *Ns
	names  []string
	slots  map[string]vars.Var
}

// NewNs returns a new empty scope with the given parent. A nil parent makes
// a root scope.
func NewNs(parent *Ns) *Ns {
	return &Ns{parent: parent, slots: make(map[string]vars.Var)}
}

// Parent returns the parent scope.
func (ns *Ns) Parent() *Ns { return ns.parent }

// lookup resolves a name along the scope chain, innermost first.
func (ns *Ns) lookup(name string) (vars.Var, bool) {
	for s := ns; s != nil; s = s.parent {
		if v, ok := s.slots[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// local resolves a name in this scope only.
func (ns *Ns) local(name string) (vars.Var, bool) {
	v, ok := ns.slots[name]
	return v, ok
}

// setLocal binds a variable in this scope, keeping insertion order for new
// names.
func (ns *Ns) setLocal(name string, v vars.Var) {
	if _, ok := ns.slots[name]; !ok {
		ns.names = append(ns.names, name)
	}
	ns.slots[name] = v
}

// delLocal removes a binding from this scope.
func (ns *Ns) delLocal(name string) bool {
	if _, ok := ns.slots[name]; !ok {
		return false
	}
	delete(ns.slots, name)
	for i, n := range ns.names {
		if n == name {
			ns.names = append(ns.names[:i], ns.names[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the names bound in this scope, sorted.
func (ns *Ns) Names() []string {
	names := make([]string, len(ns.names))
	copy(names, ns.names)
	sort.Strings(names)
	return names
}

// Kind returns "namespace".
func (ns *Ns) Kind() string { return "namespace" }

// Repr returns an opaque representation.
func (ns *Ns) Repr() string { return "<namespace>" }

// NsBuilder is a mutable map used to construct namespaces.
type NsBuilder map[string]vars.Var

// AddVal binds a name to an ordinary value.
func (b NsBuilder) AddVal(name string, v any) NsBuilder {
	b[name] = vars.FromInit(v)
	return b
}

// AddReadOnly binds a name to a read-only value.
func (b NsBuilder) AddReadOnly(name string, v any) NsBuilder {
	b[name] = vars.NewReadOnly(name, v)
	return b
}

// AddGoFn binds a name, read-only, to a Go function adapted with NewGoFn.
func (b NsBuilder) AddGoFn(name string, impl any) NsBuilder {
	return b.AddReadOnly(name, NewGoFn(name, impl))
}

// AddGoFns calls AddGoFn for each entry of the map.
func (b NsBuilder) AddGoFns(fns map[string]any) NsBuilder {
	for name, impl := range fns {
		b.AddGoFn(name, impl)
	}
	return b
}

// Ns builds the namespace. Names are bound in sorted order, so the result is
// deterministic.
func (b NsBuilder) Ns() *Ns {
	ns := NewNs(nil)
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ns.setLocal(name, b[name])
	}
	return ns
}
