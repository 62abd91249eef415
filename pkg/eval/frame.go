package eval

import (
	"errors"

	"github.com/pyritelang/pyrite/pkg/diag"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
	"github.com/pyritelang/pyrite/pkg/eval/vars"
	"github.com/pyritelang/pyrite/pkg/parse"
)

// Frame carries the context of one level of evaluation: the engine, the
// source being evaluated, the current scope and the call depth. A new Frame
// is made per function and comprehension call; statement evaluation within a
// function shares one.
type Frame struct {
	eng   *Engine
	src   parse.Source
	local *Ns
	depth int

	// lastValue holds the value of the most recent expression statement, so
	// the controller can report the value of a trailing expression.
	lastValue any
	// active is the error being handled by the enclosing except clause, for
	// bare raise.
	active error
}

// Engine returns the engine this frame evaluates under.
func (fm *Frame) Engine() *Engine { return fm.eng }

// step is the common checkpoint: it advances the step counter against the
// ceiling and observes abort requests. It runs per statement, per loop
// iteration and per call.
func (fm *Frame) step(r diag.Ranger) error {
	if fm.eng.abort.Load() {
		return errAborted
	}
	fm.eng.steps++
	if fm.eng.steps > fm.eng.cfg.MaxSteps {
		return wrapError(errs.New(errs.Limit, "step limit exceeded"), fm.src, r)
	}
	return nil
}

func (fm *Frame) execBlock(b parse.Block) error {
	for _, stmt := range b {
		if err := fm.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (fm *Frame) exec(s parse.Stmt) error {
	if err := fm.eng.policy.checkNode(s); err != nil {
		return wrapError(err, fm.src, s)
	}
	if err := fm.step(s); err != nil {
		return err
	}
	switch s := s.(type) {
	case *parse.ExprStmt:
		v, err := fm.expr(s.X)
		if err != nil {
			return err
		}
		fm.lastValue = v
		return nil
	case *parse.Assign:
		return fm.execAssign(s)
	case *parse.AugAssign:
		return fm.execAugAssign(s)
	case *parse.If:
		return fm.execIf(s)
	case *parse.While:
		return fm.execWhile(s)
	case *parse.For:
		return fm.execFor(s)
	case *parse.Break:
		return &flowSignal{kind: flowBreak, Ranging: s.Ranging}
	case *parse.Continue:
		return &flowSignal{kind: flowContinue, Ranging: s.Ranging}
	case *parse.Pass:
		return nil
	case *parse.Return:
		var v any
		if s.Value != nil {
			var err error
			if v, err = fm.expr(s.Value); err != nil {
				return err
			}
		}
		return &flowSignal{kind: flowReturn, value: v, Ranging: s.Ranging}
	case *parse.Del:
		return fm.execDel(s)
	case *parse.FunctionDef:
		return fm.execFunctionDef(s)
	case *parse.Try:
		return fm.execTry(s)
	case *parse.Raise:
		return fm.execRaise(s)
	case *parse.Assert:
		return fm.execAssert(s)
	// Denied statement forms are rejected by checkNode above; reaching
	// them here is a dispatch bug.
	default:
		return wrapError(errs.Newf(errs.Runtime,
			"internal error: unhandled statement %s", s.Kind()), fm.src, s)
	}
}

func (fm *Frame) expr(e parse.Expr) (any, error) {
	if err := fm.eng.policy.checkNode(e); err != nil {
		return nil, wrapError(err, fm.src, e)
	}
	switch e := e.(type) {
	case *parse.Literal:
		return e.Value, nil
	case *parse.Name:
		v, err := fm.resolveName(e.Name)
		if err != nil {
			return nil, wrapError(err, fm.src, e)
		}
		return v, nil
	case *parse.Tuple:
		items, err := fm.exprs(e.Elems)
		if err != nil {
			return nil, err
		}
		return vals.Tuple(items), nil
	case *parse.List:
		items, err := fm.exprs(e.Elems)
		if err != nil {
			return nil, err
		}
		return vals.NewList(items...), nil
	case *parse.Set:
		items, err := fm.exprs(e.Elems)
		if err != nil {
			return nil, err
		}
		s, err := vals.NewSet(items...)
		return s, wrapError(err, fm.src, e)
	case *parse.Dict:
		d := vals.NewDict()
		for i, k := range e.Keys {
			kv, err := fm.expr(k)
			if err != nil {
				return nil, err
			}
			vv, err := fm.expr(e.Values[i])
			if err != nil {
				return nil, err
			}
			if err := d.Set(kv, vv); err != nil {
				return nil, wrapError(err, fm.src, k)
			}
		}
		return d, nil
	case *parse.BinOp:
		l, err := fm.expr(e.Left)
		if err != nil {
			return nil, err
		}
		r, err := fm.expr(e.Right)
		if err != nil {
			return nil, err
		}
		v, err := binOp(e.Op, l, r)
		return v, wrapError(err, fm.src, e)
	case *parse.UnaryOp:
		v, err := fm.expr(e.Operand)
		if err != nil {
			return nil, err
		}
		out, err := unaryOp(e.Op, v)
		return out, wrapError(err, fm.src, e)
	case *parse.BoolOp:
		return fm.exprBoolOp(e)
	case *parse.Compare:
		return fm.exprCompare(e)
	case *parse.Call:
		return fm.exprCall(e)
	case *parse.Attribute:
		return fm.exprAttribute(e)
	case *parse.Subscript:
		return fm.exprSubscript(e)
	case *parse.IfExp:
		cond, err := fm.expr(e.Cond)
		if err != nil {
			return nil, err
		}
		if vals.Truth(cond) {
			return fm.expr(e.Then)
		}
		return fm.expr(e.Else)
	case *parse.ListComp:
		return fm.exprListComp(e)
	case *parse.SetComp:
		return fm.exprSetComp(e)
	case *parse.DictComp:
		return fm.exprDictComp(e)
	default:
		return nil, wrapError(errs.Newf(errs.Runtime,
			"internal error: unhandled expression %s", e.Kind()), fm.src, e)
	}
}

func (fm *Frame) exprs(es []parse.Expr) ([]any, error) {
	out := make([]any, len(es))
	for i, e := range es {
		v, err := fm.expr(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (fm *Frame) resolveName(name string) (any, error) {
	if err := fm.eng.policy.checkName(name); err != nil {
		return nil, err
	}
	if v, ok := fm.local.lookup(name); ok {
		return v.Get(), nil
	}
	return nil, errs.Newf(errs.Name, "name '%s' is not defined", name)
}

// bindName binds a value in the innermost scope. An existing binding in the
// innermost scope is overwritten through its variable; a read-only binding
// anywhere in the chain refuses the assignment, so built-ins and registered
// commands cannot be shadowed.
func (fm *Frame) bindName(name string, value any) error {
	if err := fm.eng.policy.checkName(name); err != nil {
		return err
	}
	if v, ok := fm.local.local(name); ok {
		return v.Set(value)
	}
	if v, ok := fm.local.lookup(name); ok && vars.IsReadOnly(v) {
		return errs.SetReadOnlyVar{VarName: name}
	}
	fm.local.setLocal(name, vars.FromInit(value))
	return nil
}

// assignTo implements binding a value to an assignment target: a name, an
// attribute, a subscript, or a tuple/list of targets (unpacking).
func (fm *Frame) assignTo(target parse.Expr, value any) error {
	switch t := target.(type) {
	case *parse.Name:
		return wrapError(fm.bindName(t.Name, value), fm.src, t)
	case *parse.Subscript:
		obj, err := fm.expr(t.Object)
		if err != nil {
			return err
		}
		if sl, ok := t.Index.(*parse.Slice); ok {
			_ = sl
			return wrapError(errs.New(errs.Type,
				"slice assignment is not supported"), fm.src, t)
		}
		idx, err := fm.expr(t.Index)
		if err != nil {
			return err
		}
		return wrapError(setIndex(obj, idx, value), fm.src, t)
	case *parse.Attribute:
		if err := fm.eng.policy.checkAttr(t.Attr); err != nil {
			return wrapError(err, fm.src, t.AttrRange)
		}
		return wrapError(errs.New(errs.Type,
			"attribute assignment is not supported"), fm.src, t)
	case *parse.Tuple:
		return fm.unpack(t.Elems, value, t)
	case *parse.List:
		return fm.unpack(t.Elems, value, t)
	}
	return wrapError(errs.Newf(errs.Syntax,
		"cannot assign to %s", target.Kind()), fm.src, target)
}

// checkAssignTarget applies checkpoint (a) to an assignment target and,
// for tuple/list targets, everything nested in it. Targets never pass
// through expr, so denied kinds like argument unpacking have to be caught
// here, before the right hand side runs.
func (fm *Frame) checkAssignTarget(target parse.Expr) error {
	if err := fm.eng.policy.checkNode(target); err != nil {
		return wrapError(err, fm.src, target)
	}
	switch t := target.(type) {
	case *parse.Tuple:
		for _, el := range t.Elems {
			if err := fm.checkAssignTarget(el); err != nil {
				return err
			}
		}
	case *parse.List:
		for _, el := range t.Elems {
			if err := fm.checkAssignTarget(el); err != nil {
				return err
			}
		}
	}
	return nil
}

func (fm *Frame) unpack(targets []parse.Expr, value any, r diag.Ranger) error {
	items, err := vals.Collect(value)
	if err != nil {
		return wrapError(err, fm.src, r)
	}
	if len(items) != len(targets) {
		return wrapError(errs.ArityMismatch{
			What:     "values to unpack",
			ValidLow: len(targets), ValidHigh: len(targets), Actual: len(items),
		}, fm.src, r)
	}
	for i, t := range targets {
		if err := fm.assignTo(t, items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (fm *Frame) execAssign(s *parse.Assign) error {
	for _, target := range s.Targets {
		if err := fm.checkAssignTarget(target); err != nil {
			return err
		}
	}
	value, err := fm.expr(s.Value)
	if err != nil {
		return err
	}
	for _, target := range s.Targets {
		if err := fm.assignTo(target, value); err != nil {
			return err
		}
	}
	return nil
}

func (fm *Frame) execAugAssign(s *parse.AugAssign) error {
	if err := fm.checkAssignTarget(s.Target); err != nil {
		return err
	}
	value, err := fm.expr(s.Value)
	if err != nil {
		return err
	}
	switch t := s.Target.(type) {
	case *parse.Name:
		cur, err := fm.resolveName(t.Name)
		if err != nil {
			return wrapError(err, fm.src, t)
		}
		next, err := binOp(s.Op, cur, value)
		if err != nil {
			return wrapError(err, fm.src, s)
		}
		return wrapError(fm.bindName(t.Name, next), fm.src, t)
	case *parse.Subscript:
		obj, err := fm.expr(t.Object)
		if err != nil {
			return err
		}
		idx, err := fm.expr(t.Index)
		if err != nil {
			return err
		}
		cur, err := getIndex(obj, idx)
		if err != nil {
			return wrapError(err, fm.src, t)
		}
		next, err := binOp(s.Op, cur, value)
		if err != nil {
			return wrapError(err, fm.src, s)
		}
		return wrapError(setIndex(obj, idx, next), fm.src, t)
	}
	return wrapError(errs.Newf(errs.Syntax,
		"cannot assign to %s", s.Target.Kind()), fm.src, s.Target)
}

func (fm *Frame) execIf(s *parse.If) error {
	cond, err := fm.expr(s.Cond)
	if err != nil {
		return err
	}
	if vals.Truth(cond) {
		return fm.execBlock(s.Body)
	}
	return fm.execBlock(s.Else)
}

func (fm *Frame) execWhile(s *parse.While) error {
	broke := false
	for {
		if err := fm.step(s); err != nil {
			return err
		}
		cond, err := fm.expr(s.Cond)
		if err != nil {
			return err
		}
		if !vals.Truth(cond) {
			break
		}
		err = fm.execBlock(s.Body)
		if err != nil {
			if flow, ok := err.(*flowSignal); ok {
				if flow.kind == flowBreak {
					broke = true
					break
				}
				if flow.kind == flowContinue {
					continue
				}
			}
			return err
		}
	}
	if !broke {
		return fm.execBlock(s.Else)
	}
	return nil
}

var errLoopBreak = errors.New("loop break")

func (fm *Frame) execFor(s *parse.For) error {
	if err := fm.checkAssignTarget(s.Target); err != nil {
		return err
	}
	iterable, err := fm.expr(s.Iter)
	if err != nil {
		return err
	}
	broke := false
	err = vals.Iterate(iterable, func(elem any) error {
		if err := fm.step(s); err != nil {
			return err
		}
		if err := fm.assignTo(s.Target, elem); err != nil {
			return err
		}
		err := fm.execBlock(s.Body)
		if err != nil {
			if flow, ok := err.(*flowSignal); ok {
				if flow.kind == flowBreak {
					broke = true
					return errLoopBreak
				}
				if flow.kind == flowContinue {
					return nil
				}
			}
		}
		return err
	})
	if err == errLoopBreak {
		err = nil
	}
	if err != nil {
		return wrapError(err, fm.src, s)
	}
	if !broke {
		return fm.execBlock(s.Else)
	}
	return nil
}

func (fm *Frame) execDel(s *parse.Del) error {
	for _, target := range s.Targets {
		switch t := target.(type) {
		case *parse.Name:
			if err := fm.eng.policy.checkName(t.Name); err != nil {
				return wrapError(err, fm.src, t)
			}
			v, ok := fm.local.local(t.Name)
			if !ok {
				if outer, found := fm.local.lookup(t.Name); found && vars.IsReadOnly(outer) {
					return wrapError(errs.SetReadOnlyVar{VarName: t.Name}, fm.src, t)
				}
				return wrapError(errs.Newf(errs.Name,
					"name '%s' is not defined", t.Name), fm.src, t)
			}
			if vars.IsReadOnly(v) {
				return wrapError(errs.SetReadOnlyVar{VarName: t.Name}, fm.src, t)
			}
			fm.local.delLocal(t.Name)
		case *parse.Subscript:
			obj, err := fm.expr(t.Object)
			if err != nil {
				return err
			}
			idx, err := fm.expr(t.Index)
			if err != nil {
				return err
			}
			if err := delIndex(obj, idx); err != nil {
				return wrapError(err, fm.src, t)
			}
		default:
			return wrapError(errs.Newf(errs.Syntax,
				"cannot delete %s", target.Kind()), fm.src, target)
		}
	}
	return nil
}

func (fm *Frame) execFunctionDef(s *parse.FunctionDef) error {
	c := &Closure{
		name:     s.Name,
		params:   s.Params,
		body:     s.Body,
		captured: fm.local,
		src:      fm.src,
		def:      s.Ranging,
	}
	return wrapError(fm.bindName(s.Name, c), fm.src, s)
}

func (fm *Frame) execTry(s *parse.Try) error {
	err := fm.execBlock(s.Body)
	if err == nil {
		err = fm.execBlock(s.Else)
	} else if !uncatchable(err) {
		if clause, ok := matchExcept(s.Excepts, err); ok {
			err = fm.execExcept(clause, err)
		}
	}
	// finally always runs; its error supersedes.
	if ferr := fm.execBlock(s.Finally); ferr != nil {
		return ferr
	}
	return err
}

func matchExcept(clauses []parse.ExceptClause, err error) (*parse.ExceptClause, bool) {
	kind := errs.KindOf(err)
	for i := range clauses {
		c := &clauses[i]
		if len(c.Kinds) == 0 {
			return c, true
		}
		for _, name := range c.Kinds {
			if name == "Exception" {
				return c, true
			}
			if k, ok := errs.KindByName(name); ok && k == kind {
				return c, true
			}
		}
	}
	return nil, false
}

func (fm *Frame) execExcept(clause *parse.ExceptClause, caught error) error {
	if clause.Name != "" {
		reason := caught
		if exc, ok := caught.(*Exception); ok {
			reason = exc.Reason()
		}
		if err := fm.bindName(clause.Name, reason.Error()); err != nil {
			return wrapError(err, fm.src, clause)
		}
	}
	prev := fm.active
	fm.active = caught
	defer func() { fm.active = prev }()
	return fm.execBlock(clause.Body)
}

// raiseTable maps the names scripts may raise. "Exception" is the generic
// alias for RuntimeError; uncatchable kinds are absent so a script cannot
// fabricate them.
func raiseKind(name string) (errs.Kind, bool) {
	if name == "Exception" {
		return errs.Runtime, true
	}
	k, ok := errs.KindByName(name)
	if !ok || !k.Catchable() {
		return 0, false
	}
	return k, true
}

func (fm *Frame) execRaise(s *parse.Raise) error {
	if s.Exc == nil {
		if fm.active == nil {
			return wrapError(errs.New(errs.Runtime,
				"no active exception to re-raise"), fm.src, s)
		}
		return fm.active
	}
	switch e := s.Exc.(type) {
	case *parse.Name:
		k, ok := raiseKind(e.Name)
		if !ok {
			return wrapError(errs.Newf(errs.Value,
				"unknown error kind '%s'", e.Name), fm.src, e)
		}
		return wrapError(errs.New(k, "raised"), fm.src, s)
	case *parse.Call:
		name, ok := e.Func.(*parse.Name)
		if !ok {
			break
		}
		k, kok := raiseKind(name.Name)
		if !kok {
			return wrapError(errs.Newf(errs.Value,
				"unknown error kind '%s'", name.Name), fm.src, name)
		}
		msg := "raised"
		if len(e.Args) > 0 {
			v, err := fm.expr(e.Args[0])
			if err != nil {
				return err
			}
			msg = vals.ToString(v)
		}
		return wrapError(errs.New(k, msg), fm.src, s)
	}
	return wrapError(errs.New(errs.Value,
		"raise requires an error kind name"), fm.src, s)
}

func (fm *Frame) execAssert(s *parse.Assert) error {
	cond, err := fm.expr(s.Cond)
	if err != nil {
		return err
	}
	if vals.Truth(cond) {
		return nil
	}
	msg := "assertion failed"
	if s.Msg != nil {
		v, err := fm.expr(s.Msg)
		if err != nil {
			return err
		}
		msg = vals.ToString(v)
	}
	return wrapError(errs.New(errs.Assertion, msg), fm.src, s)
}

func (fm *Frame) exprBoolOp(e *parse.BoolOp) (any, error) {
	var v any
	for i, operand := range e.Values {
		var err error
		v, err = fm.expr(operand)
		if err != nil {
			return nil, err
		}
		if i == len(e.Values)-1 {
			break
		}
		if e.Op == "and" && !vals.Truth(v) {
			return v, nil
		}
		if e.Op == "or" && vals.Truth(v) {
			return v, nil
		}
	}
	return v, nil
}

func (fm *Frame) exprCompare(e *parse.Compare) (any, error) {
	left, err := fm.expr(e.Left)
	if err != nil {
		return nil, err
	}
	for i, op := range e.Ops {
		right, err := fm.expr(e.Operands[i])
		if err != nil {
			return nil, err
		}
		ok, err := compareOne(op, left, right)
		if err != nil {
			return nil, wrapError(err, fm.src, e)
		}
		if !ok {
			return false, nil
		}
		left = right
	}
	return true, nil
}

func (fm *Frame) exprCall(e *parse.Call) (any, error) {
	fn, err := fm.expr(e.Func)
	if err != nil {
		return nil, err
	}
	args, err := fm.exprs(e.Args)
	if err != nil {
		return nil, err
	}
	var kwargs map[string]any
	if len(e.KeywordNames) > 0 {
		kwargs = make(map[string]any, len(e.KeywordNames))
		for i, name := range e.KeywordNames {
			v, err := fm.expr(e.KeywordValues[i])
			if err != nil {
				return nil, err
			}
			kwargs[name] = v
		}
	}
	return fm.callValue(fn, args, kwargs, e)
}

// callValue invokes a callable value, recording the call site in the
// traceback of any escaping exception.
func (fm *Frame) callValue(fn any, args []any, kwargs map[string]any, r diag.Ranger) (any, error) {
	if err := fm.step(r); err != nil {
		return nil, err
	}
	c, ok := fn.(Callable)
	if !ok {
		return nil, wrapError(errs.Newf(errs.Type,
			"'%s' object is not callable", vals.Kind(fn)), fm.src, r)
	}
	v, err := c.Call(fm, args, kwargs)
	if err != nil {
		err = wrapError(err, fm.src, r)
		if exc, ok := err.(*Exception); ok {
			exc.addCall(diag.NewContext(fm.src.Name, fm.src.Code, r))
		}
		return nil, err
	}
	return v, nil
}

func (fm *Frame) exprAttribute(e *parse.Attribute) (any, error) {
	if err := fm.eng.policy.checkAttr(e.Attr); err != nil {
		return nil, wrapError(err, fm.src, e.AttrRange)
	}
	obj, err := fm.expr(e.Object)
	if err != nil {
		return nil, err
	}
	if ns, ok := obj.(*Ns); ok {
		if v, ok := ns.local(e.Attr); ok {
			return v.Get(), nil
		}
		return nil, wrapError(errs.Newf(errs.Attribute,
			"namespace has no attribute '%s'", e.Attr), fm.src, e.AttrRange)
	}
	if m, ok := lookupMethod(obj, e.Attr); ok {
		return m, nil
	}
	if resolver, ok := obj.(AttrResolver); ok {
		if v, ok := resolver.Attr(e.Attr); ok {
			return v, nil
		}
	}
	return nil, wrapError(errs.Newf(errs.Attribute,
		"'%s' object has no attribute '%s'", vals.Kind(obj), e.Attr), fm.src, e.AttrRange)
}

// AttrResolver lets extension values (compiled patterns, matches) expose
// attributes of their own. Resolution still happens after policy
// checkpoint (c).
type AttrResolver interface {
	Attr(name string) (any, bool)
}

func (fm *Frame) exprSubscript(e *parse.Subscript) (any, error) {
	obj, err := fm.expr(e.Object)
	if err != nil {
		return nil, err
	}
	if sl, ok := e.Index.(*parse.Slice); ok {
		var low, high, step any
		if sl.Low != nil {
			if low, err = fm.expr(sl.Low); err != nil {
				return nil, err
			}
		}
		if sl.High != nil {
			if high, err = fm.expr(sl.High); err != nil {
				return nil, err
			}
		}
		if sl.Step != nil {
			if step, err = fm.expr(sl.Step); err != nil {
				return nil, err
			}
		}
		v, err := getSlice(obj, low, high, step)
		return v, wrapError(err, fm.src, e)
	}
	idx, err := fm.expr(e.Index)
	if err != nil {
		return nil, err
	}
	v, err := getIndex(obj, idx)
	return v, wrapError(err, fm.src, e)
}

// compFrame returns a frame with a fresh child scope for a comprehension,
// so the loop variable does not leak.
func (fm *Frame) compFrame() *Frame {
	return &Frame{eng: fm.eng, src: fm.src, local: NewNs(fm.local), depth: fm.depth}
}

// execComp runs the nested for/if clauses of a comprehension, calling emit
// once per produced element.
func (fm *Frame) execComp(clauses []parse.CompClause, i int, emit func() error) error {
	if i == len(clauses) {
		return emit()
	}
	clause := clauses[i]
	if err := fm.checkAssignTarget(clause.Target); err != nil {
		return err
	}
	iterable, err := fm.expr(clause.Iter)
	if err != nil {
		return err
	}
	return vals.Iterate(iterable, func(elem any) error {
		if err := fm.step(clause.Target); err != nil {
			return err
		}
		if err := fm.assignTo(clause.Target, elem); err != nil {
			return err
		}
		for _, cond := range clause.Ifs {
			v, err := fm.expr(cond)
			if err != nil {
				return err
			}
			if !vals.Truth(v) {
				return nil
			}
		}
		return fm.execComp(clauses, i+1, emit)
	})
}

func (fm *Frame) exprListComp(e *parse.ListComp) (any, error) {
	cf := fm.compFrame()
	var items []any
	err := cf.execComp(e.Clauses, 0, func() error {
		v, err := cf.expr(e.Elem)
		if err != nil {
			return err
		}
		items = append(items, v)
		return nil
	})
	if err != nil {
		return nil, wrapError(err, fm.src, e)
	}
	return vals.NewList(items...), nil
}

func (fm *Frame) exprSetComp(e *parse.SetComp) (any, error) {
	cf := fm.compFrame()
	out, _ := vals.NewSet()
	err := cf.execComp(e.Clauses, 0, func() error {
		v, err := cf.expr(e.Elem)
		if err != nil {
			return err
		}
		return out.Add(v)
	})
	if err != nil {
		return nil, wrapError(err, fm.src, e)
	}
	return out, nil
}

func (fm *Frame) exprDictComp(e *parse.DictComp) (any, error) {
	cf := fm.compFrame()
	out := vals.NewDict()
	err := cf.execComp(e.Clauses, 0, func() error {
		k, err := cf.expr(e.Key)
		if err != nil {
			return err
		}
		v, err := cf.expr(e.Value)
		if err != nil {
			return err
		}
		return out.Set(k, v)
	})
	if err != nil {
		return nil, wrapError(err, fm.src, e)
	}
	return out, nil
}
