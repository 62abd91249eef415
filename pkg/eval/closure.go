package eval

import (
	"github.com/pyritelang/pyrite/pkg/diag"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vars"
	"github.com/pyritelang/pyrite/pkg/parse"
)

// Closure is a script-defined function. It captures the scope it was defined
// in by reference, so later changes to outer names are visible inside, and
// keeps the source it was parsed from for tracebacks.
type Closure struct {
	name     string
	params   []parse.Param
	body     parse.Block
	captured *Ns
	src      parse.Source
	def      diag.Ranging
}

// Name returns the function's name as defined.
func (c *Closure) Name() string { return c.name }

// Kind returns "function".
func (c *Closure) Kind() string { return "function" }

// Repr returns an opaque representation naming the function.
func (c *Closure) Repr() string { return "<function " + c.name + ">" }

// Call binds arguments into a fresh scope and executes the body. Defaults
// are evaluated at call time, in the defining scope. A return signal becomes
// the return value; falling off the end returns None.
func (c *Closure) Call(fm *Frame, args []any, kwargs map[string]any) (any, error) {
	if fm.depth+1 > fm.eng.cfg.MaxDepth {
		return nil, errs.New(errs.Limit, "maximum call depth exceeded")
	}

	required := 0
	for _, p := range c.params {
		if p.Default == nil {
			required++
		}
	}
	if len(args) > len(c.params) {
		return nil, errs.ArityMismatch{
			What:     "arguments to " + c.name,
			ValidLow: required, ValidHigh: len(c.params), Actual: len(args),
		}
	}

	local := NewNs(c.captured)
	if fm.eng.cfg.GlobalFuncs {
		local = fm.eng.global
	}
	defFrame := &Frame{eng: fm.eng, src: c.src, local: c.captured, depth: fm.depth + 1}

	seen := make(map[string]bool, len(c.params))
	for i, p := range c.params {
		seen[p.Name] = true
		var value any
		switch {
		case i < len(args):
			if _, dup := kwargs[p.Name]; dup {
				return nil, errs.Newf(errs.Type,
					"%s() got multiple values for argument '%s'", c.name, p.Name)
			}
			value = args[i]
		default:
			if v, ok := kwargs[p.Name]; ok {
				value = v
			} else if p.Default != nil {
				v, err := defFrame.expr(p.Default)
				if err != nil {
					return nil, err
				}
				value = v
			} else {
				return nil, errs.Newf(errs.Type,
					"%s() missing required argument '%s'", c.name, p.Name)
			}
		}
		local.setLocal(p.Name, vars.FromInit(value))
	}
	for name := range kwargs {
		if !seen[name] {
			return nil, errs.Newf(errs.Type,
				"%s() got an unexpected keyword argument '%s'", c.name, name)
		}
	}

	body := &Frame{eng: fm.eng, src: c.src, local: local, depth: fm.depth + 1}
	err := body.execBlock(c.body)
	if err != nil {
		if flow, ok := err.(*flowSignal); ok {
			if flow.kind == flowReturn {
				return flow.value, nil
			}
			return nil, wrapError(flow.syntaxError(), c.src, flow)
		}
		return nil, err
	}
	return nil, nil
}
