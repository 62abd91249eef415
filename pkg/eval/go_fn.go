package eval

import (
	"reflect"
	"strings"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
)

// Options is implemented by structs that declare the keyword arguments a Go
// function accepts. Each exported field is one keyword, matched by its
// lowercased name.
type Options interface{ SetDefaultOptions() }

var (
	frameType   = reflect.TypeOf((*Frame)(nil))
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	optionsType = reflect.TypeOf((*Options)(nil)).Elem()
)

// GoFn adapts a Go function into a Callable. The Go signature is inspected
// once, at construction:
//
//   - An optional first parameter of type *Frame receives the frame.
//   - An optional next parameter of a struct type whose pointer implements
//     Options receives keyword arguments.
//   - Remaining parameters receive positional arguments, converted with
//     vals.ScanToGo. A variadic final parameter absorbs any surplus.
//   - An optional final error result reports failure; other results are
//     converted back with vals.FromGo, multiple ones as a tuple.
//
// Functions without an options parameter reject all keyword arguments.
type GoFn struct {
	name string
	impl reflect.Value

	frame    bool
	options  reflect.Type
	normal   []reflect.Type
	variadic reflect.Type
	retErr   bool
	numOut   int
}

// NewGoFn adapts fn, which must be a Go function, into a GoFn. It panics on
// a non-function: registration happens at host initialization, so this is a
// programming error, not an input error.
func NewGoFn(name string, fn any) *GoFn {
	impl := reflect.ValueOf(fn)
	t := impl.Type()
	if t.Kind() != reflect.Func {
		panic("NewGoFn: not a function: " + t.String())
	}
	g := &GoFn{name: name, impl: impl}

	i := 0
	if t.NumIn() > i && t.In(i) == frameType {
		g.frame = true
		i++
	}
	if t.NumIn() > i && t.In(i).Kind() == reflect.Struct &&
		reflect.PtrTo(t.In(i)).Implements(optionsType) {
		g.options = t.In(i)
		i++
	}
	for ; i < t.NumIn(); i++ {
		if t.IsVariadic() && i == t.NumIn()-1 {
			g.variadic = t.In(i).Elem()
		} else {
			g.normal = append(g.normal, t.In(i))
		}
	}

	g.numOut = t.NumOut()
	if g.numOut > 0 && t.Out(g.numOut-1) == errorType {
		g.retErr = true
		g.numOut--
	}
	return g
}

// Kind returns "builtin".
func (g *GoFn) Kind() string { return "builtin" }

// Repr returns an opaque representation naming the function.
func (g *GoFn) Repr() string { return "<builtin " + g.name + ">" }

// Call converts the arguments, invokes the Go function, and converts the
// results. Errors from the Go function that carry no engine kind are
// classified as extension errors; panics are recovered likewise, so a broken
// host callable cannot crash the embedding process.
func (g *GoFn) Call(fm *Frame, args []any, kwargs map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, errs.Newf(errs.Extension,
				"error in %s: %v", g.name, r)
		}
	}()

	in := make([]reflect.Value, 0, len(g.normal)+len(args)+2)
	if g.frame {
		in = append(in, reflect.ValueOf(fm))
	}
	if g.options != nil {
		optPtr := reflect.New(g.options)
		optPtr.Interface().(Options).SetDefaultOptions()
		if err := scanOptions(kwargs, optPtr, g.name); err != nil {
			return nil, err
		}
		in = append(in, optPtr.Elem())
	} else if len(kwargs) > 0 {
		return nil, errs.Newf(errs.Type,
			"%s() does not accept keyword arguments", g.name)
	}

	high := len(g.normal)
	if g.variadic != nil {
		high = -1
	}
	if len(args) < len(g.normal) || (g.variadic == nil && len(args) > len(g.normal)) {
		return nil, errs.ArityMismatch{
			What:     "arguments to " + g.name,
			ValidLow: len(g.normal), ValidHigh: high, Actual: len(args),
		}
	}
	for i, arg := range args {
		var typ reflect.Type
		if i < len(g.normal) {
			typ = g.normal[i]
		} else {
			typ = g.variadic
		}
		ptr := reflect.New(typ)
		if err := vals.ScanToGo(arg, ptr.Interface()); err != nil {
			return nil, errs.Newf(errs.KindOf(err),
				"argument %d to %s %s", i+1, g.name, errs.MessageOf(err))
		}
		in = append(in, ptr.Elem())
	}

	outs := g.impl.Call(in)
	if g.retErr {
		if e, _ := outs[len(outs)-1].Interface().(error); e != nil {
			if _, kinded := e.(errs.Kinder); !kinded && !uncatchable(e) {
				return nil, errs.Newf(errs.Extension,
					"error in %s: %v", g.name, e)
			}
			return nil, e
		}
		outs = outs[:len(outs)-1]
	}
	switch len(outs) {
	case 0:
		return nil, nil
	case 1:
		return vals.FromGo(outs[0].Interface()), nil
	default:
		t := make(vals.Tuple, len(outs))
		for i, out := range outs {
			t[i] = vals.FromGo(out.Interface())
		}
		return t, nil
	}
}

func scanOptions(kwargs map[string]any, optPtr reflect.Value, fnName string) error {
	if len(kwargs) == 0 {
		return nil
	}
	st := optPtr.Elem().Type()
	for name, value := range kwargs {
		var field reflect.Value
		for i := 0; i < st.NumField(); i++ {
			if strings.ToLower(st.Field(i).Name) == name {
				field = optPtr.Elem().Field(i)
				break
			}
		}
		if !field.IsValid() {
			return errs.Newf(errs.Type,
				"%s() got an unexpected keyword argument '%s'", fnName, name)
		}
		if err := vals.ScanToGo(value, field.Addr().Interface()); err != nil {
			return errs.Newf(errs.KindOf(err),
				"keyword argument '%s' to %s %s", name, fnName, errs.MessageOf(err))
		}
	}
	return nil
}
