package eval

import (
	"math"
	"math/big"
	"strings"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
)

// Operator semantics over runtime values. Everything here is pure apart
// from mutation of the subscripted container in setIndex/delIndex.

func opTypeError(op string, a, b any) error {
	return errs.Newf(errs.Type,
		"unsupported operand types for %s: '%s' and '%s'",
		op, vals.Kind(a), vals.Kind(b))
}

func binOp(op string, a, b any) (any, error) {
	switch op {
	case "+":
		switch {
		case vals.IsNumber(a) && vals.IsNumber(b):
			return vals.NumAdd(a, b), nil
		case isStr(a) && isStr(b):
			return concatStrings(a.(string), b.(string))
		case isList(a) && isList(b):
			return vals.NewList(append(append([]any{},
				a.(*vals.List).Items...), b.(*vals.List).Items...)...), nil
		case isTuple(a) && isTuple(b):
			return append(append(vals.Tuple{},
				a.(vals.Tuple)...), b.(vals.Tuple)...), nil
		}
	case "-":
		switch {
		case vals.IsNumber(a) && vals.IsNumber(b):
			return vals.NumSub(a, b), nil
		case isSet(a) && isSet(b):
			return setDifference(a.(*vals.Set), b.(*vals.Set))
		}
	case "*":
		switch {
		case vals.IsNumber(a) && vals.IsNumber(b):
			return vals.NumMul(a, b), nil
		case isStr(a) && vals.IsNumber(b):
			return repeatString(a.(string), b)
		case vals.IsNumber(a) && isStr(b):
			return repeatString(b.(string), a)
		case isList(a) && vals.IsNumber(b):
			return repeatList(a.(*vals.List).Items, b, false)
		case vals.IsNumber(a) && isList(b):
			return repeatList(b.(*vals.List).Items, a, false)
		case isTuple(a) && vals.IsNumber(b):
			return repeatList(a.(vals.Tuple), b, true)
		case vals.IsNumber(a) && isTuple(b):
			return repeatList(b.(vals.Tuple), a, true)
		}
	case "/":
		if vals.IsNumber(a) && vals.IsNumber(b) {
			return vals.NumTrueDiv(a, b)
		}
	case "//":
		if vals.IsNumber(a) && vals.IsNumber(b) {
			return vals.NumFloorDiv(a, b)
		}
	case "%":
		if vals.IsNumber(a) && vals.IsNumber(b) {
			return vals.NumMod(a, b)
		}
	case "**":
		if vals.IsNumber(a) && vals.IsNumber(b) {
			return vals.NumPow(a, b)
		}
	case "<<":
		return vals.Lsh(a, b)
	case ">>":
		return vals.Rsh(a, b)
	case "&", "|", "^":
		if isSet(a) && isSet(b) {
			return setBinOp(op, a.(*vals.Set), b.(*vals.Set))
		}
		return vals.BitOp(op, a, b)
	default:
		return nil, errs.Newf(errs.Runtime, "internal error: unknown operator %s", op)
	}
	return nil, opTypeError(op, a, b)
}

func unaryOp(op string, v any) (any, error) {
	switch op {
	case "not":
		return !vals.Truth(v), nil
	case "-":
		if vals.IsNumber(v) {
			return vals.NumNeg(v), nil
		}
	case "+":
		if vals.IsNumber(v) {
			return vals.NumPos(v), nil
		}
	case "~":
		return vals.Invert(v)
	}
	return nil, errs.Newf(errs.Type,
		"bad operand type for unary %s: '%s'", op, vals.Kind(v))
}

// compareOne implements one link of a (possibly chained) comparison.
func compareOne(op string, a, b any) (bool, error) {
	switch op {
	case "==":
		return vals.Equal(a, b), nil
	case "!=":
		return !vals.Equal(a, b), nil
	case "in":
		return contains(b, a)
	case "not in":
		ok, err := contains(b, a)
		return !ok, err
	case "is":
		return sameIdentity(a, b), nil
	case "is not":
		return !sameIdentity(a, b), nil
	}
	// Ordering comparisons involving a NaN are always false, except for !=
	// which is handled above.
	if isNaN(a) || isNaN(b) {
		return false, nil
	}
	cmp, ok := vals.Compare(a, b)
	if !ok {
		return false, errs.Newf(errs.Type,
			"'%s' not supported between '%s' and '%s'", op, vals.Kind(a), vals.Kind(b))
	}
	switch op {
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	case ">=":
		return cmp >= 0, nil
	}
	return false, errs.Newf(errs.Runtime, "internal error: unknown comparison %s", op)
}

func isNaN(v any) bool {
	f, ok := v.(float64)
	return ok && math.IsNaN(f)
}

// contains implements the "in" operator: item in container.
func contains(container, item any) (bool, error) {
	switch c := container.(type) {
	case string:
		s, ok := item.(string)
		if !ok {
			return false, errs.Newf(errs.Type,
				"'in <str>' requires string as left operand, not %s", vals.Kind(item))
		}
		return strings.Contains(c, s), nil
	case *vals.List:
		return anyEqual(c.Items, item), nil
	case vals.Tuple:
		return anyEqual(c, item), nil
	case *vals.Set:
		return c.Has(item)
	case *vals.Dict:
		_, ok, err := c.Get(item)
		return ok, err
	case vals.Range:
		for i, n := 0, c.Len(); i < n; i++ {
			if vals.Equal(c.At(i), item) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, errs.Newf(errs.Type,
		"argument of type '%s' is not iterable", vals.Kind(container))
}

func anyEqual(items []any, item any) bool {
	for _, it := range items {
		if vals.Equal(it, item) {
			return true
		}
	}
	return false
}

// sameIdentity implements the "is" operator. Reference types compare by
// identity; None, booleans and small scalars compare by value, matching how
// the original engine interns them.
func sameIdentity(a, b any) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case bool:
		bb, ok := b.(bool)
		return ok && a == bb
	case int:
		bb, ok := b.(int)
		return ok && a == bb
	case float64:
		bb, ok := b.(float64)
		return ok && a == bb
	case string:
		bb, ok := b.(string)
		return ok && a == bb
	default:
		return a == b
	}
}

func concatStrings(a, b string) (any, error) {
	if len(a)+len(b) > vals.MaxStringLen {
		return nil, errs.Newf(errs.Runtime,
			"string result exceeds %d bytes", vals.MaxStringLen)
	}
	return a + b, nil
}

func repeatCount(n any) (int, error) {
	i, ok := n.(int)
	if !ok {
		if b, isBool := n.(bool); isBool {
			if b {
				return 1, nil
			}
			return 0, nil
		}
		if _, big := n.(*big.Int); big {
			return 0, errs.New(errs.Runtime, "repeat count too large")
		}
		return 0, errs.Newf(errs.Type,
			"can't multiply sequence by non-int of type '%s'", vals.Kind(n))
	}
	if i < 0 {
		i = 0
	}
	return i, nil
}

func repeatString(s string, n any) (any, error) {
	count, err := repeatCount(n)
	if err != nil {
		return nil, err
	}
	if count > 0 && len(s)*count > vals.MaxStringLen {
		return nil, errs.Newf(errs.Runtime,
			"string result exceeds %d bytes", vals.MaxStringLen)
	}
	return strings.Repeat(s, count), nil
}

func repeatList(items []any, n any, tuple bool) (any, error) {
	count, err := repeatCount(n)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(items)*count)
	for i := 0; i < count; i++ {
		out = append(out, items...)
	}
	if tuple {
		return vals.Tuple(out), nil
	}
	return vals.NewList(out...), nil
}

func setDifference(a, b *vals.Set) (any, error) {
	out, _ := vals.NewSet()
	for _, e := range a.Elems() {
		if has, err := b.Has(e); err != nil {
			return nil, err
		} else if !has {
			out.Add(e)
		}
	}
	return out, nil
}

func setBinOp(op string, a, b *vals.Set) (any, error) {
	out, _ := vals.NewSet()
	switch op {
	case "|":
		for _, e := range a.Elems() {
			out.Add(e)
		}
		for _, e := range b.Elems() {
			out.Add(e)
		}
	case "&":
		for _, e := range a.Elems() {
			if has, err := b.Has(e); err != nil {
				return nil, err
			} else if has {
				out.Add(e)
			}
		}
	case "^":
		for _, e := range a.Elems() {
			if has, err := b.Has(e); err != nil {
				return nil, err
			} else if !has {
				out.Add(e)
			}
		}
		for _, e := range b.Elems() {
			if has, err := a.Has(e); err != nil {
				return nil, err
			} else if !has {
				out.Add(e)
			}
		}
	}
	return out, nil
}

func isStr(v any) bool   { _, ok := v.(string); return ok }
func isList(v any) bool  { _, ok := v.(*vals.List); return ok }
func isTuple(v any) bool { _, ok := v.(vals.Tuple); return ok }
func isSet(v any) bool   { _, ok := v.(*vals.Set); return ok }

// normIndex converts a possibly-negative index for a sequence of length n,
// reporting what (e.g. "list index") on failure.
func normIndex(idx any, n int, what string) (int, error) {
	i, ok := idx.(int)
	if !ok {
		if b, isBool := idx.(bool); isBool {
			if b {
				i, ok = 1, true
			} else {
				i, ok = 0, true
			}
		}
	}
	if !ok {
		return 0, errs.Newf(errs.Type,
			"%s must be int, but is %s", what, vals.Kind(idx))
	}
	orig := i
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, errs.OutOfRange{
			What: what, ValidLow: -n, ValidHigh: n - 1, Actual: vals.Repr(orig),
		}
	}
	return i, nil
}

// getIndex implements obj[idx] for a non-slice index.
func getIndex(obj, idx any) (any, error) {
	switch o := obj.(type) {
	case string:
		runes := []rune(o)
		i, err := normIndex(idx, len(runes), "string index")
		if err != nil {
			return nil, err
		}
		return string(runes[i]), nil
	case *vals.List:
		i, err := normIndex(idx, len(o.Items), "list index")
		if err != nil {
			return nil, err
		}
		return o.Items[i], nil
	case vals.Tuple:
		i, err := normIndex(idx, len(o), "tuple index")
		if err != nil {
			return nil, err
		}
		return o[i], nil
	case vals.Range:
		i, err := normIndex(idx, o.Len(), "range index")
		if err != nil {
			return nil, err
		}
		return o.At(i), nil
	case *vals.Dict:
		v, ok, err := o.Get(idx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.New(errs.Key, vals.Repr(idx))
		}
		return v, nil
	}
	return nil, errs.Newf(errs.Type,
		"'%s' object is not subscriptable", vals.Kind(obj))
}

// setIndex implements obj[idx] = value.
func setIndex(obj, idx, value any) error {
	switch o := obj.(type) {
	case *vals.List:
		i, err := normIndex(idx, len(o.Items), "list index")
		if err != nil {
			return err
		}
		o.Items[i] = value
		return nil
	case *vals.Dict:
		return o.Set(idx, value)
	}
	return errs.Newf(errs.Type,
		"'%s' object does not support item assignment", vals.Kind(obj))
}

// delIndex implements del obj[idx].
func delIndex(obj, idx any) error {
	switch o := obj.(type) {
	case *vals.List:
		i, err := normIndex(idx, len(o.Items), "list index")
		if err != nil {
			return err
		}
		o.Items = append(o.Items[:i], o.Items[i+1:]...)
		return nil
	case *vals.Dict:
		removed, err := o.Del(idx)
		if err != nil {
			return err
		}
		if !removed {
			return errs.New(errs.Key, vals.Repr(idx))
		}
		return nil
	}
	return errs.Newf(errs.Type,
		"'%s' object does not support item deletion", vals.Kind(obj))
}

// sliceBound converts one bound of a slice, nil meaning absent.
func sliceBound(v any, what string) (int, bool, error) {
	if v == nil {
		return 0, false, nil
	}
	if i, ok := v.(int); ok {
		return i, true, nil
	}
	if b, ok := v.(bool); ok {
		if b {
			return 1, true, nil
		}
		return 0, true, nil
	}
	return 0, false, errs.Newf(errs.Type,
		"%s must be int or None, but is %s", what, vals.Kind(v))
}

// sliceIndices resolves low:high:step against a sequence of length n into
// the sequence of selected indices, with the usual clamping rules.
func sliceIndices(low, high, step any, n int) ([]int, error) {
	st := 1
	if step != nil {
		var err error
		st, _, err = sliceBound(step, "slice step")
		if err != nil {
			return nil, err
		}
		if st == 0 {
			return nil, errs.New(errs.Value, "slice step cannot be zero")
		}
	}
	lo, hasLo, err := sliceBound(low, "slice start")
	if err != nil {
		return nil, err
	}
	hi, hasHi, err := sliceBound(high, "slice stop")
	if err != nil {
		return nil, err
	}

	clamp := func(i, min, max int) int {
		if i < 0 {
			i += n
		}
		if i < min {
			return min
		}
		if i > max {
			return max
		}
		return i
	}
	var start, stop int
	if st > 0 {
		start, stop = 0, n
		if hasLo {
			start = clamp(lo, 0, n)
		}
		if hasHi {
			stop = clamp(hi, 0, n)
		}
		var out []int
		for i := start; i < stop; i += st {
			out = append(out, i)
		}
		return out, nil
	}
	start, stop = n-1, -1
	if hasLo {
		start = clamp(lo, -1, n-1)
	}
	if hasHi {
		stop = clamp(hi, -1, n-1)
	}
	var out []int
	for i := start; i > stop; i += st {
		out = append(out, i)
	}
	return out, nil
}

// getSlice implements obj[low:high:step].
func getSlice(obj, low, high, step any) (any, error) {
	switch o := obj.(type) {
	case string:
		runes := []rune(o)
		idx, err := sliceIndices(low, high, step, len(runes))
		if err != nil {
			return nil, err
		}
		var sb strings.Builder
		for _, i := range idx {
			sb.WriteRune(runes[i])
		}
		return sb.String(), nil
	case *vals.List:
		idx, err := sliceIndices(low, high, step, len(o.Items))
		if err != nil {
			return nil, err
		}
		out := make([]any, len(idx))
		for j, i := range idx {
			out[j] = o.Items[i]
		}
		return vals.NewList(out...), nil
	case vals.Tuple:
		idx, err := sliceIndices(low, high, step, len(o))
		if err != nil {
			return nil, err
		}
		out := make(vals.Tuple, len(idx))
		for j, i := range idx {
			out[j] = o[i]
		}
		return out, nil
	case vals.Range:
		idx, err := sliceIndices(low, high, step, o.Len())
		if err != nil {
			return nil, err
		}
		out := make([]any, len(idx))
		for j, i := range idx {
			out[j] = o.At(i)
		}
		return vals.NewList(out...), nil
	}
	return nil, errs.Newf(errs.Type,
		"'%s' object is not sliceable", vals.Kind(obj))
}
