package eval

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
)

// The core builtin namespace, installed automatically at engine
// construction. Script-callable engine commands (eval_ and friends) live in
// commands.go; this file holds the language-level functions.

type printOpts struct {
	Sep string
	End string
}

func (o *printOpts) SetDefaultOptions() {
	o.Sep = " "
	o.End = "\n"
}

func builtinFns() map[string]any {
	return map[string]any{
		"print":     printFn,
		"len":       lenFn,
		"range":     rangeFn,
		"int":       intFn,
		"float":     floatFn,
		"str":       func(v any) string { return vals.ToString(v) },
		"repr":      func(v any) string { return vals.Repr(v) },
		"bool":      func(v any) bool { return vals.Truth(v) },
		"type":      func(v any) string { return vals.Kind(v) },
		"abs":       absFn,
		"min":       minFn,
		"max":       maxFn,
		"sum":       sumFn,
		"round":     roundFn,
		"sorted":    sortedFn,
		"reversed":  reversedFn,
		"enumerate": enumerateFn,
		"zip":       zipFn,
		"any":       anyFn,
		"all":       allFn,
		"list":      listFn,
		"tuple":     tupleFn,
		"dict":      dictFn,
		"set":       setFn,
		"chr":       chrFn,
		"ord":       ordFn,
	}
}

func printFn(fm *Frame, opts printOpts, args ...any) error {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(opts.Sep)
		}
		sb.WriteString(vals.ToString(arg))
	}
	sb.WriteString(opts.End)
	_, err := fm.eng.out().Write([]byte(sb.String()))
	if err != nil {
		return errs.Newf(errs.Extension, "print: %v", err)
	}
	return nil
}

func lenFn(v any) (int, error) {
	if n, ok := vals.Len(v); ok {
		return n, nil
	}
	return 0, errs.Newf(errs.Type, "object of type '%s' has no len()", vals.Kind(v))
}

func rangeFn(args ...int) (vals.Range, error) {
	switch len(args) {
	case 1:
		return vals.Range{Start: 0, Stop: args[0], Step: 1}, nil
	case 2:
		return vals.Range{Start: args[0], Stop: args[1], Step: 1}, nil
	case 3:
		if args[2] == 0 {
			return vals.Range{}, errs.New(errs.Value, "range() step cannot be zero")
		}
		return vals.Range{Start: args[0], Stop: args[1], Step: args[2]}, nil
	}
	return vals.Range{}, errs.ArityMismatch{
		What: "arguments to range", ValidLow: 1, ValidHigh: 3, Actual: len(args)}
}

func intFn(args ...any) (any, error) {
	if err := checkVariadicArity("int", args, 1, 2); err != nil {
		return nil, err
	}
	v := args[0]
	if len(args) == 2 {
		s, ok := v.(string)
		if !ok {
			return nil, errs.Newf(errs.Type,
				"int() can't convert non-string with explicit base")
		}
		base, ok := args[1].(int)
		if !ok || base != 0 && (base < 2 || base > 36) {
			return nil, errs.New(errs.Value, "int() base must be >= 2 and <= 36, or 0")
		}
		return parseInt(s, base)
	}
	switch v := v.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case int, *big.Int:
		return v, nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, errs.Newf(errs.Value, "cannot convert %s to int", vals.Repr(v))
		}
		t := math.Trunc(v)
		if t >= math.MinInt && t <= math.MaxInt {
			return int(t), nil
		}
		bf := new(big.Float).SetFloat64(t)
		bi, _ := bf.Int(nil)
		return vals.NormalizeInt(bi), nil
	case string:
		return parseInt(v, 10)
	}
	return nil, errs.Newf(errs.Type,
		"int() argument must be a string or a number, not '%s'", vals.Kind(v))
}

func parseInt(s string, base int) (any, error) {
	t := strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(t, "+") {
		t = t[1:]
	} else if strings.HasPrefix(t, "-") {
		neg = true
		t = t[1:]
	}
	b := new(big.Int)
	if _, ok := b.SetString(t, base); !ok || t == "" {
		return nil, errs.Newf(errs.Value,
			"invalid literal for int() with base %d: %s", base, vals.Repr(s))
	}
	if neg {
		b.Neg(b)
	}
	return vals.NormalizeInt(b), nil
}

func floatFn(v any) (float64, error) {
	switch v := v.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case int:
		return float64(v), nil
	case *big.Int:
		return vals.AsFloat(v), nil
	case float64:
		return v, nil
	case string:
		t := strings.TrimSpace(v)
		switch strings.ToLower(t) {
		case "inf", "+inf", "infinity", "+infinity":
			return math.Inf(1), nil
		case "-inf", "-infinity":
			return math.Inf(-1), nil
		case "nan", "+nan", "-nan":
			return math.NaN(), nil
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, errs.Newf(errs.Value,
				"could not convert string to float: %s", vals.Repr(v))
		}
		return f, nil
	}
	return 0, errs.Newf(errs.Type,
		"float() argument must be a string or a number, not '%s'", vals.Kind(v))
}

func absFn(v any) (any, error) {
	if !vals.IsNumber(v) {
		return nil, errs.Newf(errs.Type,
			"bad operand type for abs(): '%s'", vals.Kind(v))
	}
	switch n := v.(type) {
	case float64:
		return math.Abs(n), nil
	default:
		if cmp, _ := vals.Compare(v, 0); cmp < 0 {
			return vals.NumNeg(v), nil
		}
		return vals.NumPos(v), nil
	}
}

func checkVariadicArity(name string, args []any, low, high int) error {
	if len(args) < low || (high >= 0 && len(args) > high) {
		return errs.ArityMismatch{
			What: "arguments to " + name, ValidLow: low, ValidHigh: high,
			Actual: len(args)}
	}
	return nil
}

func extremum(name string, pickGreater bool, args []any) (any, error) {
	if err := checkVariadicArity(name, args, 1, -1); err != nil {
		return nil, err
	}
	items := args
	if len(args) == 1 {
		var err error
		items, err = vals.Collect(args[0])
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, errs.Newf(errs.Value, "%s() arg is an empty sequence", name)
		}
	}
	best := items[0]
	for _, it := range items[1:] {
		cmp, ok := vals.Compare(it, best)
		if !ok {
			return nil, errs.Newf(errs.Type,
				"'%s' not supported between '%s' and '%s'",
				name, vals.Kind(it), vals.Kind(best))
		}
		if (pickGreater && cmp > 0) || (!pickGreater && cmp < 0) {
			best = it
		}
	}
	return best, nil
}

func minFn(args ...any) (any, error) { return extremum("min", false, args) }
func maxFn(args ...any) (any, error) { return extremum("max", true, args) }

func sumFn(args ...any) (any, error) {
	if err := checkVariadicArity("sum", args, 1, 2); err != nil {
		return nil, err
	}
	items, err := vals.Collect(args[0])
	if err != nil {
		return nil, err
	}
	var total any = 0
	if len(args) == 2 {
		total = args[1]
	}
	for _, it := range items {
		if !vals.IsNumber(it) {
			return nil, errs.Newf(errs.Type,
				"unsupported operand types for +: '%s' and '%s'",
				vals.Kind(total), vals.Kind(it))
		}
		total = vals.NumAdd(total, it)
	}
	return total, nil
}

func roundFn(args ...any) (any, error) {
	if err := checkVariadicArity("round", args, 1, 2); err != nil {
		return nil, err
	}
	v := args[0]
	if !vals.IsNumber(v) {
		return nil, errs.Newf(errs.Type,
			"type %s doesn't define a rounding method", vals.Kind(v))
	}
	ndigits := 0
	hasDigits := false
	if len(args) == 2 && args[1] != nil {
		n, ok := args[1].(int)
		if !ok {
			return nil, errs.Newf(errs.Type,
				"round() second argument must be int, but is %s", vals.Kind(args[1]))
		}
		ndigits = n
		hasDigits = true
	}
	f, isFloat := v.(float64)
	if !isFloat {
		// Ints round to themselves regardless of precision.
		return vals.NumPos(v), nil
	}
	if !hasDigits {
		r := math.RoundToEven(f)
		if r >= math.MinInt && r <= math.MaxInt {
			return int(r), nil
		}
		bf := new(big.Float).SetFloat64(r)
		bi, _ := bf.Int(nil)
		return vals.NormalizeInt(bi), nil
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return f, nil
	}
	if ndigits >= 0 {
		// Round on the decimal representation of the exact binary value:
		// scaling by a power of ten first would itself round and give
		// results like round(2.675, 2) == 2.68.
		r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', ndigits, 64), 64)
		if err != nil {
			return nil, errs.Newf(errs.Value, "round(): %v", err)
		}
		return r, nil
	}
	shift := math.Pow(10, float64(-ndigits))
	return math.RoundToEven(f/shift) * shift, nil
}

func sortedFn(opts sortedOpts, v any) (*vals.List, error) {
	items, err := vals.Collect(v)
	if err != nil {
		return nil, err
	}
	if err := sortItems(items, opts.Reverse); err != nil {
		return nil, err
	}
	return vals.NewList(items...), nil
}

type sortedOpts struct{ Reverse bool }

func (*sortedOpts) SetDefaultOptions() {}

func reversedFn(v any) (*vals.List, error) {
	items, err := vals.Collect(v)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return vals.NewList(items...), nil
}

func enumerateFn(args ...any) (*vals.List, error) {
	if err := checkVariadicArity("enumerate", args, 1, 2); err != nil {
		return nil, err
	}
	start := 0
	if len(args) == 2 {
		s, ok := args[1].(int)
		if !ok {
			return nil, errs.Newf(errs.Type,
				"enumerate() start must be int, but is %s", vals.Kind(args[1]))
		}
		start = s
	}
	items, err := vals.Collect(args[0])
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = vals.Tuple{start + i, it}
	}
	return vals.NewList(out...), nil
}

func zipFn(args ...any) (*vals.List, error) {
	cols := make([][]any, len(args))
	n := -1
	for i, arg := range args {
		items, err := vals.Collect(arg)
		if err != nil {
			return nil, err
		}
		cols[i] = items
		if n == -1 || len(items) < n {
			n = len(items)
		}
	}
	if n <= 0 {
		return vals.NewList(), nil
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		row := make(vals.Tuple, len(cols))
		for j, col := range cols {
			row[j] = col[i]
		}
		out[i] = row
	}
	return vals.NewList(out...), nil
}

func anyFn(v any) (bool, error) {
	items, err := vals.Collect(v)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if vals.Truth(it) {
			return true, nil
		}
	}
	return false, nil
}

func allFn(v any) (bool, error) {
	items, err := vals.Collect(v)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if !vals.Truth(it) {
			return false, nil
		}
	}
	return true, nil
}

func listFn(args ...any) (*vals.List, error) {
	if err := checkVariadicArity("list", args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return vals.NewList(), nil
	}
	items, err := vals.Collect(args[0])
	if err != nil {
		return nil, err
	}
	return vals.NewList(items...), nil
}

func tupleFn(args ...any) (vals.Tuple, error) {
	if err := checkVariadicArity("tuple", args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return vals.Tuple{}, nil
	}
	items, err := vals.Collect(args[0])
	if err != nil {
		return nil, err
	}
	return vals.Tuple(items), nil
}

func dictFn(args ...any) (*vals.Dict, error) {
	if err := checkVariadicArity("dict", args, 0, 1); err != nil {
		return nil, err
	}
	out := vals.NewDict()
	if len(args) == 0 {
		return out, nil
	}
	if d, ok := args[0].(*vals.Dict); ok {
		return d.Copy(), nil
	}
	items, err := vals.Collect(args[0])
	if err != nil {
		return nil, err
	}
	for i, it := range items {
		pair, err := vals.Collect(it)
		if err != nil || len(pair) != 2 {
			return nil, errs.Newf(errs.Value,
				"dict update sequence element %d is not a pair", i)
		}
		if err := out.Set(pair[0], pair[1]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func setFn(args ...any) (*vals.Set, error) {
	if err := checkVariadicArity("set", args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		s, _ := vals.NewSet()
		return s, nil
	}
	items, err := vals.Collect(args[0])
	if err != nil {
		return nil, err
	}
	return vals.NewSet(items...)
}

func chrFn(n int) (string, error) {
	if n < 0 || n > 0x10FFFF {
		return "", errs.Newf(errs.Value, "chr() arg not in range(0x110000)")
	}
	return string(rune(n)), nil
}

func ordFn(s string) (int, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, errs.Newf(errs.Type,
			"ord() expected a character, but string of length %d found", len(runes))
	}
	return int(runes[0]), nil
}
