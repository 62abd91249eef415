package eval

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
)

// Attribute access on built-in values resolves against a fixed per-kind
// method table. The tables are deliberately small; anything not listed is
// AttributeError. Policy checkpoint (c) runs before the lookup.

type methodImpl func(fm *Frame, recv any, args []any, kwargs map[string]any) (any, error)

// boundMethod pairs a receiver with a method implementation.
type boundMethod struct {
	name string
	recv any
	impl methodImpl
}

func (m *boundMethod) Kind() string { return "builtin_method" }

func (m *boundMethod) Repr() string {
	return "<method '" + m.name + "' of '" + vals.Kind(m.recv) + "'>"
}

func (m *boundMethod) Call(fm *Frame, args []any, kwargs map[string]any) (any, error) {
	return m.impl(fm, m.recv, args, kwargs)
}

func lookupMethod(recv any, name string) (Callable, bool) {
	var table map[string]methodImpl
	switch recv.(type) {
	case string:
		table = strMethods
	case *vals.List:
		table = listMethods
	case *vals.Dict:
		table = dictMethods
	case *vals.Set:
		table = setMethods
	case vals.Tuple:
		table = tupleMethods
	}
	impl, ok := table[name]
	if !ok {
		return nil, false
	}
	return &boundMethod{name: name, recv: recv, impl: impl}, true
}

// Argument helpers shared by the method implementations.

func wantArgs(name string, args []any, low, high int) error {
	if len(args) < low || (high >= 0 && len(args) > high) {
		return errs.ArityMismatch{
			What:     "arguments to " + name,
			ValidLow: low, ValidHigh: high, Actual: len(args),
		}
	}
	return nil
}

func noKwargs(name string, kwargs map[string]any) error {
	if len(kwargs) > 0 {
		return errs.Newf(errs.Type, "%s() does not accept keyword arguments", name)
	}
	return nil
}

func argStr(name string, args []any, i int) (string, error) {
	s, ok := args[i].(string)
	if !ok {
		return "", errs.Newf(errs.Type,
			"argument %d to %s must be str, but is %s", i+1, name, vals.Kind(args[i]))
	}
	return s, nil
}

func argInt(name string, args []any, i int) (int, error) {
	switch v := args[i].(type) {
	case int:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, errs.Newf(errs.Type,
		"argument %d to %s must be int, but is %s", i+1, name, vals.Kind(args[i]))
}

// simpleMethod adapts a no-keyword method with checked arity.
func simpleMethod(name string, low, high int,
	f func(fm *Frame, recv any, args []any) (any, error)) methodImpl {
	return func(fm *Frame, recv any, args []any, kwargs map[string]any) (any, error) {
		if err := noKwargs(name, kwargs); err != nil {
			return nil, err
		}
		if err := wantArgs(name, args, low, high); err != nil {
			return nil, err
		}
		return f(fm, recv, args)
	}
}

// String methods. Indices reported to scripts count runes, like the
// original, even though Go strings are byte-indexed.

func runeIndex(s string, byteIdx int) int {
	if byteIdx < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:byteIdx])
}

var strMethods map[string]methodImpl

func init() {
	strMethods = map[string]methodImpl{
		"upper": strSimple("upper", strings.ToUpper),
		"lower": strSimple("lower", strings.ToLower),
		"title": strSimple("title", titleCase),
		"capitalize": strSimple("capitalize", func(s string) string {
			if s == "" {
				return s
			}
			r, size := utf8.DecodeRuneInString(s)
			return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
		}),
		"casefold": strSimple("casefold", strings.ToLower),
		"strip":    strStrip("strip", strings.Trim, strings.TrimSpace),
		"lstrip": strStrip("lstrip", strings.TrimLeft, func(s string) string {
			return strings.TrimLeftFunc(s, unicode.IsSpace)
		}),
		"rstrip": strStrip("rstrip", strings.TrimRight, func(s string) string {
			return strings.TrimRightFunc(s, unicode.IsSpace)
		}),
		"startswith": strPredicate("startswith", strings.HasPrefix),
		"endswith":   strPredicate("endswith", strings.HasSuffix),
		"find": simpleMethod("find", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
			sub, err := argStr("find", args, 0)
			if err != nil {
				return nil, err
			}
			return runeIndex(recv.(string), strings.Index(recv.(string), sub)), nil
		}),
		"rfind": simpleMethod("rfind", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
			sub, err := argStr("rfind", args, 0)
			if err != nil {
				return nil, err
			}
			return runeIndex(recv.(string), strings.LastIndex(recv.(string), sub)), nil
		}),
		"index": simpleMethod("index", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
			sub, err := argStr("index", args, 0)
			if err != nil {
				return nil, err
			}
			i := strings.Index(recv.(string), sub)
			if i < 0 {
				return nil, errs.New(errs.Value, "substring not found")
			}
			return runeIndex(recv.(string), i), nil
		}),
		"count": simpleMethod("count", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
			sub, err := argStr("count", args, 0)
			if err != nil {
				return nil, err
			}
			if sub == "" {
				return utf8.RuneCountInString(recv.(string)) + 1, nil
			}
			return strings.Count(recv.(string), sub), nil
		}),
		"replace": simpleMethod("replace", 2, 3, func(fm *Frame, recv any, args []any) (any, error) {
			old, err := argStr("replace", args, 0)
			if err != nil {
				return nil, err
			}
			new_, err := argStr("replace", args, 1)
			if err != nil {
				return nil, err
			}
			n := -1
			if len(args) == 3 {
				if n, err = argInt("replace", args, 2); err != nil {
					return nil, err
				}
			}
			out := strings.Replace(recv.(string), old, new_, n)
			if len(out) > vals.MaxStringLen {
				return nil, errs.Newf(errs.Runtime,
					"string result exceeds %d bytes", vals.MaxStringLen)
			}
			return out, nil
		}),
		"split":  strSplit("split", false),
		"rsplit": strSplit("rsplit", true),
		"join": simpleMethod("join", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
			items, err := vals.Collect(args[0])
			if err != nil {
				return nil, err
			}
			parts := make([]string, len(items))
			total := 0
			for i, it := range items {
				s, ok := it.(string)
				if !ok {
					return nil, errs.Newf(errs.Type,
						"join() requires str items, but item %d is %s", i, vals.Kind(it))
				}
				parts[i] = s
				total += len(s)
			}
			if total+len(recv.(string))*len(parts) > vals.MaxStringLen {
				return nil, errs.Newf(errs.Runtime,
					"string result exceeds %d bytes", vals.MaxStringLen)
			}
			return strings.Join(parts, recv.(string)), nil
		}),
		"zfill": simpleMethod("zfill", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
			width, err := argInt("zfill", args, 0)
			if err != nil {
				return nil, err
			}
			if width > vals.MaxStringLen {
				return nil, errs.Newf(errs.Runtime,
					"string result exceeds %d bytes", vals.MaxStringLen)
			}
			s := recv.(string)
			if utf8.RuneCountInString(s) >= width {
				return s, nil
			}
			pad := strings.Repeat("0", width-utf8.RuneCountInString(s))
			if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
				return s[:1] + pad + s[1:], nil
			}
			return pad + s, nil
		}),
		"isdigit": strIsClass("isdigit", unicode.IsDigit),
		"isalpha": strIsClass("isalpha", unicode.IsLetter),
		"isalnum": strIsClass("isalnum", func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}),
		"isspace": strIsClass("isspace", unicode.IsSpace),
		"islower": strCased("islower", unicode.IsLower, unicode.IsUpper),
		"isupper": strCased("isupper", unicode.IsUpper, unicode.IsLower),
	}
}

func titleCase(s string) string {
	var sb strings.Builder
	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if inWord {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToUpper(r))
			}
			inWord = true
		} else {
			sb.WriteRune(r)
			inWord = false
		}
	}
	return sb.String()
}

func strSimple(name string, f func(string) string) methodImpl {
	return simpleMethod(name, 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		return f(recv.(string)), nil
	})
}

func strStrip(name string, cut func(string, string) string, ws func(string) string) methodImpl {
	return simpleMethod(name, 0, 1, func(fm *Frame, recv any, args []any) (any, error) {
		if len(args) == 0 || args[0] == nil {
			return ws(recv.(string)), nil
		}
		cutset, err := argStr(name, args, 0)
		if err != nil {
			return nil, err
		}
		return cut(recv.(string), cutset), nil
	})
}

func strPredicate(name string, f func(string, string) bool) methodImpl {
	return simpleMethod(name, 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		// Accept a tuple of alternatives, like the original.
		if t, ok := args[0].(vals.Tuple); ok {
			for i, alt := range t {
				s, ok := alt.(string)
				if !ok {
					return nil, errs.Newf(errs.Type,
						"%s() tuple item %d must be str, but is %s", name, i, vals.Kind(alt))
				}
				if f(recv.(string), s) {
					return true, nil
				}
			}
			return false, nil
		}
		sub, err := argStr(name, args, 0)
		if err != nil {
			return nil, err
		}
		return f(recv.(string), sub), nil
	})
}

func strIsClass(name string, f func(rune) bool) methodImpl {
	return simpleMethod(name, 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		s := recv.(string)
		if s == "" {
			return false, nil
		}
		for _, r := range s {
			if !f(r) {
				return false, nil
			}
		}
		return true, nil
	})
}

func strCased(name string, want, reject func(rune) bool) methodImpl {
	return simpleMethod(name, 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		hasCased := false
		for _, r := range recv.(string) {
			if reject(r) {
				return false, nil
			}
			if want(r) {
				hasCased = true
			}
		}
		return hasCased, nil
	})
}

func strSplit(name string, fromRight bool) methodImpl {
	return simpleMethod(name, 0, 2, func(fm *Frame, recv any, args []any) (any, error) {
		s := recv.(string)
		maxSplit := -1
		var err error
		if len(args) == 2 {
			if maxSplit, err = argInt(name, args, 1); err != nil {
				return nil, err
			}
		}
		if len(args) == 0 || args[0] == nil {
			parts := strings.Fields(s)
			if maxSplit >= 0 && len(parts) > maxSplit+1 {
				parts = limitFields(s, maxSplit, fromRight)
			}
			out := make([]any, len(parts))
			for i, p := range parts {
				out[i] = p
			}
			return vals.NewList(out...), nil
		}
		sep, err := argStr(name, args, 0)
		if err != nil {
			return nil, err
		}
		if sep == "" {
			return nil, errs.New(errs.Value, "empty separator")
		}
		parts := splitN(s, sep, maxSplit, fromRight)
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = p
		}
		return vals.NewList(out...), nil
	})
}

func splitN(s, sep string, maxSplit int, fromRight bool) []string {
	if maxSplit < 0 {
		return strings.Split(s, sep)
	}
	if !fromRight {
		return strings.SplitN(s, sep, maxSplit+1)
	}
	all := strings.Split(s, sep)
	if len(all) <= maxSplit+1 {
		return all
	}
	head := strings.Join(all[:len(all)-maxSplit], sep)
	return append([]string{head}, all[len(all)-maxSplit:]...)
}

func limitFields(s string, maxSplit int, fromRight bool) []string {
	all := strings.Fields(s)
	if len(all) <= maxSplit+1 {
		return all
	}
	if fromRight {
		head := strings.Join(all[:len(all)-maxSplit], " ")
		return append([]string{head}, all[len(all)-maxSplit:]...)
	}
	tail := strings.Join(all[maxSplit:], " ")
	return append(append([]string{}, all[:maxSplit]...), tail)
}

// List methods.

var listMethods = map[string]methodImpl{
	"append": simpleMethod("append", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		l := recv.(*vals.List)
		l.Items = append(l.Items, args[0])
		return nil, nil
	}),
	"extend": simpleMethod("extend", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		items, err := vals.Collect(args[0])
		if err != nil {
			return nil, err
		}
		l := recv.(*vals.List)
		l.Items = append(l.Items, items...)
		return nil, nil
	}),
	"insert": simpleMethod("insert", 2, 2, func(fm *Frame, recv any, args []any) (any, error) {
		i, err := argInt("insert", args, 0)
		if err != nil {
			return nil, err
		}
		l := recv.(*vals.List)
		if i < 0 {
			i += len(l.Items)
		}
		if i < 0 {
			i = 0
		}
		if i > len(l.Items) {
			i = len(l.Items)
		}
		l.Items = append(l.Items, nil)
		copy(l.Items[i+1:], l.Items[i:])
		l.Items[i] = args[1]
		return nil, nil
	}),
	"remove": simpleMethod("remove", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		l := recv.(*vals.List)
		for i, it := range l.Items {
			if vals.Equal(it, args[0]) {
				l.Items = append(l.Items[:i], l.Items[i+1:]...)
				return nil, nil
			}
		}
		return nil, errs.New(errs.Value, "list.remove(x): x not in list")
	}),
	"pop": simpleMethod("pop", 0, 1, func(fm *Frame, recv any, args []any) (any, error) {
		l := recv.(*vals.List)
		if len(l.Items) == 0 {
			return nil, errs.New(errs.Index, "pop from empty list")
		}
		i := len(l.Items) - 1
		if len(args) == 1 {
			var err error
			if i, err = normIndex(args[0], len(l.Items), "pop index"); err != nil {
				return nil, err
			}
		}
		v := l.Items[i]
		l.Items = append(l.Items[:i], l.Items[i+1:]...)
		return v, nil
	}),
	"clear": simpleMethod("clear", 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		recv.(*vals.List).Items = nil
		return nil, nil
	}),
	"index": simpleMethod("index", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		for i, it := range recv.(*vals.List).Items {
			if vals.Equal(it, args[0]) {
				return i, nil
			}
		}
		return nil, errs.Newf(errs.Value, "%s is not in list", vals.Repr(args[0]))
	}),
	"count": simpleMethod("count", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		n := 0
		for _, it := range recv.(*vals.List).Items {
			if vals.Equal(it, args[0]) {
				n++
			}
		}
		return n, nil
	}),
	"sort": func(fm *Frame, recv any, args []any, kwargs map[string]any) (any, error) {
		if err := wantArgs("sort", args, 0, 0); err != nil {
			return nil, err
		}
		reverse, err := reverseOpt("sort", kwargs)
		if err != nil {
			return nil, err
		}
		l := recv.(*vals.List)
		if err := sortItems(l.Items, reverse); err != nil {
			return nil, err
		}
		return nil, nil
	},
	"reverse": simpleMethod("reverse", 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		items := recv.(*vals.List).Items
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
		return nil, nil
	}),
	"copy": simpleMethod("copy", 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		return recv.(*vals.List).Copy(), nil
	}),
}

func reverseOpt(name string, kwargs map[string]any) (bool, error) {
	reverse := false
	for k, v := range kwargs {
		if k != "reverse" {
			return false, errs.Newf(errs.Type,
				"%s() got an unexpected keyword argument '%s'", name, k)
		}
		reverse = vals.Truth(v)
	}
	return reverse, nil
}

func sortItems(items []any, reverse bool) error {
	var sortErr error
	sort.SliceStable(items, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		cmp, ok := vals.Compare(items[i], items[j])
		if !ok {
			sortErr = errs.Newf(errs.Type,
				"'<' not supported between '%s' and '%s'",
				vals.Kind(items[i]), vals.Kind(items[j]))
			return false
		}
		if reverse {
			return cmp > 0
		}
		return cmp < 0
	})
	return sortErr
}

// Dict methods.

var dictMethods = map[string]methodImpl{
	"get": simpleMethod("get", 1, 2, func(fm *Frame, recv any, args []any) (any, error) {
		v, ok, err := recv.(*vals.Dict).Get(args[0])
		if err != nil {
			return nil, err
		}
		if ok {
			return v, nil
		}
		if len(args) == 2 {
			return args[1], nil
		}
		return nil, nil
	}),
	"keys": simpleMethod("keys", 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		return vals.NewList(recv.(*vals.Dict).Keys()...), nil
	}),
	"values": simpleMethod("values", 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		return vals.NewList(recv.(*vals.Dict).Values()...), nil
	}),
	"items": simpleMethod("items", 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		d := recv.(*vals.Dict)
		out := make([]any, 0, d.Len())
		d.Each(func(k, v any) error {
			out = append(out, vals.Tuple{k, v})
			return nil
		})
		return vals.NewList(out...), nil
	}),
	"pop": simpleMethod("pop", 1, 2, func(fm *Frame, recv any, args []any) (any, error) {
		d := recv.(*vals.Dict)
		v, ok, err := d.Get(args[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			if len(args) == 2 {
				return args[1], nil
			}
			return nil, errs.New(errs.Key, vals.Repr(args[0]))
		}
		d.Del(args[0])
		return v, nil
	}),
	"update": simpleMethod("update", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		other, ok := args[0].(*vals.Dict)
		if !ok {
			return nil, errs.Newf(errs.Type,
				"update() argument must be dict, but is %s", vals.Kind(args[0]))
		}
		d := recv.(*vals.Dict)
		return nil, other.Each(func(k, v any) error { return d.Set(k, v) })
	}),
	"clear": simpleMethod("clear", 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		d := recv.(*vals.Dict)
		for _, k := range d.Keys() {
			d.Del(k)
		}
		return nil, nil
	}),
	"copy": simpleMethod("copy", 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		return recv.(*vals.Dict).Copy(), nil
	}),
	"setdefault": simpleMethod("setdefault", 1, 2, func(fm *Frame, recv any, args []any) (any, error) {
		d := recv.(*vals.Dict)
		v, ok, err := d.Get(args[0])
		if err != nil {
			return nil, err
		}
		if ok {
			return v, nil
		}
		var dflt any
		if len(args) == 2 {
			dflt = args[1]
		}
		return dflt, d.Set(args[0], dflt)
	}),
}

// Set methods.

var setMethods = map[string]methodImpl{
	"add": simpleMethod("add", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		return nil, recv.(*vals.Set).Add(args[0])
	}),
	"remove": simpleMethod("remove", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		removed, err := recv.(*vals.Set).Del(args[0])
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, errs.New(errs.Key, vals.Repr(args[0]))
		}
		return nil, nil
	}),
	"discard": simpleMethod("discard", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		_, err := recv.(*vals.Set).Del(args[0])
		return nil, err
	}),
	"pop": simpleMethod("pop", 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		s := recv.(*vals.Set)
		elems := s.Elems()
		if len(elems) == 0 {
			return nil, errs.New(errs.Key, "pop from an empty set")
		}
		s.Del(elems[0])
		return elems[0], nil
	}),
	"clear": simpleMethod("clear", 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		s := recv.(*vals.Set)
		for _, e := range s.Elems() {
			s.Del(e)
		}
		return nil, nil
	}),
	"union":        setCombine("union", "|"),
	"intersection": setCombine("intersection", "&"),
	"difference": simpleMethod("difference", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		other, err := argSet("difference", args, 0)
		if err != nil {
			return nil, err
		}
		return setDifference(recv.(*vals.Set), other)
	}),
	"issubset": simpleMethod("issubset", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		other, err := argSet("issubset", args, 0)
		if err != nil {
			return nil, err
		}
		return isSubset(recv.(*vals.Set), other)
	}),
	"issuperset": simpleMethod("issuperset", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		other, err := argSet("issuperset", args, 0)
		if err != nil {
			return nil, err
		}
		return isSubset(other, recv.(*vals.Set))
	}),
	"copy": simpleMethod("copy", 0, 0, func(fm *Frame, recv any, args []any) (any, error) {
		return recv.(*vals.Set).Copy(), nil
	}),
}

func argSet(name string, args []any, i int) (*vals.Set, error) {
	s, ok := args[i].(*vals.Set)
	if !ok {
		return nil, errs.Newf(errs.Type,
			"argument %d to %s must be set, but is %s", i+1, name, vals.Kind(args[i]))
	}
	return s, nil
}

func setCombine(name, op string) methodImpl {
	return simpleMethod(name, 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		other, err := argSet(name, args, 0)
		if err != nil {
			return nil, err
		}
		return setBinOp(op, recv.(*vals.Set), other)
	})
}

func isSubset(a, b *vals.Set) (bool, error) {
	for _, e := range a.Elems() {
		has, err := b.Has(e)
		if err != nil {
			return false, err
		}
		if !has {
			return false, nil
		}
	}
	return true, nil
}

// Tuple methods.

var tupleMethods = map[string]methodImpl{
	"count": simpleMethod("count", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		n := 0
		for _, it := range recv.(vals.Tuple) {
			if vals.Equal(it, args[0]) {
				n++
			}
		}
		return n, nil
	}),
	"index": simpleMethod("index", 1, 1, func(fm *Frame, recv any, args []any) (any, error) {
		for i, it := range recv.(vals.Tuple) {
			if vals.Equal(it, args[0]) {
				return i, nil
			}
		}
		return nil, errs.Newf(errs.Value, "%s is not in tuple", vals.Repr(args[0]))
	}),
}
