package vals

import (
	"math"
	"math/big"
	"reflect"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
)

// FromGo converts a Go value supplied by the host (a SetVar argument, a
// return value of a registered function) into a script value. Values already
// in the script value set pass through; common Go types are widened or
// wrapped; anything else is kept as an opaque host value.
func FromGo(v any) any {
	switch v := v.(type) {
	case nil, bool, int, float64, string, *List, Tuple, *Dict, *Set, Range:
		return v
	case *big.Int:
		return NormalizeInt(v)
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		if int64(int(v)) == v {
			return int(v)
		}
		return big.NewInt(v)
	case uint:
		return FromGo(uint64(v))
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		if v <= math.MaxInt {
			return int(v)
		}
		return NormalizeInt(new(big.Int).SetUint64(v))
	case float32:
		return float64(v)
	case []any:
		items := make([]any, len(v))
		for i, e := range v {
			items[i] = FromGo(e)
		}
		return NewList(items...)
	case []string:
		items := make([]any, len(v))
		for i, e := range v {
			items[i] = e
		}
		return NewList(items...)
	case map[string]any:
		d := NewDict()
		// Map order is random; sort for a deterministic dict.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sortStrings(keys)
		for _, k := range keys {
			d.Set(k, FromGo(v[k]))
		}
		return d
	default:
		return v
	}
}

func sortStrings(s []string) {
	// Insertion sort; host maps are small.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// ScanToGo converts a script value into the Go destination pointed to by
// ptr. It is used to bind call arguments of registered Go functions. The
// error, when non-nil, is a TypeError describing the mismatch.
func ScanToGo(src any, ptr any) error {
	switch ptr := ptr.(type) {
	case *any:
		*ptr = src
		return nil
	case *int:
		switch src := src.(type) {
		case int:
			*ptr = src
			return nil
		case bool:
			if src {
				*ptr = 1
			} else {
				*ptr = 0
			}
			return nil
		case *big.Int:
			return errs.New(errs.Value, "integer too large")
		}
		return convError(src, "int")
	case *float64:
		if IsNumber(src) {
			*ptr = AsFloat(src)
			return nil
		}
		return convError(src, "float")
	case *string:
		if s, ok := src.(string); ok {
			*ptr = s
			return nil
		}
		return convError(src, "str")
	case *bool:
		if b, ok := src.(bool); ok {
			*ptr = b
			return nil
		}
		return convError(src, "bool")
	case **List:
		if l, ok := src.(*List); ok {
			*ptr = l
			return nil
		}
		return convError(src, "list")
	case **Dict:
		if d, ok := src.(*Dict); ok {
			*ptr = d
			return nil
		}
		return convError(src, "dict")
	case **Set:
		if s, ok := src.(*Set); ok {
			*ptr = s
			return nil
		}
		return convError(src, "set")
	case *Tuple:
		if t, ok := src.(Tuple); ok {
			*ptr = t
			return nil
		}
		return convError(src, "tuple")
	case *[]any:
		items, err := Collect(src)
		if err != nil {
			return err
		}
		*ptr = items
		return nil
	}
	// Fall back to reflection for host-specific destination types.
	dst := reflect.ValueOf(ptr).Elem()
	sv := reflect.ValueOf(src)
	if src != nil && sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}
	return convError(src, dst.Type().String())
}

func convError(src any, want string) error {
	return errs.Newf(errs.Type, "must be %s, but is %s", want, Kind(src))
}
