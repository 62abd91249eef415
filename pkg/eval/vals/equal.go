package vals

import (
	"math"
	"math/big"
	"reflect"
)

// Equal returns the structural equality of two values, following the source
// language's == operator: numbers compare across int, float and bool;
// sequences compare element-wise; dicts compare by keys and values; sets by
// membership. Functions and host values compare by identity.
func Equal(a, b any) bool {
	if IsNumber(a) && IsNumber(b) {
		// NaN is not equal to anything, itself included; NumCompare
		// reports 0 for two NaNs because neither orders before the other.
		if isNaN(a) || isNaN(b) {
			return false
		}
		return NumCompare(a, b) == 0
	}
	switch a := a.(type) {
	case nil:
		return b == nil
	case string:
		bs, ok := b.(string)
		return ok && a == bs
	case *List:
		bl, ok := b.(*List)
		return ok && equalSlices(a.Items, bl.Items)
	case Tuple:
		bt, ok := b.(Tuple)
		return ok && equalSlices(a, bt)
	case *Dict:
		bd, ok := b.(*Dict)
		if !ok || a.Len() != bd.Len() {
			return false
		}
		eq := true
		a.Each(func(k, v any) error {
			bv, found, err := bd.Get(k)
			if err != nil || !found || !Equal(v, bv) {
				eq = false
			}
			return nil
		})
		return eq
	case *Set:
		bs, ok := b.(*Set)
		if !ok || a.Len() != bs.Len() {
			return false
		}
		for _, e := range a.Elems() {
			if has, err := bs.Has(e); err != nil || !has {
				return false
			}
		}
		return true
	case Range:
		br, ok := b.(Range)
		if !ok || a.Len() != br.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if a.At(i) != br.At(i) {
				return false
			}
		}
		return true
	default:
		if b == nil {
			return false
		}
		if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
			return false
		}
		return a == b
	}
}

func isNaN(v any) bool {
	f, ok := v.(float64)
	return ok && math.IsNaN(f)
}

func equalSlices(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IsNumber reports whether the value participates in the numeric tower.
// Bools count: True behaves as 1 wherever a number is expected.
func IsNumber(v any) bool {
	switch v.(type) {
	case bool, int, *big.Int, float64:
		return true
	}
	return false
}
