package vals

import (
	"math/big"
	"strings"
)

// Compare orders two values, returning a negative, zero or positive int like
// strings.Compare. ok is false when the two values have no defined order
// (mixed types, or element types that do not order); callers turn that into
// a TypeError. NaN handling is the caller's job: Compare assumes neither
// operand is NaN.
func Compare(a, b any) (cmp int, ok bool) {
	if IsNumber(a) && IsNumber(b) {
		return NumCompare(a, b), true
	}
	switch a := a.(type) {
	case string:
		if bs, isStr := b.(string); isStr {
			return strings.Compare(a, bs), true
		}
	case *List:
		if bl, isList := b.(*List); isList {
			return compareSlices(a.Items, bl.Items)
		}
	case Tuple:
		if bt, isTuple := b.(Tuple); isTuple {
			return compareSlices(a, bt)
		}
	}
	return 0, false
}

// compareSlices is the lexicographic order of two sequences.
func compareSlices(a, b []any) (int, bool) {
	for i := 0; i < len(a) && i < len(b); i++ {
		if Equal(a[i], b[i]) {
			continue
		}
		return Compare(a[i], b[i])
	}
	switch {
	case len(a) < len(b):
		return -1, true
	case len(a) > len(b):
		return 1, true
	}
	return 0, true
}

// NumCompare orders two numbers exactly: two int-like operands compare as
// integers of arbitrary precision, otherwise both convert to float.
func NumCompare(a, b any) int {
	if isIntLike(a) && isIntLike(b) {
		return asBig(a).Cmp(asBig(b))
	}
	af, bf := AsFloat(a), AsFloat(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	}
	return 0
}

func isIntLike(v any) bool {
	switch v.(type) {
	case bool, int, *big.Int:
		return true
	}
	return false
}

func asBig(v any) *big.Int {
	switch v := v.(type) {
	case bool:
		if v {
			return big.NewInt(1)
		}
		return big.NewInt(0)
	case int:
		return big.NewInt(int64(v))
	case *big.Int:
		return v
	}
	panic("asBig: not an int-like value")
}

// AsFloat converts a number to float64. It must only be called on values
// for which IsNumber is true.
func AsFloat(v any) float64 {
	switch v := v.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case int:
		return float64(v)
	case *big.Int:
		f, _ := new(big.Float).SetInt(v).Float64()
		return f
	case float64:
		return v
	}
	panic("AsFloat: not a number")
}
