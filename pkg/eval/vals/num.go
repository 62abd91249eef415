package vals

import (
	"math"
	"math/big"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
)

// Resource guards, inherited from the original engine. They bound the cost
// of single operations so that a script cannot exhaust host memory with one
// expression.
const (
	// MaxExponent is the largest allowed magnitude of an exponent in **.
	MaxExponent = 10000
	// MaxStringLen is the largest string (in bytes) that + or * may build.
	MaxStringLen = 2 << 17
	// MaxShift is the largest allowed left shift.
	MaxShift = 1000
)

var errDivByZero = errs.New(errs.ZeroDivision, "division by zero")
var errIntDivByZero = errs.New(errs.ZeroDivision, "integer division or modulo by zero")

// Fast-path bound: products of two ints within this magnitude cannot
// overflow int64.
const mulSafeBound = 3037000499

func asInt(v any) (int, bool) {
	switch v := v.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int:
		return v, true
	}
	return 0, false
}

// NumAdd adds two numbers, promoting int to big int on overflow and to
// float when either operand is a float.
func NumAdd(a, b any) any {
	if ai, ok := asInt(a); ok {
		if bi, ok := asInt(b); ok {
			s := ai + bi
			if (ai > 0 && bi > 0 && s < 0) || (ai < 0 && bi < 0 && s >= 0) {
				return NormalizeInt(new(big.Int).Add(asBig(a), asBig(b)))
			}
			return s
		}
	}
	if isIntLike(a) && isIntLike(b) {
		return NormalizeInt(new(big.Int).Add(asBig(a), asBig(b)))
	}
	return AsFloat(a) + AsFloat(b)
}

// NumSub subtracts b from a.
func NumSub(a, b any) any {
	if ai, ok := asInt(a); ok {
		if bi, ok := asInt(b); ok {
			d := ai - bi
			if (ai >= 0 && bi < 0 && d < 0) || (ai < 0 && bi > 0 && d >= 0) {
				return NormalizeInt(new(big.Int).Sub(asBig(a), asBig(b)))
			}
			return d
		}
	}
	if isIntLike(a) && isIntLike(b) {
		return NormalizeInt(new(big.Int).Sub(asBig(a), asBig(b)))
	}
	return AsFloat(a) - AsFloat(b)
}

// NumMul multiplies two numbers.
func NumMul(a, b any) any {
	if ai, ok := asInt(a); ok {
		if bi, ok := asInt(b); ok {
			if ai > -mulSafeBound && ai < mulSafeBound &&
				bi > -mulSafeBound && bi < mulSafeBound {
				return ai * bi
			}
			return NormalizeInt(new(big.Int).Mul(asBig(a), asBig(b)))
		}
	}
	if isIntLike(a) && isIntLike(b) {
		return NormalizeInt(new(big.Int).Mul(asBig(a), asBig(b)))
	}
	return AsFloat(a) * AsFloat(b)
}

// NumTrueDiv is the / operator: always float division, raising
// ZeroDivisionError on a zero divisor (floats included, unlike IEEE).
func NumTrueDiv(a, b any) (any, error) {
	bf := AsFloat(b)
	if bf == 0 {
		return nil, errDivByZero
	}
	return AsFloat(a) / bf, nil
}

// NumFloorDiv is the // operator: floored division, int when both operands
// are int-like.
func NumFloorDiv(a, b any) (any, error) {
	if isIntLike(a) && isIntLike(b) {
		ab, bb := asBig(a), asBig(b)
		if bb.Sign() == 0 {
			return nil, errIntDivByZero
		}
		q, r := new(big.Int).QuoRem(ab, bb, new(big.Int))
		if r.Sign() != 0 && r.Sign() != bb.Sign() {
			q.Sub(q, big.NewInt(1))
		}
		return NormalizeInt(q), nil
	}
	bf := AsFloat(b)
	if bf == 0 {
		return nil, errDivByZero
	}
	return math.Floor(AsFloat(a) / bf), nil
}

// NumMod is the % operator; the result takes the sign of the divisor.
func NumMod(a, b any) (any, error) {
	if isIntLike(a) && isIntLike(b) {
		ab, bb := asBig(a), asBig(b)
		if bb.Sign() == 0 {
			return nil, errIntDivByZero
		}
		r := new(big.Int).Rem(ab, bb)
		if r.Sign() != 0 && r.Sign() != bb.Sign() {
			r.Add(r, bb)
		}
		return NormalizeInt(r), nil
	}
	bf := AsFloat(b)
	if bf == 0 {
		return nil, errDivByZero
	}
	r := math.Mod(AsFloat(a), bf)
	if r != 0 && (r < 0) != (bf < 0) {
		r += bf
	}
	return r, nil
}

// NumPow is the ** operator. Int bases with non-negative int exponents stay
// exact; anything else goes through float. The exponent magnitude is
// guarded.
func NumPow(a, b any) (any, error) {
	if isIntLike(a) && isIntLike(b) {
		bb := asBig(b)
		if bb.CmpAbs(big.NewInt(MaxExponent)) > 0 {
			return nil, errs.Newf(errs.Runtime,
				"power exponent magnitude exceeds %d", MaxExponent)
		}
		if bb.Sign() >= 0 {
			return NormalizeInt(new(big.Int).Exp(asBig(a), bb, nil)), nil
		}
		if asBig(a).Sign() == 0 {
			return nil, errs.New(errs.ZeroDivision, "0 cannot be raised to a negative power")
		}
		return math.Pow(AsFloat(a), AsFloat(b)), nil
	}
	bf := AsFloat(b)
	if math.Abs(bf) > MaxExponent {
		return nil, errs.Newf(errs.Runtime,
			"power exponent magnitude exceeds %d", MaxExponent)
	}
	af := AsFloat(a)
	if af == 0 && bf < 0 {
		return nil, errs.New(errs.ZeroDivision, "0.0 cannot be raised to a negative power")
	}
	return math.Pow(af, bf), nil
}

// NumNeg is unary minus.
func NumNeg(v any) any {
	switch v := v.(type) {
	case bool:
		if v {
			return -1
		}
		return 0
	case int:
		if v == math.MinInt {
			return NormalizeInt(new(big.Int).Neg(big.NewInt(int64(v))))
		}
		return -v
	case *big.Int:
		return NormalizeInt(new(big.Int).Neg(v))
	case float64:
		return -v
	}
	panic("NumNeg: not a number")
}

// NumPos is unary plus: bools become ints, other numbers pass through.
func NumPos(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

// Invert is the ~ operator, defined for int-like values only.
func Invert(v any) (any, error) {
	if !isIntLike(v) {
		return nil, errs.Newf(errs.Type,
			"bad operand type for unary ~: '%s'", Kind(v))
	}
	return NormalizeInt(new(big.Int).Not(asBig(v))), nil
}

func shiftAmount(b any) (uint, error) {
	if !isIntLike(b) {
		return 0, errs.Newf(errs.Type, "shift amount must be int, but is %s", Kind(b))
	}
	bb := asBig(b)
	if bb.Sign() < 0 {
		return 0, errs.New(errs.Value, "negative shift amount")
	}
	if bb.Cmp(big.NewInt(MaxShift)) > 0 {
		return 0, errs.Newf(errs.Runtime, "shift amount exceeds %d", MaxShift)
	}
	return uint(bb.Uint64()), nil
}

// Lsh is the << operator, guarded by MaxShift.
func Lsh(a, b any) (any, error) {
	if !isIntLike(a) {
		return nil, errs.Newf(errs.Type,
			"unsupported operand type for <<: '%s'", Kind(a))
	}
	n, err := shiftAmount(b)
	if err != nil {
		return nil, err
	}
	return NormalizeInt(new(big.Int).Lsh(asBig(a), n)), nil
}

// Rsh is the >> operator (arithmetic shift).
func Rsh(a, b any) (any, error) {
	if !isIntLike(a) {
		return nil, errs.Newf(errs.Type,
			"unsupported operand type for >>: '%s'", Kind(a))
	}
	n, err := shiftAmount(b)
	if err != nil {
		return nil, err
	}
	return NormalizeInt(new(big.Int).Rsh(asBig(a), n)), nil
}

// BitOp implements &, | and ^ on int-like values.
func BitOp(op string, a, b any) (any, error) {
	if !isIntLike(a) || !isIntLike(b) {
		return nil, errs.Newf(errs.Type,
			"unsupported operand types for %s: '%s' and '%s'", op, Kind(a), Kind(b))
	}
	ab, bb := asBig(a), asBig(b)
	var r *big.Int
	switch op {
	case "&":
		r = new(big.Int).And(ab, bb)
	case "|":
		r = new(big.Int).Or(ab, bb)
	case "^":
		r = new(big.Int).Xor(ab, bb)
	default:
		panic("BitOp: bad op " + op)
	}
	return NormalizeInt(r), nil
}
