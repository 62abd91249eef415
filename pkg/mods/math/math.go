// Package math exposes functionality from Go's math package as an
// installable pyrite module.
package math

import (
	"math"
	"math/big"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
)

// Ns is the namespace bound by install_('math'). Every symbol carries the
// trailing underscore of the extension naming convention.
var Ns = eval.NsBuilder{}.
	AddReadOnly("e_", math.E).
	AddReadOnly("pi_", math.Pi).
	AddReadOnly("inf_", math.Inf(1)).
	AddReadOnly("nan_", math.NaN()).
	AddGoFns(map[string]any{
		"acos_":      math.Acos,
		"acosh_":     math.Acosh,
		"asin_":      math.Asin,
		"asinh_":     math.Asinh,
		"atan_":      math.Atan,
		"atan2_":     math.Atan2,
		"atanh_":     math.Atanh,
		"ceil_":      ceil,
		"copysign_":  math.Copysign,
		"cos_":       math.Cos,
		"cosh_":      math.Cosh,
		"degrees_":   degrees,
		"exp_":       math.Exp,
		"fabs_":      math.Abs,
		"factorial_": factorial,
		"floor_":     floor,
		"fmod_":      math.Mod,
		"gcd_":       gcd,
		"hypot_":     math.Hypot,
		"isclose_":   isclose,
		"isfinite_":  isfinite,
		"isinf_":     isinf,
		"isnan_":     math.IsNaN,
		"ldexp_":     math.Ldexp,
		"log_":       log,
		"log10_":     math.Log10,
		"log1p_":     math.Log1p,
		"log2_":      math.Log2,
		"modf_":      modf,
		"pow_":       math.Pow,
		"radians_":   radians,
		"sin_":       math.Sin,
		"sinh_":      math.Sinh,
		"sqrt_":      math.Sqrt,
		"tan_":       math.Tan,
		"tanh_":      math.Tanh,
		"trunc_":     trunc,
	}).Ns()

// ceil, floor and trunc return ints, like their Python counterparts.

func ceil(x float64) (any, error)  { return toInt(math.Ceil(x)) }
func floor(x float64) (any, error) { return toInt(math.Floor(x)) }
func trunc(x float64) (any, error) { return toInt(math.Trunc(x)) }

func toInt(f float64) (any, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, errs.Newf(errs.Value, "cannot convert %v to int", f)
	}
	b, _ := big.NewFloat(f).Int(nil)
	return vals.NormalizeInt(b), nil
}

func degrees(x float64) float64 { return x * 180 / math.Pi }
func radians(x float64) float64 { return x * math.Pi / 180 }

func factorial(n int) (any, error) {
	if n < 0 {
		return nil, errs.New(errs.Value, "factorial() not defined for negative values")
	}
	if n > vals.MaxExponent {
		return nil, errs.Newf(errs.Runtime, "factorial() argument exceeds %d", vals.MaxExponent)
	}
	return vals.NormalizeInt(new(big.Int).MulRange(1, int64(n))), nil
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Field names spell the keyword arguments, including underscores.
type iscloseOpts struct {
	Rel_tol float64
	Abs_tol float64
}

func (o *iscloseOpts) SetDefaultOptions() { o.Rel_tol = 1e-09 }

func isclose(opts iscloseOpts, a, b float64) (bool, error) {
	if opts.Rel_tol < 0 || opts.Abs_tol < 0 {
		return false, errs.New(errs.Value, "tolerances must be non-negative")
	}
	if a == b {
		return true, nil
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false, nil
	}
	diff := math.Abs(a - b)
	return diff <= opts.Rel_tol*math.Max(math.Abs(a), math.Abs(b)) ||
		diff <= opts.Abs_tol, nil
}

func isfinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

type isinfOpts struct{ Sign int }

func (*isinfOpts) SetDefaultOptions() {}

func isinf(opts isinfOpts, x float64) bool { return math.IsInf(x, opts.Sign) }

func log(args ...float64) (float64, error) {
	switch len(args) {
	case 1:
		return math.Log(args[0]), nil
	case 2:
		return math.Log(args[0]) / math.Log(args[1]), nil
	default:
		return 0, errs.ArityMismatch{
			What: "arguments to log_", ValidLow: 1, ValidHigh: 2, Actual: len(args)}
	}
}

func modf(x float64) (float64, float64) {
	i, frac := math.Modf(x)
	return frac, i
}
