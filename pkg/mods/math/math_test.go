package math_test

import (
	"math"
	"testing"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	. "github.com/pyritelang/pyrite/pkg/eval/evaltest"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
	mathmod "github.com/pyritelang/pyrite/pkg/mods/math"
)

func useMath(cfg *eval.Config) {
	cfg.Modules = map[string]eval.ModuleBuilder{
		"math": func(*eval.Engine) (*eval.Ns, error) { return mathmod.Ns, nil },
	}
}

func that(code string) *Case {
	return That("install_('math')").WithConfig(useMath).Then(code)
}

func TestMath(t *testing.T) {
	TestCases(t,
		that("sqrt_(4)").Returns(2.0),
		that("sqrt_(2) * sqrt_(2) - 2 < 1e-15").Returns(true),
		that("pow_(2, 10)").Returns(1024.0),
		that("fabs_(-3.5)").Returns(3.5),
		that("fmod_(7, 3)").Returns(1.0),
		that("hypot_(3, 4)").Returns(5.0),
		that("atan2_(0, 1)").Returns(0.0),
		that("log_(e_)").Returns(1.0),
		that("fabs_(log_(8, 2) - 3) < 1e-12").Returns(true),
		that("log2_(8)").Returns(3.0),
		that("exp_(0)").Returns(1.0),
		that("sin_(0)").Returns(0.0),
		that("cos_(0)").Returns(1.0),
		that("fabs_(degrees_(pi_) - 180) < 1e-12").Returns(true),
		that("fabs_(radians_(180) - pi_) < 1e-15").Returns(true),
		that("copysign_(3, -1)").Returns(-3.0),
		that("ldexp_(1.5, 3)").Returns(12.0),
	)
}

func TestMath_IntResults(t *testing.T) {
	TestCases(t,
		that("ceil_(2.1)").Returns(3),
		that("floor_(2.9)").Returns(2),
		that("floor_(-2.1)").Returns(-3),
		that("trunc_(-2.9)").Returns(-2),
		that("ceil_(inf_)").Throws(errs.Value),
		that("factorial_(5)").Returns(120),
		that("factorial_(0)").Returns(1),
		that("factorial_(-1)").Throws(errs.Value),
		that("factorial_(100000)").Throws(errs.Runtime),
		that("gcd_(12, 18)").Returns(6),
		that("gcd_(-4, 6)").Returns(2),
		that("gcd_(0, 0)").Returns(0),
	)
}

func TestMath_Predicates(t *testing.T) {
	TestCases(t,
		that("isnan_(nan_)").Returns(true),
		that("isnan_(1.0)").Returns(false),
		that("isinf_(inf_)").Returns(true),
		that("isinf_(-inf_)").Returns(true),
		that("isfinite_(1.0)").Returns(true),
		that("isfinite_(nan_)").Returns(false),
		that("isclose_(1.0, 1.0)").Returns(true),
		that("isclose_(1.0, 1.0 + 1e-12)").Returns(true),
		that("isclose_(1.0, 1.1)").Returns(false),
		that("isclose_(100, 101, rel_tol=0.05)").Returns(true),
		that("isclose_(0.0, 1e-10, abs_tol=1e-9)").Returns(true),
		that("isclose_(1, 2, rel_tol=-1)").Throws(errs.Value),
	)
}

func TestMath_Modf(t *testing.T) {
	eng := eval.NewEngine(eval.Config{Modules: map[string]eval.ModuleBuilder{
		"math": func(*eval.Engine) (*eval.Ns, error) { return mathmod.Ns, nil },
	}})
	if _, err := eng.Eval("install_('math')"); err != nil {
		t.Fatal(err)
	}
	v, err := eng.Eval("modf_(3.25)")
	if err != nil {
		t.Fatal(err)
	}
	got := v.(vals.Tuple)
	if got[0] != 0.25 || got[1] != 3.0 {
		t.Errorf("modf_(3.25) = %v", got)
	}
}

func TestMath_Constants(t *testing.T) {
	TestCases(t,
		that("pi_").Returns(math.Pi),
		that("e_").Returns(math.E),
		that("inf_ > 1e308").Returns(true),
		// Module symbols are read-only.
		that("pi_ = 3").Throws(errs.Value),
	)
}
