package base64_test

import (
	"testing"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	. "github.com/pyritelang/pyrite/pkg/eval/evaltest"
	base64mod "github.com/pyritelang/pyrite/pkg/mods/base64"
)

func useBase64(cfg *eval.Config) {
	cfg.Modules = map[string]eval.ModuleBuilder{
		"base64": func(*eval.Engine) (*eval.Ns, error) { return base64mod.Ns, nil },
	}
}

func that(code string) *Case {
	return That("install_('base64')").WithConfig(useBase64).Then(code)
}

func TestBase64(t *testing.T) {
	TestCases(t,
		that("b64encode_('hello')").Returns("aGVsbG8="),
		that("b64decode_('aGVsbG8=')").Returns("hello"),
		that("b64decode_(b64encode_('any text at all'))").Returns("any text at all"),
		that("b64encode_('')").Returns(""),
		that("b64decode_('!!!')").Throws(errs.Value),
		// The URL-safe alphabet swaps +/ for -_.
		that("urlsafe_b64encode_('\\xfb\\xff')").Returns("-_8="),
		that("urlsafe_b64decode_(urlsafe_b64encode_('x'))").Returns("x"),
		that("b64encode_(1)").Throws(errs.Type),
	)
}
