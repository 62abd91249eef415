package json_test

import (
	"testing"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	. "github.com/pyritelang/pyrite/pkg/eval/evaltest"
	jsonmod "github.com/pyritelang/pyrite/pkg/mods/json"
)

func useJSON(cfg *eval.Config) {
	cfg.Modules = map[string]eval.ModuleBuilder{
		"json": func(*eval.Engine) (*eval.Ns, error) { return jsonmod.Ns, nil },
	}
}

func that(code string) *Case {
	return That("install_('json')").WithConfig(useJSON).Then(code)
}

func TestDumps(t *testing.T) {
	TestCases(t,
		that("jsondumps_(None)").Returns("null"),
		that("jsondumps_(True)").Returns("true"),
		that("jsondumps_(42)").Returns("42"),
		that("jsondumps_(2 ** 80)").Returns("1208925819614629174706176"),
		that("jsondumps_(1.5)").Returns("1.5"),
		that("jsondumps_('a\\\"b')").Returns(`"a\"b"`),
		that("jsondumps_([1, 'x', None])").Returns(`[1, "x", null]`),
		that("jsondumps_((1, 2))").Returns("[1, 2]"),
		that("jsondumps_({'a': 1, 'b': [True]})").Returns(`{"a": 1, "b": [true]}`),
		that("jsondumps_({1: 'x'})").Returns(`{"1": "x"}`),
		that("jsondumps_({'nested': {'k': None}})").Returns(`{"nested": {"k": null}}`),
		that("jsondumps_({1, 2})").Throws(errs.Type),
		that("jsondumps_(len)").Throws(errs.Type),
		that("jsondumps_({(1, 2): 'x'})").Throws(errs.Type),
	)
}

func TestLoads(t *testing.T) {
	TestCases(t,
		that("jsonloads_('null')").Returns(nil),
		that("jsonloads_('true')").Returns(true),
		that("jsonloads_('42')").Returns(42),
		that("jsonloads_('1.5')").Returns(1.5),
		that("jsonloads_('1208925819614629174706176') == 2 ** 80").Returns(true),
		that("jsonloads_('\"hi\"')").Returns("hi"),
		that("jsonloads_('[1, 2]')[1]").Returns(2),
		that("jsonloads_('{\"a\": {\"b\": [1]}}')['a']['b'][0]").Returns(1),
		that("jsonloads_('not json')").Throws(errs.Value),
		that("jsonloads_('{\"a\": 1} trailing')").Throws(errs.Value),
		that("jsonloads_('')").Throws(errs.Value),
	)
}

func TestRoundTrip(t *testing.T) {
	TestCases(t,
		that("x = {'a': [1, 2.5, None, True, 'x'], 'b': {'c': [[]]}}").
			Then("jsonloads_(jsondumps_(x)) == x").Returns(true),
	)
}
