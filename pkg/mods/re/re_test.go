package re_test

import (
	"testing"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	. "github.com/pyritelang/pyrite/pkg/eval/evaltest"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
	remod "github.com/pyritelang/pyrite/pkg/mods/re"
)

func useRe(cfg *eval.Config) {
	cfg.Modules = map[string]eval.ModuleBuilder{
		"re": func(*eval.Engine) (*eval.Ns, error) { return remod.Ns, nil },
	}
}

func that(code string) *Case {
	return That("install_('re')").WithConfig(useRe).Then(code)
}

func TestSearchMatchFullmatch(t *testing.T) {
	TestCases(t,
		that("research_('b+', 'abbc') is None").Returns(false),
		that("research_('z', 'abbc') is None").Returns(true),
		that("research_('b+', 'abbc').group()").Returns("bb"),
		that("research_('b+', 'abbc').span()").Returns(vals.Tuple{1, 3}),
		// match anchors at the start, fullmatch at both ends.
		that("rematch_('a+', 'aab') is None").Returns(false),
		that("rematch_('b+', 'aab') is None").Returns(true),
		that("refullmatch_('a+b', 'aab') is None").Returns(false),
		that("refullmatch_('a+', 'aab') is None").Returns(true),
		that("research_('[', 'x')").Throws(errs.Value),
	)
}

func TestMatchObject(t *testing.T) {
	TestCases(t,
		that("m = research_('(a+)(b*)', 'xaabz')").
			Then("m.group(0)").Returns("aab"),
		that("m = research_('(a+)(b*)', 'xaabz')").
			Then("m.group(1)").Returns("aa"),
		that("m = research_('(a+)(b*)', 'xaabz')").
			Then("m.group(1, 2)").Returns(vals.Tuple{"aa", "b"}),
		that("m = research_('(a+)(b*)', 'xaabz')").
			Then("m.groups()").Returns(vals.Tuple{"aa", "b"}),
		that("m = research_('(a+)(b*)', 'xaabz')").
			Then("(m.start(), m.end())").Returns(vals.Tuple{1, 4}),
		that("m = research_('(a+)(b*)', 'xaabz')").
			Then("m.start(2)").Returns(3),
		that("m = research_('(a+)(b*)', 'xaabz')").
			Then("m.group(5)").Throws(errs.Index),
		// An unmatched optional group is None.
		that("research_('a(x)?', 'ab').groups()[0] is None").Returns(true),
		that("research_('a', 'ab').nope").Throws(errs.Attribute),
	)
}

func TestFindallSplitSub(t *testing.T) {
	TestCases(t,
		that("refindall_('[0-9]+', 'a1b22c333')").
			Returns(vals.NewList("1", "22", "333")),
		that("refindall_('([a-z])([0-9])', 'a1 b2')").
			Returns(vals.NewList(vals.Tuple{"a", "1"}, vals.Tuple{"b", "2"})),
		that("refindall_('z', 'abc')").Returns(vals.NewList()),
		that("resplit_(',', 'a,b,c')").Returns(vals.NewList("a", "b", "c")),
		that("resplit_(',', 'a,b,c', maxsplit=1)").Returns(vals.NewList("a", "b,c")),
		that("resub_('[0-9]+', 'N', 'a1b22')").Returns("aNbN"),
		that("resub_('[0-9]+', 'N', 'a1b22', count=1)").Returns("aNb22"),
		that("resub_('(a)(b)', '$2$1', 'ab')").Returns("ba"),
		that("resubn_('a', 'x', 'banana')").Returns(vals.Tuple{"bxnxnx", 3}),
		that("reescape_('a.b*c')").Returns(`a\.b\*c`),
	)
}

func TestFlags(t *testing.T) {
	TestCases(t,
		that("research_('abc', 'ABC') is None").Returns(true),
		that("research_('abc', 'ABC', flags=reIGNORECASE_) is None").Returns(false),
		that("refindall_('^.', 'ab\\ncd')").Returns(vals.NewList("a")),
		that("refindall_('^.', 'ab\\ncd', flags=reMULTILINE_)").
			Returns(vals.NewList("a", "c")),
		that("rematch_('a.c', 'a\\nc') is None").Returns(true),
		that("rematch_('a.c', 'a\\nc', flags=reDOTALL_) is None").Returns(false),
		that("rematch_('a', 'A', flags=reIGNORECASE_ | reDOTALL_) is None").
			Returns(false),
	)
}

func TestCompiledPattern(t *testing.T) {
	TestCases(t,
		that("p = recompile_('[0-9]+')").Then("p.pattern").Returns("[0-9]+"),
		that("p = recompile_('([a-z])([0-9])')").Then("p.groups").Returns(2),
		that("p = recompile_('[0-9]+')").
			Then("p.findall('a1b22')").Returns(vals.NewList("1", "22")),
		that("p = recompile_('[0-9]+')").
			Then("p.search('ab123').group()").Returns("123"),
		that("p = recompile_('a+')").
			Then("p.fullmatch('aaa') is None").Returns(false),
		that("p = recompile_(',')").
			Then("p.split('a,b,c', maxsplit=1)").Returns(vals.NewList("a", "b,c")),
		that("p = recompile_('[0-9]')").
			Then("p.sub('#', 'a1b2')").Returns("a#b#"),
		that("p = recompile_('[0-9]')").
			Then("p.subn('#', 'a1b2')").Returns(vals.Tuple{"a#b#", 2}),
		that("p = recompile_('x', flags=reIGNORECASE_)").
			Then("p.flags").Returns(2),
		that("recompile_('(')").Throws(errs.Value),
		// Dunder attributes stay off limits on extension values too.
		that("recompile_('x').__class__").Throws(errs.Security),
	)
}
