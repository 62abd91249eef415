package time_test

import (
	"testing"
	"time"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	. "github.com/pyritelang/pyrite/pkg/eval/evaltest"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
	timemod "github.com/pyritelang/pyrite/pkg/mods/time"
)

func useTime(cfg *eval.Config) {
	cfg.Modules = map[string]eval.ModuleBuilder{
		"time": func(*eval.Engine) (*eval.Ns, error) { return timemod.Ns, nil },
	}
}

func that(code string) *Case {
	return That("install_('time')").WithConfig(useTime).Then(code)
}

func TestTime(t *testing.T) {
	TestCases(t,
		that("time_() > 1e9").Returns(true),
		that("monotonic_() >= 0").Returns(true),
		that("len(gmtime_(0))").Returns(9),
		// The epoch in UTC.
		that("gmtime_(0)[0:6]").Returns(vals.Tuple{1970, 1, 1, 0, 0, 0}),
		// The epoch was a Thursday (weekday 3), day 1 of the year.
		that("gmtime_(0)[6]").Returns(3),
		that("gmtime_(0)[7]").Returns(1),
		that("len(ctime_(0))").Returns(24),
		that("sleep_(0)").Returns(nil),
		that("sleep_(-1)").Throws(errs.Value),
		that("gmtime_(0, 1)").Throws(errs.Type),
	)
}

func TestTime_Formatting(t *testing.T) {
	TestCases(t,
		that("strftime_('%Y-%m-%d %H:%M:%S', (2024, 2, 29, 13, 5, 7, 0, 0, 0))").
			Returns("2024-02-29 13:05:07"),
		that("strftime_('%a %b %j %w', (2024, 1, 1, 0, 0, 0, 0, 0, 0))").
			Returns("Mon Jan 001 1"),
		that("strftime_('100%%', (2024, 1, 1, 0, 0, 0, 0, 0, 0))").
			Returns("100%"),
		that("strftime_('%Q', (2024, 1, 1, 0, 0, 0, 0, 0, 0))").Throws(errs.Value),
		that("strptime_('2024-02-29', '%Y-%m-%d')[0:3]").
			Returns(vals.Tuple{2024, 2, 29}),
		that("strptime_('x', '%Y')").Throws(errs.Value),
		that("mktime_(gmtime_(0)) == mktime_(gmtime_(0))").Returns(true),
		that("asctime_((2024, 1, 1, 12, 0, 0, 0, 0, 0))").
			Returns("Mon Jan  1 12:00:00 2024"),
		that("strftime_('%Y', (2024,))").Throws(errs.Type),
	)
}

func TestTime_SleepHonorsAbort(t *testing.T) {
	eng := eval.NewEngine(eval.Config{Modules: map[string]eval.ModuleBuilder{
		"time": func(*eval.Engine) (*eval.Ns, error) { return timemod.Ns, nil },
	}})
	if _, err := eng.Eval("install_('time')"); err != nil {
		t.Fatal(err)
	}
	go func() {
		time.Sleep(20 * time.Millisecond)
		eng.Abort()
	}()
	start := time.Now()
	_, err := eng.Eval("sleep_(60)")
	if err == nil {
		t.Fatal("aborted sleep returned nil error")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("sleep kept running for %v after abort", elapsed)
	}
}
