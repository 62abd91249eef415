// Package evaltest supports testing the evaluator.
//
// The entry point is the TestCases function, which accepts any number of
// test cases. Test cases are constructed with the That function, and then
// refined with methods like Returns, Prints and Throws:
//
//	TestCases(t,
//	    That("1 + 1").Returns(2),
//	    That("print('hi')").Prints("hi\n"),
//	    That("1 / 0").Throws(errs.ZeroDivision),
//	)
//
// Each case runs on a fresh engine unless chained with Then, which runs
// several snippets on one engine in order.
package evaltest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
	"github.com/pyritelang/pyrite/pkg/eval/vals"
)

// Case is a test case for TestCases.
type Case struct {
	codes []string
	setup func(*eval.Engine)
	cfg   func(*eval.Config)

	checkValue bool
	wantValue  any
	wantOutput string
	wantErr    bool
	wantKind   errs.Kind
	wantMsg    string
}

// That returns a new Case with the given code.
func That(code string) *Case {
	return &Case{codes: []string{code}}
}

// Then appends another snippet, run on the same engine after the previous
// ones. Expectations apply to the final snippet.
func (c *Case) Then(code string) *Case {
	c.codes = append(c.codes, code)
	return c
}

// WithSetup runs f on the engine before evaluating.
func (c *Case) WithSetup(f func(*eval.Engine)) *Case {
	c.setup = f
	return c
}

// WithConfig adjusts the engine configuration before construction.
func (c *Case) WithConfig(f func(*eval.Config)) *Case {
	c.cfg = f
	return c
}

// Returns asserts the value of the final snippet's trailing expression.
func (c *Case) Returns(v any) *Case {
	c.checkValue = true
	c.wantValue = v
	return c
}

// Prints asserts the output written by the final snippet.
func (c *Case) Prints(out string) *Case {
	c.wantOutput = out
	return c
}

// Throws asserts that the final snippet fails with an error of the given
// kind.
func (c *Case) Throws(kind errs.Kind) *Case {
	c.wantErr = true
	c.wantKind = kind
	return c
}

// ThrowsMessage additionally asserts a substring of the error message.
func (c *Case) ThrowsMessage(kind errs.Kind, substr string) *Case {
	c.Throws(kind)
	c.wantMsg = substr
	return c
}

// TestCases runs the test cases.
func TestCases(t *testing.T, cases ...*Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.codes, " | "), func(t *testing.T) {
			t.Helper()
			c.run(t)
		})
	}
}

func (c *Case) run(t *testing.T) {
	t.Helper()
	var out bytes.Buffer
	cfg := eval.Config{Out: &out, Err: &out}
	if c.cfg != nil {
		c.cfg(&cfg)
	}
	eng := eval.NewEngine(cfg)
	if c.setup != nil {
		c.setup(eng)
	}

	var value any
	var err error
	for _, code := range c.codes {
		value, err = eng.Eval(code)
	}

	if c.wantErr {
		if err == nil {
			t.Fatalf("eval of %q returned no error, want kind %v", last(c.codes), c.wantKind)
		}
		if got := errs.KindOf(err); got != c.wantKind {
			t.Errorf("eval of %q threw %v (kind %v), want kind %v",
				last(c.codes), err, got, c.wantKind)
		}
		if c.wantMsg != "" && !strings.Contains(err.Error(), c.wantMsg) {
			t.Errorf("eval of %q threw %q, want message containing %q",
				last(c.codes), err.Error(), c.wantMsg)
		}
	} else if err != nil {
		t.Fatalf("eval of %q threw %v, want no error", last(c.codes), err)
	}

	if c.checkValue && !matchValue(value, c.wantValue) {
		t.Errorf("eval of %q returned %s, want %s",
			last(c.codes), vals.Repr(value), vals.Repr(c.wantValue))
	}
	if c.wantOutput != "" && out.String() != c.wantOutput {
		t.Errorf("eval of %q printed %q, want %q",
			last(c.codes), out.String(), c.wantOutput)
	}
}

// matchValue compares by structural equality, but distinguishes kinds so
// that True does not pass for 1.
func matchValue(got, want any) bool {
	return vals.Kind(got) == vals.Kind(want) && vals.Equal(got, want)
}

func last(codes []string) string { return codes[len(codes)-1] }
