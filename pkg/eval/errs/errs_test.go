package errs

import (
	"testing"
)

var errorMessageTests = []struct {
	err     error
	wantMsg string
}{
	{
		New(Name, "name 'foo' is not defined"),
		"NameError: name 'foo' is not defined",
	},
	{
		Newf(Security, "use of %q is not allowed", "import"),
		`SecurityError: use of "import" is not allowed`,
	},
	{
		OutOfRange{What: "list index", ValidLow: 0, ValidHigh: 2, Actual: "3"},
		"IndexError: list index must be from 0 to 2, but is 3",
	},
	{
		OutOfRange{What: "list index", ValidLow: 0, ValidHigh: -1, Actual: "0"},
		"IndexError: list index has no valid value, but is 0",
	},
	{
		ArityMismatch{What: "arguments to f", ValidLow: 2, ValidHigh: 2, Actual: 3},
		"TypeError: arguments to f must be 2 values, but is 3 values",
	},
	{
		ArityMismatch{What: "arguments to f", ValidLow: 2, ValidHigh: -1, Actual: 1},
		"TypeError: arguments to f must be 2 or more values, but is 1 value",
	},
	{
		ArityMismatch{What: "unpacking targets", ValidLow: 2, ValidHigh: 3, Actual: 1},
		"TypeError: unpacking targets must be 2 to 3 values, but is 1 value",
	},
	{
		BadValue{What: "argument to chr", Valid: "a valid codepoint", Actual: "-1"},
		"ValueError: argument to chr must be a valid codepoint, but is -1",
	},
	{
		SetReadOnlyVar{VarName: "print"},
		`ValueError: cannot overwrite read-only name "print"`,
	},
}

func TestErrorMessages(t *testing.T) {
	for _, test := range errorMessageTests {
		if gotMsg := test.err.Error(); gotMsg != test.wantMsg {
			t.Errorf("got message %v, want %v", gotMsg, test.wantMsg)
		}
	}
}

func TestCatchable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{Name, true},
		{Type, true},
		{Value, true},
		{Index, true},
		{Key, true},
		{Attribute, true},
		{ZeroDivision, true},
		{Runtime, true},
		{Assertion, true},
		{Extension, true},
		{Syntax, false},
		{Security, false},
		{Limit, false},
	}
	for _, test := range tests {
		if got := test.kind.Catchable(); got != test.want {
			t.Errorf("%v.Catchable() = %v, want %v", test.kind, got, test.want)
		}
	}
}

func TestKindByName(t *testing.T) {
	for k, name := range kindNames {
		got, ok := KindByName(name)
		if !ok || got != Kind(k) {
			t.Errorf("KindByName(%q) = %v, %v, want %v, true", name, got, ok, Kind(k))
		}
	}
	if _, ok := KindByName("Exception"); ok {
		t.Errorf("KindByName resolved the Exception pseudo-name")
	}
}

func TestKindOf(t *testing.T) {
	if k := KindOf(New(Key, "'x'")); k != Key {
		t.Errorf("KindOf kinded error = %v, want Key", k)
	}
	if k := KindOf(errPlain{}); k != Runtime {
		t.Errorf("KindOf plain error = %v, want Runtime", k)
	}
}

type errPlain struct{}

func (errPlain) Error() string { return "plain" }
