package diag

import (
	"testing"
)

func TestError(t *testing.T) {
	setCulpritMarkers(t, "<", ">")
	setMessageMarkers(t, "{", "}")

	err := &Error{
		Type:    "name error",
		Message: "name 'x' is not defined",
		Context: *contextInParen("[test]", "print(x)"),
	}

	wantErrorString := "name error: [test]:1:6: name 'x' is not defined"
	if gotErrorString := err.Error(); gotErrorString != wantErrorString {
		t.Errorf("Error() -> %q, want %q", gotErrorString, wantErrorString)
	}

	wantRanging := Ranging{From: 5, To: 8}
	if gotRanging := err.Range(); gotRanging != wantRanging {
		t.Errorf("Range() -> %v, want %v", gotRanging, wantRanging)
	}

	// Type is capitalized in the return value of Show.
	wantShow := dedent(`
		Name error: {name 'x' is not defined}
		  [test], line 1: print<(x)>`)
	if gotShow := err.Show(""); gotShow != wantShow {
		t.Errorf("Show() -> %q, want %q", gotShow, wantShow)
	}
}
