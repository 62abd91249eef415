package testutil

import "testing"

func TestDedent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "script after opening newline",
			in: `
				def f():
				    return 1
				f()`,
			out: "def f():\n    return 1\nf()",
		},
		{
			name: "trailing newline kept",
			in: `
				x = 1
				x
				`,
			out: "x = 1\nx\n",
		},
		{
			name: "no opening newline",
			in:   "  a\n   b\n  c",
			out:  "a\n b\nc",
		},
		{
			name: "whitespace-only line emptied and ignored for margin",
			in:   "  a\n \n  b",
			out:  "a\n\nb",
		},
		{
			name: "mixed depths strip the common part only",
			in: `
					deep
				shallow`,
			out: "\tdeep\nshallow",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Dedent(tc.in); got != tc.out {
				t.Errorf("Dedent(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}
