package testutil

import "strings"

// Dedent strips the longest leading run of spaces and tabs common to all
// lines of text, so that multiline raw strings can be indented along with
// the test code that uses them. A newline immediately after the opening
// backquote is removed, and lines containing only whitespace are emptied
// without counting towards the common margin.
func Dedent(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")

	margin, seen := "", false
	for i, line := range lines {
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if indent == line {
			lines[i] = ""
			continue
		}
		if !seen {
			margin, seen = indent, true
		} else {
			margin = commonPrefix(margin, indent)
		}
	}

	if margin != "" {
		for i, line := range lines {
			lines[i] = strings.TrimPrefix(line, margin)
		}
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	if len(b) < len(a) {
		a, b = b, a
	}
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a
}
