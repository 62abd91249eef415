package diag

import (
	"fmt"
	"unicode"
)

// Error is an error that points at a region of script source: a short error
// type ("syntax error", "name error", ...), a message, and the context of the
// offending text. It is the common shape of every error the engine reports.
type Error struct {
	Type    string
	Message string
	Context Context
}

// Error returns a plain text representation of the error, with the position
// rendered as line:col of the start of the context.
func (e *Error) Error() string {
	line, col := e.Context.StartLineCol()
	return fmt.Sprintf("%s: %s:%d:%d: %s",
		e.Type, e.Context.Name, line, col, e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Variables controlling the style of the message; can be changed for testing.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Show shows the error with a source excerpt, suitable for a terminal.
func (e *Error) Show(indent string) string {
	header := fmt.Sprintf("%s: %s%s%s\n%s  ",
		title(e.Type), messageStart, e.Message, messageEnd, indent)
	return header + e.Context.ShowCompact(indent+"  ")
}

func title(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(unicode.ToUpper(r[0])) + string(r[1:])
}
