package parse

// Source describes a piece of source code to parse.
type Source struct {
	// Name of the source, shown in error messages. It is a file path when
	// IsFile is true, and a description like "[eval]" otherwise.
	Name string
	// Code is the full source text.
	Code string
	// IsFile is whether the source originates from a file.
	IsFile bool
}

// SourceForTest returns a Source for code used in tests.
func SourceForTest(code string) Source {
	return Source{Name: "[test]", Code: code}
}
