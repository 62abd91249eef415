package vals

// List is a mutable sequence. It is always handled by pointer, so that
// binding a list to a second name aliases it, as the source language
// requires.
type List struct {
	Items []any
}

// NewList returns a new list with the given items.
func NewList(items ...any) *List {
	if items == nil {
		items = []any{}
	}
	return &List{Items: items}
}

// Copy returns a shallow copy.
func (l *List) Copy() *List {
	items := make([]any, len(l.Items))
	copy(items, l.Items)
	return &List{Items: items}
}

// Tuple is an immutable sequence. It is a slice value; the evaluator never
// mutates one after construction.
type Tuple []any
