package vals

import (
	"unicode/utf8"

	"github.com/pyritelang/pyrite/pkg/eval/errs"
)

// Len returns the length of a value; ok is false for values with no length.
// String length counts code points.
func Len(v any) (n int, ok bool) {
	switch v := v.(type) {
	case string:
		return utf8.RuneCountInString(v), true
	case *List:
		return len(v.Items), true
	case Tuple:
		return len(v), true
	case *Dict:
		return v.Len(), true
	case *Set:
		return v.Len(), true
	case Range:
		return v.Len(), true
	}
	return 0, false
}

// Iterate calls f for each element of an iterable value: characters of a
// string, items of a list or tuple, keys of a dict, elements of a set, ints
// of a range. A non-nil error from f stops the iteration and is returned.
// Non-iterable values yield a TypeError.
//
// Lists and sets are iterated over a snapshot, so a body that mutates the
// container it is looping over sees consistent behavior.
func Iterate(v any, f func(elem any) error) error {
	switch v := v.(type) {
	case string:
		for _, r := range v {
			if err := f(string(r)); err != nil {
				return err
			}
		}
	case *List:
		items := make([]any, len(v.Items))
		copy(items, v.Items)
		for _, item := range items {
			if err := f(item); err != nil {
				return err
			}
		}
	case Tuple:
		for _, item := range v {
			if err := f(item); err != nil {
				return err
			}
		}
	case *Dict:
		for _, k := range v.Keys() {
			if err := f(k); err != nil {
				return err
			}
		}
	case *Set:
		for _, e := range v.Elems() {
			if err := f(e); err != nil {
				return err
			}
		}
	case Range:
		for i, n := 0, v.Len(); i < n; i++ {
			if err := f(v.At(i)); err != nil {
				return err
			}
		}
	default:
		return errs.Newf(errs.Type, "'%s' object is not iterable", Kind(v))
	}
	return nil
}

// Collect returns the elements of an iterable as a slice.
func Collect(v any) ([]any, error) {
	var items []any
	err := Iterate(v, func(elem any) error {
		items = append(items, elem)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
