// Package vals defines the runtime value system of the interpreter.
//
// The value set is closed. Script values are represented by native Go types
// where one fits, and by reference types defined here for the mutable
// containers:
//
//	None    nil
//	Bool    bool
//	Int     int, promoting to *big.Int on overflow
//	Float   float64
//	String  string
//	List    *List (mutable, aliased by reference)
//	Tuple   Tuple (immutable)
//	Dict    *Dict (mutable, insertion-ordered, aliased by reference)
//	Set     *Set (mutable, aliased by reference)
//	Range   Range (lazy integer sequence)
//
// Functions, bound methods, host callables and namespaces are defined by the
// eval package; they participate in this package's protocols through the
// Kinder and Reprer interfaces.
package vals

import (
	"math/big"
)

// Kinder is implemented by values outside the closed set above to report
// their kind name.
type Kinder interface {
	Kind() string
}

// Kind returns the script-visible type name of a value, as reported by
// type() and used in error messages.
func Kind(v any) string {
	switch v := v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int, *big.Int:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case *List:
		return "list"
	case Tuple:
		return "tuple"
	case *Dict:
		return "dict"
	case *Set:
		return "set"
	case Range:
		return "range"
	case Kinder:
		return v.Kind()
	default:
		return "host value"
	}
}

// NormalizeInt demotes a big int to a machine int when it fits, so that ints
// have a single canonical representation throughout the engine.
func NormalizeInt(b *big.Int) any {
	if b.IsInt64() {
		i := b.Int64()
		if int64(int(i)) == i {
			return int(i)
		}
	}
	return b
}
