// Package vars contains basic types for manipulating interpreter variables.
package vars

// Var represents a variable: one named slot in a scope.
type Var interface {
	Set(v any) error
	Get() any
}
