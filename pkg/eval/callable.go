package eval

// Callable is anything scripts can call: script-defined functions, adapted
// Go functions and bound methods. Keyword arguments arrive as a map; a nil
// map means none were given.
type Callable interface {
	Call(fm *Frame, args []any, kwargs map[string]any) (any, error)
}
