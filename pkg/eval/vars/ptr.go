package vars

type ptrVar struct {
	ptr *any
}

// FromInit creates an ordinary variable with an initial value. The variable
// can be assigned values of any type.
func FromInit(v any) Var {
	return ptrVar{&v}
}

func (v ptrVar) Get() any { return *v.ptr }

func (v ptrVar) Set(val any) error {
	*v.ptr = val
	return nil
}
