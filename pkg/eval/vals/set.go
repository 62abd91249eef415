package vals

// Set is a mutable collection of hashable values, kept in insertion order so
// that iteration and repr are deterministic. Like List it is always handled
// by pointer.
type Set struct {
	elems  []any
	hashes []string
	index  map[string]int
}

// NewSet returns a new set with the given elements; duplicates collapse.
func NewSet(elems ...any) (*Set, error) {
	s := &Set{index: map[string]int{}}
	for _, e := range elems {
		if err := s.Add(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.elems) }

// Add inserts an element; inserting an existing element is a no-op.
func (s *Set) Add(v any) error {
	h, err := HashKey(v)
	if err != nil {
		return err
	}
	if _, ok := s.index[h]; ok {
		return nil
	}
	s.index[h] = len(s.elems)
	s.elems = append(s.elems, v)
	s.hashes = append(s.hashes, h)
	return nil
}

// Has reports membership.
func (s *Set) Has(v any) (bool, error) {
	h, err := HashKey(v)
	if err != nil {
		return false, err
	}
	_, ok := s.index[h]
	return ok, nil
}

// Del removes an element; removed is false when it was absent.
func (s *Set) Del(v any) (removed bool, err error) {
	h, err := HashKey(v)
	if err != nil {
		return false, err
	}
	i, ok := s.index[h]
	if !ok {
		return false, nil
	}
	s.elems = append(s.elems[:i], s.elems[i+1:]...)
	s.hashes = append(s.hashes[:i], s.hashes[i+1:]...)
	delete(s.index, h)
	for j := i; j < len(s.hashes); j++ {
		s.index[s.hashes[j]] = j
	}
	return true, nil
}

// Elems returns the elements in insertion order.
func (s *Set) Elems() []any {
	elems := make([]any, len(s.elems))
	copy(elems, s.elems)
	return elems
}

// Copy returns a shallow copy.
func (s *Set) Copy() *Set {
	c := &Set{index: map[string]int{}}
	for _, e := range s.elems {
		c.Add(e)
	}
	return c
}
