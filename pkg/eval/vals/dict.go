package vals

// Dict is a mutable insertion-ordered mapping with hashable keys. Like List
// it is always handled by pointer.
type Dict struct {
	// Entries in insertion order.
	keys   []any
	values []any
	// Hash key of each entry's key, parallel to keys.
	hashes []string
	// Hash key to position in the slices above.
	index map[string]int
}

// NewDict returns a new empty dict.
func NewDict() *Dict {
	return &Dict{index: map[string]int{}}
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// Get returns the value for a key; ok is false when the key is absent. An
// error means the key is unhashable.
func (d *Dict) Get(key any) (v any, ok bool, err error) {
	h, err := HashKey(key)
	if err != nil {
		return nil, false, err
	}
	if i, ok := d.index[h]; ok {
		return d.values[i], true, nil
	}
	return nil, false, nil
}

// Set binds a key to a value, keeping the key's original insertion position
// when it is already present.
func (d *Dict) Set(key, value any) error {
	h, err := HashKey(key)
	if err != nil {
		return err
	}
	if i, ok := d.index[h]; ok {
		d.values[i] = value
		return nil
	}
	d.index[h] = len(d.keys)
	d.keys = append(d.keys, key)
	d.values = append(d.values, value)
	d.hashes = append(d.hashes, h)
	return nil
}

// Del removes a key. The removed flag is false when the key was absent.
func (d *Dict) Del(key any) (removed bool, err error) {
	h, err := HashKey(key)
	if err != nil {
		return false, err
	}
	i, ok := d.index[h]
	if !ok {
		return false, nil
	}
	d.keys = append(d.keys[:i], d.keys[i+1:]...)
	d.values = append(d.values[:i], d.values[i+1:]...)
	d.hashes = append(d.hashes[:i], d.hashes[i+1:]...)
	delete(d.index, h)
	for j := i; j < len(d.hashes); j++ {
		d.index[d.hashes[j]] = j
	}
	return true, nil
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []any {
	keys := make([]any, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Values returns the values in insertion order.
func (d *Dict) Values() []any {
	values := make([]any, len(d.values))
	copy(values, d.values)
	return values
}

// Each calls f for each entry in insertion order until f returns an error.
func (d *Dict) Each(f func(k, v any) error) error {
	for i := range d.keys {
		if err := f(d.keys[i], d.values[i]); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns a shallow copy.
func (d *Dict) Copy() *Dict {
	c := NewDict()
	for i := range d.keys {
		c.Set(d.keys[i], d.values[i])
	}
	return c
}
