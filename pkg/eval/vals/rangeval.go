package vals

// Range is the lazy integer sequence produced by range(). Step is never
// zero.
type Range struct {
	Start, Stop, Step int
}

// Len returns the number of integers in the range.
func (r Range) Len() int {
	if r.Step > 0 {
		if r.Stop <= r.Start {
			return 0
		}
		return (r.Stop - r.Start + r.Step - 1) / r.Step
	}
	if r.Stop >= r.Start {
		return 0
	}
	return (r.Start - r.Stop - r.Step - 1) / -r.Step
}

// At returns the i-th integer. i must be in [0, Len()).
func (r Range) At(i int) int {
	return r.Start + i*r.Step
}
