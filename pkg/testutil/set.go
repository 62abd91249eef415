package testutil

// Set overrides the value pointed to by p for the duration of a test,
// restoring the original value on cleanup.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}
