package testutil

import "os"

// Setenv sets an environment variable for the duration of a test, arranging
// for the old value (or absence) to be restored on cleanup. It returns value
// for easier chaining.
func Setenv(c Cleanuper, name, value string) string {
	old, existed := os.LookupEnv(name)
	if existed {
		c.Cleanup(func() { os.Setenv(name, old) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
	os.Setenv(name, value)
	return value
}
