package sys

import "runtime"

// DumpStack returns the stack traces of all goroutines, growing the buffer
// until the whole dump fits.
func DumpStack() string {
	buf := make([]byte, 16*1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, 2*len(buf))
	}
}
