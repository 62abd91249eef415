//go:build windows

package shell

import (
	"os"

	"github.com/pyritelang/pyrite/pkg/eval"
)

func handleSignal(eng *eval.Engine, sig os.Signal, _ *os.File) {
	if sig == os.Interrupt {
		eng.Abort()
	}
}
