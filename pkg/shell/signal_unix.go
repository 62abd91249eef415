//go:build unix

package shell

import (
	"fmt"
	"os"
	"syscall"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/sys"
)

func handleSignal(eng *eval.Engine, sig os.Signal, stderr *os.File) {
	switch sig {
	case syscall.SIGINT:
		eng.Abort()
	case syscall.SIGUSR1:
		fmt.Fprint(stderr, sys.DumpStack())
	}
}
