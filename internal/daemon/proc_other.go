//go:build !unix

package daemon

import (
	"os"
	"syscall"
)

func detached() *syscall.SysProcAttr {
	return nil
}

func terminate(p *os.Process) error {
	return p.Kill()
}

// alive is approximate here: FindProcess fails for exited processes on
// Windows and always succeeds elsewhere.
func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	p.Release()
	return true
}
