//go:build !windows

package platform

import (
	"errors"
	"fmt"
	"syscall"
)

// Terminate forcefully kills the process. Handles are for children this
// program launched into their own process group, so the whole group is
// taken down, falling back to the direct pid. Processes that are already
// gone are not an error.
func (p *Proc) Terminate() error {
	if !p.Valid() {
		return errors.New("terminate: invalid process handle")
	}
	if err := syscall.Kill(-p.proc.Pid, syscall.SIGKILL); err == nil {
		return nil
	}
	return Kill(p.proc.Pid)
}

// Kill sends SIGKILL to a single pid. Arbitrary pids may lead process
// groups this program knows nothing about, so no group kill here. ESRCH is
// swallowed: the process being gone is the outcome the caller wanted.
func Kill(pid int) error {
	if err := syscall.Kill(pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("kill pid %d: %w", pid, err)
	}
	return nil
}

// Native returns the process identifier; unix has no handle object distinct
// from the pid.
func (p *Proc) Native() uintptr {
	return uintptr(p.proc.Pid)
}
