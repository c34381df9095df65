//go:build windows

package platform

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// Terminate forcefully kills the process. Processes that are already gone
// are not an error.
func (p *Proc) Terminate() error {
	if !p.Valid() {
		return errors.New("terminate: invalid process handle")
	}
	return Kill(p.proc.Pid)
}

// Kill opens the pid with terminate rights and ends it. A pid that cannot
// be opened because the process is gone is not an error.
func Kill(pid int) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return nil
		}
		return fmt.Errorf("open pid %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	if err := windows.TerminateProcess(h, 1); err != nil && !errors.Is(err, windows.ERROR_ACCESS_DENIED) {
		return fmt.Errorf("terminate pid %d: %w", pid, err)
	}
	return nil
}

// Native returns a query-only HANDLE for the process. The caller owns the
// handle and must close it; 0 is returned when the process cannot be
// opened.
func (p *Proc) Native() uintptr {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(p.proc.Pid))
	if err != nil {
		return 0
	}
	return uintptr(h)
}
