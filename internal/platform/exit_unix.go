//go:build !windows

package platform

import (
	"os"
	"syscall"
)

// exitCode maps a reaped process state to the code callers observe. A
// signal-terminated process reports 128+signal, matching shell convention,
// so SIGKILL surfaces as 137 rather than the -1 the runtime reports.
func exitCode(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}
