//go:build windows

package platform

import "os"

// exitCode maps a reaped process state to the code callers observe. Windows
// has no signal exit distinction; the raw exit code is authoritative.
func exitCode(state *os.ProcessState) int {
	return state.ExitCode()
}
