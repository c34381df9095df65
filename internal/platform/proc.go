// Package platform implements the operating-system view of a spawned
// process: waiting, liveness probing, and forceful termination. It backs the
// Handle interface consumed by internal/child.
//
// Reaping is funnelled through a single goroutine per process. The operating
// system's wait primitive may only be issued once per child, so every
// observer blocks on the reaper's done channel instead of calling wait
// itself; that makes concurrent and bounded waits safe without extra
// locking.
package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Proc is the platform process handle for a command started by this
// program.
type Proc struct {
	proc *os.Process
	done chan struct{}

	// Written by the reaper before done is closed, read-only afterwards.
	code    int
	waitErr error
}

// NewProc takes over a started command. It must be called exactly once per
// command, immediately after Start; the reaper owns the command's Wait call
// from then on.
func NewProc(cmd *exec.Cmd) *Proc {
	p := &Proc{proc: cmd.Process, done: make(chan struct{})}
	go p.reap(cmd)
	return p
}

func (p *Proc) reap(cmd *exec.Cmd) {
	err := cmd.Wait()
	if state := cmd.ProcessState; state != nil {
		p.code = exitCode(state)
	} else {
		p.code = -1
		p.waitErr = fmt.Errorf("wait pid %d: %w", p.proc.Pid, err)
	}
	close(p.done)
}

// Valid reports whether the handle refers to a process.
func (p *Proc) Valid() bool {
	return p != nil && p.proc != nil
}

// PID returns the operating-system process identifier.
func (p *Proc) PID() int {
	return p.proc.Pid
}

// Running reports whether the process is still alive. Once the reaper has
// collected the exit status the answer is immediate; before that the kernel
// is asked, so a process that has exited but not yet been reaped may still
// count as running.
func (p *Proc) Running() bool {
	if !p.Valid() {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
	}
	alive, err := process.PidExists(int32(p.proc.Pid))
	return err == nil && alive
}

// Wait blocks until the reaper has collected the exit status and returns
// the exit code, or returns early with ctx.Err() when the context is done.
// A collected exit wins over a dead context, so a bounded wait never
// reports still-running for a process that finished within the bound.
func (p *Proc) Wait(ctx context.Context) (int, error) {
	select {
	case <-p.done:
		return p.code, p.waitErr
	case <-ctx.Done():
		select {
		case <-p.done:
			return p.code, p.waitErr
		default:
		}
		return 0, ctx.Err()
	}
}

// Info describes a process observed by pid, whether or not it is a child of
// this program.
type Info struct {
	PID       int
	Name      string
	Running   bool
	StartedAt time.Time
}

// ErrNotRunning reports that no process with the requested pid exists.
var ErrNotRunning = process.ErrorProcessNotRunning

// Lookup inspects an arbitrary pid. It returns ErrNotRunning when no such
// process exists.
func Lookup(pid int) (Info, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return Info{}, fmt.Errorf("lookup pid %d: %w", pid, err)
	}
	info := Info{PID: pid, Running: true}
	if name, err := proc.Name(); err == nil {
		info.Name = name
	}
	if createdMs, err := proc.CreateTime(); err == nil {
		info.StartedAt = time.UnixMilli(createdMs)
	}
	return info, nil
}

// Alive reports whether any process with the given pid exists.
func Alive(pid int) bool {
	alive, err := process.PidExists(int32(pid))
	return err == nil && alive
}
