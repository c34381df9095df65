package child

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// UnknownExitCode is reported by ExitCode until the process has been
// observed to exit.
const UnknownExitCode = -1

// LaunchMode controls what Close does when the process is still running.
type LaunchMode int

const (
	// Attached means Close waits for the process to exit before releasing
	// its resource bundle.
	Attached LaunchMode = iota
	// Detached means Close releases the resource bundle immediately and
	// leaves the process running.
	Detached
)

// String returns the mode's manifest spelling.
func (m LaunchMode) String() string {
	if m == Detached {
		return "detached"
	}
	return "attached"
}

// Handle is the platform-specific view of a spawned process. Implementations
// live in internal/platform; tests substitute fakes.
//
// Wait must be safe to call from multiple goroutines at once and must not
// issue more than one wait call against the operating system, regardless of
// how many callers are blocked in it.
type Handle interface {
	// Valid reports whether the handle refers to a process.
	Valid() bool

	// PID returns the operating-system process identifier.
	PID() int

	// Native returns the raw platform identifier backing the handle: the
	// pid on unix, a process HANDLE on windows.
	Native() uintptr

	// Running reports whether the operating system still considers the
	// process alive.
	Running() bool

	// Wait blocks until the process exits and returns its exit code. When
	// the context is cancelled first, Wait returns ctx.Err() and the
	// process keeps running.
	Wait(ctx context.Context) (int, error)

	// Terminate forcefully kills the process without waiting for it to
	// finish. Terminating an already-exited process is not an error.
	Terminate() error
}

// Child is a handle on one operating-system child process. It caches the
// process's exit state once observed, owns the resources produced during
// launch, and releases both according to its LaunchMode when closed.
//
// A Child must not be copied after first use; share the pointer instead.
type Child struct {
	mu     sync.Mutex // serializes the exited transition and Close
	handle Handle
	bundle *Bundle
	mode   LaunchMode
	closed bool

	exited   atomic.Bool
	exitCode atomic.Int32
}

// New wraps a platform handle and the resources produced while launching it.
// bundle may be nil when the launch produced nothing to own.
func New(h Handle, bundle *Bundle, mode LaunchMode) *Child {
	c := &Child{handle: h, bundle: bundle, mode: mode}
	c.exitCode.Store(UnknownExitCode)
	return c
}

// Valid reports whether the handle refers to a process. It does not consult
// exit state: a handle whose process has exited but not been detached is
// still valid.
func (c *Child) Valid() bool {
	return c != nil && c.handle != nil && c.handle.Valid()
}

// Running reports whether the operating system still considers the process
// alive. It may transiently disagree with the cached exit state when the
// process exits between the last Wait and this call; callers needing
// certainty must Wait.
func (c *Child) Running() bool {
	if !c.Valid() {
		return false
	}
	return c.handle.Running()
}

// PID returns the operating-system process identifier. Only meaningful on a
// valid handle.
func (c *Child) PID() int {
	return c.handle.PID()
}

// NativeHandle returns the raw platform identifier backing the handle. Only
// meaningful on a valid handle.
func (c *Child) NativeHandle() uintptr {
	return c.handle.Native()
}

// Exited reports whether the process has been observed to exit.
func (c *Child) Exited() bool {
	return c.exited.Load()
}

// ExitCode returns the cached exit code, or UnknownExitCode until the
// process has been observed to exit. It never blocks.
func (c *Child) ExitCode() int {
	return int(c.exitCode.Load())
}

// Mode returns the launch mode the Child was constructed with.
func (c *Child) Mode() LaunchMode {
	return c.mode
}

// Wait blocks until the process exits, then records its exit code. Once the
// exit has been observed Wait returns immediately without touching the
// platform again, so repeated and concurrent calls are cheap and report the
// same code. A context cancellation or deadline unblocks the caller with
// ctx.Err() and leaves the exit state unchanged. Waiting on an invalid
// handle is an error.
func (c *Child) Wait(ctx context.Context) error {
	if c.exited.Load() {
		return nil
	}
	if !c.Valid() {
		return errors.New("wait: invalid process handle")
	}
	code, err := c.handle.Wait(ctx)
	if err != nil {
		return err
	}
	c.recordExit(code)
	return nil
}

// WaitFor waits up to d for the process to exit. It returns true once the
// exit has been observed and false when the process is still running at the
// deadline; false is not an error and leaves the exit state untouched.
func (c *Child) WaitFor(d time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return c.waitBounded(ctx)
}

// WaitUntil waits until the absolute deadline t for the process to exit,
// with the same semantics as WaitFor.
func (c *Child) WaitUntil(t time.Time) (bool, error) {
	ctx, cancel := context.WithDeadline(context.Background(), t)
	defer cancel()
	return c.waitBounded(ctx)
}

func (c *Child) waitBounded(ctx context.Context) (bool, error) {
	err := c.Wait(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, context.DeadlineExceeded):
		return false, nil
	default:
		return false, err
	}
}

// recordExit publishes the exited transition at most once. The code is
// stored before the flag so any reader that observes Exited()==true also
// observes the code.
func (c *Child) recordExit(code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exited.Load() {
		return
	}
	c.exitCode.Store(int32(code))
	c.exited.Store(true)
}

// Terminate requests forceful termination of the process. It does not block
// for completion and does not update the exit state; a subsequent Wait is
// required to observe the final exit code. Terminating an already-exited
// process is not an error.
func (c *Child) Terminate() error {
	if !c.Valid() {
		return errors.New("terminate: invalid process handle")
	}
	return c.handle.Terminate()
}

// Close releases the Child. An Attached handle whose process has not yet
// exited first waits for it, so the resources the process may depend on
// (redirect files, pipe ends) stay open until it is done; a Detached handle
// releases them immediately and leaves the process running. Close is
// idempotent.
func (c *Child) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.mode == Attached && c.Valid() && !c.exited.Load() {
		if err := c.Wait(context.Background()); err != nil {
			return errors.Join(err, c.bundle.Close())
		}
	}
	return c.bundle.Close()
}
