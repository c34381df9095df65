// Package spawn builds and starts child processes, bundling the resources
// produced along the way with the returned handle.
package spawn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/example/childproc/internal/child"
	"github.com/example/childproc/internal/platform"
)

// Spec describes one process launch.
type Spec struct {
	// Command is the program and its arguments. It must not be empty.
	Command []string

	// Workdir is the child's working directory. Empty inherits the
	// parent's.
	Workdir string

	// Env holds variables appended to the parent's environment. Later
	// entries win on duplicate keys, per os/exec semantics.
	Env map[string]string

	// Stdout and Stderr are file paths the respective stream is appended
	// to. Empty inherits the parent's stream.
	Stdout string
	Stderr string

	// Mode selects attached or detached lifecycle handling for the
	// returned handle.
	Mode child.LaunchMode
}

// An Initializer contributes one aspect of the launch to the command before
// it starts. It may produce a resource that has to stay alive for as long
// as the process handle, in which case the resource joins the handle's
// bundle; initializers that produce nothing return nil.
type Initializer func(cmd *exec.Cmd) (io.Closer, error)

func (s Spec) initializers() []Initializer {
	return []Initializer{
		s.applyWorkdir,
		s.applyEnv,
		redirectFile(s.Stdout, func(cmd *exec.Cmd, f *os.File) { cmd.Stdout = f }),
		redirectFile(s.Stderr, func(cmd *exec.Cmd, f *os.File) { cmd.Stderr = f }),
		isolateProcessGroup,
	}
}

func (s Spec) applyWorkdir(cmd *exec.Cmd) (io.Closer, error) {
	if s.Workdir == "" {
		return nil, nil
	}
	abs, err := filepath.Abs(s.Workdir)
	if err != nil {
		return nil, fmt.Errorf("resolve workdir %s: %w", s.Workdir, err)
	}
	cmd.Dir = abs
	return nil, nil
}

func (s Spec) applyEnv(cmd *exec.Cmd) (io.Closer, error) {
	if len(s.Env) == 0 {
		return nil, nil
	}
	env := os.Environ()
	for k, v := range s.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = env
	return nil, nil
}

func redirectFile(path string, assign func(*exec.Cmd, *os.File)) Initializer {
	return func(cmd *exec.Cmd) (io.Closer, error) {
		if path == "" {
			return nil, nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open redirect target: %w", err)
		}
		assign(cmd, f)
		return f, nil
	}
}

func isolateProcessGroup(cmd *exec.Cmd) (io.Closer, error) {
	configureCmdSysProcAttr(cmd)
	return nil, nil
}

// Start launches the process described by the spec. The spec's initializers
// run in order, then any extras supplied by the caller; every resource they
// produce transfers to the returned handle's bundle and is released when
// the handle is closed. If the launch fails partway, resources produced so
// far are closed in reverse order before the error is returned.
//
// An attached launch is bound to ctx: cancelling it kills the process. A
// detached launch ignores ctx after Start returns.
func Start(ctx context.Context, spec Spec, extra ...Initializer) (*child.Child, error) {
	if len(spec.Command) == 0 {
		return nil, errors.New("spawn: empty command")
	}

	var cmd *exec.Cmd
	if spec.Mode == child.Detached {
		cmd = exec.Command(spec.Command[0], spec.Command[1:]...)
	} else {
		cmd = exec.CommandContext(ctx, spec.Command[0], spec.Command[1:]...)
	}

	inits := append(spec.initializers(), extra...)
	results := make([]io.Closer, 0, len(inits))
	for _, init := range inits {
		res, err := init(cmd)
		if err != nil {
			closeAll(results)
			return nil, err
		}
		results = append(results, res)
	}

	if err := cmd.Start(); err != nil {
		closeAll(results)
		return nil, fmt.Errorf("start %s: %w", spec.Command[0], err)
	}

	return child.New(platform.NewProc(cmd), child.NewBundle(results...), spec.Mode), nil
}

func closeAll(results []io.Closer) {
	for i := len(results) - 1; i >= 0; i-- {
		if results[i] != nil {
			_ = results[i].Close()
		}
	}
}
