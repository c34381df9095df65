package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/childproc/internal/child"
	"github.com/example/childproc/internal/cliutil"
	"github.com/example/childproc/internal/config"
	"github.com/example/childproc/internal/metrics"
	"github.com/example/childproc/internal/spawn"
)

type runOptions struct {
	manifestPath string
	detach       bool
	timeout      time.Duration
	workdir      string
	env          []string
	stdoutPath   string
	stderrPath   string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [flags] [-f launch.yaml] [-- command args...]",
		Short: "Spawn a child process and wait for it to exit",
		Long: `Run spawns a child process and waits for it to exit, propagating the
child's exit code. With --detach the process is left running and its pid is
printed instead. A launch manifest supplies defaults; flags and a trailing
command override it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, timeout, err := buildSpec(opts, args)
			if err != nil {
				return err
			}
			return runLaunch(cmd, spec, timeout)
		},
	}

	cmd.Flags().StringVarP(&opts.manifestPath, "file", "f", "", "Path to a launch manifest")
	cmd.Flags().BoolVar(&opts.detach, "detach", false, "Start the process and leave it running")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Terminate the process if it outlives this duration")
	cmd.Flags().StringVar(&opts.workdir, "workdir", "", "Working directory for the child")
	cmd.Flags().StringArrayVar(&opts.env, "env", nil, "Environment override as KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&opts.stdoutPath, "stdout", "", "Append the child's stdout to this file")
	cmd.Flags().StringVar(&opts.stderrPath, "stderr", "", "Append the child's stderr to this file")

	return cmd
}

func buildSpec(opts *runOptions, args []string) (spawn.Spec, time.Duration, error) {
	spec := spawn.Spec{}
	timeout := opts.timeout

	if opts.manifestPath != "" {
		doc, err := config.Load(opts.manifestPath)
		if err != nil {
			return spawn.Spec{}, 0, err
		}
		spec.Command = doc.Command
		spec.Workdir = doc.Workdir
		spec.Env = doc.Env
		spec.Stdout = doc.Stdout
		spec.Stderr = doc.Stderr
		if doc.Detach {
			spec.Mode = child.Detached
		}
		if timeout == 0 {
			timeout = doc.Timeout.Duration
		}
	}

	if len(args) > 0 {
		spec.Command = args
	}
	if opts.workdir != "" {
		spec.Workdir = opts.workdir
	}
	if opts.stdoutPath != "" {
		spec.Stdout = opts.stdoutPath
	}
	if opts.stderrPath != "" {
		spec.Stderr = opts.stderrPath
	}
	if opts.detach {
		spec.Mode = child.Detached
	}

	for _, pair := range opts.env {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return spawn.Spec{}, 0, fmt.Errorf("invalid --env value %q, want KEY=VALUE", pair)
		}
		if spec.Env == nil {
			spec.Env = make(map[string]string)
		}
		spec.Env[key] = value
	}

	if len(spec.Command) == 0 {
		return spawn.Spec{}, 0, errors.New("no command: supply one after -- or in the manifest")
	}
	if spec.Mode == child.Detached && timeout != 0 {
		return spawn.Spec{}, 0, errors.New("--timeout cannot be combined with --detach")
	}
	return spec, timeout, nil
}

func runLaunch(cmd *cobra.Command, spec spawn.Spec, timeout time.Duration) error {
	logger := cliutil.NewLogger(cmd.ErrOrStderr(), cmd.ErrOrStderr())

	start := time.Now()
	c, err := spawn.Start(cmd.Context(), spec)
	if err != nil {
		return err
	}
	metrics.IncSpawn(spec.Mode.String())
	logger.Info(c.PID(), fmt.Sprintf("started %s", strings.Join(spec.Command, " ")))

	if spec.Mode == child.Detached {
		// The pid is the contract with scripts; keep stdout clean for it.
		fmt.Fprintln(cmd.OutOrStdout(), c.PID())
		return c.Close()
	}
	defer c.Close()

	if timeout > 0 {
		done, err := c.WaitFor(timeout)
		if err != nil {
			return err
		}
		if !done {
			logger.Error(c.PID(), fmt.Sprintf("still running after %s, terminating", timeout))
			if err := c.Terminate(); err != nil {
				return err
			}
		}
	}

	if err := c.Wait(cmd.Context()); err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted while waiting for pid %d: %w", c.PID(), err)
		}
		return err
	}

	code := c.ExitCode()
	metrics.ObserveExit(code, time.Since(start))
	logger.Info(c.PID(), fmt.Sprintf("exited with code %d", code))
	if code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}
