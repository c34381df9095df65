// Package cli wires the childproc command surface.
package cli

import (
	stdcontext "context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the childproc command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "childproc",
		Short: "Launch and track operating-system child processes",
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newKillCmd())

	root.SilenceUsage = true
	root.SilenceErrors = true
	return root
}

// Execute runs the CLI entrypoint. When the child exits nonzero, the run
// command's code becomes this process's exit code.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// exitCodeError propagates a child's nonzero exit code through cobra's
// error path.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
