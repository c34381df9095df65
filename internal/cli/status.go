package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/childproc/internal/platform"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <pid>",
		Short: "Report whether a process is still running",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}

			info, err := platform.Lookup(pid)
			if err != nil {
				if errors.Is(err, platform.ErrNotRunning) {
					fmt.Fprintf(cmd.OutOrStdout(), "pid=%d running=false\n", pid)
					return nil
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "pid=%d running=%t name=%s started=%s\n",
				info.PID, info.Running, info.Name, info.StartedAt.Format("2006-01-02T15:04:05"))
			return nil
		},
	}
}

func parsePID(arg string) (int, error) {
	pid, err := strconv.Atoi(arg)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid %q", arg)
	}
	return pid, nil
}
