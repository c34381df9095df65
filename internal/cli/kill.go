package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/childproc/internal/platform"
)

func newKillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill <pid>",
		Short: "Forcefully terminate a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			if err := platform.Kill(pid); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "killed pid=%d\n", pid)
			return nil
		},
	}
}
