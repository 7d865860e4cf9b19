package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "payroll-cli",
		Short:         "Payroll console operations tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRunsCmd())
	cmd.AddCommand(newExceptionsCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCode(err))
	}
}

func main() {
	Execute()
}
