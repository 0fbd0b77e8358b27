package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lantern/internal/version"
)

// errFailed reports that the command already printed its problems and only
// the exit status is left to set.
var errFailed = errors.New("failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lantern",
		Short:         "Language server and project checks for gleam-style projects",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd)
		},
	}
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().CountP("verbose", "v", "increase log verbosity (repeatable)")
	root.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(newLSPCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newFormatCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
