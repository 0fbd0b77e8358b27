package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"lantern/internal/lsp"
	"lantern/internal/version"
)

func newLSPCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
				WatchManifest: watch,
				Version:       version.Version,
			})
			err := server.Run(cmd.Context())
			switch {
			case err == nil, errors.Is(err, lsp.ErrExit):
				return nil
			case errors.Is(err, lsp.ErrExitWithoutShutdown):
				return errFailed
			default:
				return err
			}
		},
	}
	cmd.Flags().BoolVar(&watch, "watch-manifest", true, "reload the project when lantern.toml changes on disk")
	return cmd
}
