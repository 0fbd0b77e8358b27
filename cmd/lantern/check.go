package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"lantern/internal/diag"
	"lantern/internal/diagfmt"
	"lantern/internal/langserver"
	"lantern/internal/project"
)

var log = commonlog.GetLogger("lantern.cli")

func newCheckCmd() *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Compile the project once and print its diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			cfg, ok, err := project.LoadProject(dir)
			if err != nil {
				if rerr := report(cmd, cmd.OutOrStdout(), []diag.Diagnostic{diag.FromError(err)}, outputFormat, ""); rerr != nil {
					return rerr
				}
				return errFailed
			}
			if !ok {
				return fmt.Errorf("no %s found in %s or its parents", project.ManifestName, dir)
			}
			if len(cfg.Compiler.Command) == 0 {
				log.Warningf("%s sets no [compiler] command; nothing to check", project.ManifestName)
			}

			core := langserver.New(langserver.Options{Config: cfg})
			fb := core.CompilePlease(cmd.Context())
			if err := report(cmd, cmd.OutOrStdout(), fb.Diagnostics, outputFormat, cfg.Root); err != nil {
				return err
			}
			if fb.HasErrors() {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outputFormat, "format", "pretty", "output format (pretty|json)")
	return cmd
}

// report writes diagnostics in the requested format. Pretty output goes
// through the --color setting of the destination.
func report(cmd *cobra.Command, w io.Writer, diags []diag.Diagnostic, outputFormat, baseDir string) error {
	switch strings.ToLower(outputFormat) {
	case "json":
		return diagfmt.JSON(w, diags, diagfmt.JSONOpts{IncludePositions: true, BaseDir: baseDir})
	case "pretty", "":
		if len(diags) == 0 {
			return nil
		}
		f, _ := w.(*os.File)
		on := false
		if f != nil {
			var err error
			if on, err = useColor(cmd, f); err != nil {
				return err
			}
		}
		return diagfmt.Pretty(w, diags, diagfmt.PrettyOpts{Color: on, Context: 1, BaseDir: baseDir})
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", outputFormat)
	}
}
