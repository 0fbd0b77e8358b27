package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lantern/internal/diag"
	"lantern/internal/format"
	"lantern/internal/project"
	"lantern/internal/vfs"
)

type formatResult struct {
	path    string
	changed bool
	output  string
	problem *diag.Diagnostic
}

func newFormatCmd() *cobra.Command {
	var check, toStdout bool
	cmd := &cobra.Command{
		Use:   "format [flags] <file> [file...]",
		Short: "Format source files in place",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if check && toStdout {
				return fmt.Errorf("format: --stdout cannot be used with --check")
			}
			results := make([]formatResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(runtime.GOMAXPROCS(0))
			for i, path := range args {
				g.Go(func() error {
					results[i] = formatFile(ctx, path)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			var problems []diag.Diagnostic
			unformatted := 0
			out := cmd.OutOrStdout()
			for _, res := range results {
				switch {
				case res.problem != nil:
					problems = append(problems, *res.problem)
				case toStdout:
					fmt.Fprint(out, res.output)
				case !res.changed:
					// already formatted
				case check:
					fmt.Fprintln(out, res.path)
					unformatted++
				default:
					if err := writeFormatted(res.path, res.output); err != nil {
						problems = append(problems, diag.FromError(err))
					}
				}
			}
			if len(problems) > 0 {
				if err := report(cmd, cmd.ErrOrStderr(), problems, "pretty", ""); err != nil {
					return err
				}
			}
			if len(problems) > 0 || unformatted > 0 {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "list files that are not formatted instead of rewriting them")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print formatted code instead of rewriting files")
	return cmd
}

func formatFile(ctx context.Context, path string) formatResult {
	res := formatResult{path: path}
	fail := func(err error) formatResult {
		d := diag.FromError(err)
		res.problem = &d
		return res
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fail(err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return fail(&vfs.ReadError{Path: abs, Err: err})
	}
	// A file outside any project formats with the built-in layout.
	cfg, _, err := project.LoadProject(filepath.Dir(abs))
	if err != nil {
		return fail(err)
	}
	text := string(data)
	out, err := format.ForConfig(cfg).Format(ctx, abs, text)
	if err != nil {
		return fail(err)
	}
	res.output = out
	res.changed = out != text
	return res
}

func writeFormatted(path, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), info.Mode().Perm())
}
