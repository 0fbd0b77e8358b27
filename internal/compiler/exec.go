package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"lantern/internal/project"
)

// ExecBackend runs an external compiler process per compile.
type ExecBackend struct {
	Command []string
	// Env is appended to the inherited environment.
	Env []string
}

// BackendFor returns the backend configured by cfg, or nil when the manifest
// names no compiler.
func BackendFor(cfg *project.Config) Backend {
	if cfg == nil || len(cfg.Compiler.Command) == 0 {
		return nil
	}
	return &ExecBackend{Command: cfg.Compiler.Command}
}

// Compile implements Backend.
func (b *ExecBackend) Compile(ctx context.Context, req Request) (*Output, error) {
	if len(b.Command) == 0 {
		return nil, errors.New("compiler: empty command")
	}
	files, texts, err := collectFiles(req.Config, req.Files)
	if err != nil {
		return nil, err
	}

	payload, err := msgpack.Marshal(&wireRequest{
		Schema:       wireSchemaVersion,
		Root:         req.Config.Root,
		Name:         req.Config.Name,
		Dependencies: req.Config.Dependencies,
		Files:        files,
	})
	if err != nil {
		return nil, fmt.Errorf("compiler: encode request: %w", err)
	}

	stdout, stderr, runErr := b.run(ctx, req.Config.Root, payload)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	var resp wireResponse
	if err := msgpack.Unmarshal(stdout, &resp); err != nil {
		if runErr != nil {
			return nil, processFailure(b.Command, runErr, stderr)
		}
		return nil, fmt.Errorf("compiler: decode response: %w", err)
	}
	if resp.Schema != wireSchemaVersion {
		return nil, fmt.Errorf("compiler: unsupported response schema %d", resp.Schema)
	}
	resp.canonicalize()

	out := &Output{Importable: resp.Importable}
	for i := range resp.Modules {
		m := &resp.Modules[i]
		src, _ := sourceFor(m.Path, texts, req.Files)
		out.Modules = append(out.Modules, m.snapshot(src))
	}
	for i := range resp.Warnings {
		w := &resp.Warnings[i]
		src, _ := sourceFor(w.Path, texts, req.Files)
		decoded, err := w.warning(src)
		if err != nil {
			log.Warningf("%v", err)
			continue
		}
		if req.Warnings != nil {
			req.Warnings.Emit(decoded)
		}
	}

	if resp.Error != nil {
		src, ok := sourceFor(resp.Error.Path, texts, req.Files)
		return out, resp.Error.compileError(src, ok)
	}
	if runErr != nil {
		return out, processFailure(b.Command, runErr, stderr)
	}
	return out, nil
}

// run starts the process, feeds it payload and collects both output streams.
func (b *ExecBackend) run(ctx context.Context, dir string, payload []byte) ([]byte, []byte, error) {
	// #nosec G204 -- the command comes from the project manifest
	cmd := exec.CommandContext(ctx, b.Command[0], b.Command[1:]...)
	cmd.Dir = dir
	if len(b.Env) > 0 {
		cmd.Env = append(cmd.Environ(), b.Env...)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, err
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		_, err := stdin.Write(payload)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})
	pumpErr := g.Wait()
	waitErr := cmd.Wait()
	if waitErr != nil {
		return stdout.Bytes(), stderr.Bytes(), waitErr
	}
	return stdout.Bytes(), stderr.Bytes(), pumpErr
}

func processFailure(command []string, err error, stderr []byte) *Error {
	text := fmt.Sprintf("The compiler command `%s` failed: %v", strings.Join(command, " "), err)
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		text += "\n\n" + msg
	}
	return failure("Compiler failure", text)
}

var _ Backend = (*ExecBackend)(nil)

