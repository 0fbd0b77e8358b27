package format

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Command runs an external formatter that reads text on stdin and writes the
// result to stdout. A non-zero exit is a formatting error; stderr becomes the
// message.
type Command struct {
	Argv []string
}

func (c *Command) Format(ctx context.Context, path, text string) (string, error) {
	if len(c.Argv) == 0 {
		return "", &Error{Path: path, Src: text, Message: "no formatter command configured"}
	}
	// #nosec G204 -- argv comes from the project manifest
	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	if path != "" {
		cmd.Dir = filepath.Dir(path)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", err
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", err
	}
	if err := cmd.Start(); err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		_, err := io.WriteString(stdin, text)
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
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", &Error{Path: path, Src: text, Message: msg}
	}
	if pumpErr != nil {
		return "", pumpErr
	}
	return stdout.String(), nil
}
