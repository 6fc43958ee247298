package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

type Invocation struct {
	Program string
	Args    []string
	Dir     string
	// Env is added on top of the current process environment.
	Env EnvVars
}

type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Executor runs a single invocation to completion. A non-zero exit code is
// not an error; failing to start the program is, and wraps ErrSpawn.
type Executor interface {
	Execute(ctx context.Context, inv Invocation) (Output, error)
}

type ProcessExecutor struct{}

func (ProcessExecutor) Execute(ctx context.Context, inv Invocation) (Output, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), inv.Env.Slice()...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return out, nil
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	default:
		return out, fmt.Errorf("%w %q: %w", ErrSpawn, inv.Program, err)
	}
}
