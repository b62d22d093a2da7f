// Package iotestrun runs test plans of pkg/testrun with the Go tool and
// produces coverage reports.
// This is an impure I/O package that starts child processes.
package iotestrun

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// Runner starts child processes.
type Runner interface {
	// Run starts name with args in dir with inherited stdio and waits
	// for it. Extra env entries are added to the current environment.
	// The exit code is returned, err is not nil only if the process
	// could not run.
	Run(ctx context.Context, dir string, env []string, name string, args ...string) (int, error)

	// Output runs name with args in dir and returns its stdout.
	Output(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

// NewExecRunner creates a Runner based on os/exec.
func NewExecRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(
	ctx context.Context,
	dir string,
	env []string,
	name string,
	args ...string,
) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

func (execRunner) Output(
	ctx context.Context,
	dir string,
	name string,
	args ...string,
) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	return cmd.Output()
}
