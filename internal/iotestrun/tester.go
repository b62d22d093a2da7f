package iotestrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/flasky/pkg/config"
	"github.com/gnames/flasky/pkg/testrun"
	"github.com/gnames/gn"
)

// GoTool is the name of the Go command.
const GoTool = "go"

// Tester runs the test suite of a module.
type Tester struct {
	runner Runner
	out    io.Writer
}

// New creates a Tester that prints coverage reports to out.
func New(r Runner, out io.Writer) *Tester {
	return &Tester{runner: r, out: out}
}

// Reexec runs the original command line again with coverage enabled in
// the environment and returns the child's exit code.
func (t *Tester) Reexec(ctx context.Context, args []string) (int, error) {
	if len(args) == 0 {
		return 1, RunError("", errors.New("empty command line"))
	}
	slog.Info("Restarting with coverage", "command", args)

	env := []string{config.EnvCoverage + "=1"}
	code, err := t.runner.Run(ctx, "", env, args[0], args[1:]...)
	if err != nil {
		return 1, RunError(args[0], err)
	}
	return code, nil
}

// Run executes the plan and returns the exit code of the test run. With
// coverage active, the report is generated whether the tests pass or
// not, and the raw coverage data is erased afterwards.
func (t *Tester) Run(ctx context.Context, plan testrun.Plan) (int, error) {
	// coverage paths must not depend on the working directory of go test
	if abs, err := filepath.Abs(plan.Dir); err == nil {
		plan.Dir = abs
	}
	if plan.Coverage {
		if err := os.MkdirAll(plan.ReportDir(), 0755); err != nil {
			return 1, CoverageError(plan.ReportDir(), err)
		}
	}

	args := plan.TestArgs()
	slog.Info("Running tests", "dir", plan.Dir, "args", args)
	code, err := t.runner.Run(ctx, plan.Dir, nil, GoTool, args...)
	if err != nil {
		return 1, RunError(GoTool, err)
	}

	if !plan.Coverage {
		return code, nil
	}

	return code, t.report(ctx, plan)
}

func (t *Tester) report(ctx context.Context, plan testrun.Plan) error {
	if _, err := os.Stat(plan.ProfilePath()); errors.Is(err, fs.ErrNotExist) {
		gn.Warn("No coverage data was produced")
		return nil
	}
	defer func() {
		if err := os.Remove(plan.ProfilePath()); err != nil {
			slog.Warn("Cannot erase coverage data",
				"path", plan.ProfilePath(), "error", err)
		}
	}()

	summary, err := t.runner.Output(ctx, plan.Dir, GoTool, plan.SummaryArgs()...)
	if err != nil {
		return CoverageError(plan.ProfilePath(), err)
	}
	fmt.Fprintln(t.out, "Coverage Summary:")
	fmt.Fprint(t.out, string(summary))

	code, err := t.runner.Run(ctx, plan.Dir, nil, GoTool, plan.HTMLArgs()...)
	if err == nil && code != 0 {
		err = fmt.Errorf("go tool cover exited with %d", code)
	}
	if err != nil {
		return CoverageError(plan.HTMLPath(), err)
	}

	fmt.Fprintf(t.out, "HTML version: file://%s/%s\n",
		plan.ReportDir(), testrun.HTMLFile)
	return nil
}
