/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"os"

	"github.com/gnames/flasky/internal/iotestrun"
	"github.com/gnames/flasky/pkg/config"
	"github.com/gnames/flasky/pkg/testrun"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getTestCmd returns the test command.
func getTestCmd() *cobra.Command {
	var coverage, noCoverage bool
	var dir string

	testCmd := &cobra.Command{
		Use:   "test [TEST_NAMES...]",
		Short: "Run the unit tests",
		Long: `Run the unit tests of the module with "go test".

Arguments that start with "." or "/", or end with "/...", select
packages. Other arguments are test names. Without arguments all tests
of all packages run.

With --coverage the command restarts itself with FLASK_COVERAGE=1 and
prints a coverage summary after the tests. An HTML report is written to
tmp/coverage/index.html. The exit status is the status of the tests.

Examples:
  flasky test
  flasky test TestDeploy TestUpgrade
  flasky test ./pkg/...
  flasky test --coverage`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(args, coverage && !noCoverage, dir)
		},
	}

	testCmd.Flags().BoolVar(&coverage, "coverage", false,
		"run tests under code coverage")
	testCmd.Flags().BoolVar(&noCoverage, "no-coverage", false,
		"run tests without code coverage (default)")
	testCmd.MarkFlagsMutuallyExclusive("coverage", "no-coverage")
	testCmd.Flags().StringVarP(&dir, "dir", "d", ".",
		"module directory where tests run")

	return testCmd
}

func runTest(names []string, coverage bool, dir string) error {
	ctx, cancel := signalContext()
	defer cancel()

	tester := iotestrun.New(iotestrun.NewExecRunner(), os.Stdout)
	env := os.Getenv(config.EnvCoverage)

	var code int
	var err error
	if testrun.NeedsReexec(coverage, env) {
		code, err = tester.Reexec(ctx, os.Args)
	} else {
		plan := testrun.NewPlan(testrun.Options{
			Names:    names,
			Coverage: testrun.IsTruthy(env),
			Dir:      dir,
		})
		code, err = tester.Run(ctx, plan)
	}

	if err != nil {
		gn.PrintErrorMessage(err)
	}
	if code != 0 {
		return exitCodeError{code: code}
	}
	return err
}
