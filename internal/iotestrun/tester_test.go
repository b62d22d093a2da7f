package iotestrun_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/flasky/internal/iotestrun"
	"github.com/gnames/flasky/pkg/testrun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	env  []string
	name string
	args []string
}

type fakeRunner struct {
	calls    []call
	testCode int
	noData   bool
	runErr   error
}

func (f *fakeRunner) Run(
	_ context.Context,
	dir string,
	env []string,
	name string,
	args ...string,
) (int, error) {
	f.calls = append(f.calls, call{dir: dir, env: env, name: name, args: args})
	if f.runErr != nil {
		return -1, f.runErr
	}

	if len(args) > 0 && args[0] == "test" {
		for _, v := range args {
			path, ok := strings.CutPrefix(v, "-coverprofile=")
			if ok && !f.noData {
				_ = os.WriteFile(path, []byte("mode: atomic\n"), 0644)
			}
		}
		return f.testCode, nil
	}

	for i, v := range args {
		if v == "-o" {
			_ = os.WriteFile(args[i+1], []byte("<html></html>"), 0644)
		}
	}
	return 0, nil
}

func (f *fakeRunner) Output(
	_ context.Context,
	dir string,
	name string,
	args ...string,
) ([]byte, error) {
	f.calls = append(f.calls, call{dir: dir, name: name, args: args})
	return []byte("total:\t(statements)\t87.5%\n"), nil
}

func TestRunWithoutCoverage(t *testing.T) {
	assert := assert.New(t)
	r := &fakeRunner{testCode: 1}
	var out bytes.Buffer
	tester := iotestrun.New(r, &out)

	plan := testrun.NewPlan(testrun.Options{Names: []string{"TestDeploy"}, Dir: t.TempDir()})
	code, err := tester.Run(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(1, code)

	require.Len(t, r.calls, 1)
	assert.Equal("go", r.calls[0].name)
	assert.Equal([]string{"test", "-v", "-run", "^TestDeploy$", "./..."}, r.calls[0].args)
	assert.Empty(out.String())
}

func TestRunWithCoverage(t *testing.T) {
	for _, code := range []int{0, 1} {
		assert := assert.New(t)
		r := &fakeRunner{testCode: code}
		var out bytes.Buffer
		tester := iotestrun.New(r, &out)

		dir := t.TempDir()
		plan := testrun.NewPlan(testrun.Options{Coverage: true, Dir: dir})
		res, err := tester.Run(context.Background(), plan)
		require.NoError(t, err)
		assert.Equal(code, res)

		require.Len(t, r.calls, 3)
		assert.Contains(r.calls[0].args, "-covermode=atomic")
		assert.Equal(plan.SummaryArgs(), r.calls[1].args)
		assert.Equal(plan.HTMLArgs(), r.calls[2].args)

		assert.Contains(out.String(), "Coverage Summary:\ntotal:")
		assert.Contains(out.String(), "HTML version: file://"+filepath.Join(dir, testrun.CoverageDir)+"/index.html")

		assert.FileExists(plan.HTMLPath())
		assert.NoFileExists(plan.ProfilePath())
	}
}

func TestRunNoCoverageData(t *testing.T) {
	r := &fakeRunner{testCode: 2, noData: true}
	var out bytes.Buffer
	tester := iotestrun.New(r, &out)

	plan := testrun.NewPlan(testrun.Options{Coverage: true, Dir: t.TempDir()})
	code, err := tester.Run(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, 2, code)
	assert.Len(t, r.calls, 1)
	assert.NotContains(t, out.String(), "Coverage Summary:")
}

func TestRunError(t *testing.T) {
	r := &fakeRunner{runErr: errors.New("executable file not found")}
	tester := iotestrun.New(r, &bytes.Buffer{})

	plan := testrun.NewPlan(testrun.Options{Dir: t.TempDir()})
	code, err := tester.Run(context.Background(), plan)
	assert.Error(t, err)
	assert.Equal(t, 1, code)
}

func TestReexec(t *testing.T) {
	assert := assert.New(t)
	r := &fakeRunner{testCode: 0}
	tester := iotestrun.New(r, &bytes.Buffer{})

	code, err := tester.Reexec(context.Background(),
		[]string{"/usr/bin/flasky", "test", "--coverage", "TestX"})
	require.NoError(t, err)
	assert.Equal(0, code)

	require.Len(t, r.calls, 1)
	c := r.calls[0]
	assert.Equal("/usr/bin/flasky", c.name)
	assert.Equal([]string{"test", "--coverage", "TestX"}, c.args)
	assert.Equal([]string{"FLASK_COVERAGE=1"}, c.env)

	_, err = tester.Reexec(context.Background(), nil)
	assert.Error(err)
}

func TestExecRunner(t *testing.T) {
	r := iotestrun.NewExecRunner()
	exe, err := os.Executable()
	require.NoError(t, err)

	code, err := r.Run(context.Background(), "", nil, exe, "-test.run=^$")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	_, err = r.Run(context.Background(), "", nil, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
