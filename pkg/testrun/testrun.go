// Package testrun plans invocations of the Go test tool for the
// "flasky test" command. It has no I/O; running the plan is done by
// internal/iotestrun.
package testrun

import (
	"path/filepath"
	"strings"
)

const (
	// CoverageDir is the directory of the coverage report, relative to
	// the module root.
	CoverageDir = "tmp/coverage"

	// ProfileFile is the raw coverage data file, erased after the report
	// is generated.
	ProfileFile = "coverage.out"

	// HTMLFile is the entry point of the HTML report.
	HTMLFile = "index.html"

	// AllPackages is the package pattern used when no packages are named.
	AllPackages = "./..."
)

// Options describe a test run.
type Options struct {
	// Names are test names or package patterns given on the command line.
	Names []string

	// Coverage is true if coverage is active for this process.
	Coverage bool

	// Dir is the module root where tests run.
	Dir string
}

// Plan is a resolved test run.
type Plan struct {
	Dir      string
	Packages []string
	Run      string
	Coverage bool
}

// IsTruthy interprets the value of a boolean environment flag.
// Any non-empty value enables the flag except "0", "false", "no"
// and "off".
func IsTruthy(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

// NeedsReexec reports whether the command has to re-run itself with
// coverage enabled: coverage was requested, but the coverage flag is not
// active in the environment yet.
func NeedsReexec(requested bool, envValue string) bool {
	return requested && !IsTruthy(envValue)
}

// IsPackagePattern distinguishes package patterns from test names.
func IsPackagePattern(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasPrefix(name, "/") ||
		strings.HasSuffix(name, "/...")
}

// NewPlan resolves options into a Plan.
func NewPlan(opts Options) Plan {
	res := Plan{Dir: opts.Dir, Coverage: opts.Coverage}
	var tests []string
	for _, v := range opts.Names {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if IsPackagePattern(v) {
			res.Packages = append(res.Packages, v)
			continue
		}
		tests = append(tests, v)
	}
	if len(res.Packages) == 0 {
		res.Packages = []string{AllPackages}
	}

	switch len(tests) {
	case 0:
	case 1:
		res.Run = "^" + tests[0] + "$"
	default:
		res.Run = "^(" + strings.Join(tests, "|") + ")$"
	}
	return res
}

// ReportDir is the directory of the HTML report.
func (p Plan) ReportDir() string {
	return filepath.Join(p.Dir, CoverageDir)
}

// ProfilePath is the location of raw coverage data.
func (p Plan) ProfilePath() string {
	return filepath.Join(p.ReportDir(), ProfileFile)
}

// HTMLPath is the location of the HTML report.
func (p Plan) HTMLPath() string {
	return filepath.Join(p.ReportDir(), HTMLFile)
}

// TestArgs are arguments of "go" that run the test suite verbosely.
func (p Plan) TestArgs() []string {
	res := []string{"test", "-v"}
	if p.Run != "" {
		res = append(res, "-run", p.Run)
	}
	if p.Coverage {
		res = append(res,
			"-covermode=atomic",
			"-coverpkg="+AllPackages,
			"-coverprofile="+p.ProfilePath(),
		)
	}
	return append(res, p.Packages...)
}

// SummaryArgs are arguments of "go" that print per-function coverage.
func (p Plan) SummaryArgs() []string {
	return []string{"tool", "cover", "-func=" + p.ProfilePath()}
}

// HTMLArgs are arguments of "go" that write the HTML report.
func (p Plan) HTMLArgs() []string {
	return []string{
		"tool", "cover",
		"-html=" + p.ProfilePath(),
		"-o", p.HTMLPath(),
	}
}
