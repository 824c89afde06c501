// Package coverrun runs a test suite and then generates a coverage report for it, as a single
// command.
//
// The source and build directories are fixed when the binary is linked:
//
//	go build -ldflags "-X github.com/launchdarkly/coverage-runner/coverrun.SourceDir=$PWD \
//	  -X github.com/launchdarkly/coverage-runner/coverrun.BuildDir=$PWD/build"
//
// A binary linked without them refuses to run any tests.
//
// A package can also drive its own tests this way from TestMain:
//
//	func TestMain(m *testing.M) {
//		os.Exit(coverrun.Main(m, coverrun.DefaultConfig()))
//	}
package coverrun

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/launchdarkly/coverage-runner/coverage"
	"github.com/launchdarkly/coverage-runner/framework"
)

// Set by the linker.
var (
	SourceDir string
	BuildDir  string
)

// ExitMisconfigured is the exit status when the runner cannot start because its configuration is
// incomplete. No tests are run in that case.
const ExitMisconfigured = 2

// TestSuite is anything that can run a set of tests and report an aggregate exit code, where 0
// means that all tests passed. *testing.M satisfies it.
type TestSuite interface {
	Run() int
}

// SuiteFunc adapts a function to the TestSuite interface.
type SuiteFunc func() int

func (f SuiteFunc) Run() int { return f() }

// Config controls Main.
type Config struct {
	SourceDir   string
	BuildDir    string
	Tool        coverage.Tool
	Stdout      io.Writer
	Stderr      io.Writer
	DebugLogger framework.Logger
}

// DefaultConfig returns a Config using the directories that were set at link time.
func DefaultConfig() Config {
	return Config{
		SourceDir: SourceDir,
		BuildDir:  BuildDir,
		Tool:      coverage.Gcovr,
	}
}

// Validate returns an error if a required setting is missing.
func (c Config) Validate() error {
	if c.SourceDir == "" {
		return errors.New("source directory is not set")
	}
	if c.BuildDir == "" {
		return errors.New("build directory is not set")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Tool == "" {
		c.Tool = coverage.Gcovr
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.DebugLogger == nil {
		c.DebugLogger = framework.NullLogger()
	}
	return c
}

// Main runs the suite, then generates the coverage report, and returns the suite's exit code.
//
// A failure to generate the report is printed to the error stream but does not change the
// result. If the configuration is invalid, Main returns ExitMisconfigured without running the
// suite.
func Main(suite TestSuite, config Config) int {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		fmt.Fprintf(config.Stderr, "coverage-runner: %s\n", err)
		return ExitMisconfigured
	}

	result := suite.Run()
	config.DebugLogger.Printf("Test suite finished with status %d", result)

	inv := coverage.Command(config.Tool, config.SourceDir, config.BuildDir)
	gen := coverage.Generator{
		Stdout: config.Stdout,
		Stderr: config.Stderr,
		Logger: config.DebugLogger,
	}
	if err := gen.Generate(inv); err != nil {
		config.DebugLogger.Printf("Coverage tool error: %s", err)
		fmt.Fprintln(config.Stderr, coverage.FailureMessage)
	}

	return result
}

// FrameworkSuite returns a TestSuite that runs a framework.Suite, prints its results, and
// reports the framework's exit code.
func FrameworkSuite(suite *framework.Suite, filters framework.RegexFilters, testLogger framework.TestLogger, output io.Writer) TestSuite {
	return SuiteFunc(func() int {
		framework.PrintFilterDescription(output, filters)
		results := suite.Run(filters.AsFilter, testLogger)
		fmt.Fprintln(output)
		framework.PrintResults(output, results)
		return results.ExitCode()
	})
}
