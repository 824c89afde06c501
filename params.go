package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/launchdarkly/coverage-runner/coverage"
	"github.com/launchdarkly/coverage-runner/coverrun"
	"github.com/launchdarkly/coverage-runner/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type commandParams struct {
	sourceDir string
	buildDir  string
	tool      coverage.Tool
	filters   framework.RegexFilters
	parallel  ldvalue.OptionalInt
	verbose   bool
	debug     bool
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	var toolName string
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.sourceDir, "src", coverrun.SourceDir, "root directory of the source tree")
	fs.StringVar(&c.buildDir, "build", coverrun.BuildDir, "directory for build output and coverage data")
	fs.StringVar(&toolName, "tool", string(coverage.GoCover), `coverage report generator ("go" or "gcovr")`)
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.Var(optionalIntFlag{&c.parallel}, "p", "number of packages to test in parallel")
	fs.BoolVar(&c.verbose, "v", false, "verbose test output")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	tool, err := coverage.ParseTool(toolName)
	if err != nil {
		fmt.Fprintln(errOut, err)
		fs.Usage()
		return false
	}
	c.tool = tool
	if c.sourceDir == "" {
		fmt.Fprintln(errOut, "-src is required")
		fs.Usage()
		return false
	}
	if c.buildDir == "" {
		fmt.Fprintln(errOut, "-build is required")
		fs.Usage()
		return false
	}
	return true
}

// goTestPattern combines repeated -run or -skip patterns into the single expression go test takes.
func goTestPattern(list framework.RegexList) string {
	return strings.Join(list.Patterns(), "|")
}

type optionalIntFlag struct {
	value *ldvalue.OptionalInt
}

func (f optionalIntFlag) String() string {
	if f.value == nil || !f.value.IsDefined() {
		return ""
	}
	return strconv.Itoa(f.value.IntValue())
}

func (f optionalIntFlag) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("expected a positive integer, got %q", s)
	}
	*f.value = ldvalue.NewOptionalInt(n)
	return nil
}
