// Package gotest runs go test as a subprocess, writing a coverage profile that the coverage
// package can turn into a report.
package gotest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/launchdarkly/coverage-runner/framework"

	"github.com/alessio/shellescape"
	"golang.org/x/tools/go/packages"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Discover returns the import paths of the packages in the module tree rooted at dir.
func Discover(dir string) ([]string, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("could not list packages in %s: %w", dir, err)
	}
	var ret []string
	for _, p := range pkgs {
		if len(p.Errors) > 0 && p.PkgPath == "" {
			continue
		}
		ret = append(ret, p.PkgPath)
	}
	return ret, nil
}

// Options describes a go test invocation.
type Options struct {
	Dir           string
	ProfilePath   string
	Packages      []string
	CoverPackages []string
	Run           string
	Skip          string
	Parallel      ldvalue.OptionalInt
	Verbose       bool
}

// Args returns the go command arguments for these options.
func (o Options) Args() []string {
	args := []string{"test"}
	if o.ProfilePath != "" {
		args = append(args, "-coverprofile="+o.ProfilePath)
	}
	if len(o.CoverPackages) > 0 {
		args = append(args, "-coverpkg="+strings.Join(o.CoverPackages, ","))
	}
	if o.Run != "" {
		args = append(args, "-run="+o.Run)
	}
	if o.Skip != "" {
		args = append(args, "-skip="+o.Skip)
	}
	if o.Parallel.IsDefined() {
		args = append(args, "-p="+strconv.Itoa(o.Parallel.IntValue()))
	}
	if o.Verbose {
		args = append(args, "-v")
	}
	return append(args, o.Packages...)
}

// Runner runs go test. It implements coverrun.TestSuite.
type Runner struct {
	Options Options
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  framework.Logger
}

// Run runs go test and returns its exit status. If there are no packages to test, it returns 0
// without running anything. If go cannot be started, it returns 1.
func (r Runner) Run() int {
	logger := r.Logger
	if logger == nil {
		logger = framework.NullLogger()
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	if len(r.Options.Packages) == 0 {
		logger.Printf("No packages to test")
		return 0
	}

	args := r.Options.Args()
	logger.Printf("Running tests: go %s", shellescape.QuoteCommand(args))
	cmd := exec.Command("go", args...)
	cmd.Dir = r.Options.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	fmt.Fprintf(stderr, "could not run go test: %s\n", err)
	return 1
}
