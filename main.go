package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/launchdarkly/coverage-runner/coverage"
	"github.com/launchdarkly/coverage-runner/coverrun"
	"github.com/launchdarkly/coverage-runner/framework"
	"github.com/launchdarkly/coverage-runner/gotest"

	"github.com/fatih/color"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args, os.Stderr) {
		return coverrun.ExitMisconfigured
	}
	errorOutput := color.New(color.FgRed)

	debugLogger := framework.NullLogger()
	if params.debug {
		debugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	packages, err := gotest.Discover(params.sourceDir)
	if err != nil {
		errorOutput.Fprintf(os.Stderr, "Package discovery error: %s\n", err)
		return 1
	}
	if err := os.MkdirAll(params.buildDir, 0755); err != nil {
		errorOutput.Fprintf(os.Stderr, "Could not create build directory: %s\n", err)
		return 1
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)
	fmt.Printf("Running tests in %d package(s)\n", len(packages))

	runner := gotest.Runner{
		Options: gotest.Options{
			Dir:           params.sourceDir,
			ProfilePath:   filepath.Join(params.buildDir, coverage.ProfileFilename),
			Packages:      packages,
			CoverPackages: packages,
			Run:           goTestPattern(params.filters.MustMatch),
			Skip:          goTestPattern(params.filters.MustNotMatch),
			Parallel:      params.parallel,
			Verbose:       params.verbose,
		},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: debugLogger,
	}

	result := coverrun.Main(runner, coverrun.Config{
		SourceDir:   params.sourceDir,
		BuildDir:    params.buildDir,
		Tool:        params.tool,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		DebugLogger: debugLogger,
	})

	fmt.Println()
	if result != 0 {
		errorOutput.Printf("Tests failed (status %d)\n", result)
	}
	return result
}
