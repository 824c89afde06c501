// Package coverage builds and runs the command that turns the coverage data of a test run into
// an HTML report.
package coverage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/launchdarkly/coverage-runner/framework"

	"github.com/alessio/shellescape"
)

const (
	// ReportFilename is the name of the HTML report written to the working directory.
	ReportFilename = "coverage.html"

	// ProfileFilename is the name of the Go coverage profile inside the build directory.
	ProfileFilename = "coverage.out"

	// FailureMessage is printed when the report generator does not complete successfully.
	FailureMessage = "Coverage generation failed!"
)

// Tool selects the report generator.
type Tool string

const (
	// Gcovr produces an HTML summary plus per-file detail pages from gcov data.
	Gcovr Tool = "gcovr"

	// GoCover produces an HTML report from a Go coverage profile.
	GoCover Tool = "go"
)

// ParseTool converts a tool name as given on the command line.
func ParseTool(name string) (Tool, error) {
	switch Tool(name) {
	case Gcovr, GoCover:
		return Tool(name), nil
	case "":
		return Gcovr, nil
	}
	return "", fmt.Errorf("unknown coverage tool %q (expected %q or %q)", name, GoCover, Gcovr)
}

// Invocation is a command to execute, as an argument list.
type Invocation struct {
	Name string
	Args []string
	Dir  string
}

// String renders the invocation as a shell command line, for display only.
func (inv Invocation) String() string {
	var b commandBuilder
	b.add(inv.Name)
	b.add(inv.Args...)
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// Command builds the report generator invocation for the given source and build directories.
// The report is always written to ReportFilename in the current working directory.
func Command(tool Tool, sourceDir, buildDir string) Invocation {
	switch tool {
	case GoCover:
		output := ReportFilename
		if wd, err := os.Getwd(); err == nil {
			output = filepath.Join(wd, ReportFilename)
		}
		return Invocation{
			Name: "go",
			Args: []string{
				"tool", "cover",
				"-html=" + filepath.Join(buildDir, ProfileFilename),
				"-o", output,
			},
			Dir: sourceDir,
		}
	default:
		return Invocation{
			Name: string(Gcovr),
			Args: []string{
				"-r", sourceDir,
				"-d", buildDir,
				"--html", "--html-details",
				"-o", ReportFilename,
				"-v",
			},
		}
	}
}

// Generator runs report generator invocations.
type Generator struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger framework.Logger
}

// ExitError is returned by Generate when the tool ran but exited with a non-zero status.
type ExitError struct {
	Invocation Invocation
	Status     int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Invocation.Name, e.Status)
}

// Generate runs the invocation and waits for it to exit. There is no timeout. It returns an
// *ExitError if the tool exited with a non-zero status, or another error if it could not be
// started at all.
func (g Generator) Generate(inv Invocation) error {
	if g.Logger != nil {
		g.Logger.Printf("Generating coverage report: %s", inv)
	}
	cmd := exec.Command(inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = g.Stdout
	cmd.Stderr = g.Stderr
	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Invocation: inv, Status: exitErr.ExitCode()}
	}
	return fmt.Errorf("could not run %s: %w", inv.Name, err)
}
