package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	failedColor  = color.New(color.FgRed, color.Bold)
	skippedColor = color.New(color.FgYellow)
	passedColor  = color.New(color.FgGreen, color.Bold)
)

// ConsoleTestLogger is a TestLogger that writes human-readable progress to Output.
type ConsoleTestLogger struct {
	Output               io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id TestID) {
	fmt.Fprintf(c.Output, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Output, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	if failed {
		failedColor.Fprintf(c.Output, "  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Output, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id TestID, reason string) {
	if reason == "" {
		skippedColor.Fprintf(c.Output, "  SKIPPED: %s\n", id)
	} else {
		skippedColor.Fprintf(c.Output, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

// PrintResults writes a summary of a test run.
func PrintResults(w io.Writer, results Results) {
	if results.OK() {
		passedColor.Fprintf(w, "All tests passed (%d run)\n", len(results.Tests))
		return
	}
	failedColor.Fprintf(w, "FAILED TESTS (%d of %d):\n", len(results.Failures), len(results.Tests))
	for _, f := range results.Failures {
		fmt.Fprintf(w, "  * %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}
