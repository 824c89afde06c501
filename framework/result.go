package framework

import "strings"

// Results is the outcome of a test run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

// TestResult is the outcome of a single test.
type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

// OK is true if no test failed.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// ExitCode returns the process exit status for these results: 0 if every test passed, 1
// otherwise. This is the same convention as go test.
func (r Results) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}

// TestID identifies a test by the names of its enclosing tests and its own name.
type TestID struct {
	Path []string
}

// Plus returns the ID of a subtest with the given name.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}
