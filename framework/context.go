package framework

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/launchdarkly/coverage-runner/assertion"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context represents a test or subtest. It is used similarly to *testing.T: it implements
// require.TestingT, so the assert and require packages can be used with it, and it has a Run
// method for subtests.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run executes action as the root scope of a test run and returns the accumulated results.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil && !c.skipped {
			c.failed = true
			var addError error
			switch {
			case isContext(r):
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			case assertion.IsFailure(r):
				addError = r.(error)
			default:
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		if len(c.id.Path) == 0 && !c.failed {
			return // the root scope only counts as a test if it failed outside of any subtest
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Skipped: c.skipped}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func isContext(v interface{}) bool {
	_, ok := v.(*Context)
	return ok
}

// ID returns the identifier of this test.
func (c *Context) ID() TestID {
	return c.id
}

// Failed reports whether the test has failed so far.
func (c *Context) Failed() bool {
	return c.failed
}

// Run runs a subtest. The subtest is skipped if it does not match the filter of this test run.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow stops the test immediately. The methods in the require package call it.
func (c *Context) FailNow() {
	c.failed = true
	panic(c)
}

// Skip stops the test immediately and marks it as skipped.
func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

// SkipWithReason is like Skip, but the reason is reported to the test logger.
func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug adds a message to the debug output of the test.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

// DebugLogger returns a Logger that writes to the debug output of the test.
func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
