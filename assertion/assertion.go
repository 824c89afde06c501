// Package assertion provides invariant checks for test code that fail by panicking with a
// recoverable error, rather than terminating the process.
//
// A failed check can be recovered by the test framework, which records it as a failure of the
// current test and moves on to the next one. In Go tests, use assert.PanicsWithError from
// testify to verify that a check fails:
//
//	assert.PanicsWithError(t, "Assertion failed", func() { assertion.Assert(false) })
package assertion

import (
	"errors"
	"fmt"
)

// ErrFailed is the panic value of a failed Assert. Failures raised by Assertf wrap it.
var ErrFailed = errors.New("Assertion failed")

// Assert panics with ErrFailed if cond is false.
func Assert(cond bool) {
	if !cond {
		panic(ErrFailed)
	}
}

// Assertf is like Assert, but the panic value also carries a formatted message.
func Assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Errorf("%w: %s", ErrFailed, fmt.Sprintf(format, args...)))
	}
}

// IsFailure reports whether a value obtained from recover() is an assertion failure.
func IsFailure(v interface{}) bool {
	err, ok := v.(error)
	return ok && errors.Is(err, ErrFailed)
}

// Catch runs action and returns the assertion failure it raised, if any. Panics that are not
// assertion failures are propagated unchanged.
func Catch(action func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if !IsFailure(r) {
				panic(r)
			}
			err = r.(error)
		}
	}()
	action()
	return nil
}
