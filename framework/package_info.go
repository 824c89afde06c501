// Package framework contains a small test framework for suites that run outside of go test,
// such as a coverage runner binary that links the code under test.
//
// The general model is:
//
// 1. Tests are registered by name in a Suite, and run sequentially in registration order.
//
// 2. Each test receives a Context, which is similar to Go's *testing.T: it can be passed to the
// assert and require packages, has a Run method for subtests, and accumulates success/failure
// results.
//
// 3. A failed check from the assertion package fails only the test that raised it. The run
// continues with the next test, and the Results of the whole run determine the exit code.
package framework
