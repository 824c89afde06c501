package framework

type registeredTest struct {
	name   string
	action func(*Context)
}

// Suite is an ordered set of named top-level tests.
type Suite struct {
	tests []registeredTest
}

// NewSuite creates an empty Suite.
func NewSuite() *Suite {
	return &Suite{}
}

// Add registers a test. Tests run in the order they were added.
func (s *Suite) Add(name string, action func(*Context)) *Suite {
	s.tests = append(s.tests, registeredTest{name: name, action: action})
	return s
}

// Len returns the number of registered top-level tests.
func (s *Suite) Len() int {
	return len(s.tests)
}

// Run runs every registered test that the filter accepts. A nil filter accepts all tests, and a
// nil testLogger discards progress notifications.
func (s *Suite) Run(filter Filter, testLogger TestLogger) Results {
	return Run(filter, testLogger, func(c *Context) {
		for _, t := range s.tests {
			c.Run(t.name, t.action)
		}
	})
}
