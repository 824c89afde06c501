package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests by matching their full names against regular expressions.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter is a Filter that accepts tests matching any MustMatch pattern (or all tests, if
// there are none) unless they also match a MustNotMatch pattern.
//
// A test whose name is a prefix of a MustMatch target is accepted too, so that the parent
// tests of a selected subtest still run.
func (r RegexFilters) AsFilter(id TestID) bool {
	name := id.String()
	if r.MustNotMatch.AnyMatch(name) {
		return false
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name) || r.MustMatch.AnyPrefixMatch(name)
}

// IsDefined is true if any pattern was specified.
func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

// RegexList is a list of regular expressions that can be populated from repeated
// command-line flags.
type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// AnyPrefixMatch is true if some pattern starts with s, quoted, followed by a path separator.
func (r RegexList) AnyPrefixMatch(s string) bool {
	quoted := regexp.QuoteMeta(s) + "/"
	for _, p := range r.patterns {
		if strings.HasPrefix(strings.TrimPrefix(p.String(), "^"), quoted) {
			return true
		}
	}
	return false
}

// Patterns returns the source text of each pattern.
func (r RegexList) Patterns() []string {
	ret := make([]string, 0, len(r.patterns))
	for _, p := range r.patterns {
		ret = append(ret, p.String())
	}
	return ret
}

// PrintFilterDescription describes to the user which tests the filters will skip.
func PrintFilterDescription(w io.Writer, filters RegexFilters) {
	if !filters.IsDefined() {
		return
	}
	fmt.Fprintln(w, "Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(w, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(w, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(w)
}
