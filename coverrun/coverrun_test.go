package coverrun

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/launchdarkly/coverage-runner/assertion"
	"github.com/launchdarkly/coverage-runner/coverage"
	"github.com/launchdarkly/coverage-runner/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	logFile string
}

// installFakeGcovr puts a gcovr script at the front of PATH that records each invocation and
// exits with the given status.
func installFakeGcovr(t *testing.T, status int) *fakeTool {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "invocations.log")
	script := fmt.Sprintf("#!/bin/sh\necho \"$*\" >> %q\nexit %d\n", logFile, status)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "gcovr"), []byte(script), 0700))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return &fakeTool{logFile: logFile}
}

func (f *fakeTool) invocations(t *testing.T) []string {
	data, err := ioutil.ReadFile(f.logFile)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func testConfig(stderr *bytes.Buffer) Config {
	return Config{
		SourceDir: "/src",
		BuildDir:  "/build",
		Stdout:    ioutil.Discard,
		Stderr:    stderr,
	}
}

func TestExitStatusIsSuiteResult(t *testing.T) {
	for _, toolStatus := range []int{0, 1, 7} {
		for _, suiteStatus := range []int{0, 1, 3} {
			t.Run(fmt.Sprintf("suite %d, tool %d", suiteStatus, toolStatus), func(t *testing.T) {
				installFakeGcovr(t, toolStatus)
				var stderr bytes.Buffer
				result := Main(SuiteFunc(func() int { return suiteStatus }), testConfig(&stderr))
				assert.Equal(t, suiteStatus, result)
			})
		}
	}
}

func TestToolInvokedOnceWithFixedArguments(t *testing.T) {
	tool := installFakeGcovr(t, 0)
	var stderr bytes.Buffer
	Main(SuiteFunc(func() int { return 0 }), testConfig(&stderr))
	assert.Equal(t, []string{"-r /src -d /build --html --html-details -o coverage.html -v"}, tool.invocations(t))
	assert.Empty(t, stderr.String())
}

func TestToolFailureIsReported(t *testing.T) {
	installFakeGcovr(t, 1)
	var stderr bytes.Buffer
	result := Main(SuiteFunc(func() int { return 0 }), testConfig(&stderr))
	assert.Equal(t, 0, result)
	assert.Equal(t, coverage.FailureMessage+"\n", stderr.String())
}

func TestMissingToolIsReported(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	var stderr bytes.Buffer
	result := Main(SuiteFunc(func() int { return 1 }), testConfig(&stderr))
	assert.Equal(t, 1, result)
	assert.Equal(t, coverage.FailureMessage+"\n", stderr.String())
}

func TestSuiteRunsBeforeTool(t *testing.T) {
	tool := installFakeGcovr(t, 0)
	var stderr bytes.Buffer
	Main(SuiteFunc(func() int {
		assert.Empty(t, tool.invocations(t))
		return 0
	}), testConfig(&stderr))
	assert.Len(t, tool.invocations(t), 1)
}

func TestMisconfigurationRunsNothing(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"no source dir": func(c *Config) { c.SourceDir = "" },
		"no build dir":  func(c *Config) { c.BuildDir = "" },
	} {
		t.Run(name, func(t *testing.T) {
			tool := installFakeGcovr(t, 0)
			var stderr bytes.Buffer
			config := testConfig(&stderr)
			mutate(&config)
			ran := false
			result := Main(SuiteFunc(func() int {
				ran = true
				return 0
			}), config)
			assert.Equal(t, ExitMisconfigured, result)
			assert.False(t, ran)
			assert.Empty(t, tool.invocations(t))
			assert.Contains(t, stderr.String(), "coverage-runner: ")
			assert.Contains(t, stderr.String(), "directory is not set")
		})
	}
}

func TestDefaultConfigUsesLinkTimeDirectories(t *testing.T) {
	savedSource, savedBuild := SourceDir, BuildDir
	defer func() { SourceDir, BuildDir = savedSource, savedBuild }()

	SourceDir, BuildDir = "", ""
	assert.Error(t, DefaultConfig().Validate())

	SourceDir, BuildDir = "/a", "/b"
	config := DefaultConfig()
	assert.NoError(t, config.Validate())
	assert.Equal(t, "/a", config.SourceDir)
	assert.Equal(t, "/b", config.BuildDir)
	assert.Equal(t, coverage.Gcovr, config.Tool)
}

func TestEmptyFrameworkSuite(t *testing.T) {
	tool := installFakeGcovr(t, 0)
	var stderr, output bytes.Buffer
	suite := FrameworkSuite(framework.NewSuite(), framework.RegexFilters{}, nil, &output)

	result := Main(suite, testConfig(&stderr))
	assert.Equal(t, 0, result)
	assert.Len(t, tool.invocations(t), 1)
}

func TestFailingFrameworkSuite(t *testing.T) {
	newSuite := func() *framework.Suite {
		return framework.NewSuite().
			Add("passes", func(c *framework.Context) { assertion.Assert(true) }).
			Add("fails", func(c *framework.Context) { assertion.Assert(false) })
	}
	alone := newSuite().Run(nil, nil).ExitCode()
	require.NotEqual(t, 0, alone)

	for _, toolStatus := range []int{0, 1} {
		installFakeGcovr(t, toolStatus)
		var stderr, output bytes.Buffer
		suite := FrameworkSuite(newSuite(), framework.RegexFilters{}, nil, &output)
		assert.Equal(t, alone, Main(suite, testConfig(&stderr)))
		assert.Contains(t, output.String(), "fails")
		assert.Contains(t, output.String(), "Assertion failed")
	}
}
