package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/prettytree/internal/utils"
)

const textFileName = "sample.txt"

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if len(actual) != len(testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected length %d, got %d", index, testCase.testName, len(testCase.expected), len(actual))
			continue
		}
		for position, value := range actual {
			if value != testCase.expected[position] {
				testingInstance.Errorf("case %d (%s): expected %s at position %d, got %s", index, testCase.testName, testCase.expected[position], position, value)
			}
		}
	}
}

// TestRelativePathOrSelf verifies relative path calculations.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	subPath := filepath.Join(temporaryRoot, textFileName)
	creationError := os.WriteFile(subPath, []byte("content"), 0600)
	if creationError != nil {
		testingInstance.Fatalf("failed to create file: %v", creationError)
	}
	testCases := []struct {
		testName string
		fullPath string
		root     string
		expected string
	}{
		{
			testName: "root path returns dot",
			fullPath: temporaryRoot,
			root:     temporaryRoot,
			expected: ".",
		},
		{
			testName: "sub path returns relative",
			fullPath: subPath,
			root:     temporaryRoot,
			expected: textFileName,
		},
	}
	for index, testCase := range testCases {
		actual := utils.RelativePathOrSelf(testCase.fullPath, testCase.root)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %s, got %s", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestGetApplicationVersionPrefersReleaseVersion verifies the stamped version wins.
func TestGetApplicationVersionPrefersReleaseVersion(testingInstance *testing.T) {
	previousVersion := utils.ReleaseVersion
	testingInstance.Cleanup(func() { utils.ReleaseVersion = previousVersion })
	utils.ReleaseVersion = " v1.2.3 "
	if actual := utils.GetApplicationVersion(); actual != "v1.2.3" {
		testingInstance.Fatalf("expected v1.2.3, got %s", actual)
	}
}

// TestNewApplicationLogger verifies both logger modes build.
func TestNewApplicationLogger(testingInstance *testing.T) {
	for _, debug := range []bool{false, true} {
		logger, loggerError := utils.NewApplicationLogger(debug)
		if loggerError != nil {
			testingInstance.Fatalf("debug=%t: %v", debug, loggerError)
		}
		if logger.Core().Enabled(-1) != debug {
			testingInstance.Fatalf("debug=%t: unexpected debug level enablement", debug)
		}
	}
}
