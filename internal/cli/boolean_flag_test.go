package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{name: "default_false", arguments: []string{}, expected: false},
		{name: "default_true", defaultValue: true, arguments: []string{}, expected: true},
		{name: "bare_flag", arguments: []string{"--toggle"}, expected: true},
		{name: "attached_false", defaultValue: true, arguments: []string{"--toggle=false"}, expected: false},
		{name: "detached_no", defaultValue: true, arguments: []string{"--toggle", "no"}, expected: false},
		{name: "detached_on", arguments: []string{"--toggle", "ON"}, expected: true},
		{name: "detached_path_is_positional", arguments: []string{"--toggle", "./src"}, expected: true},
		{name: "attached_unknown_literal", arguments: []string{"--toggle=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{Use: "toggle-test"}
			value := !testCase.defaultValue
			registerBooleanFlag(command.Flags(), &value, "toggle", testCase.defaultValue, "toggle behaviour")
			parseError := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseError == nil {
					t.Fatalf("expected parse error for %v", testCase.arguments)
				}
				if !strings.Contains(parseError.Error(), "accepted values") {
					t.Fatalf("expected accepted values in error, got %v", parseError)
				}
				return
			}
			if parseError != nil {
				t.Fatalf("unexpected parse error: %v", parseError)
			}
			if value != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, value)
			}
		})
	}
}

func TestNormalizeBooleanFlagArgumentsOnRootCommand(t *testing.T) {
	rootCommand := NewRootCommand(Dependencies{})
	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{
			name:      "joins_literal_after_boolean_flag",
			arguments: []string{"--compact", "no", "."},
			expected:  []string{"--compact=no", "."},
		},
		{
			name:      "keeps_path_after_boolean_flag",
			arguments: []string{"--compact", "./docs"},
			expected:  []string{"--compact", "./docs"},
		},
		{
			name:      "ignores_value_flags",
			arguments: []string{"--sort", "name", "--depth", "2"},
			expected:  []string{"--sort", "name", "--depth", "2"},
		},
		{
			name:      "stops_at_terminator",
			arguments: []string{"--", "--copy", "yes"},
			expected:  []string{"--", "--copy", "yes"},
		},
		{
			name:      "includes_subcommand_flags",
			arguments: []string{"init", "--force", "on"},
			expected:  []string{"init", "--force=on"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			normalized := normalizeBooleanFlagArguments(rootCommand, testCase.arguments)
			if strings.Join(normalized, " ") != strings.Join(testCase.expected, " ") {
				t.Fatalf("expected %v, got %v", testCase.expected, normalized)
			}
		})
	}
}
