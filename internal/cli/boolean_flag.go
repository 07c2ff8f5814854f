package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "bool"
	toggleFlagImplicitValue  = "true"
	toggleFlagAcceptedValues = "true, false, yes, no, on, off, 1, 0"
	toggleFlagValueSeparator = "="
	flagPrefix               = "--"
	argumentTerminator       = "--"
	errorInvalidToggleFormat = "invalid boolean value %q for --%s; accepted values: %s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseToggle resolves a boolean literal. An empty literal means true.
func parseToggle(literal string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(literal))
	if normalized == "" {
		return true, true
	}
	value, known := toggleLiterals[normalized]
	return value, known
}

// toggleValue is a pflag.Value accepting every literal of toggleLiterals.
type toggleValue struct {
	target *bool
	name   string
}

func (value *toggleValue) Set(input string) error {
	parsed, known := parseToggle(input)
	if !known {
		return fmt.Errorf(errorInvalidToggleFormat, input, value.name, toggleFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || value.target == nil {
		return toggleFlagImplicitValue
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Type() string {
	return toggleFlagTypeName
}

// registerBooleanFlag adds a flag that may be given bare (--copy), with an attached
// literal (--copy=no), or with a detached literal once arguments are normalized (--copy no).
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleValue{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = toggleFlagImplicitValue
}

// normalizeBooleanFlagArguments attaches a literal that follows a boolean flag, so
// "--compact no ." reaches cobra as "--compact=no .". Arguments after "--" are untouched.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectBooleanFlagNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == argumentTerminator {
			return append(normalized, arguments[index:]...)
		}
		if joined, consumed := joinToggleLiteral(argument, arguments[index+1:], toggleNames); consumed {
			normalized = append(normalized, joined)
			index++
			continue
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func joinToggleLiteral(argument string, remaining []string, toggleNames map[string]struct{}) (string, bool) {
	if !strings.HasPrefix(argument, flagPrefix) || strings.Contains(argument, toggleFlagValueSeparator) || len(remaining) == 0 {
		return "", false
	}
	name := strings.TrimPrefix(argument, flagPrefix)
	if _, isToggle := toggleNames[name]; !isToggle {
		return "", false
	}
	literal := remaining[0]
	if literal == "" || strings.HasPrefix(literal, "-") {
		return "", false
	}
	if _, known := toggleLiterals[strings.ToLower(strings.TrimSpace(literal))]; !known {
		return "", false
	}
	return argument + toggleFlagValueSeparator + literal, true
}

// collectBooleanFlagNames gathers boolean flag names of command and all its subcommands.
func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	collect := func(flag *pflag.Flag) {
		if flag.Value.Type() == toggleFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(collect)
	command.Flags().VisitAll(collect)
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
