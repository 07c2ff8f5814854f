// Package matcher provides composable predicates over filesystem paths.
//
// Matchers are used to filter scanned entries, to select per-directory child
// limits, and to attach line annotations and emojis to rendered lines. Name and
// glob matchers are pure string functions; type and hierarchy matchers consult the
// filesystem without following symbolic links and report I/O failures to the caller.
// Glob patterns use doublestar syntax: "*", "**", "?", "[...]" and "{a,b}".
package matcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// matchAllGlob matches every path without inspecting it.
	matchAllGlob = "*"

	errorInvalidRegexFormat = "invalid name regex %q: %w"
	errorInvalidGlobFormat  = "invalid glob %q: %w"
)

var (
	// ErrEmptyMatcherList is returned when a combinator receives no matchers.
	ErrEmptyMatcherList = errors.New("matcher list must not be empty")
	// ErrNilMatcher is returned when a combinator receives a nil matcher.
	ErrNilMatcher = errors.New("matcher must not be nil")
	// ErrEmptyName is returned when a name or extension matcher is built from an empty string.
	ErrEmptyName = errors.New("name must not be empty")
)

// Matcher reports whether a path satisfies a condition.
type Matcher interface {
	Matches(path string) (bool, error)
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(path string) (bool, error)

// Matches calls the underlying function.
func (matcherFunction MatcherFunc) Matches(path string) (bool, error) {
	return matcherFunction(path)
}

// Always matches every path.
var Always Matcher = MatcherFunc(func(string) (bool, error) { return true, nil })

// Never matches no path.
var Never Matcher = MatcherFunc(func(string) (bool, error) { return false, nil })

// fileName returns the final segment of the path. Filesystem roots have none.
func fileName(path string) (string, bool) {
	cleanPath := filepath.Clean(path)
	if filepath.Dir(cleanPath) == cleanPath {
		return "", false
	}
	name := filepath.Base(cleanPath)
	if name == "." || name == string(filepath.Separator) {
		return "", false
	}
	return name, true
}

// nameMatcher builds a matcher that applies predicate to the final path segment.
func nameMatcher(predicate func(name string) bool) Matcher {
	return MatcherFunc(func(path string) (bool, error) {
		name, hasName := fileName(path)
		if !hasName {
			return false, nil
		}
		return predicate(name), nil
	})
}

// HasName matches paths whose final segment equals name exactly.
func HasName(name string) Matcher {
	return nameMatcher(func(candidate string) bool {
		return candidate == name
	})
}

// HasNameIgnoringCase matches paths whose final segment equals name under Unicode case folding.
func HasNameIgnoringCase(name string) Matcher {
	return nameMatcher(func(candidate string) bool {
		return strings.EqualFold(candidate, name)
	})
}

// HasNameMatchingRegex matches paths whose whole final segment matches the expression.
func HasNameMatchingRegex(expression string) (Matcher, error) {
	compiledExpression, compileError := regexp.Compile("^(?:" + expression + ")$")
	if compileError != nil {
		return nil, fmt.Errorf(errorInvalidRegexFormat, expression, compileError)
	}
	return nameMatcher(compiledExpression.MatchString), nil
}

// HasNameMatchingGlob matches paths whose final segment matches the glob.
func HasNameMatchingGlob(glob string) (Matcher, error) {
	if glob == matchAllGlob {
		return Always, nil
	}
	if !doublestar.ValidatePattern(glob) {
		return nil, fmt.Errorf(errorInvalidGlobFormat, glob, doublestar.ErrBadPattern)
	}
	return nameMatcher(func(name string) bool {
		isMatched, _ := doublestar.Match(glob, name)
		return isMatched
	}), nil
}

// HasAbsolutePathMatchingGlob matches the slash-separated absolute form of the path against the glob.
func HasAbsolutePathMatchingGlob(glob string) (Matcher, error) {
	if glob == matchAllGlob {
		return Always, nil
	}
	normalizedGlob := filepath.ToSlash(glob)
	if !doublestar.ValidatePattern(normalizedGlob) {
		return nil, fmt.Errorf(errorInvalidGlobFormat, glob, doublestar.ErrBadPattern)
	}
	return MatcherFunc(func(path string) (bool, error) {
		absolutePath, absolutePathError := filepath.Abs(path)
		if absolutePathError != nil {
			return false, absolutePathError
		}
		isMatched, _ := doublestar.Match(normalizedGlob, filepath.ToSlash(absolutePath))
		return isMatched, nil
	}), nil
}

// HasRelativePathMatchingGlob matches the path relative to reference against the glob.
// Paths outside reference never match.
func HasRelativePathMatchingGlob(reference string, glob string) (Matcher, error) {
	if glob == matchAllGlob {
		return Always, nil
	}
	normalizedGlob := filepath.ToSlash(glob)
	if !doublestar.ValidatePattern(normalizedGlob) {
		return nil, fmt.Errorf(errorInvalidGlobFormat, glob, doublestar.ErrBadPattern)
	}
	cleanReference := filepath.Clean(reference)
	return MatcherFunc(func(path string) (bool, error) {
		relativePath, relativeError := filepath.Rel(cleanReference, filepath.Clean(path))
		if relativeError != nil {
			return false, nil
		}
		relativePath = filepath.ToSlash(relativePath)
		if relativePath == ".." || strings.HasPrefix(relativePath, "../") {
			return false, nil
		}
		isMatched, _ := doublestar.Match(normalizedGlob, relativePath)
		return isMatched, nil
	}), nil
}

// HasExtension matches names ending in "."+extension. Multi-part extensions such as
// "tar.gz" are supported and the comparison is case-sensitive.
func HasExtension(extension string) (Matcher, error) {
	trimmedExtension := strings.TrimPrefix(extension, ".")
	if trimmedExtension == "" {
		return nil, ErrEmptyName
	}
	suffix := "." + trimmedExtension
	return nameMatcher(func(name string) bool {
		return len(name) > len(suffix) && strings.HasSuffix(name, suffix)
	}), nil
}
