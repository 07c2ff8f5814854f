package matcher

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/temirov/prettytree/internal/utils"
)

const (
	globSeparator    = "/"
	anyDepthPrefix   = "**/"
	everythingBelow  = "/**"
	windowsSeparator = `\`
)

// FromIgnorePatterns matches paths below root that are excluded by gitignore-style patterns.
// The root itself never matches.
//
// A pattern ending in "/" excludes the named directory and everything below it; a
// single-segment one matches at any depth. A pattern without a slash matches the
// final segment at any depth. Any other pattern matches the whole root-relative path.
// Patterns prefixed with utils.ExclusionPrefix exclude a root-relative prefix.
// Patterns that are not valid globs are skipped.
func FromIgnorePatterns(root string, patterns []string) Matcher {
	globs := compileIgnorePatterns(patterns)
	if len(globs) == 0 {
		return Never
	}
	cleanRoot := filepath.Clean(root)
	return MatcherFunc(func(path string) (bool, error) {
		relativePath := utils.RelativePathOrSelf(path, cleanRoot)
		if relativePath == "." {
			return false, nil
		}
		for _, glob := range globs {
			if doublestar.MatchUnvalidated(glob, relativePath) {
				return true, nil
			}
		}
		return false, nil
	})
}

func compileIgnorePatterns(patterns []string) []string {
	var globs []string
	for _, pattern := range patterns {
		for _, glob := range ignorePatternGlobs(pattern) {
			if doublestar.ValidatePattern(glob) {
				globs = append(globs, glob)
			}
		}
	}
	return utils.DeduplicatePatterns(globs)
}

func ignorePatternGlobs(pattern string) []string {
	normalizedPattern := strings.ReplaceAll(strings.TrimSpace(pattern), windowsSeparator, globSeparator)
	if strings.HasPrefix(normalizedPattern, utils.ExclusionPrefix) {
		prefix := strings.Trim(strings.TrimPrefix(normalizedPattern, utils.ExclusionPrefix), globSeparator)
		if prefix == "" {
			return nil
		}
		return []string{prefix, prefix + everythingBelow}
	}

	isDirectoryPattern := strings.HasSuffix(normalizedPattern, globSeparator)
	trimmedPattern := strings.Trim(normalizedPattern, globSeparator)
	if trimmedPattern == "" {
		return nil
	}
	isSingleSegment := !strings.Contains(trimmedPattern, globSeparator)
	switch {
	case isDirectoryPattern && isSingleSegment:
		return []string{anyDepthPrefix + trimmedPattern, anyDepthPrefix + trimmedPattern + everythingBelow}
	case isDirectoryPattern:
		return []string{trimmedPattern, trimmedPattern + everythingBelow}
	case isSingleSegment:
		return []string{anyDepthPrefix + trimmedPattern}
	default:
		return []string{trimmedPattern}
	}
}
