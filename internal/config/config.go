// Package config loads the ptree options document and ignore files and assembles
// them into scan and render policies.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/temirov/prettytree/internal/utils"
)

const (
	// gitDirectoryPattern represents the pattern that matches the Git directory.
	gitDirectoryPattern = utils.GitDirectoryName + "/"
	// commentPrefix starts a comment line in ignore files.
	commentPrefix = "#"

	pathSeparator   = "/"
	anyDepthSegment = "**/"
)

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) (patterns []string, err error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", ignoreFilePath, closeError)
		}
	}()

	lineScanner := bufio.NewScanner(fileHandle)
	for lineScanner.Scan() {
		trimmedLine := strings.TrimSpace(lineScanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, scanError
	}
	return patterns, nil
}

// nestedIgnorePattern anchors a pattern read from the ignore file of a nested directory.
// A pattern without an inner slash applies at any depth below that directory, the way
// gitignore treats it; other patterns are relative to the directory.
func nestedIgnorePattern(prefix string, pattern string) string {
	if prefix == "" {
		return pattern
	}
	trimmedPattern := strings.TrimSuffix(pattern, pathSeparator)
	if strings.Contains(trimmedPattern, pathSeparator) {
		return prefix + strings.TrimPrefix(pattern, pathSeparator)
	}
	return prefix + anyDepthSegment + pattern
}

// IgnoreOptions selects which ignore sources contribute patterns.
type IgnoreOptions struct {
	ExclusionPatterns []string
	UseGitignore      bool
	UseIgnoreFile     bool
	IncludeGit        bool
}

// LoadRecursiveIgnorePatterns walks rootDirectoryPath and aggregates ignore patterns.
// Patterns from utils.IgnoreFileName and utils.GitIgnoreFileName in each nested directory are anchored at that
// directory's path relative to rootDirectoryPath (see nestedIgnorePattern). The directory named utils.GitDirectoryName is ignored unless
// IncludeGit is set. The exclusion patterns are appended to the result.
func LoadRecursiveIgnorePatterns(rootDirectoryPath string, options IgnoreOptions) ([]string, error) {
	var aggregatedPatterns []string

	appendFilePatterns := func(directoryPath string, prefix string, fileName string) error {
		filePatterns, loadError := LoadIgnoreFilePatterns(filepath.Join(directoryPath, fileName))
		if loadError != nil {
			return fmt.Errorf("loading %s from %s: %w", fileName, directoryPath, loadError)
		}
		for _, pattern := range filePatterns {
			aggregatedPatterns = append(aggregatedPatterns, nestedIgnorePattern(prefix, pattern))
		}
		return nil
	}

	walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if currentDirectoryPath == rootDirectoryPath && errors.Is(walkError, fs.ErrNotExist) {
				return nil
			}
			return walkError
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if !options.IncludeGit && directoryEntry.Name() == utils.GitDirectoryName {
			return filepath.SkipDir
		}

		relativeDirectory := utils.RelativePathOrSelf(currentDirectoryPath, rootDirectoryPath)
		prefix := ""
		if relativeDirectory != "." {
			prefix = filepath.ToSlash(relativeDirectory) + pathSeparator
		}

		if options.UseIgnoreFile {
			if appendError := appendFilePatterns(currentDirectoryPath, prefix, utils.IgnoreFileName); appendError != nil {
				return appendError
			}
		}
		if options.UseGitignore {
			if appendError := appendFilePatterns(currentDirectoryPath, prefix, utils.GitIgnoreFileName); appendError != nil {
				return appendError
			}
		}
		return nil
	}

	if options.UseIgnoreFile || options.UseGitignore {
		if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
			return nil, walkError
		}
	}

	if !options.IncludeGit {
		aggregatedPatterns = append(aggregatedPatterns, gitDirectoryPattern)
	}

	deduplicatedPatterns := utils.DeduplicatePatterns(aggregatedPatterns)

	for _, pattern := range options.ExclusionPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if !slices.Contains(deduplicatedPatterns, trimmedPattern) {
			deduplicatedPatterns = append(deduplicatedPatterns, trimmedPattern)
		}
	}

	return deduplicatedPatterns, nil
}
