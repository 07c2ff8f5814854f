package matcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	errorStatPathFormat      = "stat %s: %w"
	errorReadDirectoryFormat = "reading directory %s: %w"
	errorWalkDirectoryFormat = "walking directory %s: %w"
)

// errStopWalk terminates a descendant walk once a match is found.
var errStopWalk = errors.New("stop walk")

// modeMatcher applies predicate to the Lstat mode of the path. Missing paths never match.
func modeMatcher(predicate func(mode fs.FileMode) bool) Matcher {
	return MatcherFunc(func(path string) (bool, error) {
		fileInformation, statError := os.Lstat(path)
		if statError != nil {
			if errors.Is(statError, fs.ErrNotExist) {
				return false, nil
			}
			return false, fmt.Errorf(errorStatPathFormat, path, statError)
		}
		return predicate(fileInformation.Mode()), nil
	})
}

// IsDirectory matches directories. Symbolic links to directories do not match.
func IsDirectory() Matcher {
	return modeMatcher(func(mode fs.FileMode) bool {
		return mode.IsDir()
	})
}

// IsFile matches every existing entry that is not a directory.
func IsFile() Matcher {
	return modeMatcher(func(mode fs.FileMode) bool {
		return !mode.IsDir()
	})
}

// IsRegularFile matches regular files.
func IsRegularFile() Matcher {
	return modeMatcher(func(mode fs.FileMode) bool {
		return mode.IsRegular()
	})
}

// IsSymbolicLink matches symbolic links.
func IsSymbolicLink() Matcher {
	return modeMatcher(func(mode fs.FileMode) bool {
		return mode&fs.ModeSymlink != 0
	})
}

// HasDirectParentMatching matches paths whose parent directory matches parentMatcher.
func HasDirectParentMatching(parentMatcher Matcher) (Matcher, error) {
	if parentMatcher == nil {
		return nil, ErrNilMatcher
	}
	return MatcherFunc(func(path string) (bool, error) {
		cleanPath := filepath.Clean(path)
		parentPath := filepath.Dir(cleanPath)
		if parentPath == cleanPath {
			return false, nil
		}
		return parentMatcher.Matches(parentPath)
	}), nil
}

// HasAnyAncestorMatching matches paths with at least one ancestor matching ancestorMatcher.
func HasAnyAncestorMatching(ancestorMatcher Matcher) (Matcher, error) {
	if ancestorMatcher == nil {
		return nil, ErrNilMatcher
	}
	return MatcherFunc(func(path string) (bool, error) {
		currentPath := filepath.Clean(path)
		for {
			parentPath := filepath.Dir(currentPath)
			if parentPath == currentPath {
				return false, nil
			}
			isMatched, matchError := ancestorMatcher.Matches(parentPath)
			if matchError != nil || isMatched {
				return isMatched, matchError
			}
			currentPath = parentPath
		}
	}), nil
}

// HasAnyDirectChildMatching matches directories listing at least one entry matching childMatcher.
func HasAnyDirectChildMatching(childMatcher Matcher) (Matcher, error) {
	if childMatcher == nil {
		return nil, ErrNilMatcher
	}
	return MatcherFunc(func(path string) (bool, error) {
		isDirectory, statError := isListableDirectory(path)
		if statError != nil || !isDirectory {
			return false, statError
		}
		directoryEntries, readDirectoryError := os.ReadDir(path)
		if readDirectoryError != nil {
			return false, fmt.Errorf(errorReadDirectoryFormat, path, readDirectoryError)
		}
		for _, directoryEntry := range directoryEntries {
			isMatched, matchError := childMatcher.Matches(filepath.Join(path, directoryEntry.Name()))
			if matchError != nil || isMatched {
				return isMatched, matchError
			}
		}
		return false, nil
	}), nil
}

// HasAnyDescendantMatching matches directories containing, at any depth, an entry matching
// descendantMatcher. Symbolic links are not followed.
func HasAnyDescendantMatching(descendantMatcher Matcher) (Matcher, error) {
	if descendantMatcher == nil {
		return nil, ErrNilMatcher
	}
	return MatcherFunc(func(path string) (bool, error) {
		isDirectory, statError := isListableDirectory(path)
		if statError != nil || !isDirectory {
			return false, statError
		}
		rootPath := filepath.Clean(path)
		walkError := filepath.WalkDir(rootPath, func(currentPath string, _ fs.DirEntry, visitError error) error {
			if visitError != nil {
				return visitError
			}
			if currentPath == rootPath {
				return nil
			}
			isMatched, matchError := descendantMatcher.Matches(currentPath)
			if matchError != nil {
				return matchError
			}
			if isMatched {
				return errStopWalk
			}
			return nil
		})
		if errors.Is(walkError, errStopWalk) {
			return true, nil
		}
		if walkError != nil {
			return false, fmt.Errorf(errorWalkDirectoryFormat, rootPath, walkError)
		}
		return false, nil
	}), nil
}

// HasSiblingMatching matches paths having another entry in the same directory that matches
// siblingMatcher. The path itself is never considered its own sibling.
func HasSiblingMatching(siblingMatcher Matcher) (Matcher, error) {
	if siblingMatcher == nil {
		return nil, ErrNilMatcher
	}
	return MatcherFunc(func(path string) (bool, error) {
		cleanPath := filepath.Clean(path)
		parentPath := filepath.Dir(cleanPath)
		if parentPath == cleanPath {
			return false, nil
		}
		directoryEntries, readDirectoryError := os.ReadDir(parentPath)
		if readDirectoryError != nil {
			if errors.Is(readDirectoryError, fs.ErrNotExist) {
				return false, nil
			}
			return false, fmt.Errorf(errorReadDirectoryFormat, parentPath, readDirectoryError)
		}
		for _, directoryEntry := range directoryEntries {
			siblingPath := filepath.Join(parentPath, directoryEntry.Name())
			if siblingPath == cleanPath {
				continue
			}
			isMatched, matchError := siblingMatcher.Matches(siblingPath)
			if matchError != nil || isMatched {
				return isMatched, matchError
			}
		}
		return false, nil
	}), nil
}

// isListableDirectory reports whether path is a real directory, treating missing paths as non-directories.
func isListableDirectory(path string) (bool, error) {
	fileInformation, statError := os.Lstat(path)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(errorStatPathFormat, path, statError)
	}
	return fileInformation.IsDir(), nil
}
