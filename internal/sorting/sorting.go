// Package sorting provides comparators ordering the siblings of a scanned directory.
package sorting

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/temirov/prettytree/internal/types"
)

const (
	// KeyName orders by final name segment, case-sensitively.
	KeyName = "name"
	// KeyNameIgnoringCase orders by final name segment, ignoring case.
	KeyNameIgnoringCase = "name_ignore_case"
	// KeyDirectoriesFirst lists directories before files, each group by name.
	KeyDirectoriesFirst = "directories_first"
	// KeyFilesFirst lists files before directories, each group by name.
	KeyFilesFirst = "files_first"
	// KeyExtension orders by extension, then by name.
	KeyExtension = "extension"

	errorUnknownSortKeyFormat = "unknown sort key %q"
)

// Comparator orders two sibling entries, returning a negative, zero or positive number.
type Comparator func(left, right types.PathEntry) int

// ByName compares final name segments byte-wise.
func ByName(left, right types.PathEntry) int {
	return cmp.Compare(filepath.Base(left.Path), filepath.Base(right.Path))
}

// ByNameIgnoringCase compares final name segments after lower-casing, falling back to ByName.
func ByNameIgnoringCase(left, right types.PathEntry) int {
	leftName := strings.ToLower(filepath.Base(left.Path))
	rightName := strings.ToLower(filepath.Base(right.Path))
	if comparison := cmp.Compare(leftName, rightName); comparison != 0 {
		return comparison
	}
	return ByName(left, right)
}

// ByExtension compares extensions, names without extension first.
func ByExtension(left, right types.PathEntry) int {
	return cmp.Compare(filepath.Ext(left.Path), filepath.Ext(right.Path))
}

// DirectoriesFirst places directories before non-directories.
func DirectoriesFirst(left, right types.PathEntry) int {
	return compareDirectoryness(left, right)
}

// FilesFirst places non-directories before directories.
func FilesFirst(left, right types.PathEntry) int {
	return -compareDirectoryness(left, right)
}

func compareDirectoryness(left, right types.PathEntry) int {
	switch {
	case left.IsDirectory == right.IsDirectory:
		return 0
	case left.IsDirectory:
		return -1
	default:
		return 1
	}
}

// Reversed inverts the comparator.
func Reversed(comparator Comparator) Comparator {
	return func(left, right types.PathEntry) int {
		return comparator(right, left)
	}
}

// Then chains comparators; later ones break ties left by earlier ones.
func Then(comparators ...Comparator) Comparator {
	chained := slices.Clone(comparators)
	return func(left, right types.PathEntry) int {
		for _, comparator := range chained {
			if comparison := comparator(left, right); comparison != 0 {
				return comparison
			}
		}
		return 0
	}
}

// ByKey resolves a configuration key to a comparator.
func ByKey(key string) (Comparator, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", KeyName:
		return ByName, nil
	case KeyNameIgnoringCase:
		return ByNameIgnoringCase, nil
	case KeyDirectoriesFirst:
		return Then(DirectoriesFirst, ByName), nil
	case KeyFilesFirst:
		return Then(FilesFirst, ByName), nil
	case KeyExtension:
		return Then(ByExtension, ByName), nil
	default:
		return nil, fmt.Errorf(errorUnknownSortKeyFormat, key)
	}
}

// Sort orders entries in place. Equal entries keep their listing order.
func Sort(entries []types.PathEntry, comparator Comparator) {
	if comparator == nil {
		comparator = ByName
	}
	slices.SortStableFunc(entries, comparator)
}
