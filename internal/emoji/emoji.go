// Package emoji maps paths to decoration strings shown before rendered labels.
package emoji

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/prettytree/internal/matcher"
)

// ErrEmptyKey is returned when a name or extension rule is registered with an empty key.
var ErrEmptyKey = errors.New("emoji key must not be empty")

// Mapping resolves the decoration for a path.
type Mapping interface {
	Emoji(path string, isDirectory bool) (string, bool, error)
}

type noMapping struct{}

func (noMapping) Emoji(string, bool) (string, bool, error) { return "", false, nil }

// None decorates nothing.
var None Mapping = noMapping{}

type matcherRule struct {
	matcher matcher.Matcher
	emoji   string
}

// Table is an immutable Mapping. Precedence: matcher rules in registration order,
// then the exact name (case-insensitive), then the longest matching extension
// (case-insensitive), then the directory or file default.
type Table struct {
	rules            []matcherRule
	names            map[string]string
	extensions       map[string]string
	extensionsByLen  []string
	directoryDefault string
	fileDefault      string
}

// Emoji returns the decoration for path.
func (table *Table) Emoji(path string, isDirectory bool) (string, bool, error) {
	for _, rule := range table.rules {
		isMatched, matchError := rule.matcher.Matches(path)
		if matchError != nil {
			return "", false, matchError
		}
		if isMatched {
			return rule.emoji, true, nil
		}
	}
	name, hasName := baseName(path)
	if hasName {
		lowerName := strings.ToLower(name)
		if value, found := table.names[lowerName]; found {
			return value, true, nil
		}
		if !isDirectory {
			for _, extension := range table.extensionsByLen {
				if len(lowerName) > len(extension)+1 && strings.HasSuffix(lowerName, "."+extension) {
					return table.extensions[extension], true, nil
				}
			}
		}
	}
	if isDirectory {
		return table.directoryDefault, table.directoryDefault != "", nil
	}
	return table.fileDefault, table.fileDefault != "", nil
}

// Builder assembles a Table.
type Builder struct {
	rules            []matcherRule
	names            map[string]string
	extensions       map[string]string
	directoryDefault string
	fileDefault      string
	err              error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		names:      map[string]string{},
		extensions: map[string]string{},
	}
}

// AddRule registers a matcher rule. Rules are evaluated in registration order.
func (builder *Builder) AddRule(pathMatcher matcher.Matcher, emoji string) *Builder {
	if pathMatcher == nil {
		builder.recordError(matcher.ErrNilMatcher)
		return builder
	}
	builder.rules = append(builder.rules, matcherRule{matcher: pathMatcher, emoji: emoji})
	return builder
}

// SetName registers an emoji for an exact, case-insensitive file or directory name.
func (builder *Builder) SetName(name string, emoji string) *Builder {
	if name == "" {
		builder.recordError(ErrEmptyKey)
		return builder
	}
	builder.names[strings.ToLower(name)] = emoji
	return builder
}

// SetExtension registers an emoji for a case-insensitive extension such as "go" or "tar.gz".
func (builder *Builder) SetExtension(extension string, emoji string) *Builder {
	trimmedExtension := strings.ToLower(strings.TrimPrefix(extension, "."))
	if trimmedExtension == "" {
		builder.recordError(ErrEmptyKey)
		return builder
	}
	builder.extensions[trimmedExtension] = emoji
	return builder
}

// SetDirectoryDefault sets the fallback decoration for directories.
func (builder *Builder) SetDirectoryDefault(emoji string) *Builder {
	builder.directoryDefault = emoji
	return builder
}

// SetFileDefault sets the fallback decoration for non-directories.
func (builder *Builder) SetFileDefault(emoji string) *Builder {
	builder.fileDefault = emoji
	return builder
}

// Build freezes the builder into a Table, reporting the first registration error.
func (builder *Builder) Build() (*Table, error) {
	if builder.err != nil {
		return nil, builder.err
	}
	table := &Table{
		rules:            append([]matcherRule(nil), builder.rules...),
		names:            make(map[string]string, len(builder.names)),
		extensions:       make(map[string]string, len(builder.extensions)),
		directoryDefault: builder.directoryDefault,
		fileDefault:      builder.fileDefault,
	}
	for key, value := range builder.names {
		table.names[key] = value
	}
	for key, value := range builder.extensions {
		table.extensions[key] = value
		table.extensionsByLen = append(table.extensionsByLen, key)
	}
	sort.Slice(table.extensionsByLen, func(left, right int) bool {
		leftExtension, rightExtension := table.extensionsByLen[left], table.extensionsByLen[right]
		if len(leftExtension) != len(rightExtension) {
			return len(leftExtension) > len(rightExtension)
		}
		return leftExtension < rightExtension
	})
	return table, nil
}

func (builder *Builder) recordError(err error) {
	if builder.err == nil {
		builder.err = err
	}
}

func baseName(path string) (string, bool) {
	cleanPath := filepath.Clean(path)
	if filepath.Dir(cleanPath) == cleanPath {
		return "", false
	}
	return filepath.Base(cleanPath), true
}
