package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/prettytree/internal/matcher"
)

const (
	matcherKeyName           = "name"
	matcherKeyNameIgnoreCase = "name_ignore_case"
	matcherKeyNameRegex      = "name_regex"
	matcherKeyNameGlob       = "name_glob"
	matcherKeyPathGlob       = "path_glob"
	matcherKeyRelativeGlob   = "relative_glob"
	matcherKeyExtension      = "extension"
	matcherKeyType           = "type"
	matcherKeyParent         = "parent"
	matcherKeyAncestor       = "ancestor"
	matcherKeyChild          = "child"
	matcherKeyDescendant     = "descendant"
	matcherKeySibling        = "sibling"
	matcherKeyNot            = "not"
	matcherKeyAllOf          = "all_of"
	matcherKeyAnyOf          = "any_of"
	matcherKeyNoneOf         = "none_of"

	matcherTypeDirectory = "directory"
	matcherTypeFile      = "file"
	matcherTypeRegular   = "regular"
	matcherTypeSymlink   = "symlink"
)

// ErrInvalidMatcher is returned for a matcher document that does not hold exactly one known key
// with a value of the expected shape.
var ErrInvalidMatcher = errors.New("invalid matcher")

// MatcherDocument is the declarative form of a matcher, for example {name_glob: "*.go"}
// or {all_of: [{type: directory}, {child: {name: go.mod}}]}.
type MatcherDocument map[string]any

// BuildMatcher converts document into a matcher. Relative globs are resolved against root.
func BuildMatcher(document MatcherDocument, root string) (matcher.Matcher, error) {
	if len(document) != 1 {
		keys := make([]string, 0, len(document))
		for key := range document {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%w: expected exactly one key, got [%s]", ErrInvalidMatcher, strings.Join(keys, ", "))
	}
	for key, value := range document {
		built, buildErr := buildMatcherEntry(strings.ToLower(key), value, root)
		if buildErr != nil {
			return nil, fmt.Errorf("%s: %w", key, buildErr)
		}
		return built, nil
	}
	return nil, ErrInvalidMatcher
}

func buildMatcherEntry(key string, value any, root string) (matcher.Matcher, error) {
	switch key {
	case matcherKeyName, matcherKeyNameIgnoreCase, matcherKeyNameRegex, matcherKeyNameGlob,
		matcherKeyPathGlob, matcherKeyRelativeGlob, matcherKeyExtension, matcherKeyType:
		text, isText := value.(string)
		if !isText || text == "" {
			return nil, fmt.Errorf("%w: expected a non-empty string, got %v", ErrInvalidMatcher, value)
		}
		return buildStringMatcher(key, text, root)
	case matcherKeyParent, matcherKeyAncestor, matcherKeyChild, matcherKeyDescendant, matcherKeySibling, matcherKeyNot:
		nestedDocument, documentErr := asMatcherDocument(value)
		if documentErr != nil {
			return nil, documentErr
		}
		nested, nestedErr := BuildMatcher(nestedDocument, root)
		if nestedErr != nil {
			return nil, nestedErr
		}
		return buildNestedMatcher(key, nested)
	case matcherKeyAllOf, matcherKeyAnyOf, matcherKeyNoneOf:
		items, isList := value.([]any)
		if !isList {
			return nil, fmt.Errorf("%w: expected a list, got %v", ErrInvalidMatcher, value)
		}
		nestedMatchers := make([]matcher.Matcher, 0, len(items))
		for itemIndex, item := range items {
			nestedDocument, documentErr := asMatcherDocument(item)
			if documentErr != nil {
				return nil, fmt.Errorf("item %d: %w", itemIndex, documentErr)
			}
			nested, nestedErr := BuildMatcher(nestedDocument, root)
			if nestedErr != nil {
				return nil, fmt.Errorf("item %d: %w", itemIndex, nestedErr)
			}
			nestedMatchers = append(nestedMatchers, nested)
		}
		switch key {
		case matcherKeyAllOf:
			return matcher.AllOf(nestedMatchers...)
		case matcherKeyAnyOf:
			return matcher.AnyOf(nestedMatchers...)
		default:
			return matcher.NoneOf(nestedMatchers...)
		}
	default:
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidMatcher, key)
	}
}

func buildStringMatcher(key string, text string, root string) (matcher.Matcher, error) {
	switch key {
	case matcherKeyName:
		return matcher.HasName(text), nil
	case matcherKeyNameIgnoreCase:
		return matcher.HasNameIgnoringCase(text), nil
	case matcherKeyNameRegex:
		return matcher.HasNameMatchingRegex(text)
	case matcherKeyNameGlob:
		return matcher.HasNameMatchingGlob(text)
	case matcherKeyPathGlob:
		return matcher.HasAbsolutePathMatchingGlob(text)
	case matcherKeyRelativeGlob:
		return matcher.HasRelativePathMatchingGlob(root, text)
	case matcherKeyExtension:
		return matcher.HasExtension(text)
	default:
		switch strings.ToLower(text) {
		case matcherTypeDirectory:
			return matcher.IsDirectory(), nil
		case matcherTypeFile:
			return matcher.IsFile(), nil
		case matcherTypeRegular:
			return matcher.IsRegularFile(), nil
		case matcherTypeSymlink:
			return matcher.IsSymbolicLink(), nil
		default:
			return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidMatcher, text)
		}
	}
}

func buildNestedMatcher(key string, nested matcher.Matcher) (matcher.Matcher, error) {
	switch key {
	case matcherKeyParent:
		return matcher.HasDirectParentMatching(nested)
	case matcherKeyAncestor:
		return matcher.HasAnyAncestorMatching(nested)
	case matcherKeyChild:
		return matcher.HasAnyDirectChildMatching(nested)
	case matcherKeyDescendant:
		return matcher.HasAnyDescendantMatching(nested)
	case matcherKeySibling:
		return matcher.HasSiblingMatching(nested)
	default:
		return matcher.Not(nested)
	}
}

// asMatcherDocument accepts the map shapes produced by the YAML and JSON decoders.
func asMatcherDocument(value any) (MatcherDocument, error) {
	switch typed := value.(type) {
	case MatcherDocument:
		return typed, nil
	case map[string]any:
		return MatcherDocument(typed), nil
	case map[any]any:
		converted := make(MatcherDocument, len(typed))
		for key, nestedValue := range typed {
			keyText, isText := key.(string)
			if !isText {
				return nil, fmt.Errorf("%w: non-string key %v", ErrInvalidMatcher, key)
			}
			converted[keyText] = nestedValue
		}
		return converted, nil
	default:
		return nil, fmt.Errorf("%w: expected a matcher document, got %v", ErrInvalidMatcher, value)
	}
}
