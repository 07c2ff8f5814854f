package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/temirov/prettytree/internal/emoji"
	"github.com/temirov/prettytree/internal/glyphs"
	"github.com/temirov/prettytree/internal/matcher"
	"github.com/temirov/prettytree/internal/render"
	"github.com/temirov/prettytree/internal/scanner"
	"github.com/temirov/prettytree/internal/sorting"
	"github.com/temirov/prettytree/internal/types"
)

const (
	// GlyphsCustom selects the glyph set defined under custom_glyphs.
	GlyphsCustom = "custom"

	defaultSortKey = "name"
)

// ErrInvalidEmojiMode is returned for an emojis value other than auto, always or never.
var ErrInvalidEmojiMode = errors.New("emojis must be one of auto, always, never")

// PolicyOptions carries runtime facts that the options document cannot know.
type PolicyOptions struct {
	// Interactive reports whether the output is a terminal; it resolves emojis: auto.
	Interactive bool
}

// BuildPolicies maps configuration onto the scan and render policies for root.
// Ignore files below root are loaded and their patterns excluded from the scan.
func BuildPolicies(configuration TreeConfiguration, root string, options PolicyOptions) (scanner.Policy, render.Policy, error) {
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return scanner.Policy{}, render.Policy{}, fmt.Errorf("resolve root %s: %w", root, absoluteError)
	}
	absoluteRoot = filepath.Clean(absoluteRoot)

	scanPolicy, scanError := buildScanPolicy(configuration, absoluteRoot)
	if scanError != nil {
		return scanner.Policy{}, render.Policy{}, scanError
	}
	renderPolicy, renderError := buildRenderPolicy(configuration, absoluteRoot, options)
	if renderError != nil {
		return scanner.Policy{}, render.Policy{}, renderError
	}
	return scanPolicy, renderPolicy, nil
}

func buildScanPolicy(configuration TreeConfiguration, root string) (scanner.Policy, error) {
	childLimit, childLimitError := buildChildLimit(configuration, root)
	if childLimitError != nil {
		return scanner.Policy{}, childLimitError
	}
	filter, filterError := buildFilter(configuration, root)
	if filterError != nil {
		return scanner.Policy{}, filterError
	}
	sortKey := configuration.Sort
	if sortKey == "" {
		sortKey = defaultSortKey
	}
	comparator, comparatorError := sorting.ByKey(sortKey)
	if comparatorError != nil {
		return scanner.Policy{}, comparatorError
	}
	if boolValue(configuration.ReverseSort, false) {
		comparator = sorting.Reversed(comparator)
	}
	return scanner.NewPolicyBuilder().
		MaxDepth(intValue(configuration.MaxDepth, scanner.DefaultMaxDepth)).
		ChildLimit(childLimit).
		Filter(filter).
		Comparator(comparator).
		Build()
}

func buildChildLimit(configuration TreeConfiguration, root string) (scanner.ChildLimitFunc, error) {
	rules := make([]scanner.ChildLimitRule, 0, len(configuration.ChildLimitRules))
	for ruleIndex, ruleConfiguration := range configuration.ChildLimitRules {
		ruleMatcher, matcherError := BuildMatcher(ruleConfiguration.Matcher, root)
		if matcherError != nil {
			return nil, fmt.Errorf("child_limit_rules[%d]: %w", ruleIndex, matcherError)
		}
		rules = append(rules, scanner.ChildLimitRule{Matcher: ruleMatcher, Limit: ruleConfiguration.Limit})
	}
	return scanner.ChildLimitFromRules(intValue(configuration.ChildLimit, scanner.Unlimited), rules...)
}

// buildFilter combines the configured filter with the negated ignore-file patterns.
func buildFilter(configuration TreeConfiguration, root string) (matcher.Matcher, error) {
	userFilter := matcher.Always
	if configuration.Filter != nil {
		builtFilter, filterError := BuildMatcher(configuration.Filter, root)
		if filterError != nil {
			return nil, fmt.Errorf("filter: %w", filterError)
		}
		userFilter = builtFilter
	}
	ignorePatterns, ignoreError := LoadRecursiveIgnorePatterns(root, IgnoreOptions{
		ExclusionPatterns: configuration.Paths.Exclude,
		UseGitignore:      boolValue(configuration.Paths.UseGitignore, true),
		UseIgnoreFile:     boolValue(configuration.Paths.UseIgnoreFile, true),
		IncludeGit:        boolValue(configuration.Paths.IncludeGit, false),
	})
	if ignoreError != nil {
		return nil, ignoreError
	}
	if len(ignorePatterns) == 0 {
		return userFilter, nil
	}
	notIgnored, notError := matcher.Not(matcher.FromIgnorePatterns(root, ignorePatterns))
	if notError != nil {
		return nil, notError
	}
	return matcher.AllOf(notIgnored, userFilter)
}

func buildRenderPolicy(configuration TreeConfiguration, root string, options PolicyOptions) (render.Policy, error) {
	glyphSet, glyphError := buildGlyphs(configuration)
	if glyphError != nil {
		return render.Policy{}, glyphError
	}
	mapping, emojiError := buildEmojis(configuration, root, options)
	if emojiError != nil {
		return render.Policy{}, emojiError
	}
	lineExtensionRules := make([]render.LineExtensionRule, 0, len(configuration.LineExtensions))
	for ruleIndex, extensionConfiguration := range configuration.LineExtensions {
		ruleMatcher, matcherError := BuildMatcher(extensionConfiguration.Matcher, root)
		if matcherError != nil {
			return render.Policy{}, fmt.Errorf("line_extensions[%d]: %w", ruleIndex, matcherError)
		}
		lineExtensionRules = append(lineExtensionRules, render.LineExtensionRule{Matcher: ruleMatcher, Text: extensionConfiguration.Text})
	}
	lineExtension, lineExtensionError := render.LineExtensionRules(lineExtensionRules...)
	if lineExtensionError != nil {
		return render.Policy{}, lineExtensionError
	}
	return render.NewPolicyBuilder().
		Glyphs(glyphSet).
		Emojis(mapping).
		CompactDirectories(boolValue(configuration.CompactDirectories, false)).
		TruncationDetails(boolValue(configuration.TruncationDetails, true)).
		LineExtension(lineExtension).
		Build()
}

func buildGlyphs(configuration TreeConfiguration) (glyphs.Set, error) {
	switch configuration.Glyphs {
	case "":
		return glyphs.Unicode, nil
	case GlyphsCustom:
		custom := configuration.CustomGlyphs
		glyphSet, glyphError := glyphs.New(custom.NonLast, custom.Last, custom.Continuation, custom.Blank)
		if glyphError != nil {
			return glyphs.Set{}, fmt.Errorf("custom_glyphs: %w", glyphError)
		}
		return glyphSet, nil
	default:
		return glyphs.ByName(configuration.Glyphs)
	}
}

func buildEmojis(configuration TreeConfiguration, root string, options PolicyOptions) (emoji.Mapping, error) {
	enabled := false
	switch configuration.Emojis {
	case "", types.EmojiModeAuto:
		enabled = options.Interactive
	case types.EmojiModeAlways:
		enabled = true
	case types.EmojiModeNever:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmojiMode, configuration.Emojis)
	}
	if !enabled {
		return emoji.None, nil
	}
	builder := emoji.DefaultBuilder()
	for ruleIndex, ruleConfiguration := range configuration.EmojiRules {
		ruleMatcher, matcherError := BuildMatcher(ruleConfiguration.Matcher, root)
		if matcherError != nil {
			return nil, fmt.Errorf("emoji_rules[%d]: %w", ruleIndex, matcherError)
		}
		builder.AddRule(ruleMatcher, ruleConfiguration.Emoji)
	}
	table, buildError := builder.Build()
	if buildError != nil {
		return nil, fmt.Errorf("emoji_rules: %w", buildError)
	}
	return table, nil
}

func boolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func intValue(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}
