package render

import (
	"errors"
	"fmt"

	"github.com/temirov/prettytree/internal/emoji"
	"github.com/temirov/prettytree/internal/glyphs"
	"github.com/temirov/prettytree/internal/matcher"
)

// ForceLineBreak is the line extension text that ends directory compaction without adding visible text.
const ForceLineBreak = ""

// ErrNilPolicyComponent is returned when a builder receives a nil emoji mapping or line extension.
var ErrNilPolicyComponent = errors.New("render policy component must not be nil")

// ErrEmptyGlyphSet is returned when a builder receives the zero glyph set.
var ErrEmptyGlyphSet = errors.New("glyph set must not be empty")

// LineExtension resolves the annotation appended to the line of path.
// ok=false means no annotation; the text ForceLineBreak only interrupts compaction.
type LineExtension func(path string) (text string, ok bool, err error)

// NoLineExtension annotates nothing.
func NoLineExtension(string) (string, bool, error) {
	return "", false, nil
}

// LineExtensionRule attaches Text to paths matching Matcher.
type LineExtensionRule struct {
	Matcher matcher.Matcher
	Text    string
}

// LineExtensionRules evaluates rules in order and returns the text of the first match.
func LineExtensionRules(rules ...LineExtensionRule) (LineExtension, error) {
	copiedRules := append([]LineExtensionRule(nil), rules...)
	for ruleIndex, rule := range copiedRules {
		if rule.Matcher == nil {
			return nil, fmt.Errorf("line extension rule %d: %w", ruleIndex, matcher.ErrNilMatcher)
		}
	}
	return func(path string) (string, bool, error) {
		for _, rule := range copiedRules {
			isMatched, matchError := rule.Matcher.Matches(path)
			if matchError != nil {
				return "", false, matchError
			}
			if isMatched {
				return rule.Text, true, nil
			}
		}
		return "", false, nil
	}, nil
}

// Policy is the immutable presentation configuration of a render.
type Policy struct {
	emojis             emoji.Mapping
	glyphSet           glyphs.Set
	compactDirectories bool
	lineExtension      LineExtension
	truncationDetails  bool
}

// DefaultPolicy draws Unicode glyphs without emojis, compaction or annotations and
// reports truncation counts.
func DefaultPolicy() Policy {
	return Policy{
		emojis:            emoji.None,
		glyphSet:          glyphs.Unicode,
		lineExtension:     NoLineExtension,
		truncationDetails: true,
	}
}

// withDefaults fills unset components from DefaultPolicy. The zero Policy is
// DefaultPolicy as a whole.
func (policy Policy) withDefaults() Policy {
	defaults := DefaultPolicy()
	if policy.emojis == nil && policy.glyphSet.IsZero() && policy.lineExtension == nil &&
		!policy.compactDirectories && !policy.truncationDetails {
		return defaults
	}
	if policy.emojis == nil {
		policy.emojis = defaults.emojis
	}
	if policy.glyphSet.IsZero() {
		policy.glyphSet = defaults.glyphSet
	}
	if policy.lineExtension == nil {
		policy.lineExtension = defaults.lineExtension
	}
	return policy
}

// Emojis returns the emoji mapping.
func (policy Policy) Emojis() emoji.Mapping { return policy.emojis }

// Glyphs returns the glyph set.
func (policy Policy) Glyphs() glyphs.Set { return policy.glyphSet }

// CompactDirectories reports whether single-directory chains are folded.
func (policy Policy) CompactDirectories() bool { return policy.compactDirectories }

// LineExtension returns the annotation function.
func (policy Policy) LineExtension() LineExtension { return policy.lineExtension }

// TruncationDetails reports whether truncation markers carry skipped counts.
func (policy Policy) TruncationDetails() bool { return policy.truncationDetails }

// PolicyBuilder assembles a Policy starting from DefaultPolicy.
type PolicyBuilder struct {
	policy Policy
	err    error
}

// NewPolicyBuilder returns a builder seeded with the default policy.
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{policy: DefaultPolicy()}
}

// Emojis sets the emoji mapping. Use emoji.None to disable emojis.
func (builder *PolicyBuilder) Emojis(mapping emoji.Mapping) *PolicyBuilder {
	if mapping == nil {
		builder.recordError(fmt.Errorf("emojis: %w", ErrNilPolicyComponent))
		return builder
	}
	builder.policy.emojis = mapping
	return builder
}

// Glyphs sets the glyph set used for prefix columns.
func (builder *PolicyBuilder) Glyphs(glyphSet glyphs.Set) *PolicyBuilder {
	if glyphSet.IsZero() {
		builder.recordError(ErrEmptyGlyphSet)
		return builder
	}
	builder.policy.glyphSet = glyphSet
	return builder
}

// CompactDirectories toggles folding of single-directory chains.
func (builder *PolicyBuilder) CompactDirectories(enabled bool) *PolicyBuilder {
	builder.policy.compactDirectories = enabled
	return builder
}

// LineExtension sets the annotation function.
func (builder *PolicyBuilder) LineExtension(lineExtension LineExtension) *PolicyBuilder {
	if lineExtension == nil {
		builder.recordError(fmt.Errorf("line extension: %w", ErrNilPolicyComponent))
		return builder
	}
	builder.policy.lineExtension = lineExtension
	return builder
}

// TruncationDetails toggles the skipped counts on truncation markers.
func (builder *PolicyBuilder) TruncationDetails(enabled bool) *PolicyBuilder {
	builder.policy.truncationDetails = enabled
	return builder
}

// Build returns the frozen policy or the first configuration error.
func (builder *PolicyBuilder) Build() (Policy, error) {
	if builder.err != nil {
		return Policy{}, builder.err
	}
	return builder.policy, nil
}

func (builder *PolicyBuilder) recordError(err error) {
	if builder.err == nil {
		builder.err = err
	}
}
