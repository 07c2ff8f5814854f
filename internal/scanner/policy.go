package scanner

import (
	"errors"
	"fmt"

	"github.com/temirov/prettytree/internal/matcher"
	"github.com/temirov/prettytree/internal/sorting"
)

const (
	// DefaultMaxDepth is the nesting level past which directories are not listed.
	DefaultMaxDepth = 20
	// Unlimited disables the per-directory child limit.
	Unlimited = -1
)

var (
	// ErrNegativeMaxDepth is returned for a negative maximum depth.
	ErrNegativeMaxDepth = errors.New("max depth must not be negative")
	// ErrNilPolicyComponent is returned when a builder receives a nil filter, comparator or child limit.
	ErrNilPolicyComponent = errors.New("policy component must not be nil")
)

// ChildLimitFunc resolves how many children of a directory are listed. Negative means unlimited.
type ChildLimitFunc func(directoryPath string) (int, error)

// ChildLimitRule applies Limit to directories matching Matcher.
type ChildLimitRule struct {
	Matcher matcher.Matcher
	Limit   int
}

// UnlimitedChildren lists every child.
func UnlimitedChildren(string) (int, error) {
	return Unlimited, nil
}

// FixedChildLimit applies the same limit to every directory.
func FixedChildLimit(limit int) ChildLimitFunc {
	return func(string) (int, error) {
		return limit, nil
	}
}

// ChildLimitFromRules evaluates rules in order; the first matching rule wins and
// defaultLimit applies when none matches.
func ChildLimitFromRules(defaultLimit int, rules ...ChildLimitRule) (ChildLimitFunc, error) {
	copiedRules := append([]ChildLimitRule(nil), rules...)
	for ruleIndex, rule := range copiedRules {
		if rule.Matcher == nil {
			return nil, fmt.Errorf("child limit rule %d: %w", ruleIndex, matcher.ErrNilMatcher)
		}
	}
	return func(directoryPath string) (int, error) {
		for _, rule := range copiedRules {
			isMatched, matchError := rule.Matcher.Matches(directoryPath)
			if matchError != nil {
				return 0, matchError
			}
			if isMatched {
				return rule.Limit, nil
			}
		}
		return defaultLimit, nil
	}, nil
}

// Policy is the immutable traversal configuration of a scan.
type Policy struct {
	maxDepth   int
	childLimit ChildLimitFunc
	filter     matcher.Matcher
	comparator sorting.Comparator
}

// DefaultPolicy lists everything up to DefaultMaxDepth sorted by name.
func DefaultPolicy() Policy {
	return Policy{
		maxDepth:   DefaultMaxDepth,
		childLimit: UnlimitedChildren,
		filter:     matcher.Always,
		comparator: sorting.ByName,
	}
}

// withDefaults fills unset components from DefaultPolicy. The zero Policy is
// DefaultPolicy as a whole.
func (policy Policy) withDefaults() Policy {
	defaults := DefaultPolicy()
	if policy.childLimit == nil && policy.filter == nil && policy.comparator == nil && policy.maxDepth == 0 {
		return defaults
	}
	if policy.childLimit == nil {
		policy.childLimit = defaults.childLimit
	}
	if policy.filter == nil {
		policy.filter = defaults.filter
	}
	if policy.comparator == nil {
		policy.comparator = defaults.comparator
	}
	return policy
}

// MaxDepth returns the configured maximum depth.
func (policy Policy) MaxDepth() int { return policy.maxDepth }

// ChildLimit returns the child-limit function.
func (policy Policy) ChildLimit() ChildLimitFunc { return policy.childLimit }

// Filter returns the combined path filter.
func (policy Policy) Filter() matcher.Matcher { return policy.filter }

// Comparator returns the sibling comparator.
func (policy Policy) Comparator() sorting.Comparator { return policy.comparator }

// PolicyBuilder assembles a Policy starting from DefaultPolicy.
type PolicyBuilder struct {
	policy Policy
	err    error
}

// NewPolicyBuilder returns a builder seeded with the default policy.
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{policy: DefaultPolicy()}
}

// MaxDepth sets the depth at which directories stop being listed.
func (builder *PolicyBuilder) MaxDepth(maxDepth int) *PolicyBuilder {
	if maxDepth < 0 {
		builder.recordError(fmt.Errorf("%w: %d", ErrNegativeMaxDepth, maxDepth))
		return builder
	}
	builder.policy.maxDepth = maxDepth
	return builder
}

// ChildLimit sets the child-limit function.
func (builder *PolicyBuilder) ChildLimit(childLimit ChildLimitFunc) *PolicyBuilder {
	if childLimit == nil {
		builder.recordError(fmt.Errorf("child limit: %w", ErrNilPolicyComponent))
		return builder
	}
	builder.policy.childLimit = childLimit
	return builder
}

// Filter sets the path filter applied to every listed child.
func (builder *PolicyBuilder) Filter(filter matcher.Matcher) *PolicyBuilder {
	if filter == nil {
		builder.recordError(fmt.Errorf("filter: %w", ErrNilPolicyComponent))
		return builder
	}
	builder.policy.filter = filter
	return builder
}

// Comparator sets the sibling ordering.
func (builder *PolicyBuilder) Comparator(comparator sorting.Comparator) *PolicyBuilder {
	if comparator == nil {
		builder.recordError(fmt.Errorf("comparator: %w", ErrNilPolicyComponent))
		return builder
	}
	builder.policy.comparator = comparator
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
