package matcher

// Not inverts the result of the wrapped matcher.
func Not(wrapped Matcher) (Matcher, error) {
	if wrapped == nil {
		return nil, ErrNilMatcher
	}
	return MatcherFunc(func(path string) (bool, error) {
		isMatched, matchError := wrapped.Matches(path)
		if matchError != nil {
			return false, matchError
		}
		return !isMatched, nil
	}), nil
}

// AllOf matches when every matcher matches, stopping at the first that does not.
func AllOf(matchers ...Matcher) (Matcher, error) {
	validated, validationError := validateMatchers(matchers)
	if validationError != nil {
		return nil, validationError
	}
	return MatcherFunc(func(path string) (bool, error) {
		for _, candidate := range validated {
			isMatched, matchError := candidate.Matches(path)
			if matchError != nil || !isMatched {
				return false, matchError
			}
		}
		return true, nil
	}), nil
}

// AnyOf matches when at least one matcher matches, stopping at the first that does.
func AnyOf(matchers ...Matcher) (Matcher, error) {
	validated, validationError := validateMatchers(matchers)
	if validationError != nil {
		return nil, validationError
	}
	return MatcherFunc(func(path string) (bool, error) {
		for _, candidate := range validated {
			isMatched, matchError := candidate.Matches(path)
			if matchError != nil {
				return false, matchError
			}
			if isMatched {
				return true, nil
			}
		}
		return false, nil
	}), nil
}

// NoneOf matches when no matcher matches, stopping at the first that does.
func NoneOf(matchers ...Matcher) (Matcher, error) {
	anyMatcher, buildError := AnyOf(matchers...)
	if buildError != nil {
		return nil, buildError
	}
	return Not(anyMatcher)
}

// validateMatchers copies the list after rejecting empty lists and nil elements.
func validateMatchers(matchers []Matcher) ([]Matcher, error) {
	if len(matchers) == 0 {
		return nil, ErrEmptyMatcherList
	}
	for _, candidate := range matchers {
		if candidate == nil {
			return nil, ErrNilMatcher
		}
	}
	return append([]Matcher(nil), matchers...), nil
}
