package distconfig

import "regexp"

// PatternGrammar is the character grammar every synthesized path pattern must
// match. It mirrors the distribution provider's published pattern syntax.
const PatternGrammar = `^[a-zA-Z0-9_\-.*$/~"'@:+?&]+$`

var patternRE = regexp.MustCompile(PatternGrammar)

// ValidatePattern checks one path pattern against the grammar.
func ValidatePattern(pattern string) error {
	if !patternRE.MatchString(pattern) {
		return &InvalidPatternError{Pattern: pattern}
	}
	return nil
}

// ValidateEntries enforces the platform constraints on a synthesized route
// list: first the public-route ceiling, then the pattern grammar and pattern
// uniqueness per entry in emission order. Validation is fail-fast: the first
// violation is returned, not all of them.
//
// publicRoutes is the number of entries drawn from the public directory
// listing; the fixed image, static and default rules occupy the reserved
// slots and are not counted against it.
func ValidateEntries(entries []RouteEntry, publicRoutes int, limits Limits) error {
	l := limits.withDefaults()
	if publicRoutes >= l.MaxPublicRoutes() {
		return &LimitExceededError{PublicRoutes: publicRoutes, Limits: l}
	}
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if err := ValidatePattern(entry.PathPattern); err != nil {
			return err
		}
		if _, ok := seen[entry.PathPattern]; ok {
			return &DuplicatePatternError{Pattern: entry.PathPattern}
		}
		seen[entry.PathPattern] = struct{}{}
	}
	return nil
}
