package distconfig

import "fmt"

// LimitExceededError reports a configuration whose public-directory routes
// would exceed the platform route ceiling. It is raised before any
// provisioning call.
type LimitExceededError struct {
	PublicRoutes int
	Limits       Limits
}

func (e *LimitExceededError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf(
		"public directory yields %d routes but the distribution allows at most %d (%d total minus %d reserved for image, static assets and the default route): consolidate top-level public files into fewer directories",
		e.PublicRoutes, e.Limits.MaxPublicRoutes(), e.Limits.MaxRoutes, e.Limits.ReservedRoutes,
	)
}

// InvalidPatternError reports a synthesized path pattern that falls outside
// the distribution's pattern grammar.
type InvalidPatternError struct {
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf(
		"invalid path pattern %q: must match %s, see the CloudFront path pattern syntax rules",
		e.Pattern, PatternGrammar,
	)
}

// DuplicatePatternError reports two routes sharing one path pattern. Pattern
// identity must be unique within a configuration.
type DuplicatePatternError struct {
	Pattern string
}

func (e *DuplicatePatternError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("duplicate path pattern %q in routing configuration", e.Pattern)
}

// MissingInputError reports an input field the selected topology requires.
// It is raised at synthesis start, never partway through.
type MissingInputError struct {
	Field    string
	Topology ComputeTopology
}

func (e *MissingInputError) Error() string {
	if e == nil {
		return ""
	}
	if e.Topology != "" {
		return fmt.Sprintf("missing required input %s for topology %q", e.Field, e.Topology)
	}
	return fmt.Sprintf("missing required input %s", e.Field)
}
