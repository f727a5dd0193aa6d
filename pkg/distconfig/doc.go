// Package distconfig synthesizes an ordered CDN routing configuration for a
// Next.js-style application: static assets served from an object store,
// server-rendered content from a compute endpoint, and image transformation
// requests from the same endpoint under a dedicated path.
//
// # Public API surface (intended for reuse)
//
// The following identifiers are considered part of the reusable API and are
// expected to remain stable (source-compatible) within the same major version:
//
//   - Synthesis: Inputs, Overrides, Plan, Synthesize.
//   - Policy resolution: CachePolicy, HeaderPolicy, OriginRequestPolicy with
//     their Override types, and the ResolveXxxPolicy functions.
//   - Origins: StaticOrigin, DynamicOrigin, BuildStaticOrigin, BuildDynamicOrigin.
//   - Validation: ValidateEntries, ValidatePattern, Limits, and the error types
//     LimitExceededError, InvalidPatternError, MissingInputError and
//     DuplicatePatternError.
//
// # Host integration
//
// This package only depends on the Go stdlib. It performs no I/O and holds no
// state between calls: Synthesize is a pure function of its Inputs, and
// re-running it with identical inputs yields an identical Plan. Hosts are
// expected to:
//
//   - Gather Inputs from their own sources (deployment config, build output
//     listing, request-signing provider) before calling Synthesize.
//   - Apply the resulting Plan to a distribution provider in order: every
//     entry of Plan.Behaviors first, Plan.DefaultBehavior last.
//   - Treat a synthesis error as fatal for the whole configuration; a failed
//     Plan must never be partially applied.
//
// # File organization
//
// Filename prefixes map to package responsibilities:
//
//   - types.go: shared enums, public entries, topology, platform limits.
//   - cache.go / headers.go / originrequest.go: one policy dimension each,
//     with its defaults, override type and typed merge function.
//   - origin.go: static and dynamic origin construction.
//   - behavior.go: route entries, behavior templates, edge hook types.
//   - synthesize.go: the top-level pipeline producing a Plan.
//   - validate.go: pattern grammar and route ceiling enforcement.
//   - errors.go: the error taxonomy raised by synthesis.
package distconfig
