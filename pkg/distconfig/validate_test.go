package distconfig

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePattern_Grammar(t *testing.T) {
	valid := []string{
		"_next/image*",
		"_next/static*",
		"favicon.ico",
		"assets/*",
		"docs/v1.2/*",
		"~user",
		"a$b@c:d+e?f&g",
		`quo"te'`,
		"*",
	}
	for _, p := range valid {
		if err := ValidatePattern(p); err != nil {
			t.Fatalf("pattern %q should be valid: %v", p, err)
		}
	}

	invalid := []string{
		"bad name!.png",
		"space dir/*",
		"percent%20",
		"semi;colon",
		"",
	}
	for _, p := range invalid {
		err := ValidatePattern(p)
		if err == nil {
			t.Fatalf("pattern %q should be invalid", p)
		}
		var ipe *InvalidPatternError
		if !errors.As(err, &ipe) {
			t.Fatalf("pattern %q: error type %T", p, err)
		}
		if ipe.Pattern != p {
			t.Fatalf("error must name the offending pattern: got %q want %q", ipe.Pattern, p)
		}
	}
}

func TestValidateEntries_CountCeiling(t *testing.T) {
	limits := DefaultLimits()
	if limits.MaxPublicRoutes() != 22 {
		t.Fatalf("MaxPublicRoutes=%d want=22", limits.MaxPublicRoutes())
	}

	if err := ValidateEntries(nil, 21, limits); err != nil {
		t.Fatalf("21 public routes should pass: %v", err)
	}

	err := ValidateEntries(nil, 22, limits)
	if err == nil {
		t.Fatalf("22 public routes must exceed the ceiling")
	}
	var lee *LimitExceededError
	if !errors.As(err, &lee) {
		t.Fatalf("error type %T", err)
	}
	if lee.PublicRoutes != 22 {
		t.Fatalf("error routes=%d want=22", lee.PublicRoutes)
	}
	msg := err.Error()
	if !strings.Contains(msg, "22") || !strings.Contains(msg, "25") {
		t.Fatalf("error should name the configured limits: %q", msg)
	}
	if !strings.Contains(msg, "consolidate") {
		t.Fatalf("error should suggest consolidating public entries: %q", msg)
	}
}

func TestValidateEntries_FailFastInOrder(t *testing.T) {
	entries := []RouteEntry{
		{PathPattern: "first bad!"},
		{PathPattern: "second bad!"},
	}
	err := ValidateEntries(entries, 2, DefaultLimits())
	var ipe *InvalidPatternError
	if !errors.As(err, &ipe) {
		t.Fatalf("error type %T", err)
	}
	if ipe.Pattern != "first bad!" {
		t.Fatalf("validator must report the first violation, got %q", ipe.Pattern)
	}
}

func TestValidateEntries_DuplicatePattern(t *testing.T) {
	entries := []RouteEntry{
		{PathPattern: "assets/*"},
		{PathPattern: "favicon.ico"},
		{PathPattern: "assets/*"},
	}
	err := ValidateEntries(entries, 3, DefaultLimits())
	var dpe *DuplicatePatternError
	if !errors.As(err, &dpe) {
		t.Fatalf("error type %T: %v", err, err)
	}
	if dpe.Pattern != "assets/*" {
		t.Fatalf("duplicate pattern=%q want=assets/*", dpe.Pattern)
	}
}

func TestValidateEntries_ZeroLimitsFallBackToPlatformDefaults(t *testing.T) {
	err := ValidateEntries(nil, 22, Limits{})
	var lee *LimitExceededError
	if !errors.As(err, &lee) {
		t.Fatalf("zero limits should default to the platform ceiling, got %T", err)
	}
	if lee.Limits.MaxRoutes != 25 || lee.Limits.ReservedRoutes != 3 {
		t.Fatalf("defaulted limits=%+v", lee.Limits)
	}
}
