package logx

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

type formatPart struct {
	literal string
	varName string
}

// AccessFormatter renders access lines from a compiled `$var` template.
type AccessFormatter struct {
	parts []formatPart
}

var accessFormatPresets = map[string]string{
	"plan_combined": "$time_local | $status | $latency | $client_ip | $method $path | request_id=$request_id app=$app topology=$topology behaviors=$behaviors",
	"plan_minimal":  "$time_local | $status | $latency | $method $path | request_id=$request_id",
}

var allowedAccessVars = map[string]struct{}{
	"time_local": {},
	"status":     {},
	"latency":    {},
	"latency_ms": {},
	"client_ip":  {},
	"method":     {},
	"path":       {},
	"request_id": {},
	"app":        {},
	"topology":   {},
	"behaviors":  {},
}

// ResolveAccessFormat picks the effective template: an explicit format wins,
// then a named preset, then empty (meaning the built-in line).
func ResolveAccessFormat(format string, preset string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}
	p := strings.ToLower(strings.TrimSpace(preset))
	if p == "" {
		return "", nil
	}
	out, ok := accessFormatPresets[p]
	if !ok {
		return "", fmt.Errorf("invalid access_log_preset: %q", preset)
	}
	return out, nil
}

// CompileAccessFormat parses a template into a formatter. `$$` escapes a
// literal dollar sign; `$name` must reference a known variable. An empty
// template compiles to nil so callers fall back to the built-in line.
func CompileAccessFormat(format string) (*AccessFormatter, error) {
	if strings.TrimSpace(format) == "" {
		return nil, nil
	}

	var parts []formatPart
	appendLiteral := func(s string) {
		if s == "" {
			return
		}
		if n := len(parts); n > 0 && parts[n-1].varName == "" {
			parts[n-1].literal += s
			return
		}
		parts = append(parts, formatPart{literal: s})
	}

	rest := format
	for {
		dollar := strings.IndexByte(rest, '$')
		if dollar < 0 {
			appendLiteral(rest)
			break
		}
		appendLiteral(rest[:dollar])
		rest = rest[dollar+1:]
		if strings.HasPrefix(rest, "$") {
			appendLiteral("$")
			rest = rest[1:]
			continue
		}
		n := varNameLen(rest)
		if n == 0 {
			return nil, fmt.Errorf("invalid access_log_format: missing variable name after '$' at pos %d", len(format)-len(rest)-1)
		}
		name := rest[:n]
		if _, ok := allowedAccessVars[name]; !ok {
			return nil, fmt.Errorf("invalid access_log_format: unknown variable $%s", name)
		}
		parts = append(parts, formatPart{varName: name})
		rest = rest[n:]
	}
	return &AccessFormatter{parts: parts}, nil
}

// varNameLen reports how many leading bytes of s form a variable name
// (letters, digits, underscores).
func varNameLen(s string) int {
	for i, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return i
		}
	}
	return len(s)
}

// Render expands the template for one request. Variables that resolve to an
// empty value render as a dash so columns stay aligned.
func (f *AccessFormatter) Render(ln Line, color bool) string {
	if f == nil || len(f.parts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range f.parts {
		if p.varName == "" {
			b.WriteString(p.literal)
			continue
		}
		if v := strings.TrimSpace(resolveVar(p.varName, ln, color)); v != "" {
			b.WriteString(v)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

func resolveVar(name string, ln Line, color bool) string {
	switch name {
	case "time_local":
		return ln.Time.Format("2006/01/02 - 15:04:05")
	case "status":
		return ColorizeStatusWith(ln.Status, color)
	case "latency":
		return ln.Latency.String()
	case "latency_ms":
		return strconv.FormatInt(ln.Latency.Milliseconds(), 10)
	case "client_ip":
		return ln.ClientIP
	case "method":
		return ln.Method
	case "path":
		return ln.Path
	}
	v, ok := ln.Fields[name]
	if !ok || v == nil {
		return ""
	}
	s := fmt.Sprint(v)
	if s == "<nil>" {
		return ""
	}
	return s
}

// AccessAllowedVars lists the variables a template may reference, sorted.
func AccessAllowedVars() []string {
	keys := make([]string, 0, len(allowedAccessVars))
	for k := range allowedAccessVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
