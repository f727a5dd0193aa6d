// Package logx holds the preview server's access-log formatting helpers:
// ANSI status coloring gated on terminal detection and a small `$var`
// template language for customizing the access line.
package logx

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether stdout wants ANSI color. NO_COLOR and dumb
// terminals win over tty detection.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("TERM")), "dumb") {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// WarnBanner returns the WARNING tag, bold yellow when stdout wants color.
func WarnBanner() string {
	if ColorEnabled() {
		return "\x1b[1;33mWARNING\x1b[0m"
	}
	return "WARNING"
}

func ColorizeStatusWith(status int, color bool) string {
	s := fmt.Sprintf("%d", status)
	if !color {
		return s
	}
	switch {
	case status >= 200 && status < 300:
		return "\x1b[1;32m" + s + "\x1b[0m"
	case status >= 300 && status < 400:
		return "\x1b[1;36m" + s + "\x1b[0m"
	case status >= 400 && status < 500:
		return "\x1b[1;33m" + s + "\x1b[0m"
	case status >= 500:
		return "\x1b[1;31m" + s + "\x1b[0m"
	default:
		return s
	}
}

// Line is one access-log record. Fields carries request-scoped extras such
// as the request id or the app the served plan belongs to.
type Line struct {
	Time     time.Time
	Status   int
	Latency  time.Duration
	ClientIP string
	Method   string
	Path     string
	Fields   map[string]any
}

// FormatRequestLine renders the built-in access line used when no custom
// format is configured. Extra fields append in sorted key order so lines
// stay diffable.
func FormatRequestLine(ln Line, color bool) string {
	var b strings.Builder
	b.WriteString(ln.Time.Format("2006/01/02 - 15:04:05"))
	b.WriteString(" | ")
	b.WriteString(ColorizeStatusWith(ln.Status, color))
	b.WriteString(" | ")
	b.WriteString(ln.Latency.String())
	b.WriteString(" | ")
	b.WriteString(valueOrDash(ln.ClientIP))
	b.WriteString(" | ")
	b.WriteString(valueOrDash(ln.Method))
	b.WriteByte(' ')
	b.WriteString(ln.Path)

	if len(ln.Fields) > 0 {
		keys := make([]string, 0, len(ln.Fields))
		for k := range ln.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := strings.TrimSpace(fmt.Sprintf("%v", ln.Fields[k]))
			if v == "" || v == "<nil>" {
				continue
			}
			b.WriteString(" | ")
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}

func valueOrDash(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	return s
}
