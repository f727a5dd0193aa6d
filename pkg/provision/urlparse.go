package provision

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseServerURL extracts the bare domain from a server URL for use as the
// dynamic origin target. Accepts a full URL or a plain host; the port is
// dropped since the distribution addresses origins by domain alone.
func ParseServerURL(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", fmt.Errorf("server url is empty")
	}
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	u, err := url.Parse(v)
	if err != nil {
		return "", fmt.Errorf("parse server url %q: %w", raw, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("server url %q has no host", raw)
	}
	return strings.ToLower(host), nil
}
