// Package requestid generates request identifiers for the preview server.
package requestid

import (
	crand "crypto/rand"
	"strings"
	"time"
)

const DefaultHeaderKey = "X-Request-Id"

// ResolveHeaderKey returns the provided header key when non-empty, otherwise
// the default request id header key.
func ResolveHeaderKey(headerKey string) string {
	if v := strings.TrimSpace(headerKey); v != "" {
		return v
	}
	return DefaultHeaderKey
}

// Gen generates a sortable request id: yyyymmddHHMMSS + 10 random digits.
func Gen() string {
	return time.Now().Format("20060102150405") + randomDigits(10)
}

// randomDigits draws n decimal digits from crypto/rand, zero-filling when the
// reader fails so an id is always produced.
func randomDigits(n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := crand.Read(buf); err != nil {
		return strings.Repeat("0", n)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = '0' + b%10
	}
	return string(out)
}
