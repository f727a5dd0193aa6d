package provision

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPDoer captures the subset of *http.Client the probe relies on, so tests
// can inject fakes and run without outbound requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProbeOrigin sends one HEAD request to the server URL and reports whether
// the dynamic origin answered. Callers treat a failure as a warning, never as
// a reason to reject the plan: the origin may simply not be deployed yet.
func ProbeOrigin(ctx context.Context, doer HTTPDoer, serverURL string, timeout time.Duration) error {
	if doer == nil {
		doer = &http.Client{Timeout: timeout}
	}
	target := strings.TrimSpace(serverURL)
	if target == "" {
		return fmt.Errorf("server url is empty")
	}
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	resp, err := doer.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", target, err)
	}
	if resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("probe %s: origin responded with status %d", target, resp.StatusCode)
	}
	return nil
}
