// Package topologyinfer guesses the compute topology behind a server URL
// from well-known host suffixes of managed platforms. An explicit topology
// setting always wins over inference.
package topologyinfer

import (
	"strings"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
)

// Ordered so function-platform hosts are checked before the generic
// load-balancer and container suffixes.
var hostHints = []struct {
	substr   string
	topology distconfig.ComputeTopology
}{
	{"lambda-url", distconfig.TopologyEdgeFunction},
	{"execute-api", distconfig.TopologyServerFunction},
	{"cloudfunctions.net", distconfig.TopologyServerFunction},
	{"azurewebsites.net", distconfig.TopologyServerFunction},
	{"elb.amazonaws.com", distconfig.TopologyContainer},
	{"run.app", distconfig.TopologyContainer},
	{"fly.dev", distconfig.TopologyContainer},
	{"railway.app", distconfig.TopologyContainer},
}

// Infer guesses the topology behind host. ok is false when no managed
// platform suffix is recognized.
func Infer(host string) (topology distconfig.ComputeTopology, ok bool) {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return "", false
	}
	for _, hint := range hostHints {
		if strings.Contains(h, hint.substr) {
			return hint.topology, true
		}
	}
	return "", false
}
