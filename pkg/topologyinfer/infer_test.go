package topologyinfer

import (
	"testing"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name string
		host string
		want distconfig.ComputeTopology
		ok   bool
	}{
		{name: "lambda_function_url", host: "abc123.lambda-url.us-east-1.on.aws", want: distconfig.TopologyEdgeFunction, ok: true},
		{name: "api_gateway", host: "abc123.execute-api.us-east-1.amazonaws.com", want: distconfig.TopologyServerFunction, ok: true},
		{name: "cloud_functions", host: "us-central1-proj.cloudfunctions.net", want: distconfig.TopologyServerFunction, ok: true},
		{name: "azure_functions", host: "myapp.azurewebsites.net", want: distconfig.TopologyServerFunction, ok: true},
		{name: "alb", host: "shop-alb-123.us-east-1.elb.amazonaws.com", want: distconfig.TopologyContainer, ok: true},
		{name: "cloud_run", host: "shop-abc-uc.a.run.app", want: distconfig.TopologyContainer, ok: true},
		{name: "fly", host: "shop.fly.dev", want: distconfig.TopologyContainer, ok: true},
		{name: "uppercase_host", host: "ABC.LAMBDA-URL.EU-WEST-1.ON.AWS", want: distconfig.TopologyEdgeFunction, ok: true},
		{name: "unknown", host: "origin.example.com", want: "", ok: false},
		{name: "empty", host: " ", want: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Infer(tt.host)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("Infer(%q) = (%q, %v), want (%q, %v)", tt.host, got, ok, tt.want, tt.ok)
			}
		})
	}
}
