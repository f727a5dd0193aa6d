package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
)

func testPlan(t *testing.T) distconfig.Plan {
	t.Helper()
	plan, err := distconfig.Synthesize(distconfig.Inputs{
		AppName:      "shop",
		Topology:     distconfig.TopologyServerFunction,
		ServerDomain: "abc.execute-api.us-east-1.amazonaws.com",
		StaticBucket: "shop-assets",
		PublicEntries: []distconfig.PublicEntry{
			{Name: "favicon.ico"},
			{Name: "images", IsDirectory: true},
		},
		Aliases: []string{"www.example.com"},
	})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	return plan
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseFormat(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseFormat(%q)=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestPlanJSONRoundTrips(t *testing.T) {
	out, err := Plan(testPlan(t), FormatJSON)
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	var decoded distconfig.Plan
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode rendered json: %v", err)
	}
	if decoded.AppName != "shop" {
		t.Fatalf("app_name=%q", decoded.AppName)
	}
	if len(decoded.Behaviors) != 4 {
		t.Fatalf("behaviors=%d", len(decoded.Behaviors))
	}
}

func TestPlanYAML(t *testing.T) {
	out, err := Plan(testPlan(t), FormatYAML)
	if err != nil {
		t.Fatalf("render yaml: %v", err)
	}
	if !strings.Contains(out, "app_name: shop") {
		t.Fatalf("yaml missing app_name: %q", out)
	}
	if !strings.Contains(out, "path_pattern: _next/image*") {
		t.Fatalf("yaml missing image pattern: %q", out)
	}
}

func TestPlanTableShape(t *testing.T) {
	out, err := Plan(testPlan(t), FormatTable)
	if err != nil {
		t.Fatalf("render table: %v", err)
	}
	for _, want := range []string{
		"routing plan: shop",
		"server-function",
		"shop-assets",
		"PATTERN",
		"_next/image*",
		"_next/static*",
		"favicon.ico",
		"images/*",
		"www.example.com",
		"4 behaviors + default",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}

	imageIdx := strings.Index(out, "_next/image*")
	staticIdx := strings.Index(out, "_next/static*")
	publicIdx := strings.Index(out, "favicon.ico")
	if !(imageIdx < staticIdx && staticIdx < publicIdx) {
		t.Fatalf("behavior rows out of order:\n%s", out)
	}
}

func TestPlanUnknownFormat(t *testing.T) {
	if _, err := Plan(distconfig.Plan{}, Format("xml")); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
