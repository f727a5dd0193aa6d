// Package render turns a synthesized plan into terminal or file output.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatYAML):
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (supported: table, json, yaml)", s)
	}
}

// Plan renders a plan in the requested format. Table output is for humans,
// json/yaml for piping into other tooling.
func Plan(plan distconfig.Plan, f Format) (string, error) {
	switch f {
	case FormatJSON:
		b, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case FormatYAML:
		b, err := yaml.Marshal(plan)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case FormatTable:
		return planTable(plan), nil
	default:
		return "", fmt.Errorf("unknown format %q", string(f))
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func planTable(plan distconfig.Plan) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("routing plan: "+plan.AppName) + "\n")
	b.WriteString(summaryLine("topology", string(plan.Topology)))
	b.WriteString(summaryLine("dynamic origin", fmt.Sprintf("%s (%s)", plan.DynamicOrigin.Domain, plan.DynamicOrigin.Protocol)))
	b.WriteString(summaryLine("static origin", plan.StaticOrigin.Bucket+" (signed access)"))
	if plan.BasePath != "" {
		b.WriteString(summaryLine("base path", plan.BasePath))
	}
	if len(plan.Aliases) > 0 {
		b.WriteString(summaryLine("aliases", strings.Join(plan.Aliases, ", ")))
	}
	if len(plan.Functions) > 0 {
		names := make([]string, 0, len(plan.Functions))
		for _, fn := range plan.Functions {
			names = append(names, fn.Name)
		}
		b.WriteString(summaryLine("functions", strings.Join(names, ", ")))
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("PATTERN", "ORIGIN", "CACHE POLICY", "PROTOCOL", "COMPRESS", "HOOKS")
	for _, entry := range plan.Behaviors {
		tbl.Row(behaviorCells(entry)...)
	}
	tbl.Row(behaviorCells(plan.DefaultBehavior)...)

	b.WriteString(tbl.Render())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%d behaviors + default, apply order top to bottom", len(plan.Behaviors))))
	b.WriteString("\n")
	return b.String()
}

func behaviorCells(entry distconfig.RouteEntry) []string {
	return []string{
		entry.PathPattern,
		string(entry.OriginKind),
		entry.CachePolicy.Name,
		string(entry.ViewerProtocol),
		strconv.FormatBool(entry.Compress),
		strconv.Itoa(len(entry.EdgeHooks)),
	}
}

func summaryLine(label, value string) string {
	return labelStyle.Render(label+":") + " " + value + "\n"
}
