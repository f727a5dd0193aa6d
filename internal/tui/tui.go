// Package tui is an interactive viewer for the synthesized routing plan:
// a behavior table with a toggleable detail pane and in-place re-synthesis.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/distconfig"
	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/provision"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Padding(0, 1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1)
	detailStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
)

type planMsg struct {
	plan distconfig.Plan
}

type planErrMsg struct {
	err error
}

type model struct {
	cfg  *config.Config
	deps provision.Deps

	plan       distconfig.Plan
	table      table.Model
	showDetail bool
	status     string
	err        error
}

func newModel(cfg *config.Config, deps provision.Deps, plan distconfig.Plan) model {
	columns := []table.Column{
		{Title: "PATTERN", Width: 28},
		{Title: "ORIGIN", Width: 8},
		{Title: "CACHE POLICY", Width: 22},
		{Title: "PROTOCOL", Width: 18},
		{Title: "HOOKS", Width: 5},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(14),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Bold(true)
	t.SetStyles(styles)

	m := model{cfg: cfg, deps: deps, table: t}
	m.setPlan(plan)
	return m
}

func (m *model) setPlan(plan distconfig.Plan) {
	m.plan = plan
	rows := make([]table.Row, 0, len(plan.Behaviors)+1)
	for _, entry := range plan.Behaviors {
		rows = append(rows, rowForEntry(entry))
	}
	rows = append(rows, rowForEntry(plan.DefaultBehavior))
	m.table.SetRows(rows)
}

func rowForEntry(entry distconfig.RouteEntry) table.Row {
	return table.Row{
		entry.PathPattern,
		string(entry.OriginKind),
		entry.CachePolicy.Name,
		string(entry.ViewerProtocol),
		strconv.Itoa(len(entry.EdgeHooks)),
	}
}

// selectedEntry maps the cursor onto the plan; the last row is always the
// default behavior.
func (m model) selectedEntry() (distconfig.RouteEntry, bool) {
	idx := m.table.Cursor()
	if idx >= 0 && idx < len(m.plan.Behaviors) {
		return m.plan.Behaviors[idx], false
	}
	return m.plan.DefaultBehavior, true
}

func (m model) resynthesize() tea.Msg {
	plan, err := provision.BuildPlan(context.Background(), m.cfg, m.deps)
	if err != nil {
		return planErrMsg{err: err}
	}
	return planMsg{plan: plan}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			m.showDetail = !m.showDetail
			return m, nil
		case "r":
			m.status = "re-synthesizing..."
			return m, m.resynthesize
		}
	case planMsg:
		m.setPlan(msg.plan)
		m.err = nil
		m.status = fmt.Sprintf("re-synthesized: %d behaviors + default", len(msg.plan.Behaviors))
		return m, nil
	case planErrMsg:
		m.err = msg.err
		m.status = ""
		return m, nil
	case tea.WindowSizeMsg:
		h := msg.Height - 8
		if h < 4 {
			h = 4
		}
		m.table.SetHeight(h)
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("nextcdn plan: %s [%s]", m.plan.AppName, m.plan.Topology)))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.showDetail {
		b.WriteString(detailStyle.Render(m.detailView()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("up/down: move  enter: details  r: re-synthesize  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m model) detailView() string {
	entry, isDefault := m.selectedEntry()
	lines := []string{
		"pattern: " + entry.PathPattern,
		"origin: " + string(entry.OriginKind),
		fmt.Sprintf("cache policy: %s (ttl %d/%d/%d)", entry.CachePolicy.Name,
			entry.CachePolicy.MinTTLSeconds, entry.CachePolicy.DefaultTTLSeconds, entry.CachePolicy.MaxTTLSeconds),
		"header policy: " + entry.HeaderPolicy.Name,
		"viewer protocol: " + string(entry.ViewerProtocol),
		"compress: " + strconv.FormatBool(entry.Compress),
	}
	if isDefault {
		lines[0] += " (default behavior)"
	}
	if entry.OriginRequestPolicy != nil {
		lines = append(lines, "origin request: "+entry.OriginRequestPolicy.Name)
	}
	for _, assoc := range entry.FunctionAssociations {
		lines = append(lines, fmt.Sprintf("function: %s @ %s", assoc.FunctionName, assoc.EventType))
	}
	for _, hook := range entry.EdgeHooks {
		lines = append(lines, fmt.Sprintf("edge hook: %s @ %s", hook.FunctionID, hook.Stage))
	}
	return strings.Join(lines, "\n")
}

// Run loads the config, synthesizes the plan and starts the viewer.
func Run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	plan, err := provision.BuildPlan(context.Background(), cfg, provision.Deps{})
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	p := tea.NewProgram(newModel(cfg, provision.Deps{}, plan), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui run failed: %w", err)
	}
	return nil
}
