// Package statsui provides the Bubble Tea analytics interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathdrill/internal/app"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/stats"
)

const (
	tabOverview = iota
	tabOperations
	tabHistory
	tabMistakes
)

const timestampLayout = "2006-01-02 15:04"

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// modes is the filter cycle; the empty kind means all modes.
var modes = append([]model.OperationKind{""}, model.Kinds...)

// Model implements the Bubble Tea analytics UI.
type Model struct {
	app *app.App
	cfg stats.ReportConfig

	report stats.Report
	status string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	opsTable  table.Model
	histTable table.Model

	width  int
	height int

	confirmClear bool
}

// NewModel constructs an analytics UI model.
func NewModel(a *app.App, cfg stats.ReportConfig) *Model {
	m := &Model{
		app:  a,
		cfg:  cfg,
		tabs: []string{"Overview", "Operations", "History", "Mistakes"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.opsTable = newTable(operationColumns(), nil)
	m.histTable = newTable(historyColumns(), nil)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirmClear {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "m":
			m.cfg.Mode = nextMode(m.cfg.Mode)
			m.refreshReport()
			return m, nil
		case "x":
			m.confirmClear = true
			return m, nil
		default:
			return m.updateActive(msg)
		}
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabOperations:
		m.opsTable, cmd = m.opsTable.Update(msg)
	case tabHistory:
		m.histTable, cmd = m.histTable.Update(msg)
	default:
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
	}
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmClear = false
		if err := m.app.ClearAll(context.Background()); err != nil {
			m.status = err.Error()
		} else {
			m.status = "History cleared and settings reset."
		}
		m.refreshReport()
	case "n", "N", "esc":
		m.confirmClear = false
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.confirmClear {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderConfirm())
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.status != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	for _, t := range []*table.Model{&m.opsTable, &m.histTable} {
		t.SetWidth(m.width)
		t.SetHeight(max(bodyHeight-1, 1))
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	m.opsTable.Blur()
	m.histTable.Blur()
	switch m.activeTab {
	case tabOperations:
		m.opsTable.Focus()
	case tabHistory:
		m.histTable.Focus()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	mode := string(m.cfg.Mode)
	if mode == "" {
		mode = "all"
	}
	summary := fmt.Sprintf("Filter: mode=%s  window=%d", mode, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Mode: m  Window: -/=  Clear all: x  Quit: q")
	if m.status != "" {
		return help + "\n" + errorStyle.Render(m.status)
	}
	return help
}

func (m *Model) renderConfirm() string {
	body := []string{
		cardValueStyle.Render("Clear all history?"),
		"",
		"Sessions, solve times and mistakes will be deleted",
		"and settings reset to defaults.",
		"",
		headerStyle.Render("y: confirm  n: cancel"),
	}
	return modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabOperations:
		return tableMutedStyle.Render(m.opsTable.View())
	case tabHistory:
		if len(m.report.Sessions) == 0 {
			return "No sessions found."
		}
		return tableMutedStyle.Render(m.histTable.View())
	default:
		return m.viewports[m.activeTab].View()
	}
}

func (m *Model) refreshReport() {
	m.report = m.app.LoadAnalytics(context.Background(), m.cfg)
	m.opsTable.SetRows(operationRows(m.report.Operations))
	m.histTable.SetRows(historyRows(m.report.Sessions))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabMistakes].SetContent(renderMistakes(m.report.WrongAnswers))
}

func renderOverview(r stats.Report, width int) string {
	if r.Overall.TotalProblems == 0 && len(r.Samples) == 0 {
		return "No sessions found."
	}
	cards := renderSummaryCards(r, width)
	var buf bytes.Buffer
	if err := stats.RenderCurve(&buf, r.Samples, r.CurveWindow, width); err != nil {
		return fmt.Sprintf("Failed to render curve: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(r stats.Report, width int) string {
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", r.Overall.Sessions)),
		metricCard("Problems", fmt.Sprintf("%d", r.Overall.TotalProblems)),
		metricCard("Accuracy", r.Overall.Accuracy.Percent()),
		metricCard("Avg Time", r.Overall.AverageLatency.String()),
		metricCard("Best Time", r.Overall.BestLatency.String()),
		metricCard("Ao5", r.Ao5.String()),
		metricCard("Ao12", r.Ao12.String()),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderMistakes(wrong []model.WrongAnswer) string {
	if len(wrong) == 0 {
		return "No wrong answers recorded."
	}
	lines := make([]string, 0, len(wrong))
	for i := len(wrong) - 1; i >= 0; i-- {
		w := wrong[i]
		lines = append(lines, fmt.Sprintf("%s  %-12s  yours %-6d  correct %d",
			w.Timestamp.Local().Format(timestampLayout), w.ProblemText, w.Submitted, w.Correct))
	}
	return strings.Join(lines, "\n")
}

func newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func operationColumns() []table.Column {
	return []table.Column{
		{Title: "Mode", Width: 15},
		{Title: "Accuracy", Width: 9},
		{Title: "Correct", Width: 8},
		{Title: "Total", Width: 6},
		{Title: "Samples", Width: 8},
		{Title: "Avg Time", Width: 9},
	}
}

func operationRows(ops []stats.OperationStats) []table.Row {
	rows := make([]table.Row, 0, len(ops))
	for _, op := range ops {
		rows = append(rows, table.Row{
			string(op.Kind),
			op.Accuracy.Percent(),
			fmt.Sprintf("%d", op.Correct),
			fmt.Sprintf("%d", op.Total),
			fmt.Sprintf("%d", op.Samples),
			op.AverageLatency.String(),
		})
	}
	return rows
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "When", Width: 17},
		{Title: "Mode", Width: 15},
		{Title: "Score", Width: 8},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg Time", Width: 9},
		{Title: "Best Time", Width: 10},
		{Title: "Streak", Width: 7},
	}
}

// historyRows lists sessions newest first.
func historyRows(sessions []model.SessionRecord) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, table.Row{
			s.Timestamp.Local().Format(timestampLayout),
			string(s.Mode),
			fmt.Sprintf("%d/%d", s.Correct, s.Total),
			fmt.Sprintf("%d%%", s.Accuracy),
			stats.MetricOf(s.AverageLatency, s.HasLatency()).String(),
			stats.MetricOf(s.BestLatency, s.HasLatency()).String(),
			fmt.Sprintf("%d", s.BestStreak),
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextMode(current model.OperationKind) model.OperationKind {
	for i, k := range modes {
		if k == current {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func modalWidth(width int) int {
	return max(40, min(width-4, 64))
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
