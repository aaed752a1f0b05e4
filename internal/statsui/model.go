// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/picverb/internal/model"
	"github.com/verte-zerg/picverb/internal/stats"
)

const (
	tabOverview = iota
	tabHardest
)

const barWidth = 20

var (
	accentColor = lipgloss.Color("#C89A3A")
	mutedColor  = lipgloss.Color("#4A4A4A")

	boxStyle       = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true)
	activeTabStyle = boxStyle.Foreground(lipgloss.Color("#F0F0F0")).Bold(true).BorderForeground(accentColor)
	tabStyle       = boxStyle.Foreground(lipgloss.Color("#B0B0B0")).BorderForeground(mutedColor)
	cardStyle      = boxStyle.BorderForeground(mutedColor)

	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	barStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	report stats.Report
	cfg    model.StatsConfig

	tabs      []string
	activeTab int
	overview  viewport.Model
	hardest   table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model over a prepared report.
func NewModel(report stats.Report, cfg model.StatsConfig) *Model {
	m := &Model{
		report:   report,
		cfg:      cfg,
		tabs:     []string{"Overview", "Hardest"},
		overview: viewport.New(0, 0),
		hardest:  buildHardestTable(report.Hardest, 0, 1),
	}
	m.renderTabContents()
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
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "g", "home":
			if m.activeTab == tabHardest {
				m.hardest.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHardest {
				m.hardest.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabHardest {
				m.hardest, cmd = m.hardest.Update(msg)
				return m, cmd
			}
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fit(m.renderTabs(), m.width, headerHeight)
	body := fit(m.renderBody(), m.width, bodyHeight)
	footer := fit(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeTabStyle.Render("X"))
	if headerHeight < 1 {
		headerHeight = 1
	}
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.hardest.SetWidth(m.width)
	m.hardest.SetHeight(max(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabHardest {
		m.hardest.Focus()
	} else {
		m.hardest.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeTabStyle.Render(tab))
		} else {
			parts = append(parts, tabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Top/bottom: g/G  Quit: q"
	if m.cfg.Top > 0 {
		help = fmt.Sprintf("Showing top %d  %s", m.cfg.Top, help)
	}
	return helpStyle.Render(help)
}

func (m *Model) renderBody() string {
	if m.activeTab == tabHardest {
		if len(m.report.Hardest) == 0 {
			return "No missed verbs yet."
		}
		return tableMutedStyle.Render(m.hardest.View())
	}
	return m.overview.View()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, width))
}

func renderOverview(r stats.Report, width int) string {
	if r.Attempts == 0 {
		return "No attempts recorded yet."
	}
	updated := "never"
	if !r.UpdatedAt.IsZero() {
		updated = r.UpdatedAt.Local().Format(time.DateTime)
	}
	cards := []string{
		metricCard("Attempts", fmt.Sprintf("%d", r.Attempts)),
		metricCard("Correct", fmt.Sprintf("%d", r.Correct)),
		metricCard("Accuracy", fmt.Sprintf("%d%%", r.Accuracy)),
		metricCard("Last updated", updated),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	return strings.TrimRight(summary+"\n\n"+renderMissBars(r.Hardest), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderMissBars(rows []stats.HardItem) string {
	if len(rows) == 0 {
		return "No missed verbs yet."
	}
	labelWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Infinitive))
	}
	lines := []string{helpStyle.Render("Most missed")}
	maxMisses := rows[0].Misses
	for _, row := range rows {
		label := row.Infinitive + strings.Repeat(" ", labelWidth-lipgloss.Width(row.Infinitive))
		bar := barStyle.Render(stats.MissBar(row.Misses, maxMisses, barWidth))
		lines = append(lines, fmt.Sprintf("%s %s %d", label, bar, row.Misses))
	}
	return strings.Join(lines, "\n")
}

func buildHardestTable(rows []stats.HardItem, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Verb", Width: 14},
		{Title: "Spanish", Width: 14},
		{Title: "Misses", Width: 7},
		{Title: "Hits", Width: 6},
		{Title: "Accuracy", Width: 9},
	}
	tableRows := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		acc := 0
		if total := row.Hits + row.Misses; total > 0 {
			acc = int(math.Round(100 * float64(row.Hits) / float64(total)))
		}
		tableRows = append(tableRows, table.Row{
			row.Infinitive,
			row.Spanish,
			fmt.Sprintf("%d", row.Misses),
			fmt.Sprintf("%d", row.Hits),
			fmt.Sprintf("%d%%", acc),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithHeight(max(1, height-1)),
	)
	if width > 0 {
		t.SetWidth(width)
	}
	t.SetStyles(hardestTableStyles())
	return t
}

func hardestTableStyles() table.Styles {
	styles := table.DefaultStyles()
	cell := styles.Cell.Padding(0, 1, 0, 0)
	styles.Header = cell.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(mutedColor).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Cell = cell
	styles.Selected = cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	return styles
}

// fit clips or pads s to exactly width x height cells.
func fit(s string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).MaxWidth(width).
		Height(height).MaxHeight(height).
		Render(s)
}
