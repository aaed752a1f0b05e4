// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/verte-zerg/picverb/internal/catalog"
	"github.com/verte-zerg/picverb/internal/ledger"
	"github.com/verte-zerg/picverb/internal/model"
	"github.com/verte-zerg/picverb/internal/session"
)

// Loader fetches the catalog. It runs off the UI loop.
type Loader func(ctx context.Context) ([]model.Item, error)

type catalogLoadedMsg struct {
	items []model.Item
	err   error
}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	sess  *session.Session
	load  Loader
	state session.State
	byID  map[string]model.Item

	cursor int
	width  int
	height int
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a quiz TUI model. The catalog is loaded on Init.
func NewModel(sess *session.Session, load Loader) *Model {
	return &Model{
		sess:  sess,
		load:  load,
		state: sess.State(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		items, err := load(context.Background())
		return catalogLoadedMsg{items: items, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case catalogLoadedMsg:
		m.state = m.sess.Start(context.Background(), msg.items, msg.err)
		m.byID = lo.KeyBy(m.sess.Items(), func(item model.Item) string {
			return item.ID
		})
		m.cursor = 0
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" || key == "esc" {
		return m, tea.Quit
	}
	if m.state.Status != session.StatusReady {
		return m, nil
	}
	ctx := context.Background()
	if key == "ctrl+r" || key == "R" {
		m.state = m.sess.ResetStats(ctx)
		return m, nil
	}

	options := m.state.Round.Options
	if m.state.Answered() {
		switch key {
		case "enter", " ", "n", "right":
			m.state = m.sess.Advance(ctx)
			m.cursor = 0
		}
		return m, nil
	}
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.cursor < len(options) {
			m.state = m.sess.Answer(ctx, options[m.cursor].ID)
		}
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(options) {
			m.cursor = n - 1
			m.state = m.sess.Answer(ctx, options[n-1].ID)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderBody()
	if m.width == 0 || m.height == 0 {
		return content
	}
	contentWidth := m.contentWidth()
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	width := int(float64(m.width) * 0.70)
	if width < 1 {
		width = 1
	}
	return width
}

func (m *Model) renderBody() string {
	switch m.state.Status {
	case session.StatusLoading:
		return pendingStyle.Render("Loading verbs...")
	case session.StatusCatalogUnavailable:
		lines := []string{
			incorrectStyle.Render("Catalog unavailable"),
			"",
		}
		for _, line := range wrapText(fmt.Sprint(m.state.Err), m.wrapWidth()) {
			lines = append(lines, pendingStyle.Render(line))
		}
		lines = append(lines, "", footerStyle.Render("Press q to quit."))
		return strings.Join(lines, "\n")
	default:
		return m.renderRound()
	}
}

func (m *Model) renderRound() string {
	target := m.state.Round.Target
	width := m.wrapWidth()

	var lines []string
	image := catalog.NormalizeImageURL(target.Image)
	if image == "" {
		image = "image unavailable"
	}
	for _, line := range hangingWrap("Picture: ", image, width) {
		lines = append(lines, pendingStyle.Render(line))
	}
	es := "ES: " + target.Spanish
	if target.Pronunciation != "" {
		es += " (" + target.Pronunciation + ")"
	}
	for _, line := range wrapText(es, width) {
		lines = append(lines, titleStyle.Render(line))
	}
	lines = append(lines, "")

	for i, opt := range m.state.Round.Options {
		marker, style := m.optionMarker(i, opt)
		prefix := fmt.Sprintf("%s %d. ", marker, i+1)
		for _, line := range hangingWrap(prefix, formsLabel(opt), width) {
			lines = append(lines, style.Render(line))
		}
	}

	lines = append(lines, "")
	if fb := m.feedback(); fb != "" {
		lines = append(lines, fb)
	}
	lines = append(lines, footerStyle.Render(m.help()))
	return strings.Join(lines, "\n")
}

func (m *Model) optionMarker(i int, opt model.Item) (string, lipgloss.Style) {
	if !m.state.Answered() {
		if i == m.cursor {
			return ">", cursorStyle
		}
		return " ", pendingStyle
	}
	switch {
	case opt.ID == m.state.Round.Target.ID:
		return "+", correctStyle
	case opt.ID == m.state.Picked:
		return "x", incorrectStyle
	default:
		return " ", pendingStyle
	}
}

func (m *Model) feedback() string {
	if !m.state.Answered() {
		return ""
	}
	if m.state.Correct() {
		return correctStyle.Render("Correct!")
	}
	return incorrectStyle.Render("Not quite. The correct answer is: " + formsLabel(m.state.Round.Target))
}

func (m *Model) help() string {
	if m.state.Answered() {
		return "next: enter/n  reset stats: R  quit: q"
	}
	return "answer: 1-9 or up/down + enter  reset stats: R  quit: q"
}

func (m *Model) wrapWidth() int {
	if m.width == 0 {
		return 0
	}
	return m.contentWidth()
}

func (m *Model) renderFooter() string {
	if m.state.Status != session.StatusReady {
		return ""
	}
	l := m.state.Ledger
	segments := []string{
		fmt.Sprintf("Accuracy %d%%", l.Accuracy()),
		fmt.Sprintf("%d/%d correct", l.Correct, l.Total),
	}
	line := strings.Join(segments, "  ")
	hardest := l.Hardest(ledger.HardestLimit)
	labels := lo.Map(hardest, func(miss ledger.Miss, _ int) string {
		return fmt.Sprintf("%s x%d", m.label(miss.ItemID), miss.Count)
	})
	// Drop trailing labels that would not fit, keeping at least the hardest.
	for n := len(labels); n > 0; n-- {
		full := line + "  Hardest: " + strings.Join(labels[:n], ", ")
		if n == 1 || m.width <= 0 || lipgloss.Width(full) <= m.width {
			line = full
			break
		}
	}
	return footerStyle.Render(line)
}

func (m *Model) label(id string) string {
	if item, ok := m.byID[id]; ok && item.Infinitive != "" {
		return item.Infinitive
	}
	return id
}

// formsLabel joins the verb forms that are present, infinitive first.
func formsLabel(item model.Item) string {
	forms := lo.Filter([]string{item.Infinitive, item.Past, item.PastParticiple, item.Gerund}, func(s string, _ int) bool {
		return s != ""
	})
	return strings.Join(forms, " / ")
}
