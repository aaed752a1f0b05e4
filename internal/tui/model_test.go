package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/picverb/internal/generator"
	"github.com/verte-zerg/picverb/internal/ledger"
	"github.com/verte-zerg/picverb/internal/model"
	"github.com/verte-zerg/picverb/internal/session"
	"github.com/verte-zerg/picverb/internal/store"
)

var testItems = []model.Item{
	{ID: "to_eat", Infinitive: "eat", Past: "ate", PastParticiple: "eaten", Gerund: "eating", Spanish: "comer", Pronunciation: "ko-MEHR"},
	{ID: "to_go", Infinitive: "go", Past: "went", PastParticiple: "gone", Gerund: "going", Spanish: "ir"},
	{ID: "to_run", Infinitive: "run", Past: "ran", PastParticiple: "run", Gerund: "running", Spanish: "correr"},
}

func newTestModel(t *testing.T, items []model.Item, loadErr error) *Model {
	t.Helper()
	book := ledger.NewBook(store.NewMemory())
	gen := generator.NewWithSource(generator.NewSequence())
	sess := session.New(book, gen, session.Options{OptionCount: 3, AvoidRepeat: true}, nil)
	m := NewModel(sess, func(context.Context) ([]model.Item, error) {
		return items, loadErr
	})
	if m.state.Status != session.StatusLoading {
		t.Fatalf("expected loading before Init, got %s", m.state.Status)
	}
	cmd := m.Init()
	if cmd == nil {
		t.Fatalf("expected Init to return the catalog load command")
	}
	m.Update(cmd())
	return m
}

func press(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+r":
		msg = tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func optionIndex(m *Model, id string) int {
	for i, opt := range m.state.Round.Options {
		if opt.ID == id {
			return i
		}
	}
	return -1
}

func wrongIndex(m *Model) int {
	for i, opt := range m.state.Round.Options {
		if opt.ID != m.state.Round.Target.ID {
			return i
		}
	}
	return -1
}

func TestModelLoadsCatalog(t *testing.T) {
	m := newTestModel(t, testItems, nil)
	if m.state.Status != session.StatusReady {
		t.Fatalf("expected ready, got %s", m.state.Status)
	}
	if len(m.state.Round.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(m.state.Round.Options))
	}
	view := m.View()
	if !strings.Contains(view, "ES: "+m.state.Round.Target.Spanish) {
		t.Fatalf("view missing prompt: %s", view)
	}
	if !strings.Contains(view, "eat / ate / eaten / eating") {
		t.Fatalf("view missing verb forms: %s", view)
	}
}

func TestModelLoadingView(t *testing.T) {
	book := ledger.NewBook(nil)
	sess := session.New(book, generator.New(), session.Options{}, nil)
	m := NewModel(sess, func(context.Context) ([]model.Item, error) { return testItems, nil })
	if view := m.View(); !strings.Contains(view, "Loading verbs...") {
		t.Fatalf("unexpected loading view: %s", view)
	}
}

func TestModelCatalogUnavailable(t *testing.T) {
	m := newTestModel(t, nil, errors.New("connection refused"))
	if m.state.Status != session.StatusCatalogUnavailable {
		t.Fatalf("expected catalog unavailable, got %s", m.state.Status)
	}
	view := m.View()
	if !strings.Contains(view, "Catalog unavailable") || !strings.Contains(view, "connection refused") {
		t.Fatalf("unexpected error view: %s", view)
	}
	if cmd := press(m, "1"); cmd != nil {
		t.Fatalf("expected answer keys to be ignored")
	}
	cmd := press(m, "q")
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestModelWrongAnswerShowsFeedback(t *testing.T) {
	m := newTestModel(t, testItems, nil)
	target := m.state.Round.Target
	wrong := wrongIndex(m)

	press(m, string(rune('1'+wrong)))
	if !m.state.Answered() || m.state.Correct() {
		t.Fatalf("expected a wrong answer, got %+v", m.state)
	}
	if m.state.Ledger.Misses[target.ID] != 1 || m.state.Ledger.Total != 1 {
		t.Fatalf("expected miss recorded for %s: %+v", target.ID, m.state.Ledger)
	}
	if view := m.View(); !strings.Contains(view, "The correct answer is: "+formsLabel(target)) {
		t.Fatalf("view missing feedback: %s", view)
	}

	// Further answers are ignored until advancing.
	press(m, string(rune('1'+optionIndex(m, target.ID))))
	if m.state.Ledger.Total != 1 {
		t.Fatalf("expected second answer to be ignored, total=%d", m.state.Ledger.Total)
	}

	press(m, "n")
	if m.state.Answered() {
		t.Fatalf("expected a fresh round after advancing")
	}
	if m.cursor != 0 {
		t.Fatalf("expected cursor reset, got %d", m.cursor)
	}
}

func TestModelCursorAnswer(t *testing.T) {
	m := newTestModel(t, testItems, nil)
	press(m, "down")
	press(m, "down")
	press(m, "down")
	press(m, "up")
	if m.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.cursor)
	}
	want := m.state.Round.Options[1].ID
	press(m, "enter")
	if m.state.Picked != want {
		t.Fatalf("expected pick %s, got %s", want, m.state.Picked)
	}
	if view := m.View(); !strings.Contains(view, "next: enter/n") {
		t.Fatalf("expected answered help line: %s", view)
	}
}

func TestModelCorrectAnswer(t *testing.T) {
	m := newTestModel(t, testItems, nil)
	target := m.state.Round.Target
	press(m, string(rune('1'+optionIndex(m, target.ID))))
	if !m.state.Correct() {
		t.Fatalf("expected correct answer")
	}
	if m.state.Ledger.Hits[target.ID] != 1 {
		t.Fatalf("expected hit recorded: %+v", m.state.Ledger)
	}
	if view := m.View(); !strings.Contains(view, "Correct!") {
		t.Fatalf("view missing feedback: %s", view)
	}
}

func TestModelResetStats(t *testing.T) {
	m := newTestModel(t, testItems, nil)
	press(m, string(rune('1'+wrongIndex(m))))
	if m.state.Ledger.Total != 1 {
		t.Fatalf("expected one attempt, got %d", m.state.Ledger.Total)
	}
	round := m.state.Round
	press(m, "R")
	if m.state.Ledger.Total != 0 || len(m.state.Ledger.Misses) != 0 {
		t.Fatalf("expected empty ledger after reset: %+v", m.state.Ledger)
	}
	if m.state.Round.Target.ID != round.Target.ID {
		t.Fatalf("expected reset to keep the current round")
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t, testItems, nil)
	if out := m.renderFooter(); !strings.Contains(out, "Accuracy 0%") || !strings.Contains(out, "0/0 correct") {
		t.Fatalf("unexpected empty footer: %s", out)
	}
	if strings.Contains(m.renderFooter(), "Hardest") {
		t.Fatalf("expected no hardest segment without misses")
	}

	target := m.state.Round.Target
	press(m, string(rune('1'+wrongIndex(m))))
	out := m.renderFooter()
	for _, want := range []string{"Accuracy 0%", "0/1 correct", "Hardest: " + target.Infinitive + " x1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestRenderFooterHardestFitsWidth(t *testing.T) {
	m := newTestModel(t, testItems, nil)
	m.state.Ledger = ledger.Ledger{
		Total:  21,
		Misses: map[string]int{"a": 6, "b": 5, "c": 4, "d": 3, "e": 2, "f": 1},
	}

	out := m.renderFooter()
	if !strings.Contains(out, "Hardest: a x6, b x5, c x4, d x3, e x2") || strings.Contains(out, "f x1") {
		t.Fatalf("expected %d hardest labels without a width: %s", ledger.HardestLimit, out)
	}

	m.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
	out = m.renderFooter()
	if !strings.Contains(out, "Hardest: a x6") || strings.Contains(out, "e x2") {
		t.Fatalf("expected labels trimmed to fit 50 cells: %s", out)
	}
	if w := lipgloss.Width(out); w > 50 {
		t.Fatalf("footer wider than terminal: %d", w)
	}

	m.Update(tea.WindowSizeMsg{Width: 10, Height: 20})
	if out = m.renderFooter(); !strings.Contains(out, "Hardest: a x6") {
		t.Fatalf("expected the hardest label to survive a narrow terminal: %s", out)
	}
}

func TestFormsLabelSkipsEmptyForms(t *testing.T) {
	got := formsLabel(model.Item{Infinitive: "swim", Gerund: "swimming"})
	if got != "swim / swimming" {
		t.Fatalf("unexpected label %q", got)
	}
}
