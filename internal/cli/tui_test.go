package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/capdrop/capdrop/pkg/caption"
	"github.com/capdrop/capdrop/pkg/pipeline"
)

func testResult() *pipeline.Result {
	steps := []string{"a, b", "b, c", "", "a, c"}
	return &pipeline.Result{
		Steps: steps,
		Stats: caption.Summarize(steps, caption.DefaultSeparators),
	}
}

func TestStepsModelNavigation(t *testing.T) {
	m := newStepsModel("a, b, c", testResult())

	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	up := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}

	next, _ := m.Update(down)
	m = next.(stepsModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.cursor)
	}

	next, _ = m.Update(up)
	m = next.(stepsModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up, want 0", m.cursor)
	}

	// Up at the top stays put.
	next, _ = m.Update(up)
	m = next.(stepsModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	end := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}
	next, _ = m.Update(end)
	m = next.(stepsModel)
	if m.cursor != 3 {
		t.Errorf("cursor = %d after G, want 3", m.cursor)
	}
}

func TestStepsModelQuit(t *testing.T) {
	m := newStepsModel("a", testResult())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestStepsModelView(t *testing.T) {
	m := newStepsModel("a, b, c", testResult())
	view := m.View()

	if !strings.Contains(view, "Simulation Steps") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "(empty)") {
		t.Error("view should mark empty step results")
	}
	if !strings.Contains(view, "step 1/4") {
		t.Error("view missing detail line")
	}
}
