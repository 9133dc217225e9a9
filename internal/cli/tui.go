package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/capdrop/capdrop/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// stepsModel - Interactive step result browser
// =============================================================================

// stepsModel is the bubbletea model for browsing simulation steps. The
// list scrolls with the cursor; the detail pane compares the selected
// step against the original caption token by token.
type stepsModel struct {
	caption string
	result  *pipeline.Result
	cursor  int
	height  int
	offset  int
}

// newStepsModel creates a step browser over a simulation result.
func newStepsModel(captionText string, result *pipeline.Result) stepsModel {
	return stepsModel{
		caption: captionText,
		result:  result,
		height:  15,
	}
}

func (m stepsModel) Init() tea.Cmd {
	return nil
}

func (m stepsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.result.Steps)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "g", "home":
			m.cursor = 0
			m.offset = 0
		case "G", "end":
			m.cursor = len(m.result.Steps) - 1
			m.offset = max(0, m.cursor-m.height+1)
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m stepsModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Simulation Steps"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.result.Steps))
	for i := m.offset; i < end; i++ {
		cursor := "  "
		style := StyleValue
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		step := m.result.Steps[i]
		if step == "" {
			step = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n",
			cursor,
			listDimStyle.Render(fmt.Sprintf("%4d", i+1)),
			style.Render(step)))
	}

	b.WriteString("\n")
	b.WriteString(m.detailView())
	return b.String()
}

// detailView shows which original tokens survived the selected step.
func (m stepsModel) detailView() string {
	if len(m.result.Steps) == 0 {
		return listDimStyle.Render("no steps")
	}

	step := m.result.Steps[m.cursor]
	var b strings.Builder
	b.WriteString(listDimStyle.Render(fmt.Sprintf("step %d/%d · %d-%d tokens · mean %.2f",
		m.cursor+1, len(m.result.Steps),
		m.result.Stats.MinTokens, m.result.Stats.MaxTokens, m.result.Stats.MeanTokens)))
	b.WriteString("\n")

	for _, tf := range sortedFrequencies(m.result) {
		if strings.Contains(step, tf.token) {
			b.WriteString(styleKept.Render(tf.token))
		} else {
			b.WriteString(styleDropped.Render(tf.token))
		}
		b.WriteString("  ")
	}
	return b.String()
}
