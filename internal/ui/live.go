// Package ui holds the interactive terminal views of the langid command.
package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/happyhackingspace/langid/classifier"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	bestStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	langStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const labelWidth = 8

type liveModel struct {
	session *classifier.Session
	input   textarea.Model
	bar     progress.Model
	text    string
	ranks   []classifier.Detected
	top     int
	width   int
	done    bool
}

// NewLiveModel returns a Bubble Tea model that re-ranks the languages of the
// typed text on every keystroke. It shows the top languages with their
// probabilities.
func NewLiveModel(s *classifier.Session, top int) tea.Model {
	return newLiveModel(s, top)
}

func newLiveModel(s *classifier.Session, top int) *liveModel {
	input := textarea.New()
	input.Placeholder = "Type or paste text..."
	input.ShowLineNumbers = false
	input.SetWidth(76)
	input.SetHeight(5)
	input.Focus()

	if top <= 0 || top > s.Model().NumClasses() {
		top = s.Model().NumClasses()
	}
	m := &liveModel{
		session: s,
		input:   input,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		top:     top,
		width:   80,
	}
	m.bar.Width = 40
	m.setText("")
	return m
}

func (m *liveModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.input.SetWidth(msg.Width - 4)
			m.bar.Width = max(10, msg.Width-labelWidth-16)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.text {
		m.setText(v)
	}
	return m, cmd
}

// setText classifies text from scratch and keeps the ranking sorted by
// confidence.
func (m *liveModel) setText(text string) {
	m.text = text
	m.session.Reset()
	m.session.AppendString(text)
	m.ranks = append(m.ranks[:0], m.session.Rank(true)...)
	slices.SortStableFunc(m.ranks, func(a, b classifier.Detected) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
}

func (m *liveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("langid live"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for i, d := range m.ranks[:m.top] {
		label := runewidth.FillRight(runewidth.Truncate(d.Lang, labelWidth, ""), labelWidth)
		style := langStyle
		if i == 0 && m.text != "" {
			style = bestStyle
		}
		fmt.Fprintf(&b, "  %s %s %6.2f%%\n", style.Render(label), m.bar.ViewAs(d.Confidence), d.Confidence*100)
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d bytes, %d distinct features  esc to quit",
		len(m.text), m.session.FeatureCount())))
	b.WriteString("\n")
	return b.String()
}
