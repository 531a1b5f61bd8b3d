package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mu "github.com/mu-lang/mu"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type historyEntry struct {
	input string
	text  string
	isErr bool
}

type replModel struct {
	rt      *mu.Mu
	input   textinput.Model
	history []historyEntry
	err     error
}

func newReplModel() (*replModel, error) {
	rt, err := mu.New()
	if err != nil {
		return nil, err
	}
	ti := textinput.New()
	ti.Placeholder = "(mu:fx-add 1 2)"
	ti.Prompt = "mu> "
	ti.Width = 60
	ti.Focus()
	return &replModel{rt: rt, input: ti}, nil
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit
		case "enter":
			m.evalCurrentLine()
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) evalCurrentLine() {
	src := strings.TrimSpace(m.input.Value())
	if src == "" {
		return
	}

	result, err := m.rt.RunString(src, "<repl>")
	if err != nil {
		m.history = append(m.history, historyEntry{input: src, text: err.Error(), isErr: true})
		return
	}
	out, err := m.rt.Write(result)
	if err != nil {
		m.history = append(m.history, historyEntry{input: src, text: err.Error(), isErr: true})
		return
	}
	m.history = append(m.history, historyEntry{input: src, text: out})
}

func (m *replModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("mu"))
	b.WriteString("\n\n")

	for _, h := range m.history {
		b.WriteString(promptStyle.Render("mu> " + h.input))
		b.WriteString("\n")
		if h.isErr {
			b.WriteString(errorStyle.Render(h.text))
		} else {
			b.WriteString(resultStyle.Render(h.text))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter eval • ctrl+c quit"))
	return b.String()
}

func runInteractive() error {
	model, err := newReplModel()
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
