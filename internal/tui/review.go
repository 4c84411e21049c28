// Package tui implements the interactive suggestion-review screen.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quietfile/declutter/internal/cli"
	"github.com/quietfile/declutter/internal/model"
)

// Decision is what the user chose for one suggestion.
type Decision int

// Decision constants.
const (
	DecisionNone Decision = iota
	DecisionAccept
	DecisionReject
)

// ReviewResult pairs a suggestion with the user's decision.
type ReviewResult struct {
	Pattern  model.LearnedPattern
	Decision Decision
}

type keyMap struct {
	Accept key.Binding
	Reject key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Accept: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a/enter", "accept"),
		),
		Reject: key.NewBinding(
			key.WithKeys("r", "x"),
			key.WithHelp("r", "reject"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "done"),
		),
	}
}

// Model is the bubbletea model for the review screen.
type Model struct {
	decisions map[int]Decision
	patterns  []model.LearnedPattern
	table     table.Model
	keys      keyMap
	quitting  bool
}

// NewReview builds the review screen for the given suggestions.
func NewReview(patterns []model.LearnedPattern) Model {
	columns := []table.Column{
		{Title: " ", Width: 2},
		{Title: "EXT", Width: 6},
		{Title: "DESTINATION", Width: 28},
		{Title: "CONF", Width: 6},
		{Title: "SEEN", Width: 5},
		{Title: "DESCRIPTION", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(buildRows(patterns, nil)),
		table.WithFocused(true),
		table.WithHeight(min(len(patterns)+1, 15)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(cli.PrimaryColor)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return Model{
		patterns:  patterns,
		table:     t,
		decisions: make(map[int]Decision),
		keys:      defaultKeyMap(),
	}
}

func buildRows(patterns []model.LearnedPattern, decisions map[int]Decision) []table.Row {
	rows := make([]table.Row, len(patterns))
	for i, p := range patterns {
		mark := " "
		switch decisions[i] {
		case DecisionAccept:
			mark = cli.SuccessIcon
		case DecisionReject:
			mark = cli.ErrorIcon
		}
		rows[i] = table.Row{
			mark,
			"." + p.FileExtension,
			p.DestinationPath,
			fmt.Sprintf("%.0f%%", p.Confidence*100),
			fmt.Sprintf("%d×", p.OccurrenceCount),
			p.Description,
		}
	}
	return rows
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Accept):
			m.decide(DecisionAccept)
			return m, nil
		case key.Matches(msg, m.keys.Reject):
			m.decide(DecisionReject)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) decide(d Decision) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.patterns) {
		return
	}
	m.decisions[cursor] = d
	m.table.SetRows(buildRows(m.patterns, m.decisions))
	m.table.MoveDown(1)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	help := cli.SubtleStyle.Render("a accept · r reject · ↑/↓ move · q done")
	return cli.FormatTitle("Suggested rules") + "\n" + m.table.View() + "\n" + help + "\n"
}

// Results extracts the user's decisions after the program exits.
func (m Model) Results() []ReviewResult {
	results := make([]ReviewResult, len(m.patterns))
	for i, p := range m.patterns {
		results[i] = ReviewResult{Pattern: p, Decision: m.decisions[i]}
	}
	return results
}

// Run shows the review screen and blocks until the user finishes.
func Run(patterns []model.LearnedPattern) ([]ReviewResult, error) {
	program := tea.NewProgram(NewReview(patterns))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("review screen failed: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type from review screen")
	}
	return m.Results(), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
