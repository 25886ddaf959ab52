// Package ui renders the task list in the terminal and routes key presses to
// the state controller.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todoapp/internal/app"
	"todoapp/internal/config"
	"todoapp/internal/models"
)

// Run starts the terminal UI over the given controller.
func Run(ctx context.Context, ctrl *app.Controller, cfg *config.Config) error {
	model := newModel(ctrl, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type mode int

const (
	modeList mode = iota
	modeAdding
	modeEditing
	modeConfirmDelete
)

type refreshedMsg struct{ err error }

type mutationMsg struct {
	err        error
	clearInput bool
}

type healthMsg struct{ conn app.Connectivity }

type pollMsg time.Time

type model struct {
	ctrl *app.Controller
	cfg  *config.Config

	mode    mode
	cursor  int
	input   string
	editing models.Todo
	lastErr error
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	connectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	offlineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	doneStyle      = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	cursorStyle    = lipgloss.NewStyle().Bold(true)
	helpStyle      = lipgloss.NewStyle().Faint(true)
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func newModel(ctrl *app.Controller, cfg *config.Config) *model {
	return &model{ctrl: ctrl, cfg: cfg}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.healthCmd(), pollCmd(m.cfg.PollInterval()))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case refreshedMsg:
		m.lastErr = msg.err
		m.clampCursor()
		return m, nil
	case mutationMsg:
		m.lastErr = msg.err
		if msg.err == nil && msg.clearInput {
			m.input = ""
		}
		m.clampCursor()
		return m, nil
	case healthMsg:
		return m, nil
	case pollMsg:
		return m, tea.Batch(m.healthCmd(), pollCmd(m.cfg.PollInterval()))
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdding:
		return m.handleInputKey(msg, m.commitAdd)
	case modeEditing:
		return m.handleInputKey(msg, m.commitEdit)
	case modeConfirmDelete:
		switch msg.String() {
		case "y", "Y":
			m.mode = modeList
			if t, ok := m.selected(); ok {
				return m, m.removeCmd(t.ID)
			}
			return m, nil
		default:
			m.mode = modeList
			return m, nil
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case " ":
		if t, ok := m.selected(); ok {
			return m, m.toggleCmd(t.ID)
		}
	case "a":
		m.mode = modeAdding
	case "e", "enter":
		if t, ok := m.selected(); ok {
			m.mode = modeEditing
			m.editing = t
			m.input = t.Text
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	case "1":
		m.ctrl.SetFilter(app.FilterAll)
		m.clampCursor()
	case "2":
		m.ctrl.SetFilter(app.FilterCompleted)
		m.clampCursor()
	case "3":
		m.ctrl.SetFilter(app.FilterPending)
		m.clampCursor()
	case "r", "f5":
		return m, m.refreshCmd()
	}
	return m, nil
}

func (m *model) handleInputKey(msg tea.KeyMsg, commit func() tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		return m, commit()
	case "esc":
		m.mode = modeList
		m.input = ""
		return m, nil
	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil
	}
	switch msg.Type {
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	case tea.KeySpace:
		m.input += " "
	}
	return m, nil
}

// commitAdd submits the input buffer as a new task. Whitespace-only input is
// dropped by the controller without error.
func (m *model) commitAdd() tea.Cmd {
	text := m.input
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RequestTimeout())
		defer cancel()
		return mutationMsg{err: m.ctrl.Add(ctx, text), clearInput: true}
	}
}

// commitEdit applies the edited text. Unchanged or empty text is a no-op.
func (m *model) commitEdit() tea.Cmd {
	text := strings.TrimSpace(m.input)
	prev := m.editing
	m.input = ""
	if text == "" || text == prev.Text {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RequestTimeout())
		defer cancel()
		return mutationMsg{err: m.ctrl.ApplyUpdate(ctx, prev.ID, models.TodoUpdate{Text: &text})}
	}
}

func (m *model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RequestTimeout())
		defer cancel()
		return refreshedMsg{err: m.ctrl.Refresh(ctx)}
	}
}

func (m *model) toggleCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RequestTimeout())
		defer cancel()
		return mutationMsg{err: m.ctrl.Toggle(ctx, id)}
	}
}

func (m *model) removeCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RequestTimeout())
		defer cancel()
		return mutationMsg{err: m.ctrl.Remove(ctx, id)}
	}
}

func (m *model) healthCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultHealthTimeout)
		defer cancel()
		return healthMsg{conn: m.ctrl.CheckHealth(ctx)}
	}
}

func pollCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (m *model) selected() (models.Todo, bool) {
	view := m.ctrl.View()
	if m.cursor < 0 || m.cursor >= len(view) {
		return models.Todo{}, false
	}
	return view[m.cursor], true
}

func (m *model) clampCursor() {
	view := m.ctrl.View()
	if m.cursor >= len(view) {
		m.cursor = len(view) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("To-Do") + "  " + renderStatus(m.ctrl.Health()) + "\n")
	counts := m.ctrl.Counts()
	b.WriteString(fmt.Sprintf("Total: %d  Completed: %d  Pending: %d  Filter: %s\n\n",
		counts.Total, counts.Completed, counts.Pending, m.ctrl.Filter()))

	switch m.mode {
	case modeAdding:
		b.WriteString("New task: " + m.input + "_\n\n")
	case modeEditing:
		b.WriteString(fmt.Sprintf("Edit #%d: %s_\n\n", m.editing.ID, m.input))
	case modeConfirmDelete:
		if t, ok := m.selected(); ok {
			b.WriteString(fmt.Sprintf("Delete %q? (y/n)\n\n", t.Text))
		}
	}

	b.WriteString(renderList(m.ctrl.View(), m.cursor, m.ctrl.Filter()))

	if m.lastErr != nil {
		b.WriteString("\n" + errStyle.Render("error: "+m.lastErr.Error()) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render(
		"a add | e edit | space toggle | d delete | 1/2/3 filter | r refresh | q quit"))
	return b.String()
}

// renderList produces one row per record of the derived view.
func renderList(view []models.Todo, cursor int, filter app.Filter) string {
	if len(view) == 0 {
		if filter == app.FilterAll {
			return helpStyle.Render("  No tasks found.") + "\n"
		}
		return helpStyle.Render(fmt.Sprintf("  No %s tasks found.", filter)) + "\n"
	}

	var b strings.Builder
	for i, t := range view {
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		checkbox := "[ ]"
		text := t.Text
		if t.Completed {
			checkbox = "[x]"
			text = doneStyle.Render(text)
		}
		line := fmt.Sprintf("%s%s %s", marker, checkbox, text)
		if i == cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderStatus(conn app.Connectivity) string {
	if !conn.APIReachable {
		return offlineStyle.Render("API Offline")
	}
	if conn.Database == "connected" {
		return connectedStyle.Render("API Connected | DB Connected")
	}
	return offlineStyle.Render("API Connected | DB " + conn.Database)
}
