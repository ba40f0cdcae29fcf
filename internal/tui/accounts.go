package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"chronos/internal/calendar"
)

type accountsModel struct {
	state  *calendar.State
	width  int
	height int
	cursor int

	formActive bool
	form       *huh.Form
	fEmail     *string
}

func newAccountsModel(s *calendar.State) accountsModel {
	email := ""
	return accountsModel{state: s, fEmail: &email}
}

func (m *accountsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m accountsModel) update(msg tea.Msg) (accountsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up), key.Matches(msg, keys.EventUp):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down), key.Matches(msg, keys.EventDown):
			if m.cursor < len(m.state.Accounts)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if m.cursor < len(m.state.Accounts) {
				a := m.state.Accounts[m.cursor]
				if err := m.state.ToggleAccount(a.ID); err != nil {
					return m, statusError(fmt.Sprintf("Toggle failed: %v", err))
				}
				if a.Active {
					return m, status(fmt.Sprintf("Hid events from %s", a.Name))
				}
				return m, status(fmt.Sprintf("Showing events from %s", a.Name))
			}
		case key.Matches(msg, keys.New):
			return m.showForm()
		}
	}
	return m, nil
}

func (m accountsModel) showForm() (accountsModel, tea.Cmd) {
	*m.fEmail = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email address").
				Placeholder("name@example.com").
				Value(m.fEmail).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("not an email address")
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m accountsModel) updateForm(msg tea.Msg) (accountsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		a, err := m.state.AddAccount(strings.TrimSpace(*m.fEmail))
		if err != nil {
			return m, statusError(fmt.Sprintf("Add failed: %v", err))
		}
		return m, status(fmt.Sprintf("Added account %s", a.Name))
	}

	return m, cmd
}

func (m accountsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Connect Account"), "", m.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Accounts"))
	rows = append(rows, "")

	for i, a := range m.state.Accounts {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := successStyle.Render("[x]")
		if !a.Active {
			check = mutedStyle.Render("[ ]")
		}
		line := fmt.Sprintf("%s%s %s %s %s", cursor, check, a.Name,
			mutedStyle.Render(a.Email), mutedStyle.Render("("+string(a.Provider)+")"))
		rows = append(rows, style.Render(line))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: show/hide  n: connect account"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
