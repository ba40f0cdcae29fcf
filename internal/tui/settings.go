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

type settingsModel struct {
	state  *calendar.State
	width  int
	height int

	formActive bool
	form       *huh.Form

	fDuration *int
	fWeek     *int
	fWeekends *bool
	fTheme    *string
	fAI       *bool
}

func newSettingsModel(s *calendar.State) settingsModel {
	duration, week := 0, 0
	weekends, ai := false, false
	theme := ""
	return settingsModel{
		state:     s,
		fDuration: &duration,
		fWeek:     &week,
		fWeekends: &weekends,
		fTheme:    &theme,
		fAI:       &ai,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) {
			return m.showForm()
		}
	}
	return m, nil
}

func (m settingsModel) showForm() (settingsModel, tea.Cmd) {
	s := m.state.Settings
	*m.fDuration = s.DefaultDuration
	*m.fWeek = int(s.StartOfWeek)
	*m.fWeekends = s.ShowWeekends
	*m.fTheme = string(s.Theme)
	*m.fAI = s.EnableAI

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Default event duration").
				Options(
					huh.NewOption("15 minutes", 15),
					huh.NewOption("30 minutes", 30),
					huh.NewOption("1 hour", 60),
					huh.NewOption("1.5 hours", 90),
				).
				Value(m.fDuration),
			huh.NewSelect[int]().
				Title("Week starts on").
				Options(
					huh.NewOption("Sunday", int(calendar.WeekStartSunday)),
					huh.NewOption("Monday", int(calendar.WeekStartMonday)),
				).
				Value(m.fWeek),
			huh.NewConfirm().
				Title("Show weekends").
				Value(m.fWeekends),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Light", string(calendar.ThemeLight)),
					huh.NewOption("Dark", string(calendar.ThemeDark)),
					huh.NewOption("System", string(calendar.ThemeSystem)),
				).
				Value(m.fTheme),
			huh.NewConfirm().
				Title("Assisted event entry").
				Value(m.fAI),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
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
		next := calendar.Settings{
			DefaultDuration: *m.fDuration,
			StartOfWeek:     calendar.WeekStart(*m.fWeek),
			ShowWeekends:    *m.fWeekends,
			Theme:           calendar.Theme(*m.fTheme),
			EnableAI:        *m.fAI,
		}
		if err := m.state.SetSettings(next); err != nil {
			return m, statusError(fmt.Sprintf("Save failed: %v", err))
		}
		return m, status("Settings saved")
	}

	return m, cmd
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", m.form.View()),
		)
	}

	s := m.state.Settings
	weekends := "shown"
	if !s.ShowWeekends {
		weekends = "hidden"
	}
	ai := "on"
	if !s.EnableAI {
		ai = "off"
	}

	rows := []string{
		titleStyle.Render("Settings"),
		"",
		fmt.Sprintf("  %-24s %d minutes", "Default duration", s.DefaultDuration),
		fmt.Sprintf("  %-24s %s", "Week starts on", s.StartOfWeek.Weekday().String()),
		fmt.Sprintf("  %-24s %s", "Weekends", weekends),
		fmt.Sprintf("  %-24s %s", "Theme", string(s.Theme)),
		fmt.Sprintf("  %-24s %s", "Assisted entry", ai),
		"",
		mutedStyle.Render("  enter: edit"),
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
