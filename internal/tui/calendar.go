package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"chronos/internal/assist"
	"chronos/internal/calendar"
)

type calendarModel struct {
	state  *calendar.State
	parser assist.Parser
	width  int
	height int

	reference   time.Time // the displayed month
	selected    time.Time // the selected day
	eventCursor int       // cursor in the selected-day list

	formActive bool
	form       *huh.Form
	editingID  string // empty while creating

	// Smart add overlay. While a parse is in flight the overlay blocks new
	// submissions; dismissing it ignores the eventual result.
	smartActive  bool
	smartPending bool

	// Form values as pointers (survive value copies)
	fTitle       *string
	fDescription *string
	fStart       *string
	fEnd         *string
	fType        *string
	fAccount     *string
	fColor       *string
	fPrompt      *string
}

func newCalendarModel(s *calendar.State, parser assist.Parser) calendarModel {
	now := time.Now()
	title, desc, start, end := "", "", "", ""
	typ, account, color, prompt := "", "", "", ""
	return calendarModel{
		state:        s,
		parser:       parser,
		reference:    now,
		selected:     now,
		fTitle:       &title,
		fDescription: &desc,
		fStart:       &start,
		fEnd:         &end,
		fType:        &typ,
		fAccount:     &account,
		fColor:       &color,
		fPrompt:      &prompt,
	}
}

func (m *calendarModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	if m.smartActive {
		return m.updateSmart(msg)
	}
	if _, ok := msg.(assistResultMsg); ok {
		// A result arriving after the overlay was dismissed is ignored.
		m.smartPending = false
		return m, nil
	}
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.moveSelected(-1)
		case key.Matches(msg, keys.Right):
			m.moveSelected(1)
		case key.Matches(msg, keys.Up):
			m.moveSelected(-7)
		case key.Matches(msg, keys.Down):
			m.moveSelected(7)
		case key.Matches(msg, keys.PrevMonth):
			m.reference = m.reference.AddDate(0, -1, 0)
		case key.Matches(msg, keys.NextMonth):
			m.reference = m.reference.AddDate(0, 1, 0)
		case key.Matches(msg, keys.Today):
			now := time.Now()
			m.reference = now
			m.selected = now
			m.eventCursor = 0
		case key.Matches(msg, keys.EventUp):
			if m.eventCursor > 0 {
				m.eventCursor--
			}
		case key.Matches(msg, keys.EventDown):
			if m.eventCursor < len(m.dayEvents())-1 {
				m.eventCursor++
			}
		case key.Matches(msg, keys.New):
			return m.showEventForm(nil)
		case key.Matches(msg, keys.Enter):
			events := m.dayEvents()
			if m.eventCursor < len(events) {
				return m.showEventForm(&events[m.eventCursor])
			}
		case key.Matches(msg, keys.Delete):
			events := m.dayEvents()
			if m.eventCursor < len(events) {
				id := events[m.eventCursor].ID
				if err := m.state.DeleteEvent(id); err != nil {
					return m, statusError(fmt.Sprintf("Delete failed: %v", err))
				}
				if m.eventCursor > 0 {
					m.eventCursor--
				}
				return m, status("Event deleted")
			}
		case key.Matches(msg, keys.Smart):
			return m.showSmart()
		}
	}
	return m, nil
}

// moveSelected shifts the selected day, skipping weekend days when the grid
// hides them, and follows the selection across month boundaries.
func (m *calendarModel) moveSelected(days int) {
	step := 1
	if days < 0 {
		step = -1
	}
	next := m.selected.AddDate(0, 0, days)
	if !m.state.Settings.ShowWeekends {
		for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
			next = next.AddDate(0, 0, step)
		}
	}
	m.selected = next
	m.eventCursor = 0
	if next.Month() != m.reference.Month() || next.Year() != m.reference.Year() {
		m.reference = next
	}
}

func (m calendarModel) dayEvents() []calendar.Event {
	return m.state.DayEvents(m.selected)
}

// --- Event form ---

func (m calendarModel) showEventForm(editing *calendar.Event) (calendarModel, tea.Cmd) {
	if editing != nil {
		m.editingID = editing.ID
		*m.fTitle = editing.Title
		*m.fDescription = editing.Description
		*m.fStart = editing.StartTime.Format(timeLayout)
		*m.fEnd = editing.EndTime.Format(timeLayout)
		*m.fType = string(editing.Type)
		*m.fAccount = editing.AccountID
		*m.fColor = editing.Color
	} else {
		start := time.Date(m.selected.Year(), m.selected.Month(), m.selected.Day(), 9, 0, 0, 0, time.Local)
		end := start.Add(time.Duration(m.state.Settings.DefaultDuration) * time.Minute)
		m.editingID = ""
		*m.fTitle = ""
		*m.fDescription = ""
		*m.fStart = start.Format(timeLayout)
		*m.fEnd = end.Format(timeLayout)
		*m.fType = string(calendar.TypeEvent)
		*m.fAccount = ""
		*m.fColor = calendar.EventColors[0]
	}

	typeOptions := make([]huh.Option[string], len(calendar.EventTypes))
	for i, t := range calendar.EventTypes {
		typeOptions[i] = huh.NewOption(string(t), string(t))
	}
	accountOptions := make([]huh.Option[string], 0, len(m.state.Accounts))
	for _, a := range m.state.Accounts {
		accountOptions = append(accountOptions, huh.NewOption(a.Name, a.ID))
	}
	colorOptions := make([]huh.Option[string], len(calendar.EventColors))
	for i, c := range calendar.EventColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.fTitle),
			huh.NewInput().Title("Start (YYYY-MM-DD HH:MM)").Value(m.fStart),
			huh.NewInput().Title("End (YYYY-MM-DD HH:MM)").Value(m.fEnd),
			huh.NewSelect[string]().Title("Category").Options(typeOptions...).Value(m.fType),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Account").Options(accountOptions...).Value(m.fAccount),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(m.fColor),
			huh.NewText().Title("Notes").Value(m.fDescription),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m calendarModel) updateForm(msg tea.Msg) (calendarModel, tea.Cmd) {
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
		cmd := m.saveForm()
		return m, cmd
	}

	return m, cmd
}

func (m *calendarModel) saveForm() tea.Cmd {
	start, err := parseLocalTime(*m.fStart)
	if err != nil {
		return statusError(fmt.Sprintf("Bad start time %q", *m.fStart))
	}
	end, err := parseLocalTime(*m.fEnd)
	if err != nil {
		return statusError(fmt.Sprintf("Bad end time %q", *m.fEnd))
	}

	draft := calendar.EventDraft{
		Title:       m.fTitle,
		Description: m.fDescription,
		StartTime:   &start,
		EndTime:     &end,
		Type:        calendar.EventType(*m.fType),
		AccountID:   *m.fAccount,
		Color:       *m.fColor,
	}

	if m.editingID != "" {
		if _, err := m.state.UpdateEvent(m.editingID, draft); err != nil {
			return statusError(fmt.Sprintf("Update failed: %v", err))
		}
		return status("Event updated")
	}

	e, err := m.state.CreateEvent(draft)
	if err != nil {
		return statusError(fmt.Sprintf("Create failed: %v", err))
	}
	m.selected = e.StartTime
	m.reference = e.StartTime
	return status("Event created")
}

// --- Smart add ---

func (m calendarModel) showSmart() (calendarModel, tea.Cmd) {
	if !m.state.Settings.EnableAI {
		return m, statusError("Assisted entry is disabled in settings")
	}
	if m.smartPending {
		// Exclusive in-flight request: reopening just shows the wait state.
		m.smartActive = true
		return m, nil
	}
	*m.fPrompt = ""
	m.smartActive = true
	return m, nil
}

func (m calendarModel) updateSmart(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case assistResultMsg:
		m.smartPending = false
		m.smartActive = false
		if msg.err != nil {
			return m, statusError(fmt.Sprintf("Assist error: %v", msg.err))
		}
		if msg.draft == nil {
			return m, statusError("Couldn't parse that. Try something simpler like 'Lunch with John next Friday at 2pm'")
		}
		cmd := m.createFromDraft(*msg.draft)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Back) {
			// Dismiss; a pending call cannot be aborted, its result is ignored.
			m.smartActive = false
			return m, nil
		}
		if m.smartPending {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Enter):
			prompt := strings.TrimSpace(*m.fPrompt)
			if prompt == "" {
				return m, nil
			}
			m.smartPending = true
			return m, m.parseCmd(prompt)
		case msg.Type == tea.KeyBackspace:
			if len(*m.fPrompt) > 0 {
				r := []rune(*m.fPrompt)
				*m.fPrompt = string(r[:len(r)-1])
			}
		case msg.Type == tea.KeyRunes:
			*m.fPrompt += string(msg.Runes)
		case msg.Type == tea.KeySpace:
			*m.fPrompt += " "
		}
	}
	return m, nil
}

func (m calendarModel) parseCmd(prompt string) tea.Cmd {
	return func() tea.Msg {
		draft, err := m.parser.Parse(context.Background(), prompt)
		return assistResultMsg{draft: draft, err: err}
	}
}

func (m *calendarModel) createFromDraft(draft calendar.EventDraft) tea.Cmd {
	if draft.Color == "" && draft.Type == calendar.TypeBirthday {
		draft.Color = calendar.EventColors[1]
	}
	e, err := m.state.CreateEvent(draft)
	if err != nil {
		return statusError(fmt.Sprintf("Create failed: %v", err))
	}
	m.selected = e.StartTime
	m.reference = e.StartTime
	m.eventCursor = 0
	return status(fmt.Sprintf("Added %q on %s", e.Title, e.StartTime.Format("Jan 2 15:04")))
}

// --- View ---

func (m calendarModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := "New Event"
		if m.editingID != "" {
			title = "Edit Event"
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", m.form.View()),
		)
	}
	if m.smartActive {
		return m.viewSmart(w)
	}

	grid := m.renderGrid(w)
	day := m.renderDayPanel(w)
	return lipgloss.JoinVertical(lipgloss.Left, grid, day)
}

func (m calendarModel) viewSmart(w int) string {
	title := titleStyle.Render("Smart Add")
	hint := mutedStyle.Render("Describe the event, e.g. \"Team lunch at 1pm next Tuesday\"")

	var body string
	if m.smartPending {
		body = warningStyle.Render("Processing...")
	} else {
		body = highlightStyle.Render("> ") + *m.fPrompt + highlightStyle.Render("█")
	}

	nav := mutedStyle.Render("  enter: parse  esc: dismiss")
	return activePanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, hint, "", body, "", nav),
	)
}

func (m calendarModel) renderGrid(w int) string {
	rowWidth := m.state.RowWidth()
	cellWidth := (w - 2) / rowWidth
	if cellWidth < 4 {
		cellWidth = 4
	}

	header := titleStyle.Render(m.reference.Format("January 2006"))

	// Weekday labels in configured order, weekends dropped when hidden.
	var labels []string
	start := m.state.Settings.StartOfWeek.Weekday()
	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(start) + i) % 7)
		if !m.state.Settings.ShowWeekends && (wd == time.Saturday || wd == time.Sunday) {
			continue
		}
		labels = append(labels, weekdayHeaderStyle.Width(cellWidth).Render(wd.String()[:3]))
	}
	labelRow := lipgloss.JoinHorizontal(lipgloss.Top, labels...)

	cells := m.state.MonthCells(m.reference, m.selected)
	var rows []string
	for i := 0; i < len(cells); i += rowWidth {
		var rendered []string
		for _, c := range cells[i : i+rowWidth] {
			rendered = append(rendered, m.renderCell(c, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{header, "", labelRow}, rows...)...)
	return panelStyle.Width(w).Render(content)
}

func (m calendarModel) renderCell(c calendar.DayCell, width int) string {
	day := fmt.Sprintf("%2d", c.Date.Day())
	switch {
	case c.Today:
		day = dayTodayStyle.Render(day)
	case c.Selected:
		day = daySelectedStyle.Render(day)
	case c.InMonth:
		day = dayInMonthStyle.Render(day)
	default:
		day = dayOutMonthStyle.Render(day)
	}

	marker := " "
	if c.Selected {
		marker = daySelectedStyle.Render("▸")
	}

	dots := ""
	for i, e := range c.Events {
		if i == 3 {
			dots += mutedStyle.Render("+")
			break
		}
		dots += lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("●")
	}

	cell := fmt.Sprintf("%s%s %s", marker, day, dots)
	return lipgloss.NewStyle().Width(width).Render(cell)
}

func (m calendarModel) renderDayPanel(w int) string {
	title := titleStyle.Render(m.selected.Format("Monday, January 2"))
	events := m.dayEvents()

	if len(events) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				title,
				mutedStyle.Render("No events. Press n to add one."),
			),
		)
	}

	var rows []string
	rows = append(rows, title)
	for i, e := range events {
		cursor := "  "
		style := normalItemStyle
		if i == m.eventCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("●")
		line := fmt.Sprintf("%s%s %s  %s", cursor, dot, e.StartTime.Format("15:04"), e.Title)
		if e.Type != calendar.TypeEvent {
			line += mutedStyle.Render("  " + string(e.Type))
		}
		rows = append(rows, style.Render(line))
		if i == m.eventCursor && e.Description != "" {
			rows = append(rows, mutedStyle.Render("      "+e.Description))
		}
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  j/k: move  enter: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
