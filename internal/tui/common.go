package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chronos/internal/calendar"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCalendar viewState = iota
	viewAccounts
	viewStats
	viewSettings
)

var viewNames = []string{"Calendar", "Accounts", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type assistResultMsg struct {
	draft *calendar.EventDraft
	err   error
}

type exportDoneMsg struct {
	path string
}

type importDoneMsg struct {
	path string
}

// --- Helpers ---

// typeColors maps each category onto a palette entry for the stats chart.
var typeColors = map[calendar.EventType]string{
	calendar.TypeEvent:    calendar.EventColors[0],
	calendar.TypeBirthday: calendar.EventColors[1],
	calendar.TypeMeeting:  calendar.EventColors[4],
	calendar.TypeTask:     calendar.EventColors[3],
}

const timeLayout = "2006-01-02 15:04"

func parseLocalTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.Local)
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func statusError(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: true} }
}
