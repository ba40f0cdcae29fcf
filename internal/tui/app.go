package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"chronos/internal/assist"
	"chronos/internal/calendar"
	"chronos/internal/export"
)

// App is the root Bubble Tea model.
type App struct {
	state  *calendar.State
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	importing  bool
	importForm *huh.Form
	importPath *string

	calendar calendarModel
	accounts accountsModel
	stats    statsModel
	settings settingsModel

	help   help.Model
	status string
}

func NewApp(s *calendar.State, parser assist.Parser) App {
	h := help.New()
	h.ShowAll = false

	path := ""
	return App{
		state:      s,
		activeView: viewCalendar,
		importPath: &path,
		calendar:   newCalendarModel(s, parser),
		accounts:   newAccountsModel(s),
		stats:      newStatsModel(s),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.calendar.setSize(a.width, contentHeight)
		a.accounts.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}
		if a.importing {
			return a.updateImportPrompt(msg)
		}

		// If a child view is capturing input (form or overlay), delegate first.
		if a.isCapturing() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Import):
			return a.showImportPrompt()
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewCalendar
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewAccounts
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewStats
			a.stats.dirty = true
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 4
			if a.activeView == viewStats {
				a.stats.dirty = true
			}
			return a, nil
		}

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		return a, nil

	case importDoneMsg:
		a.status = "Imported " + msg.path
		a.stats.dirty = true
		return a, nil

	case assistResultMsg:
		// Always reaches the calendar view, even while another tab is shown.
		var cmd tea.Cmd
		a.calendar, cmd = a.calendar.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewAccounts:
		a.accounts, cmd = a.accounts.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isCapturing() bool {
	switch a.activeView {
	case viewCalendar:
		return a.calendar.formActive || a.calendar.smartActive
	case viewAccounts:
		return a.accounts.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewCalendar:
		content = a.calendar.view()
	case viewAccounts:
		content = a.accounts.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}
	if a.importing && a.importForm != nil {
		content = activePanelStyle.Width(a.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Import Backup"), "", a.importForm.View()),
		)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("chronos")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	pending := ""
	if a.calendar.smartPending {
		pending = warningStyle.Render(" ◌ parsing")
	}

	left := footerStyle.Render(helpView)
	right := pending + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

// --- Export ---

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"JSON backup", "CSV events"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	env := a.state.Snapshot()
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		now := time.Now()

		var path string
		if format == 0 {
			path = filepath.Join(home, export.BackupFileName(now))
			if err := export.WriteBackup(env, path); err != nil {
				return statusMsg{text: fmt.Sprintf("Backup error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, export.EventsFileName(now))
			if err := export.ToCSV(env.Events, env.Accounts, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}

// --- Import ---

func (a App) showImportPrompt() (tea.Model, tea.Cmd) {
	*a.importPath = ""
	a.importForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backup file path").
				Placeholder("~/chronos_backup_2026-08-31.json").
				Value(a.importPath),
		),
	).WithShowHelp(true).WithShowErrors(true)
	a.importing = true
	return a, a.importForm.Init()
}

func (a App) updateImportPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		a.importing = false
		a.importForm = nil
		return a, nil
	}

	form, cmd := a.importForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.importForm = f
	}

	if a.importForm.State == huh.StateCompleted {
		a.importing = false
		return a, a.doImport(expandHome(*a.importPath))
	}

	return a, cmd
}

// doImport replaces the whole state with the backup's contents. A file that
// fails to parse leaves the current data untouched.
func (a App) doImport(path string) tea.Cmd {
	env, err := export.ReadBackup(path)
	if err != nil {
		return statusError(fmt.Sprintf("Import failed: %v", err))
	}
	if err := a.state.Replace(env); err != nil {
		return statusError(fmt.Sprintf("Import failed: %v", err))
	}
	return func() tea.Msg { return importDoneMsg{path: path} }
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
