package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"chronos/internal/assist"
	"chronos/internal/calendar"
	"chronos/internal/store"
	"chronos/internal/tui"
)

func main() {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	state := calendar.NewState(s)
	if err := state.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "error loading calendar: %v\n", err)
		os.Exit(1)
	}

	parser := assist.NewClient(os.Getenv("CHRONOS_ASSIST_URL"), os.Getenv("CHRONOS_ASSIST_TOKEN"))

	app := tui.NewApp(state, parser)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
