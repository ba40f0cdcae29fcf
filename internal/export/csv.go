package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"chronos/internal/calendar"
)

// EventsFileName returns the conventional CSV export name for the given day.
func EventsFileName(t time.Time) string {
	return fmt.Sprintf("chronos_events_%s.csv", t.Format("2006-01-02"))
}

// ToCSV writes the event list to path with account names resolved. Unlike the
// JSON backup this is a one-way export for spreadsheets, not an import format.
func ToCSV(events []calendar.Event, accounts []calendar.Account, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Title", "Start", "End", "Type", "Account", "Description"}); err != nil {
		return err
	}

	for _, e := range events {
		account := "Unknown"
		if name, ok := names[e.AccountID]; ok {
			account = name
		}
		row := []string{
			e.ID,
			e.Title,
			e.StartTime.Format(time.RFC3339),
			e.EndTime.Format(time.RFC3339),
			string(e.Type),
			account,
			e.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
