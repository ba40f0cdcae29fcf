package calendar

import (
	"sort"
	"time"
)

// DayCell is one cell of the month grid.
type DayCell struct {
	Date     time.Time
	InMonth  bool // belongs to the displayed month
	Today    bool
	Selected bool
	Events   []Event // start-day events of active accounts, ordered by start
}

// RowWidth is the number of cells per grid row: 7, or 5 with weekends hidden.
func (s *State) RowWidth() int {
	if s.Settings.ShowWeekends {
		return 7
	}
	return 5
}

// MonthCells computes the month grid around reference: from the configured
// week boundary before the first of the month through the matching boundary
// after the last, in row-major order. Hiding weekends drops those cells
// entirely, narrowing every row to five.
//
// This is a pure read over (events, accounts, settings); it never mutates.
func (s *State) MonthCells(reference, selected time.Time) []DayCell {
	first := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location())
	last := first.AddDate(0, 1, -1)

	weekday := s.Settings.StartOfWeek.Weekday()
	start := startOfWeek(first, weekday)
	end := startOfWeek(last, weekday).AddDate(0, 0, 6)

	active := s.activeAccountIDs()
	today := s.now()

	var cells []DayCell
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !s.Settings.ShowWeekends && isWeekend(d) {
			continue
		}
		cells = append(cells, DayCell{
			Date:     d,
			InMonth:  d.Month() == reference.Month() && d.Year() == reference.Year(),
			Today:    sameDay(d, today),
			Selected: sameDay(d, selected),
			Events:   dayEvents(s.Events, active, d),
		})
	}
	return cells
}

// DayEvents returns the events whose start instant falls on the same local
// calendar day as date, restricted to active accounts and ordered ascending by
// start. A multi-day event appears only on its start day.
func (s *State) DayEvents(date time.Time) []Event {
	return dayEvents(s.Events, s.activeAccountIDs(), date)
}

func dayEvents(events []Event, active map[string]bool, date time.Time) []Event {
	var out []Event
	for _, e := range events {
		if active[e.AccountID] && sameDay(e.StartTime, date) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// startOfWeek returns the most recent day (possibly t itself) whose weekday
// matches the configured week start, at midnight.
func startOfWeek(t time.Time, start time.Weekday) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(d.Weekday()) - int(start) + 7) % 7
	return d.AddDate(0, 0, -offset)
}
