package calendar

import (
	"testing"
	"time"
)

func mustCreate(t *testing.T, s *State, d EventDraft) *Event {
	t.Helper()
	e, err := s.CreateEvent(d)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// ============================================================
// Month grid
// ============================================================

func TestMonthCellsShape(t *testing.T) {
	tests := []struct {
		name         string
		startOfWeek  WeekStart
		showWeekends bool
	}{
		{"sunday with weekends", WeekStartSunday, true},
		{"monday with weekends", WeekStartMonday, true},
		{"sunday hidden weekends", WeekStartSunday, false},
		{"monday hidden weekends", WeekStartMonday, false},
	}
	months := []time.Time{
		time.Date(2026, time.January, 15, 0, 0, 0, 0, time.Local),
		time.Date(2026, time.February, 1, 0, 0, 0, 0, time.Local),
		time.Date(2026, time.March, 31, 0, 0, 0, 0, time.Local),
		time.Date(2024, time.February, 10, 0, 0, 0, 0, time.Local), // leap month
		time.Date(2026, time.December, 25, 0, 0, 0, 0, time.Local),
	}

	for _, tc := range tests {
		s := newTestState(t)
		set := DefaultSettings()
		set.StartOfWeek = tc.startOfWeek
		set.ShowWeekends = tc.showWeekends
		if err := s.SetSettings(set); err != nil {
			t.Fatal(err)
		}

		for _, ref := range months {
			cells := s.MonthCells(ref, ref)
			if len(cells)%s.RowWidth() != 0 {
				t.Fatalf("%s %s: %d cells not a multiple of row width %d",
					tc.name, ref.Format("2006-01"), len(cells), s.RowWidth())
			}

			// Every date of the month appears in exactly one cell, except the
			// weekend dates dropped when weekends are hidden.
			counts := make(map[int]int)
			for _, c := range cells {
				if c.InMonth {
					counts[c.Date.Day()]++
				}
			}
			last := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, 1, -1)
			for day := 1; day <= last.Day(); day++ {
				date := time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, time.Local)
				want := 1
				if !tc.showWeekends && isWeekend(date) {
					want = 0
				}
				if counts[day] != want {
					t.Fatalf("%s %s: day %d appears %d times, want %d",
						tc.name, ref.Format("2006-01"), day, counts[day], want)
				}
			}
		}
	}
}

func TestMonthCellsBoundaries(t *testing.T) {
	s := newTestState(t)

	// March 2026 starts on a Sunday and ends on a Tuesday.
	ref := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.Local)

	cells := s.MonthCells(ref, ref)
	if len(cells) != 35 {
		t.Fatalf("expected 35 cells, got %d", len(cells))
	}
	first := cells[0].Date
	if first.Month() != time.March || first.Day() != 1 {
		t.Fatalf("grid should start on March 1, got %v", first)
	}
	lastCell := cells[len(cells)-1].Date
	if lastCell.Month() != time.April || lastCell.Day() != 4 {
		t.Fatalf("grid should end on April 4, got %v", lastCell)
	}
}

func TestMonthCellsMondayStart(t *testing.T) {
	s := newTestState(t)
	set := DefaultSettings()
	set.StartOfWeek = WeekStartMonday
	if err := s.SetSettings(set); err != nil {
		t.Fatal(err)
	}

	ref := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.Local)
	cells := s.MonthCells(ref, ref)
	if len(cells) != 42 {
		t.Fatalf("expected 42 cells, got %d", len(cells))
	}
	first := cells[0].Date
	if first.Month() != time.February || first.Day() != 23 {
		t.Fatalf("grid should start on February 23, got %v", first)
	}
	if first.Weekday() != time.Monday {
		t.Fatalf("first cell should be a Monday, got %v", first.Weekday())
	}
}

func TestMonthCellsWeekendsHidden(t *testing.T) {
	s := newTestState(t)
	set := DefaultSettings()
	set.ShowWeekends = false
	if err := s.SetSettings(set); err != nil {
		t.Fatal(err)
	}
	if s.RowWidth() != 5 {
		t.Fatalf("row width = %d, want 5", s.RowWidth())
	}

	ref := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.Local)
	cells := s.MonthCells(ref, ref)
	if len(cells) != 25 {
		t.Fatalf("expected 25 cells, got %d", len(cells))
	}
	for _, c := range cells {
		if isWeekend(c.Date) {
			t.Fatalf("weekend cell %v should be dropped", c.Date)
		}
	}
}

func TestMonthCellsTodayAndSelectedFlags(t *testing.T) {
	s := newTestState(t)
	now := fixedNow(t, s)
	selected := now.AddDate(0, 0, 3)

	cells := s.MonthCells(now, selected)
	var todays, selecteds int
	for _, c := range cells {
		if c.Today {
			todays++
			if !sameDay(c.Date, now) {
				t.Fatalf("today flag on wrong cell %v", c.Date)
			}
		}
		if c.Selected {
			selecteds++
			if !sameDay(c.Date, selected) {
				t.Fatalf("selected flag on wrong cell %v", c.Date)
			}
		}
	}
	if todays != 1 || selecteds != 1 {
		t.Fatalf("expected exactly one today and one selected cell, got %d/%d", todays, selecteds)
	}
}

func TestMonthCellsFilterInactiveAccounts(t *testing.T) {
	s := newTestState(t)
	now := fixedNow(t, s)
	mustCreate(t, s, EventDraft{StartTime: timep(now)})

	if err := s.ToggleAccount(DefaultAccountID); err != nil {
		t.Fatal(err)
	}

	for _, c := range s.MonthCells(now, now) {
		if len(c.Events) != 0 {
			t.Fatalf("cell %v still shows events of an inactive account", c.Date)
		}
	}
}

// ============================================================
// Day events
// ============================================================

func TestDayEventsSorted(t *testing.T) {
	s := newTestState(t)
	day := time.Date(2026, time.June, 2, 0, 0, 0, 0, time.Local)

	late := mustCreate(t, s, EventDraft{Title: strp("late"), StartTime: timep(day.Add(18 * time.Hour))})
	early := mustCreate(t, s, EventDraft{Title: strp("early"), StartTime: timep(day.Add(8 * time.Hour))})
	noon := mustCreate(t, s, EventDraft{Title: strp("noon"), StartTime: timep(day.Add(12 * time.Hour))})

	got := s.DayEvents(day)
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	wantOrder := []string{early.ID, noon.ID, late.ID}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d: got %q, want %q", i, got[i].Title, id)
		}
	}
}

func TestDayEventsLocalDayEquality(t *testing.T) {
	s := newTestState(t)
	day := time.Date(2026, time.June, 2, 0, 0, 0, 0, time.Local)

	mustCreate(t, s, EventDraft{Title: strp("late night"), StartTime: timep(day.Add(23*time.Hour + 30*time.Minute))})
	mustCreate(t, s, EventDraft{Title: strp("next day"), StartTime: timep(day.Add(24*time.Hour + 10*time.Minute))})

	got := s.DayEvents(day)
	if len(got) != 1 || got[0].Title != "late night" {
		t.Fatalf("expected only the same-day event, got %+v", got)
	}
}

func TestMultiDayEventOnlyOnStartDay(t *testing.T) {
	s := newTestState(t)
	day := time.Date(2026, time.June, 2, 9, 0, 0, 0, time.Local)

	mustCreate(t, s, EventDraft{
		Title:     strp("offsite"),
		StartTime: timep(day),
		EndTime:   timep(day.AddDate(0, 0, 2)),
	})

	if got := s.DayEvents(day); len(got) != 1 {
		t.Fatalf("expected event on its start day, got %d", len(got))
	}
	if got := s.DayEvents(day.AddDate(0, 0, 1)); len(got) != 0 {
		t.Fatalf("multi-day event must not appear past its start day, got %d", len(got))
	}
}

func TestDayEventsFilterInactiveAccounts(t *testing.T) {
	s := newTestState(t)
	day := time.Date(2026, time.June, 2, 9, 0, 0, 0, time.Local)

	work, err := s.AddAccount("work@example.com")
	if err != nil {
		t.Fatal(err)
	}
	mustCreate(t, s, EventDraft{Title: strp("mine"), StartTime: timep(day)})
	mustCreate(t, s, EventDraft{Title: strp("theirs"), StartTime: timep(day), AccountID: work.ID})

	if err := s.ToggleAccount(work.ID); err != nil {
		t.Fatal(err)
	}

	got := s.DayEvents(day)
	if len(got) != 1 || got[0].Title != "mine" {
		t.Fatalf("expected only the active account's event, got %+v", got)
	}
}
