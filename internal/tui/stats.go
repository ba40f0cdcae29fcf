package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chronos/internal/calendar"
)

type statsModel struct {
	state  *calendar.State
	width  int
	height int

	reference time.Time // displayed month
	chart     barchart.Model
	dirty     bool
}

func newStatsModel(s *calendar.State) statsModel {
	return statsModel{
		state:     s,
		reference: time.Now(),
		chart:     barchart.New(60, 10),
		dirty:     true,
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.dirty = true
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.PrevMonth), key.Matches(msg, keys.Left):
			m.reference = m.reference.AddDate(0, -1, 0)
			m.dirty = true
		case key.Matches(msg, keys.NextMonth), key.Matches(msg, keys.Right):
			m.reference = m.reference.AddDate(0, 1, 0)
			m.dirty = true
		case key.Matches(msg, keys.Today):
			m.reference = time.Now()
			m.dirty = true
		}
	}
	return m, nil
}

// monthEvents returns events of the displayed month from visible accounts,
// keyed by day of month.
func (m statsModel) monthEvents() map[int][]calendar.Event {
	byDay := make(map[int][]calendar.Event)
	first := time.Date(m.reference.Year(), m.reference.Month(), 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		events := m.state.DayEvents(d)
		if len(events) > 0 {
			byDay[d.Day()] = events
		}
	}
	return byDay
}

func (m *statsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	byDay := m.monthEvents()
	daysInMonth := time.Date(m.reference.Year(), m.reference.Month()+1, 0, 0, 0, 0, 0, time.Local).Day()

	var bars []barchart.BarData
	for day := 1; day <= daysInMonth; day++ {
		counts := make(map[calendar.EventType]float64)
		for _, e := range byDay[day] {
			counts[e.Type]++
		}

		var values []barchart.BarValue
		for _, t := range calendar.EventTypes {
			if counts[t] == 0 {
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(typeColors[t]))
			values = append(values, barchart.BarValue{
				Name:  string(t),
				Value: counts[t],
				Style: style,
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: mutedStyle}}
		}

		bars = append(bars, barchart.BarData{
			Label:  fmt.Sprintf("%02d", day),
			Values: values,
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
	m.dirty = false
}

func (m statsModel) view() string {
	w := m.width - 4

	if m.dirty {
		m.buildChart()
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ",
		mutedStyle.Render(m.reference.Format("January 2006")),
	)

	legend := m.renderLegend()
	table := m.renderTypeTable(w)
	nav := mutedStyle.Render("  [/]: change month  t: this month")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", legend, "", table, "", nav,
		),
	)
}

func (m statsModel) renderLegend() string {
	var items []string
	for _, t := range calendar.EventTypes {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(typeColors[t])).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, string(t)))
	}
	return "  " + strings.Join(items, "  ")
}

func (m statsModel) renderTypeTable(w int) string {
	byDay := m.monthEvents()
	totals := make(map[calendar.EventType]int)
	busiest, busiestCount := 0, 0
	total := 0
	for day, events := range byDay {
		for _, e := range events {
			totals[e.Type]++
			total++
		}
		if len(events) > busiestCount {
			busiest, busiestCount = day, len(events)
		}
	}

	if total == 0 {
		return mutedStyle.Render("  No events this month")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %8s", "Category", "Events")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 24))))

	types := make([]calendar.EventType, 0, len(totals))
	for t := range totals {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return totals[types[i]] > totals[types[j]] })

	for _, t := range types {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(typeColors[t])).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-10s %8d", dot, string(t), totals[t]))
	}
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("  %d events total, busiest day: %s %d (%d events)",
		total, m.reference.Format("Jan"), busiest, busiestCount))

	return strings.Join(rows, "\n")
}
