package calendar

import "time"

// EventType categorizes an event. The string values are part of the persisted
// envelope format.
type EventType string

const (
	TypeEvent    EventType = "EVENT"
	TypeBirthday EventType = "BIRTHDAY"
	TypeMeeting  EventType = "MEETING"
	TypeTask     EventType = "TASK"
)

// EventTypes lists all categories in display order.
var EventTypes = []EventType{TypeEvent, TypeBirthday, TypeMeeting, TypeTask}

// Valid reports whether t is one of the known categories.
func (t EventType) Valid() bool {
	switch t {
	case TypeEvent, TypeBirthday, TypeMeeting, TypeTask:
		return true
	}
	return false
}

// Provider tags the origin of an account. Only ProviderPersonal has functional
// behavior; the external tags exist for envelope compatibility.
type Provider string

const (
	ProviderGmail    Provider = "gmail"
	ProviderOutlook  Provider = "outlook"
	ProviderPersonal Provider = "personal"
)

// WeekStart selects the first day of the displayed week row.
type WeekStart int

const (
	WeekStartSunday WeekStart = 0
	WeekStartMonday WeekStart = 1
)

// Weekday maps the setting onto a time.Weekday.
func (w WeekStart) Weekday() time.Weekday {
	if w == WeekStartMonday {
		return time.Monday
	}
	return time.Sunday
}

// Theme is the display theme preference. Only ThemeLight is meaningfully used;
// the others are preserved for envelope compatibility.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Event is a single calendar entry. Timestamps are local-time instants; an
// event belongs to exactly one account and is visible only while that account
// is active.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Type        EventType `json:"type"`
	AccountID   string    `json:"accountId"`
	Color       string    `json:"color"`
}

// Account is a visibility filter for events. Accounts are never deleted, only
// toggled.
type Account struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Provider Provider `json:"provider"`
	Active   bool     `json:"active"`
}

// Settings is the singleton user configuration.
type Settings struct {
	DefaultDuration int       `json:"defaultDuration"` // minutes
	StartOfWeek     WeekStart `json:"startOfWeek"`
	ShowWeekends    bool      `json:"showWeekends"`
	Theme           Theme     `json:"theme"`
	EnableAI        bool      `json:"enableAI"`
}

// Envelope is the aggregate persisted and exported form of the whole state.
type Envelope struct {
	Events   []Event   `json:"events"`
	Accounts []Account `json:"accounts"`
	Settings Settings  `json:"settings"`
}

// StorageKey is the fixed persistence key for the envelope blob.
const StorageKey = "CHRONOS_CALENDAR_DATA_V2"

// EventColors is the display palette. The first entry is the creation default;
// the second (rose) is used for birthday drafts from assisted entry.
var EventColors = []string{
	"#6366f1", // indigo
	"#f43f5e", // rose
	"#10b981", // emerald
	"#f59e0b", // amber
	"#0ea5e9", // sky
	"#8b5cf6", // violet
}

// DefaultAccountID identifies the fallback account that always exists.
const DefaultAccountID = "default"

// DefaultSettings returns the settings used for a fresh install and as the
// fallback when an imported envelope carries none.
func DefaultSettings() Settings {
	return Settings{
		DefaultDuration: 60,
		StartOfWeek:     WeekStartSunday,
		ShowWeekends:    true,
		Theme:           ThemeLight,
		EnableAI:        true,
	}
}

func defaultAccount() Account {
	return Account{
		ID:       DefaultAccountID,
		Name:     "My Calendar",
		Email:    "primary@example.com",
		Provider: ProviderPersonal,
		Active:   true,
	}
}
