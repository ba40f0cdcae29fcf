package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Persistence is the key-value collaborator the state is mirrored to. The
// whole envelope is written under StorageKey after every mutation.
type Persistence interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// State owns the three top-level collections. All mutations go through its
// methods; each one runs to completion and writes the full envelope before the
// next is processed, so no locking is needed.
type State struct {
	Events   []Event
	Accounts []Account
	Settings Settings

	p   Persistence
	now func() time.Time
}

// NewState creates an empty state bound to p. Call Load before use.
func NewState(p Persistence) *State {
	return &State{
		Settings: DefaultSettings(),
		p:        p,
		now:      time.Now,
	}
}

// Load reads the envelope from persistence. A missing key seeds the default
// personal account and settings; malformed stored data is returned as an error
// with the state untouched.
func (s *State) Load() error {
	data, err := s.p.Get(StorageKey)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if data == nil {
		s.Events = nil
		s.Accounts = []Account{defaultAccount()}
		s.Settings = DefaultSettings()
		return s.persist()
	}

	env, err := ParseEnvelope(data)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	s.Events = env.Events
	s.Accounts = env.Accounts
	s.Settings = env.Settings
	return nil
}

// Snapshot returns a copy of the full state as an envelope.
func (s *State) Snapshot() Envelope {
	env := Envelope{
		Events:   make([]Event, len(s.Events)),
		Accounts: make([]Account, len(s.Accounts)),
		Settings: s.Settings,
	}
	copy(env.Events, s.Events)
	copy(env.Accounts, s.Accounts)
	return env
}

// Replace swaps in a whole imported envelope. The replacement is atomic:
// either all three collections change or, on a persistence failure, the caller
// sees the error with the previous persisted data still on disk.
func (s *State) Replace(env Envelope) error {
	s.Events = env.Events
	s.Accounts = env.Accounts
	s.Settings = env.Settings
	return s.persist()
}

func (s *State) persist() error {
	data, err := MarshalEnvelope(s.Snapshot())
	if err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	if err := s.p.Set(StorageKey, data); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// EventDraft is a partially filled event used as creation input or as an
// update patch. Nil pointers and empty strings mean "not provided".
type EventDraft struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Type        EventType
	AccountID   string
	Color       string
}

// CreateEvent applies the defaulting rules to the draft, appends the new event
// and persists. Missing fields are never rejected; an explicit end before the
// start is.
func (s *State) CreateEvent(d EventDraft) (*Event, error) {
	start := s.now()
	if d.StartTime != nil {
		start = *d.StartTime
	}
	end := start.Add(time.Duration(s.Settings.DefaultDuration) * time.Minute)
	if d.EndTime != nil {
		end = *d.EndTime
	}

	e := Event{
		ID:        uuid.NewString(),
		Title:     "New Event",
		StartTime: start,
		EndTime:   end,
		Type:      TypeEvent,
		AccountID: s.firstActiveAccountID(),
		Color:     EventColors[0],
	}
	if d.Title != nil && strings.TrimSpace(*d.Title) != "" {
		e.Title = *d.Title
	}
	if d.Description != nil {
		e.Description = *d.Description
	}
	if d.Type != "" {
		if !d.Type.Valid() {
			return nil, fmt.Errorf("unknown event type %q", d.Type)
		}
		e.Type = d.Type
	}
	if d.AccountID != "" {
		e.AccountID = d.AccountID
	}
	if d.Color != "" {
		e.Color = d.Color
	}
	if e.EndTime.Before(e.StartTime) {
		return nil, fmt.Errorf("event ends (%s) before it starts (%s)",
			e.EndTime.Format(time.RFC3339), e.StartTime.Format(time.RFC3339))
	}

	s.Events = append(s.Events, e)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return &s.Events[len(s.Events)-1], nil
}

// UpdateEvent merges the provided fields onto the event with the given id.
// An unknown id is a silent no-op: the UI only updates ids it just displayed.
func (s *State) UpdateEvent(id string, d EventDraft) (*Event, error) {
	idx := s.eventIndex(id)
	if idx < 0 {
		return nil, nil
	}

	e := s.Events[idx]
	if d.Title != nil && strings.TrimSpace(*d.Title) != "" {
		e.Title = *d.Title
	}
	if d.Description != nil {
		e.Description = *d.Description
	}
	if d.StartTime != nil {
		e.StartTime = *d.StartTime
	}
	if d.EndTime != nil {
		e.EndTime = *d.EndTime
	}
	if d.Type != "" {
		if !d.Type.Valid() {
			return nil, fmt.Errorf("unknown event type %q", d.Type)
		}
		e.Type = d.Type
	}
	if d.AccountID != "" {
		e.AccountID = d.AccountID
	}
	if d.Color != "" {
		e.Color = d.Color
	}
	if e.EndTime.Before(e.StartTime) {
		return nil, fmt.Errorf("event ends (%s) before it starts (%s)",
			e.EndTime.Format(time.RFC3339), e.StartTime.Format(time.RFC3339))
	}

	s.Events[idx] = e
	if err := s.persist(); err != nil {
		return nil, err
	}
	return &s.Events[idx], nil
}

// DeleteEvent removes the event with the given id. Unknown ids are a no-op
// and do not trigger a persistence write.
func (s *State) DeleteEvent(id string) error {
	idx := s.eventIndex(id)
	if idx < 0 {
		return nil
	}
	s.Events = append(s.Events[:idx], s.Events[idx+1:]...)
	return s.persist()
}

func (s *State) eventIndex(id string) int {
	for i := range s.Events {
		if s.Events[i].ID == id {
			return i
		}
	}
	return -1
}

// Event returns the event with the given id, or nil.
func (s *State) Event(id string) *Event {
	if idx := s.eventIndex(id); idx >= 0 {
		return &s.Events[idx]
	}
	return nil
}

// AddAccount creates a personal account from an email address. The display
// name is the local part of the address.
func (s *State) AddAccount(email string) (*Account, error) {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 {
		return nil, fmt.Errorf("invalid email address %q", email)
	}

	a := Account{
		ID:       uuid.NewString(),
		Name:     email[:at],
		Email:    email,
		Provider: ProviderPersonal,
		Active:   true,
	}
	s.Accounts = append(s.Accounts, a)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return &s.Accounts[len(s.Accounts)-1], nil
}

// ToggleAccount flips the active flag of the account with the given id.
// Unknown ids are a no-op. Events of an inactive account stay in the
// collection; they just stop appearing in projections.
func (s *State) ToggleAccount(id string) error {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			s.Accounts[i].Active = !s.Accounts[i].Active
			return s.persist()
		}
	}
	return nil
}

// Account returns the account with the given id, or nil.
func (s *State) Account(id string) *Account {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return &s.Accounts[i]
		}
	}
	return nil
}

// SetSettings replaces the settings wholesale.
func (s *State) SetSettings(set Settings) error {
	if set.DefaultDuration <= 0 {
		return fmt.Errorf("default duration must be positive, got %d", set.DefaultDuration)
	}
	switch set.StartOfWeek {
	case WeekStartSunday, WeekStartMonday:
	default:
		return fmt.Errorf("unknown week start %d", set.StartOfWeek)
	}
	switch set.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("unknown theme %q", set.Theme)
	}
	s.Settings = set
	return s.persist()
}

func (s *State) firstActiveAccountID() string {
	for _, a := range s.Accounts {
		if a.Active {
			return a.ID
		}
	}
	return DefaultAccountID
}

func (s *State) activeAccountIDs() map[string]bool {
	active := make(map[string]bool, len(s.Accounts))
	for _, a := range s.Accounts {
		if a.Active {
			active[a.ID] = true
		}
	}
	return active
}
