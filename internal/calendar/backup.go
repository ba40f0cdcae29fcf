package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MarshalEnvelope serializes the envelope as indented, human-diffable JSON.
// The same form is used for the persisted blob and for backup files.
func MarshalEnvelope(env Envelope) ([]byte, error) {
	if env.Events == nil {
		env.Events = []Event{}
	}
	if env.Accounts == nil {
		env.Accounts = []Account{}
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// ParseEnvelope deserializes an envelope. The events and accounts collections
// must be present; missing settings fall back to the defaults.
func ParseEnvelope(data []byte) (Envelope, error) {
	var raw struct {
		Events   *[]Event   `json:"events"`
		Accounts *[]Account `json:"accounts"`
		Settings *Settings  `json:"settings"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Envelope{}, fmt.Errorf("parse envelope: %w", err)
	}
	if raw.Events == nil {
		return Envelope{}, errors.New("parse envelope: missing events collection")
	}
	if raw.Accounts == nil {
		return Envelope{}, errors.New("parse envelope: missing accounts collection")
	}

	env := Envelope{
		Events:   *raw.Events,
		Accounts: *raw.Accounts,
		Settings: DefaultSettings(),
	}
	if raw.Settings != nil {
		env.Settings = *raw.Settings
	}
	return env, nil
}
