package entity

import (
	"context"
	"time"
)

// SessionState enumerates the steps of the intake conversation.
// The flow is strictly linear; every state has exactly one successor.
type SessionState string

const (
	StateLanguage SessionState = "LANG"
	StateName     SessionState = "NAME"
	StateEmail    SessionState = "EMAIL"
	StateService  SessionState = "SERVICE"
	StateCity     SessionState = "CITY"
	StateDates    SessionState = "DATES"
	StatePax      SessionState = "PAX"
	StateDone     SessionState = "DONE"
)

type Language string

const (
	LanguageES Language = "ES"
	LanguageEN Language = "EN"
)

// Session holds everything collected from one sender so far.
// Fields fill in progressively as the conversation advances; ContactID and
// DealID are set once the corresponding HubSpot object exists and are reused
// for every later update so the bot never creates duplicates.
type Session struct {
	Sender      string       `json:"sender"` // phone number (wa_id)
	State       SessionState `json:"state"`
	Language    Language     `json:"language,omitempty"` // fixed at the first turn

	FullName    string `json:"full_name,omitempty"`
	Email       string `json:"email,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
	City        string `json:"city,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	PartySize   string `json:"party_size,omitempty"`

	ContactID string `json:"contact_id,omitempty"`
	DealID    string `json:"deal_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionStoreInterface is the only shared mutable state of the bot.
// GetOrCreate must be atomic per sender. Implementations hand out copies:
// a mutated session only becomes visible after Save, so an aborted turn
// leaves the stored state untouched and the same input can be retried.
type SessionStoreInterface interface {
	GetOrCreate(ctx context.Context, sender string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Remove(ctx context.Context, sender string) error
}

// NewSession returns a fresh session at the initial state.
func NewSession(sender string) *Session {
	now := time.Now()
	return &Session{
		Sender:    sender,
		State:     StateLanguage,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
