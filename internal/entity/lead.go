package entity

import (
	"context"
	"time"
)

// Lead is the audit record written when a conversation completes. The
// conversational state lives in the session store; this is the durable copy
// keyed by email so re-running the flow updates instead of duplicating.
type Lead struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	ServiceType string    `json:"service_type,omitempty"`
	City        string    `json:"city,omitempty"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	PartySize   string    `json:"party_size,omitempty"`
	Language    string    `json:"language,omitempty"`
	ContactID   string    `json:"contact_id,omitempty"`
	DealID      string    `json:"deal_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *Lead) error
}
