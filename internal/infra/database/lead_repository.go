package database

import (
	"context"
	"database/sql"

	"github.com/tutravel/intake-bot/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert writes the completed intake keyed by email. A returning lead
// overwrites their previous answers instead of creating a second row;
// COALESCE keeps old values where the new run left a field empty.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, email, name, phone, service_type, city,
			start_date, end_date, party_size, language,
			contact_id, deal_id, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name         = COALESCE(EXCLUDED.name, leads.name),
			phone        = COALESCE(EXCLUDED.phone, leads.phone),
			service_type = COALESCE(EXCLUDED.service_type, leads.service_type),
			city         = COALESCE(EXCLUDED.city, leads.city),
			start_date   = COALESCE(EXCLUDED.start_date, leads.start_date),
			end_date     = COALESCE(EXCLUDED.end_date, leads.end_date),
			party_size   = COALESCE(EXCLUDED.party_size, leads.party_size),
			language     = COALESCE(EXCLUDED.language, leads.language),
			contact_id   = COALESCE(EXCLUDED.contact_id, leads.contact_id),
			deal_id      = COALESCE(EXCLUDED.deal_id, leads.deal_id),
			updated_at   = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Phone),
		nullString(lead.ServiceType),
		nullString(lead.City),
		nullString(lead.StartDate),
		nullString(lead.EndDate),
		nullString(lead.PartySize),
		nullString(lead.Language),
		nullString(lead.ContactID),
		nullString(lead.DealID),
	).Scan(
		&lead.ID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)

	return err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
