package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/warp/roi-engine/generic"
)

// =============================================================================
// LEAD STORE
// =============================================================================

// SaveLead appends a lead. Leads are never updated.
func (s *Store) SaveLead(ctx context.Context, lead generic.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := lead.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO leads (id, name, email, phone, book_appointment, projections_html, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		lead.ID, nullString(lead.Name), lead.Email, nullString(lead.Phone),
		lead.BookAppointment, nullString(lead.ProjectionsHTML), formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("save lead: %w", err)
	}
	return nil
}

// ListLeads returns the newest leads first. limit <= 0 means all.
func (s *Store) ListLeads(ctx context.Context, limit int) ([]generic.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, name, email, phone, book_appointment, projections_html, created_at
		FROM leads ORDER BY created_at DESC, rowid DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []generic.Lead
	for rows.Next() {
		var lead generic.Lead
		var name, phone, html sql.NullString
		var createdAt string
		if err := rows.Scan(&lead.ID, &name, &lead.Email, &phone, &lead.BookAppointment, &html, &createdAt); err != nil {
			return nil, err
		}
		lead.Name = name.String
		lead.Phone = phone.String
		lead.ProjectionsHTML = html.String
		lead.CreatedAt = parseTime(createdAt)
		out = append(out, lead)
	}
	return out, rows.Err()
}
