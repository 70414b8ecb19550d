package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/warp/roi-engine/generic"
)

// =============================================================================
// SCENARIO STORE
// =============================================================================

// SaveScenario inserts a scenario or replaces its definition, bumping the version.
func (s *Store) SaveScenario(ctx context.Context, rec generic.ScenarioRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO scenarios (id, name, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			version = scenarios.version + 1,
			updated_at = excluded.updated_at
	`

	version := rec.Version
	if version == 0 {
		version = 1
	}
	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx, query, rec.ID, rec.Name, rec.ConfigJSON, version, now, now)
	if err != nil {
		return fmt.Errorf("save scenario %q: %w", rec.ID, err)
	}
	return nil
}

// GetScenario retrieves a scenario by ID.
func (s *Store) GetScenario(ctx context.Context, id string) (*generic.ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec generic.ScenarioRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM scenarios WHERE id = ?",
		id,
	).Scan(&rec.ID, &rec.Name, &rec.ConfigJSON, &rec.Version, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", generic.ErrScenarioNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}

// ListScenarios returns all scenarios ordered by name.
func (s *Store) ListScenarios(ctx context.Context) ([]generic.ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, config_json, version, created_at, updated_at FROM scenarios ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []generic.ScenarioRecord
	for rows.Next() {
		var rec generic.ScenarioRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.ConfigJSON, &rec.Version, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = parseTime(createdAt)
		rec.UpdatedAt = parseTime(updatedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteScenario removes a scenario.
func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", generic.ErrScenarioNotFound, id)
	}
	return nil
}
