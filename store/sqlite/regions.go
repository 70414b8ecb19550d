package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/generic"
)

// =============================================================================
// REGIONS - Seasonality tables as a SeasonalityProvider
// =============================================================================

// SaveRegion inserts or replaces a region's seasonality table.
func (s *Store) SaveRegion(ctx context.Context, t *generic.SeasonalityTable) error {
	if err := t.Validate(); err != nil {
		return err
	}

	multipliers := make([]string, len(t.Multipliers))
	for i, m := range t.Multipliers {
		multipliers[i] = m.String()
	}
	data, err := json.Marshal(multipliers)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO regions (key, name, multipliers_json, workable_weeks, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			multipliers_json = excluded.multipliers_json,
			workable_weeks = excluded.workable_weeks,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query, t.Region, t.Name, string(data), t.WorkableWeeks, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save region %q: %w", t.Region, err)
	}
	return nil
}

// SeedRegions saves every table. Existing regions are overwritten.
func (s *Store) SeedRegions(ctx context.Context, tables []*generic.SeasonalityTable) error {
	for _, t := range tables {
		if err := s.SaveRegion(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// GetRegion loads one region. Returns ErrUnknownRegion when absent.
func (s *Store) GetRegion(ctx context.Context, key string) (*generic.SeasonalityTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t generic.SeasonalityTable
	var multipliersJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT key, name, multipliers_json, workable_weeks FROM regions WHERE key = ?",
		key,
	).Scan(&t.Region, &t.Name, &multipliersJSON, &t.WorkableWeeks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", generic.ErrUnknownRegion, key)
	}
	if err != nil {
		return nil, err
	}

	var multipliers []string
	if err := json.Unmarshal([]byte(multipliersJSON), &multipliers); err != nil {
		return nil, fmt.Errorf("region %q: %w", key, err)
	}
	if len(multipliers) != generic.MonthsPerYear {
		return nil, fmt.Errorf("%w: region %q stores %d multipliers", generic.ErrInvalidSeasonality, key, len(multipliers))
	}
	for i, m := range multipliers {
		d, err := decimal.NewFromString(m)
		if err != nil {
			return nil, fmt.Errorf("%w: region %q month %d: %v", generic.ErrInvalidSeasonality, key, i, err)
		}
		t.Multipliers[i] = d
	}
	return &t, nil
}

// ListRegionKeys returns every stored region key, sorted.
func (s *Store) ListRegionKeys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT key FROM regions ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Lookup implements generic.SeasonalityProvider. Database errors read as
// "no data", which the engine tolerates.
func (s *Store) Lookup(region string) (*generic.SeasonalityTable, bool) {
	t, err := s.GetRegion(context.Background(), strings.ToLower(strings.TrimSpace(region)))
	if err != nil {
		return nil, false
	}
	return t, true
}

// Regions implements generic.SeasonalityProvider.
func (s *Store) Regions() []string {
	keys, err := s.ListRegionKeys(context.Background())
	if err != nil {
		return nil
	}
	return keys
}
