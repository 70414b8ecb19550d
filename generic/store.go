/*
store.go - Persistence interfaces for saved scenarios and captured leads

PURPOSE:
  Defines the interface between the HTTP layer and the database. The engine
  itself persists nothing: a projection is recomputed from its parameters
  every time. What IS persisted is caller input:
  - Scenarios: named parameter sets a user wants to come back to
  - Leads: "email me my projections" form submissions

WHAT IS NEVER STORED:
  Computed series. A saved scenario stores the ScenarioJSON that produced
  a projection, never the projection.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - factory/scenario.go: ScenarioJSON, the stored payload
  - api/handlers.go: Uses both stores
*/
package generic

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// SCENARIO STORE - Saved parameter sets
// =============================================================================

// ScenarioRecord is a stored scenario with its JSON definition.
type ScenarioRecord struct {
	ID         string
	Name       string
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ScenarioStore persists named scenario definitions.
type ScenarioStore interface {
	// SaveScenario inserts or replaces a scenario, bumping its version.
	SaveScenario(ctx context.Context, rec ScenarioRecord) error

	// GetScenario returns ErrScenarioNotFound when id is unknown.
	GetScenario(ctx context.Context, id string) (*ScenarioRecord, error)

	// ListScenarios returns all scenarios ordered by name.
	ListScenarios(ctx context.Context) ([]ScenarioRecord, error)

	// DeleteScenario returns ErrScenarioNotFound when id is unknown.
	DeleteScenario(ctx context.Context, id string) error
}

// =============================================================================
// LEAD STORE - Projection requests from prospects
// =============================================================================

// Lead is a prospect who asked for their projections by email.
type Lead struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	BookAppointment bool
	ProjectionsHTML string
	CreatedAt       time.Time
}

// Validate requires a plausible email address. Everything else is optional.
func (l Lead) Validate() error {
	email := strings.TrimSpace(l.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidLead)
	}
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return fmt.Errorf("%w: %q is not an email address", ErrInvalidLead, email)
	}
	return nil
}

// LeadStore persists captured leads. Append-only.
type LeadStore interface {
	SaveLead(ctx context.Context, lead Lead) error
	ListLeads(ctx context.Context, limit int) ([]Lead, error)
}
