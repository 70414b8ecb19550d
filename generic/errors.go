/*
errors.go - Centralized error types for the projection engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Input errors - Parameters, tiers, profiles, horizons the caller got wrong
  2. Lookup errors - Regions, presets, saved scenarios that don't exist
  3. Data errors - Seasonality tables outside their valid range

WHAT IS NOT AN ERROR:
  Numeric edge cases are handled by value, never by returning an error:
  zero ad spend gives zero leads, an empty series interpolates to zero, a
  break-even that never happens is an explicit "not reached" result.

USAGE:
  if errors.Is(err, generic.ErrUnknownTier) {
      // 400 to the client
  }

SEE ALSO:
  - api/handlers.go: Maps these to HTTP status codes
  - projection/params.go: Produces ParameterError
*/
package generic

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidHorizon is returned when a simulation is asked for zero or
	// negative days.
	ErrInvalidHorizon = errors.New("invalid horizon: must be at least one day")

	// ErrInvalidParameters is returned when business parameters fail validation.
	ErrInvalidParameters = errors.New("invalid business parameters")

	// ErrUnknownTier is returned when an ad-spend tier name is not configured.
	ErrUnknownTier = errors.New("unknown ad spend tier")

	// ErrUnknownProfile is returned when an aggression profile name is not known.
	ErrUnknownProfile = errors.New("unknown aggression profile")

	// ErrUnknownScalingMode is returned for a scaling mode other than
	// closed_form or simulated.
	ErrUnknownScalingMode = errors.New("unknown scaling mode")

	// ErrUnknownRegion is returned when a region key has no seasonal data
	// and the caller asked for it explicitly.
	ErrUnknownRegion = errors.New("unknown seasonality region")

	// ErrUnknownPreset is returned when a business preset does not exist.
	ErrUnknownPreset = errors.New("unknown preset")

	// ErrScenarioNotFound is returned when a saved scenario does not exist.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrInvalidSeasonality is returned when a seasonal table is malformed.
	ErrInvalidSeasonality = errors.New("invalid seasonality table")

	// ErrInvalidLead is returned when a lead submission is missing its email.
	ErrInvalidLead = errors.New("invalid lead")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ParameterError names the business parameter that failed validation.
type ParameterError struct {
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameters
}

// SeasonalityError reports a monthly score outside [0,1].
type SeasonalityError struct {
	Region string
	Month  int
	Value  decimal.Decimal
}

func (e *SeasonalityError) Error() string {
	return fmt.Sprintf("region %q month %d: workability %s outside [0,1]",
		e.Region, e.Month, e.Value)
}

func (e *SeasonalityError) Unwrap() error {
	return ErrInvalidSeasonality
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidHorizon) ||
		errors.Is(err, ErrInvalidParameters) ||
		errors.Is(err, ErrUnknownTier) ||
		errors.Is(err, ErrUnknownProfile) ||
		errors.Is(err, ErrUnknownScalingMode) ||
		errors.Is(err, ErrInvalidSeasonality) ||
		errors.Is(err, ErrInvalidLead)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownRegion) ||
		errors.Is(err, ErrUnknownPreset) ||
		errors.Is(err, ErrScenarioNotFound)
}
