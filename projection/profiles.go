package projection

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/generic"
)

// =============================================================================
// AGGRESSION PROFILES - How eagerly the business scales
// =============================================================================

// AggressionProfile is a named scaling posture.
//
//   - JobThreshold: completed jobs per crew (since the last crew was added)
//     after which another crew should be hired
//   - PayoutDelayDays: days before final payments are recognised
//   - WeeksBookedOut: backlog depth, in weeks of work, used by the
//     closed-form trigger and the booking-target markers
type AggressionProfile struct {
	Name            string
	JobThreshold    decimal.Decimal
	PayoutDelayDays int
	WeeksBookedOut  decimal.Decimal
}

const (
	ProfileAggressive   = "aggressive"
	ProfileModerate     = "moderate"
	ProfileConservative = "conservative"
)

// DefaultProfiles returns the built-in postures, most aggressive first.
func DefaultProfiles() []AggressionProfile {
	return []AggressionProfile{
		{Name: ProfileAggressive, JobThreshold: decimal.NewFromInt(10), PayoutDelayDays: 30, WeeksBookedOut: decimal.NewFromInt(4)},
		{Name: ProfileModerate, JobThreshold: decimal.NewFromInt(20), PayoutDelayDays: 42, WeeksBookedOut: decimal.NewFromInt(8)},
		{Name: ProfileConservative, JobThreshold: decimal.NewFromInt(25), PayoutDelayDays: 60, WeeksBookedOut: decimal.NewFromInt(10)},
	}
}

// LookupProfile finds a built-in profile by name, case-insensitively.
func LookupProfile(name string) (AggressionProfile, error) {
	for _, p := range DefaultProfiles() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return AggressionProfile{}, fmt.Errorf("%w: %q", generic.ErrUnknownProfile, name)
}

// Label is the display label used next to booking-target markers.
func (p AggressionProfile) Label() string {
	name := p.Name
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s (%s wks)", name, p.WeeksBookedOut.String())
}

// =============================================================================
// SCALING MODE
// =============================================================================

// ScalingMode selects the crew-scaling trigger strategy.
type ScalingMode string

const (
	// ScalingSimulated replays the simulation's job completions. Canonical.
	ScalingSimulated ScalingMode = "simulated"

	// ScalingClosedForm divides the booked-out target by the booking rate.
	// Only valid without seasonality and without prior crew additions.
	ScalingClosedForm ScalingMode = "closed_form"
)

// ParseScalingMode accepts "", "simulated" and "closed_form"/"closed-form".
// Empty selects the simulated strategy.
func ParseScalingMode(s string) (ScalingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ScalingSimulated):
		return ScalingSimulated, nil
	case string(ScalingClosedForm), "closed-form", "closedform":
		return ScalingClosedForm, nil
	default:
		return "", fmt.Errorf("%w: %q", generic.ErrUnknownScalingMode, s)
	}
}
