/*
Package projection implements the revenue projection for a crew-based
service business on top of the generic series engine.

PURPOSE:
  Turns business parameters (crews, ad spend tier, job economics, seasonal
  workability, scaling posture) into a day-indexed cumulative cash-flow
  series, and derives the numbers a prospect cares about from it:
  break-even week, monthly/yearly run-rate, and when to add the next crew.

KEY CONCEPTS IN THIS FILE (params.go):
  - BusinessParameters: Everything the simulation needs to know about
    the business, as an immutable value
  - AdSpendTier: A named daily ad budget per crew

PIPELINE:
  SeasonalityProvider -> Simulate -> {BreakEven, CrewScalingTrigger,
  RunRate, MonthlyBars, BookingTargets} -> presentation (api, cli, report)

PURITY:
  Every function in this package is deterministic and side-effect free.
  Inputs are never mutated and never retained; each call returns its own
  series. Concurrent calls on independent inputs need no coordination.

SEE ALSO:
  - engine.go: The day-by-day simulation
  - scaling.go: Crew-scaling trigger
  - factory/scenario.go: Building parameters from JSON
*/
package projection

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/generic"
)

// =============================================================================
// AD SPEND TIERS
// =============================================================================

// AdSpendTier names a daily ad budget.
type AdSpendTier string

const (
	TierAggressive   AdSpendTier = "Aggressive"
	TierModerate     AdSpendTier = "Moderate"
	TierConservative AdSpendTier = "Conservative"
)

// DefaultAdSpendTiers returns the daily dollar amount per tier.
func DefaultAdSpendTiers() map[AdSpendTier]decimal.Decimal {
	return map[AdSpendTier]decimal.Decimal{
		TierAggressive:   decimal.NewFromInt(75),
		TierModerate:     decimal.NewFromInt(50),
		TierConservative: decimal.NewFromInt(30),
	}
}

// =============================================================================
// BUSINESS PARAMETERS
// =============================================================================

// BusinessParameters describes the business being projected. Treat it as a
// value: the With* methods return modified copies.
type BusinessParameters struct {
	BaseJobsPerWeekPerCrew decimal.Decimal
	GrossRevenuePerJob     decimal.Decimal
	AverageCostPerJob      decimal.Decimal

	// Share of the gross price collected when the job is done.
	DepositFraction decimal.Decimal

	FixedDailyOverhead decimal.Decimal

	// Charged once, on day 1.
	StartupCost decimal.Decimal

	// Lead funnel: every CostPerLead dollars of ads buys one lead, and
	// CloseRate of leads book a job.
	CostPerLead decimal.Decimal
	CloseRate   decimal.Decimal

	AdSpendTiers map[AdSpendTier]decimal.Decimal
	SelectedTier AdSpendTier

	MaxCrews int

	// Days before the final (non-deposit) payment is recognised.
	PayoutDelayDays int
}

// DefaultParameters returns the reference business: 2 jobs/week/crew,
// $6,250 jobs costing $2,400, 50% deposits, $20/day overhead, $15,000
// startup, $36 leads closing at 50%, up to 4 crews, 42-day payout.
func DefaultParameters() BusinessParameters {
	return BusinessParameters{
		BaseJobsPerWeekPerCrew: decimal.NewFromInt(2),
		GrossRevenuePerJob:     decimal.NewFromInt(6250),
		AverageCostPerJob:      decimal.NewFromInt(2400),
		DepositFraction:        decimal.RequireFromString("0.5"),
		FixedDailyOverhead:     decimal.NewFromInt(20),
		StartupCost:            decimal.NewFromInt(15000),
		CostPerLead:            decimal.NewFromInt(36),
		CloseRate:              decimal.RequireFromString("0.5"),
		AdSpendTiers:           DefaultAdSpendTiers(),
		SelectedTier:           TierModerate,
		MaxCrews:               4,
		PayoutDelayDays:        42,
	}
}

// NetRevenuePerJob is gross minus average cost.
func (p BusinessParameters) NetRevenuePerJob() decimal.Decimal {
	return p.GrossRevenuePerJob.Sub(p.AverageCostPerJob)
}

// DepositPerJob is the share of gross collected on completion.
func (p BusinessParameters) DepositPerJob() decimal.Decimal {
	return p.GrossRevenuePerJob.Mul(p.DepositFraction)
}

// FinalPaymentPerJob is what remains of net revenue after the deposit.
// It can be negative when costs exceed the undeposited share.
func (p BusinessParameters) FinalPaymentPerJob() decimal.Decimal {
	return p.NetRevenuePerJob().Sub(p.DepositPerJob())
}

// DailyAdSpend returns the selected tier's daily budget per crew. An
// unconfigured tier spends nothing.
func (p BusinessParameters) DailyAdSpend() decimal.Decimal {
	amount, ok := p.AdSpendTiers[p.SelectedTier]
	if !ok {
		return decimal.Zero
	}
	return amount
}

// Tiers returns the configured tier names ordered by daily amount, highest first.
func (p BusinessParameters) Tiers() []AdSpendTier {
	tiers := make([]AdSpendTier, 0, len(p.AdSpendTiers))
	for t := range p.AdSpendTiers {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool {
		a, b := p.AdSpendTiers[tiers[i]], p.AdSpendTiers[tiers[j]]
		if a.Equal(b) {
			return tiers[i] < tiers[j]
		}
		return a.GreaterThan(b)
	})
	return tiers
}

// WithTier returns a copy using the given tier. Unknown tiers are rejected
// here so the engine never has to.
func (p BusinessParameters) WithTier(tier AdSpendTier) (BusinessParameters, error) {
	if _, ok := p.AdSpendTiers[tier]; !ok {
		return p, &tierError{tier: tier}
	}
	cp := p.Clone()
	cp.SelectedTier = tier
	return cp, nil
}

// WithProfile returns a copy whose payout delay follows the profile.
func (p BusinessParameters) WithProfile(profile AggressionProfile) BusinessParameters {
	cp := p.Clone()
	cp.PayoutDelayDays = profile.PayoutDelayDays
	return cp
}

// Clone returns a copy that shares no map with p.
func (p BusinessParameters) Clone() BusinessParameters {
	cp := p
	cp.AdSpendTiers = make(map[AdSpendTier]decimal.Decimal, len(p.AdSpendTiers))
	for k, v := range p.AdSpendTiers {
		cp.AdSpendTiers[k] = v
	}
	return cp
}

// Validate checks the parameters the engine relies on. The engine itself
// assumes validated input; callers (factory, api) run this first.
func (p BusinessParameters) Validate() error {
	switch {
	case p.BaseJobsPerWeekPerCrew.IsNegative():
		return &generic.ParameterError{Field: "base_jobs_per_week", Reason: "must not be negative"}
	case p.GrossRevenuePerJob.IsNegative():
		return &generic.ParameterError{Field: "gross_revenue_per_job", Reason: "must not be negative"}
	case p.AverageCostPerJob.IsNegative():
		return &generic.ParameterError{Field: "average_cost_per_job", Reason: "must not be negative"}
	case p.DepositFraction.IsNegative() || p.DepositFraction.GreaterThan(decimal.NewFromInt(1)):
		return &generic.ParameterError{Field: "deposit_fraction", Reason: "must be within [0,1]"}
	case p.FixedDailyOverhead.IsNegative():
		return &generic.ParameterError{Field: "fixed_daily_overhead", Reason: "must not be negative"}
	case p.StartupCost.IsNegative():
		return &generic.ParameterError{Field: "startup_cost", Reason: "must not be negative"}
	case !p.CostPerLead.IsPositive():
		return &generic.ParameterError{Field: "cost_per_lead", Reason: "must be positive"}
	case p.CloseRate.IsNegative() || p.CloseRate.GreaterThan(decimal.NewFromInt(1)):
		return &generic.ParameterError{Field: "close_rate", Reason: "must be within [0,1]"}
	case p.MaxCrews < 1:
		return &generic.ParameterError{Field: "max_crews", Reason: "must be at least 1"}
	case p.PayoutDelayDays < 0:
		return &generic.ParameterError{Field: "payout_delay_days", Reason: "must not be negative"}
	}
	for tier, amount := range p.AdSpendTiers {
		if amount.IsNegative() {
			return &generic.ParameterError{Field: "ad_spend_tiers." + string(tier), Reason: "must not be negative"}
		}
	}
	if _, ok := p.AdSpendTiers[p.SelectedTier]; !ok {
		return &tierError{tier: p.SelectedTier}
	}
	return nil
}

type tierError struct {
	tier AdSpendTier
}

func (e *tierError) Error() string { return "unknown ad spend tier: " + string(e.tier) }
func (e *tierError) Unwrap() error { return generic.ErrUnknownTier }
