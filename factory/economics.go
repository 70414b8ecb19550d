package factory

import (
	"github.com/shopspring/decimal"
	"github.com/warp/roi-engine/projection"
)

// =============================================================================
// JOB ECONOMICS - Per-job price and cost breakdown
// =============================================================================

// JobEconomics describes a single job the way an operator quotes it:
// square footage at a price, crew hours at a labor rate, materials and
// marketing per job, plus the one-time equipment and license outlay.
type JobEconomics struct {
	JobSizeSqft  decimal.Decimal
	PricePerSqft decimal.Decimal

	LaborHours    decimal.Decimal
	LaborRate     decimal.Decimal
	MaterialsCost decimal.Decimal
	MarketingCost decimal.Decimal

	BaseJobsPerWeek decimal.Decimal

	EquipmentCost decimal.Decimal
	LicenseFee    decimal.Decimal
}

// GrossPerJob is size x price.
func (e JobEconomics) GrossPerJob() decimal.Decimal {
	return e.JobSizeSqft.Mul(e.PricePerSqft)
}

// LaborPerJob is hours x rate.
func (e JobEconomics) LaborPerJob() decimal.Decimal {
	return e.LaborHours.Mul(e.LaborRate)
}

// CostPerJob is labor + materials + marketing.
func (e JobEconomics) CostPerJob() decimal.Decimal {
	return e.LaborPerJob().Add(e.MaterialsCost).Add(e.MarketingCost)
}

// StartupCost is equipment + license.
func (e JobEconomics) StartupCost() decimal.Decimal {
	return e.EquipmentCost.Add(e.LicenseFee)
}

// Apply overwrites the job-level fields of p with this breakdown.
func (e JobEconomics) Apply(p projection.BusinessParameters) projection.BusinessParameters {
	cp := p.Clone()
	cp.GrossRevenuePerJob = e.GrossPerJob()
	cp.AverageCostPerJob = e.CostPerJob()
	cp.StartupCost = e.StartupCost()
	if e.BaseJobsPerWeek.IsPositive() {
		cp.BaseJobsPerWeekPerCrew = e.BaseJobsPerWeek
	}
	return cp
}
