package calculation

import (
	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// growthFactorPlaces bounds the precision of the monthly compounding factor.
	growthFactorPlaces = 16
	// ledgerPlaces bounds growth and withdrawal amounts so the decimal
	// mantissa does not grow with every simulated year.
	ledgerPlaces = 10
)

var decimalOne = decimal.NewFromInt(1)

// SimulateRetirement advances the portfolio one year at a time from the
// current age to the horizon and reports when the FI threshold is crossed.
//
// Each year: check the retirement trigger against the age-specific target,
// add contributions, apply growth, then withdraw a percentage of the grown
// balance once retired. A row with a negative ending balance is emitted and
// ends the run.
func SimulateRetirement(inputs domain.RetirementInputs) *domain.SimulationResult {
	returnPercent := inputs.ExpectedYearlyReturn
	if inputs.InflationMode == domain.InflationModeReal {
		returnPercent = returnPercent.Sub(inputs.InflationRate)
	}
	growth := NewGrowthModel(returnPercent.Div(hundred), inputs.CompoundingInterval)

	swr := inputs.SafeWithdrawalRate.Div(hundred)
	annualSpend := inputs.MonthlyRetirementSpend.Mul(monthsInYear)
	buffer := inputs.RetirementBufferMultiplier
	schedule := NewSchedule(inputs.ContributionPhases, inputs.WithdrawalOverrides)

	result := &domain.SimulationResult{
		Rows: make([]domain.YearRow, 0, inputs.MaxRows()),
	}
	if target, ok := FITarget(annualSpend, swr, buffer); ok {
		result.FITarget = target
	} else {
		result.FITargetUnbounded = true
	}

	portfolio := inputs.InitialInvestment
	totalContributions := inputs.InitialInvestment
	retired := false

	lastYear := inputs.Horizon() - inputs.CurrentAge
	for year := 0; year <= lastYear; year++ {
		age := inputs.CurrentAge + year

		// The target is recomputed every year: an override can make it age dependent.
		if !retired {
			target, ok := FITarget(annualSpend, schedule.WithdrawalRate(age, swr), buffer)
			if ok && portfolio.GreaterThanOrEqual(target) {
				retired = true
				result.RetirementAge = domain.IntPtr(age)
			}
		}

		contribution := schedule.Contribution(age)
		portfolio = portfolio.Add(contribution)
		totalContributions = totalContributions.Add(contribution)

		yearGrowth := growth.Apply(portfolio)
		portfolio = portfolio.Add(yearGrowth)

		withdrawal := decimal.Zero
		if retired {
			withdrawal = portfolio.Mul(schedule.WithdrawalRate(age, swr)).Round(ledgerPlaces)
		}
		portfolio = portfolio.Sub(withdrawal)

		result.Rows = append(result.Rows, domain.YearRow{
			Age:                age,
			Contribution:       contribution,
			TotalContributions: totalContributions,
			Growth:             yearGrowth,
			Withdrawal:         withdrawal,
			PortfolioEnd:       portfolio,
			Retired:            retired,
		})

		if portfolio.IsNegative() {
			break
		}
	}

	if result.RetirementAge != nil {
		result.YearsToRetirement = domain.IntPtr(*result.RetirementAge - inputs.CurrentAge)
	}
	return result
}

// FITarget returns (annualSpend / rate) * buffer. A zero rate has no finite
// target and reports ok=false.
func FITarget(annualSpend, rate, buffer decimal.Decimal) (decimal.Decimal, bool) {
	if rate.IsZero() {
		return decimal.Zero, false
	}
	return annualSpend.Div(rate).Mul(buffer), true
}

// GrowthModel applies one year of growth under a compounding convention.
type GrowthModel struct {
	factor decimal.Decimal
}

// NewGrowthModel precomputes the yearly growth multiplier. Anything other
// than yearly compounding is treated as monthly.
func NewGrowthModel(annualReturn decimal.Decimal, interval domain.CompoundingInterval) GrowthModel {
	return GrowthModel{factor: GrowthFactor(annualReturn, interval)}
}

// Apply returns the growth earned on balance over one year.
func (g GrowthModel) Apply(balance decimal.Decimal) decimal.Decimal {
	return balance.Mul(g.factor).Round(ledgerPlaces)
}

// Factor is the fraction of the starting balance earned in one year.
func (g GrowthModel) Factor() decimal.Decimal {
	return g.factor
}

// GrowthFactor returns r for yearly compounding and (1 + r/12)^12 - 1 for
// monthly compounding.
func GrowthFactor(annualReturn decimal.Decimal, interval domain.CompoundingInterval) decimal.Decimal {
	if interval == domain.CompoundingYearly {
		return annualReturn
	}
	periodic := decimalOne.Add(annualReturn.Div(monthsInYear))
	return periodic.Pow(monthsInYear).Sub(decimalOne).Round(growthFactorPlaces)
}
