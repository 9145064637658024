package calculation

import (
	"sort"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// Schedule holds the contribution phases and withdrawal overrides of one run,
// each stable-sorted by start age.
type Schedule struct {
	Phases    []domain.ContributionPhase
	Overrides []domain.WithdrawalOverride
}

// NewSchedule copies and sorts the interval lists. Ties keep their input order.
func NewSchedule(phases []domain.ContributionPhase, overrides []domain.WithdrawalOverride) Schedule {
	s := Schedule{
		Phases:    append([]domain.ContributionPhase(nil), phases...),
		Overrides: append([]domain.WithdrawalOverride(nil), overrides...),
	}
	sort.SliceStable(s.Phases, func(i, j int) bool {
		return s.Phases[i].StartAge < s.Phases[j].StartAge
	})
	sort.SliceStable(s.Overrides, func(i, j int) bool {
		return s.Overrides[i].StartAge < s.Overrides[j].StartAge
	})
	return s
}

// ResolveContribution returns the yearly contribution at age: every phase
// containing age adds its monthly amount, and the sum is annualized.
func ResolveContribution(age int, phases []domain.ContributionPhase) decimal.Decimal {
	monthly := decimal.Zero
	for _, p := range phases {
		if p.Contains(age) {
			monthly = monthly.Add(p.MonthlyContribution)
		}
	}
	return monthly.Mul(monthsInYear)
}

// ResolveWithdrawalRate returns the withdrawal fraction in force at age. The
// first override containing age wins, so overrides must already be sorted;
// with no match the base fraction applies.
func ResolveWithdrawalRate(age int, overrides []domain.WithdrawalOverride, base decimal.Decimal) decimal.Decimal {
	for _, o := range overrides {
		if o.Contains(age) {
			return o.WithdrawalRate.Div(hundred)
		}
	}
	return base
}

// Contribution is ResolveContribution over the sorted phases.
func (s Schedule) Contribution(age int) decimal.Decimal {
	return ResolveContribution(age, s.Phases)
}

// WithdrawalRate is ResolveWithdrawalRate over the sorted overrides.
func (s Schedule) WithdrawalRate(age int, base decimal.Decimal) decimal.Decimal {
	return ResolveWithdrawalRate(age, s.Overrides, base)
}
