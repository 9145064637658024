package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultLifeExpectancy is the simulation horizon used when none is supplied.
const DefaultLifeExpectancy = 100

// InflationMode selects whether inflation is netted out of the return.
type InflationMode string

const (
	InflationModeReal    InflationMode = "real"
	InflationModeNominal InflationMode = "nominal"
)

// Valid reports whether the mode is one of the known values.
func (m InflationMode) Valid() bool {
	return m == InflationModeReal || m == InflationModeNominal
}

// ParseInflationMode converts a string into an InflationMode.
func ParseInflationMode(s string) (InflationMode, error) {
	m := InflationMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("invalid inflation mode %q (expected real or nominal)", s)
	}
	return m, nil
}

// CompoundingInterval is the growth compounding convention.
type CompoundingInterval string

const (
	CompoundingMonthly CompoundingInterval = "monthly"
	CompoundingYearly  CompoundingInterval = "yearly"
)

// Valid reports whether the interval is one of the known values.
func (c CompoundingInterval) Valid() bool {
	return c == CompoundingMonthly || c == CompoundingYearly
}

// ParseCompoundingInterval converts a string into a CompoundingInterval.
func ParseCompoundingInterval(s string) (CompoundingInterval, error) {
	c := CompoundingInterval(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid compounding interval %q (expected monthly or yearly)", s)
	}
	return c, nil
}

// ContributionPhase is a period of recurring monthly cash flow into the portfolio.
// The interval is half-open [StartAge, EndAge); a nil EndAge never ends.
// Negative contributions model scheduled withdrawals before retirement.
type ContributionPhase struct {
	StartAge            int             `yaml:"start_age" json:"startAge"`
	EndAge              *int            `yaml:"end_age,omitempty" json:"endAge,omitempty"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution" json:"monthlyContribution"`
}

// Contains reports whether age falls inside the phase.
func (p ContributionPhase) Contains(age int) bool {
	return containsAge(p.StartAge, p.EndAge, age)
}

// OpenEnded reports whether the phase has no end age.
func (p ContributionPhase) OpenEnded() bool {
	return p.EndAge == nil
}

// WithdrawalOverride replaces the base withdrawal rate for an age range once retired.
type WithdrawalOverride struct {
	StartAge       int             `yaml:"start_age" json:"startAge"`
	EndAge         *int            `yaml:"end_age,omitempty" json:"endAge,omitempty"`
	WithdrawalRate decimal.Decimal `yaml:"withdrawal_rate" json:"withdrawalRate"` // percent
}

// Contains reports whether age falls inside the override.
func (o WithdrawalOverride) Contains(age int) bool {
	return containsAge(o.StartAge, o.EndAge, age)
}

func containsAge(start int, end *int, age int) bool {
	if age < start {
		return false
	}
	return end == nil || age < *end
}

// RetirementInputs is the complete assumption set for one simulation run.
// Rates are expressed in percentage units (7 means 7%).
type RetirementInputs struct {
	CurrentAge                 int                  `yaml:"current_age" json:"currentAge"`
	LifeExpectancy             *int                 `yaml:"life_expectancy,omitempty" json:"lifeExpectancy,omitempty"`
	InitialInvestment          decimal.Decimal      `yaml:"initial_investment" json:"initialInvestment"`
	MonthlyRetirementSpend     decimal.Decimal      `yaml:"monthly_retirement_spend" json:"monthlyRetirementSpend"`
	ExpectedYearlyReturn       decimal.Decimal      `yaml:"expected_yearly_return" json:"expectedYearlyReturn"`
	InflationRate              decimal.Decimal      `yaml:"inflation_rate" json:"inflationRate"`
	InflationMode              InflationMode        `yaml:"inflation_mode" json:"inflationMode"`
	CompoundingInterval        CompoundingInterval  `yaml:"compounding_interval" json:"compoundingInterval"`
	SafeWithdrawalRate         decimal.Decimal      `yaml:"safe_withdrawal_rate" json:"safeWithdrawalRate"`
	RetirementBufferMultiplier decimal.Decimal      `yaml:"retirement_buffer_multiplier" json:"retirementBufferMultiplier"`
	ContributionPhases         []ContributionPhase  `yaml:"contribution_phases" json:"contributionPhases"`
	WithdrawalOverrides        []WithdrawalOverride `yaml:"withdrawal_overrides,omitempty" json:"withdrawalOverrides,omitempty"`
}

// Horizon returns the last simulated age.
func (in *RetirementInputs) Horizon() int {
	if in.LifeExpectancy == nil {
		return DefaultLifeExpectancy
	}
	return *in.LifeExpectancy
}

// MaxRows is the number of rows a run produces when the portfolio never depletes.
func (in *RetirementInputs) MaxRows() int {
	n := in.Horizon() - in.CurrentAge + 1
	if n < 0 {
		return 0
	}
	return n
}

// DeepCopy returns a copy that shares no slices or pointers with the receiver.
func (in *RetirementInputs) DeepCopy() *RetirementInputs {
	if in == nil {
		return nil
	}
	out := *in
	if in.LifeExpectancy != nil {
		out.LifeExpectancy = IntPtr(*in.LifeExpectancy)
	}
	if in.ContributionPhases != nil {
		out.ContributionPhases = make([]ContributionPhase, len(in.ContributionPhases))
		for i, p := range in.ContributionPhases {
			out.ContributionPhases[i] = p
			if p.EndAge != nil {
				out.ContributionPhases[i].EndAge = IntPtr(*p.EndAge)
			}
		}
	}
	if in.WithdrawalOverrides != nil {
		out.WithdrawalOverrides = make([]WithdrawalOverride, len(in.WithdrawalOverrides))
		for i, o := range in.WithdrawalOverrides {
			out.WithdrawalOverrides[i] = o
			if o.EndAge != nil {
				out.WithdrawalOverrides[i].EndAge = IntPtr(*o.EndAge)
			}
		}
	}
	return &out
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
