package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// YearRow is one simulated year of the ledger.
type YearRow struct {
	Age                int             `yaml:"age" json:"age"`
	Contribution       decimal.Decimal `yaml:"contribution" json:"contribution"`
	TotalContributions decimal.Decimal `yaml:"total_contributions" json:"totalContributions"`
	Growth             decimal.Decimal `yaml:"growth" json:"growth"`
	Withdrawal         decimal.Decimal `yaml:"withdrawal" json:"withdrawal"`
	PortfolioEnd       decimal.Decimal `yaml:"portfolio_end" json:"portfolioEnd"`
	Retired            bool            `yaml:"retired" json:"retired"`
}

// IsDepleted reports whether the portfolio went negative this year.
func (r YearRow) IsDepleted() bool {
	return r.PortfolioEnd.IsNegative()
}

// SimulationResult is the output of one simulation run.
type SimulationResult struct {
	RetirementAge     *int            `yaml:"retirement_age" json:"retirementAge"`
	FITarget          decimal.Decimal `yaml:"fi_target" json:"fiTarget"`
	FITargetUnbounded bool            `yaml:"fi_target_unbounded,omitempty" json:"fiTargetUnbounded,omitempty"` // withdrawal rate of zero
	YearsToRetirement *int            `yaml:"years_to_retirement" json:"yearsToRetirement"`
	Rows              []YearRow       `yaml:"rows" json:"rows"`
}

// Retired reports whether the FI threshold was crossed at any age.
func (r *SimulationResult) Retired() bool {
	return r.RetirementAge != nil
}

// RetirementAgeLabel renders the retirement age, or "Never".
func (r *SimulationResult) RetirementAgeLabel() string {
	if r.RetirementAge == nil {
		return "Never"
	}
	return strconv.Itoa(*r.RetirementAge)
}

// YearsToRetirementLabel renders the years until retirement, or "∞".
func (r *SimulationResult) YearsToRetirementLabel() string {
	if r.YearsToRetirement == nil {
		return "∞"
	}
	return strconv.Itoa(*r.YearsToRetirement)
}

// FinalRow returns the last emitted row.
func (r *SimulationResult) FinalRow() (YearRow, bool) {
	if len(r.Rows) == 0 {
		return YearRow{}, false
	}
	return r.Rows[len(r.Rows)-1], true
}

// DepletionAge returns the age at which the portfolio went negative, if it did.
func (r *SimulationResult) DepletionAge() *int {
	last, ok := r.FinalRow()
	if !ok || !last.IsDepleted() {
		return nil
	}
	return IntPtr(last.Age)
}

// SimulationMetrics are figures derived from a result for reports and comparisons.
type SimulationMetrics struct {
	FinalPortfolio   decimal.Decimal `yaml:"final_portfolio" json:"finalPortfolio"`
	PeakPortfolio    decimal.Decimal `yaml:"peak_portfolio" json:"peakPortfolio"`
	PeakAge          int             `yaml:"peak_age" json:"peakAge"`
	TotalGrowth      decimal.Decimal `yaml:"total_growth" json:"totalGrowth"`
	TotalWithdrawals decimal.Decimal `yaml:"total_withdrawals" json:"totalWithdrawals"`
	TotalContributed decimal.Decimal `yaml:"total_contributed" json:"totalContributed"`
	YearsRetired     int             `yaml:"years_retired" json:"yearsRetired"`
	DepletionAge     *int            `yaml:"depletion_age,omitempty" json:"depletionAge,omitempty"`
	FirstWithdrawal  decimal.Decimal `yaml:"first_withdrawal" json:"firstWithdrawal"`
	PortfolioAtFIAge decimal.Decimal `yaml:"portfolio_at_fi_age" json:"portfolioAtFIAge"`
}

// SimulationReport bundles a named run with its inputs and derived metrics.
type SimulationReport struct {
	Name    string            `yaml:"name" json:"name"`
	Inputs  RetirementInputs  `yaml:"inputs" json:"inputs"`
	Result  *SimulationResult `yaml:"result" json:"result"`
	Metrics SimulationMetrics `yaml:"metrics" json:"metrics"`
}

// NewSimulationReport derives metrics from a result.
func NewSimulationReport(name string, inputs RetirementInputs, result *SimulationResult) *SimulationReport {
	return &SimulationReport{
		Name:    name,
		Inputs:  inputs,
		Result:  result,
		Metrics: CalculateMetrics(result),
	}
}

// CalculateMetrics walks the ledger once and summarizes it.
func CalculateMetrics(result *SimulationResult) SimulationMetrics {
	var m SimulationMetrics
	if result == nil || len(result.Rows) == 0 {
		return m
	}

	firstWithdrawalSeen := false
	for i, row := range result.Rows {
		if i == 0 || row.PortfolioEnd.GreaterThan(m.PeakPortfolio) {
			m.PeakPortfolio = row.PortfolioEnd
			m.PeakAge = row.Age
		}
		m.TotalGrowth = m.TotalGrowth.Add(row.Growth)
		m.TotalWithdrawals = m.TotalWithdrawals.Add(row.Withdrawal)
		if row.Retired {
			m.YearsRetired++
			if !firstWithdrawalSeen {
				m.FirstWithdrawal = row.Withdrawal
				m.PortfolioAtFIAge = row.PortfolioEnd
				firstWithdrawalSeen = true
			}
		}
	}

	last := result.Rows[len(result.Rows)-1]
	m.FinalPortfolio = last.PortfolioEnd
	m.TotalContributed = last.TotalContributions
	m.DepletionAge = result.DepletionAge()
	return m
}
