package compare

import (
	"fmt"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/pkg/money"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                   `json:"scenarioName"`
	Description  string                   `json:"description"`
	Report       *domain.SimulationReport `json:"-"`

	// Key Metrics
	RetirementAge     *int            `json:"retirementAge"`
	YearsToFI         *int            `json:"yearsToFI"`
	FITarget          decimal.Decimal `json:"fiTarget"`
	FITargetUnbounded bool            `json:"fiTargetUnbounded,omitempty"`
	FinalPortfolio    decimal.Decimal `json:"finalPortfolio"`
	PeakPortfolio     decimal.Decimal `json:"peakPortfolio"`
	TotalWithdrawals  decimal.Decimal `json:"totalWithdrawals"`
	TotalContributed  decimal.Decimal `json:"totalContributed"`
	DepletionAge      *int            `json:"depletionAge,omitempty"`

	// Comparison to Base. RetirementAgeDiff is nil when either side never retires.
	RetirementAgeDiff  *int            `json:"retirementAgeDiff,omitempty"`
	FITargetDiff       decimal.Decimal `json:"fiTargetDiff"`
	FinalPortfolioDiff decimal.Decimal `json:"finalPortfolioDiff"`
	FinalPortfolioPct  decimal.Decimal `json:"finalPortfolioPctFromBase"`
	WithdrawalsDiff    decimal.Decimal `json:"withdrawalsDiffFromBase"`
	ContributionsDiff  decimal.Decimal `json:"contributionsDiffFromBase"`
}

// RetirementAgeLabel renders the retirement age, or "Never".
func (r *ComparisonResult) RetirementAgeLabel() string {
	if r.RetirementAge == nil {
		return "Never"
	}
	return fmt.Sprintf("%d", *r.RetirementAge)
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
}

// Reports returns the underlying simulation reports, base first.
func (cs *ComparisonSet) Reports() []*domain.SimulationReport {
	reports := make([]*domain.SimulationReport, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil && cs.BaseResult.Report != nil {
		reports = append(reports, cs.BaseResult.Report)
	}
	for _, result := range cs.AlternativeResults {
		if result.Report != nil {
			reports = append(reports, result.Report)
		}
	}
	return reports
}

// MetricsCalculator extracts key metrics from simulation reports
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a report
func (mc *MetricsCalculator) CalculateMetrics(report *domain.SimulationReport) ComparisonResult {
	result := ComparisonResult{
		ScenarioName:     report.Name,
		Report:           report,
		FinalPortfolio:   report.Metrics.FinalPortfolio,
		PeakPortfolio:    report.Metrics.PeakPortfolio,
		TotalWithdrawals: report.Metrics.TotalWithdrawals,
		TotalContributed: report.Metrics.TotalContributed,
		DepletionAge:     report.Metrics.DepletionAge,
	}
	if r := report.Result; r != nil {
		result.RetirementAge = r.RetirementAge
		result.YearsToFI = r.YearsToRetirement
		result.FITarget = r.FITarget
		result.FITargetUnbounded = r.FITargetUnbounded
	}
	return result
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	if scenario.RetirementAge != nil && base.RetirementAge != nil {
		scenario.RetirementAgeDiff = domain.IntPtr(*scenario.RetirementAge - *base.RetirementAge)
	}
	scenario.FITargetDiff = scenario.FITarget.Sub(base.FITarget)
	scenario.FinalPortfolioDiff = scenario.FinalPortfolio.Sub(base.FinalPortfolio)
	if !base.FinalPortfolio.IsZero() {
		scenario.FinalPortfolioPct = scenario.FinalPortfolioDiff.
			Div(base.FinalPortfolio.Abs()).
			Mul(decimal.NewFromInt(100))
	}
	scenario.WithdrawalsDiff = scenario.TotalWithdrawals.Sub(base.TotalWithdrawals)
	scenario.ContributionsDiff = scenario.TotalContributed.Sub(base.TotalContributed)
	return scenario
}

// retiresEarlier reports whether a reaches FI before b. Reaching FI at all
// beats never reaching it.
func retiresEarlier(a, b *ComparisonResult) bool {
	switch {
	case a.RetirementAge == nil:
		return false
	case b.RetirementAge == nil:
		return true
	default:
		return *a.RetirementAge < *b.RetirementAge
	}
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	// Earliest financial independence
	earliest := base
	for i := range compSet.AlternativeResults {
		if retiresEarlier(&compSet.AlternativeResults[i], earliest) {
			earliest = &compSet.AlternativeResults[i]
		}
	}
	if earliest != base {
		if base.RetirementAge == nil {
			recommendations = append(recommendations,
				fmt.Sprintf("Earliest FI: %s reaches FI at age %d; the base scenario never does",
					earliest.ScenarioName, *earliest.RetirementAge))
		} else {
			recommendations = append(recommendations,
				fmt.Sprintf("Earliest FI: %s retires at age %d, %d years sooner than base",
					earliest.ScenarioName, *earliest.RetirementAge, *base.RetirementAge-*earliest.RetirementAge))
		}
	}

	// Largest ending balance
	largest := base
	for i := range compSet.AlternativeResults {
		if compSet.AlternativeResults[i].FinalPortfolio.GreaterThan(largest.FinalPortfolio) {
			largest = &compSet.AlternativeResults[i]
		}
	}
	if largest != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Largest Legacy: %s ends with %s more than base",
				largest.ScenarioName, money.FormatCurrency(largest.FinalPortfolio.Sub(base.FinalPortfolio))))
	}

	// Most spending power in retirement
	mostWithdrawn := base
	for i := range compSet.AlternativeResults {
		if compSet.AlternativeResults[i].TotalWithdrawals.GreaterThan(mostWithdrawn.TotalWithdrawals) {
			mostWithdrawn = &compSet.AlternativeResults[i]
		}
	}
	if mostWithdrawn != base {
		recommendations = append(recommendations,
			fmt.Sprintf("Most Withdrawn: %s draws %s more over retirement than base",
				mostWithdrawn.ScenarioName, money.FormatCurrency(mostWithdrawn.TotalWithdrawals.Sub(base.TotalWithdrawals))))
	}

	// Depletion warnings
	all := append([]ComparisonResult{*base}, compSet.AlternativeResults...)
	for _, r := range all {
		if r.DepletionAge != nil {
			recommendations = append(recommendations,
				fmt.Sprintf("Warning: %s runs out of money at age %d", r.ScenarioName, *r.DepletionAge))
		}
	}

	return recommendations
}
