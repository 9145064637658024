package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	calculationEngine *CalculationEngine
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer. A nil engine
// gets a default one.
func NewSensitivityAnalyzer(engine *CalculationEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewCalculationEngine()
	}
	return &SensitivityAnalyzer{calculationEngine: engine}
}

// AnalyzeSingleParameter sweeps one parameter across its range and simulates
// the scenario at every point.
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	scenario *domain.Scenario,
	parameter domain.SensitivityParameter,
) (*domain.SensitivityAnalysis, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario cannot be nil")
	}
	if err := validateSensitivityParameter(parameter); err != nil {
		return nil, err
	}

	baseValue, err := ParameterValue(scenario.Inputs, parameter.Name)
	if err != nil {
		return nil, err
	}

	values := GenerateParameterValues(parameter)
	points := make([]domain.SensitivityPoint, 0, len(values))

	for _, value := range values {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		modified, err := ApplyParameter(scenario.Inputs, parameter.Name, value)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s=%s: %w", parameter.Name, value, err)
		}

		result := sa.calculationEngine.Simulate(modified)
		final := decimal.Zero
		if last, ok := result.FinalRow(); ok {
			final = last.PortfolioEnd
		}

		points = append(points, domain.SensitivityPoint{
			Value:             value,
			RetirementAge:     result.RetirementAge,
			YearsToRetirement: result.YearsToRetirement,
			FITarget:          result.FITarget,
			FinalPortfolio:    final,
			DepletionAge:      result.DepletionAge(),
			IsBase:            value.Equal(baseValue),
		})
	}

	return &domain.SensitivityAnalysis{
		ScenarioName: scenario.Name,
		Parameter:    parameter,
		BaseValue:    baseValue,
		Points:       points,
		Summary:      summarizeSensitivity(points),
	}, nil
}

// AnalyzeMultipleParameters runs AnalyzeSingleParameter for each parameter.
func (sa *SensitivityAnalyzer) AnalyzeMultipleParameters(
	ctx context.Context,
	scenario *domain.Scenario,
	parameters []domain.SensitivityParameter,
) ([]*domain.SensitivityAnalysis, error) {
	analyses := make([]*domain.SensitivityAnalysis, 0, len(parameters))
	for _, param := range parameters {
		analysis, err := sa.AnalyzeSingleParameter(ctx, scenario, param)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze parameter %s: %w", param.Name, err)
		}
		analyses = append(analyses, analysis)
	}
	return analyses, nil
}

func validateSensitivityParameter(p domain.SensitivityParameter) error {
	if p.Name == "" {
		return fmt.Errorf("sensitivity parameter name cannot be empty")
	}
	if p.Steps < 1 {
		return fmt.Errorf("sensitivity parameter %s: steps must be at least 1, got %d", p.Name, p.Steps)
	}
	if p.MaxValue.LessThan(p.MinValue) {
		return fmt.Errorf("sensitivity parameter %s: max %s is below min %s", p.Name, p.MaxValue, p.MinValue)
	}
	return nil
}

// GenerateParameterValues returns Steps evenly spaced values from MinValue to
// MaxValue inclusive.
func GenerateParameterValues(p domain.SensitivityParameter) []decimal.Decimal {
	if p.Steps <= 1 {
		return []decimal.Decimal{p.MinValue}
	}
	step := p.MaxValue.Sub(p.MinValue).Div(decimal.NewFromInt(int64(p.Steps - 1)))
	values := make([]decimal.Decimal, p.Steps)
	for i := range values {
		values[i] = p.MinValue.Add(step.Mul(decimal.NewFromInt(int64(i))))
	}
	values[len(values)-1] = p.MaxValue
	return values
}

// ParameterValue reads the current value of a sweepable parameter.
func ParameterValue(inputs domain.RetirementInputs, name string) (decimal.Decimal, error) {
	switch name {
	case domain.ReturnParam.Name:
		return inputs.ExpectedYearlyReturn, nil
	case domain.InflationParam.Name:
		return inputs.InflationRate, nil
	case domain.WithdrawalRateParam.Name:
		return inputs.SafeWithdrawalRate, nil
	case domain.SpendParam.Name:
		return inputs.MonthlyRetirementSpend, nil
	case domain.BufferParam.Name:
		return inputs.RetirementBufferMultiplier, nil
	case domain.ContributionScaleParam.Name:
		return decimal.NewFromInt(1), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown sensitivity parameter: %s", name)
	}
}

// ApplyParameter returns a copy of inputs with the named parameter set to value.
func ApplyParameter(inputs domain.RetirementInputs, name string, value decimal.Decimal) (domain.RetirementInputs, error) {
	out := *inputs.DeepCopy()
	switch name {
	case domain.ReturnParam.Name:
		out.ExpectedYearlyReturn = value
	case domain.InflationParam.Name:
		out.InflationRate = value
	case domain.WithdrawalRateParam.Name:
		out.SafeWithdrawalRate = value
	case domain.SpendParam.Name:
		out.MonthlyRetirementSpend = value
	case domain.BufferParam.Name:
		out.RetirementBufferMultiplier = value
	case domain.ContributionScaleParam.Name:
		for i := range out.ContributionPhases {
			out.ContributionPhases[i].MonthlyContribution = out.ContributionPhases[i].MonthlyContribution.Mul(value)
		}
	default:
		return domain.RetirementInputs{}, fmt.Errorf("unknown sensitivity parameter: %s", name)
	}
	return out, nil
}

func summarizeSensitivity(points []domain.SensitivityPoint) domain.SensitivitySummary {
	var s domain.SensitivitySummary
	var minFinal, maxFinal decimal.Decimal

	for i, p := range points {
		if p.RetirementAge == nil {
			s.NeverRetiresCount++
		} else {
			age := *p.RetirementAge
			if s.EarliestRetirementAge == nil || age < *s.EarliestRetirementAge {
				s.EarliestRetirementAge = domain.IntPtr(age)
			}
			if s.LatestRetirementAge == nil || age > *s.LatestRetirementAge {
				s.LatestRetirementAge = domain.IntPtr(age)
			}
		}
		if p.DepletionAge != nil {
			s.DepletionCount++
		}
		if i == 0 || p.FinalPortfolio.LessThan(minFinal) {
			minFinal = p.FinalPortfolio
		}
		if i == 0 || p.FinalPortfolio.GreaterThan(maxFinal) {
			maxFinal = p.FinalPortfolio
		}
	}

	if s.EarliestRetirementAge != nil {
		s.RetirementAgeSpread = *s.LatestRetirementAge - *s.EarliestRetirementAge
	}
	s.FinalPortfolioSpread = maxFinal.Sub(minFinal)

	switch {
	case s.NeverRetiresCount > 0 || s.DepletionCount > 0 || s.RetirementAgeSpread >= 10:
		s.RiskLevel = "HIGH"
	case s.RetirementAgeSpread >= 5:
		s.RiskLevel = "MEDIUM"
	default:
		s.RiskLevel = "LOW"
	}
	return s
}
