package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	Unit        string          `yaml:"unit" json:"unit"` // "percent", "dollars", "multiplier"
	Description string          `yaml:"description" json:"description"`
}

// SensitivityAnalysis is the outcome of sweeping a single parameter.
type SensitivityAnalysis struct {
	ScenarioName string               `json:"scenarioName"`
	Parameter    SensitivityParameter `json:"parameter"`
	BaseValue    decimal.Decimal      `json:"baseValue"`
	Points       []SensitivityPoint   `json:"points"`
	Summary      SensitivitySummary   `json:"summary"`
}

// SensitivityPoint is one evaluated value in a sweep.
type SensitivityPoint struct {
	Value             decimal.Decimal `json:"value"`
	RetirementAge     *int            `json:"retirementAge"`
	YearsToRetirement *int            `json:"yearsToRetirement"`
	FITarget          decimal.Decimal `json:"fiTarget"`
	FinalPortfolio    decimal.Decimal `json:"finalPortfolio"`
	DepletionAge      *int            `json:"depletionAge,omitempty"`
	IsBase            bool            `json:"isBase"`
}

// SensitivitySummary provides overall analysis summary
type SensitivitySummary struct {
	EarliestRetirementAge *int            `json:"earliestRetirementAge,omitempty"`
	LatestRetirementAge   *int            `json:"latestRetirementAge,omitempty"`
	NeverRetiresCount     int             `json:"neverRetiresCount"`
	DepletionCount        int             `json:"depletionCount"`
	RetirementAgeSpread   int             `json:"retirementAgeSpread"`
	FinalPortfolioSpread  decimal.Decimal `json:"finalPortfolioSpread"`
	RiskLevel             string          `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH"
}

// Common sensitivity parameters
var (
	ReturnParam = SensitivityParameter{
		Name:        "return",
		MinValue:    decimal.NewFromInt(4),
		MaxValue:    decimal.NewFromInt(12),
		Steps:       9,
		Unit:        "percent",
		Description: "Expected nominal yearly return",
	}

	InflationParam = SensitivityParameter{
		Name:        "inflation",
		MinValue:    decimal.NewFromInt(1),
		MaxValue:    decimal.NewFromInt(5),
		Steps:       5,
		Unit:        "percent",
		Description: "Yearly inflation rate",
	}

	WithdrawalRateParam = SensitivityParameter{
		Name:        "swr",
		MinValue:    decimal.NewFromInt(3),
		MaxValue:    decimal.NewFromInt(5),
		Steps:       5,
		Unit:        "percent",
		Description: "Safe withdrawal rate once retired",
	}

	SpendParam = SensitivityParameter{
		Name:        "spend",
		MinValue:    decimal.NewFromInt(2000),
		MaxValue:    decimal.NewFromInt(8000),
		Steps:       7,
		Unit:        "dollars",
		Description: "Monthly spend in retirement",
	}

	BufferParam = SensitivityParameter{
		Name:        "buffer",
		MinValue:    decimal.NewFromInt(1),
		MaxValue:    decimal.RequireFromString("1.5"),
		Steps:       6,
		Unit:        "multiplier",
		Description: "Safety multiplier on the FI target",
	}

	ContributionScaleParam = SensitivityParameter{
		Name:        "contribution_scale",
		MinValue:    decimal.RequireFromString("0.5"),
		MaxValue:    decimal.RequireFromString("1.5"),
		Steps:       5,
		Unit:        "multiplier",
		Description: "Multiplier applied to every contribution phase",
	}
)

// DefaultSensitivityParameters returns the built-in sweeps keyed by name.
func DefaultSensitivityParameters() map[string]SensitivityParameter {
	return map[string]SensitivityParameter{
		ReturnParam.Name:            ReturnParam,
		InflationParam.Name:         InflationParam,
		WithdrawalRateParam.Name:    WithdrawalRateParam,
		SpendParam.Name:             SpendParam,
		BufferParam.Name:            BufferParam,
		ContributionScaleParam.Name: ContributionScaleParam,
	}
}
