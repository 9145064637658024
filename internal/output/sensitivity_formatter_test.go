package output

import (
	"encoding/json"
	"testing"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSensitivityAnalysis() *domain.SensitivityAnalysis {
	return &domain.SensitivityAnalysis{
		ScenarioName: "Base",
		Parameter:    domain.WithdrawalRateParam,
		BaseValue:    decimal.NewFromInt(4),
		Points: []domain.SensitivityPoint{
			{Value: decimal.NewFromInt(3), RetirementAge: domain.IntPtr(48), YearsToRetirement: domain.IntPtr(18),
				FITarget: decimal.NewFromInt(1600000), FinalPortfolio: decimal.NewFromInt(5000000)},
			{Value: decimal.NewFromInt(4), RetirementAge: domain.IntPtr(44), YearsToRetirement: domain.IntPtr(14),
				FITarget: decimal.NewFromInt(1200000), FinalPortfolio: decimal.NewFromInt(3000000), IsBase: true},
			{Value: decimal.NewFromInt(5), FITarget: decimal.NewFromInt(960000), FinalPortfolio: decimal.NewFromInt(-1000),
				DepletionAge: domain.IntPtr(80)},
		},
		Summary: domain.SensitivitySummary{
			EarliestRetirementAge: domain.IntPtr(44),
			LatestRetirementAge:   domain.IntPtr(48),
			NeverRetiresCount:     1,
			DepletionCount:        1,
			RetirementAgeSpread:   4,
			FinalPortfolioSpread:  decimal.NewFromInt(5001000),
			RiskLevel:             "HIGH",
		},
	}
}

func TestSensitivityConsoleFormatter(t *testing.T) {
	out, err := SensitivityConsoleFormatter{}.FormatSensitivityAnalysis([]*domain.SensitivityAnalysis{buildSensitivityAnalysis()})
	require.NoError(t, err)

	assert.Contains(t, out, "SENSITIVITY ANALYSIS: SWR")
	assert.Contains(t, out, "Base Case: 4.00%")
	assert.Contains(t, out, "Range: 3.00% to 5.00% (5 steps)")
	assert.Contains(t, out, "4.00% ←")
	assert.Contains(t, out, "Never")
	assert.Contains(t, out, "$1.2M")
	assert.Contains(t, out, "Retirement age range: 44 to 48 (spread 4 years)")
	assert.Contains(t, out, "Sensitivity: HIGH")

	_, err = SensitivityConsoleFormatter{}.FormatSensitivityAnalysis(nil)
	assert.Error(t, err)
	_, err = SensitivityConsoleFormatter{}.FormatSensitivityAnalysis([]*domain.SensitivityAnalysis{{}})
	assert.Error(t, err)
}

func TestSensitivityJSONFormatter(t *testing.T) {
	out, err := SensitivityJSONFormatter{}.FormatSensitivityAnalysis([]*domain.SensitivityAnalysis{buildSensitivityAnalysis()})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Base", decoded[0]["scenarioName"])
}

func TestGetSensitivityFormatter(t *testing.T) {
	assert.Equal(t, "console", GetSensitivityFormatter("text").Name())
	assert.Equal(t, "json", GetSensitivityFormatter("json").Name())
	assert.Nil(t, GetSensitivityFormatter("html"))
}

func TestFormatParamValue(t *testing.T) {
	assert.Equal(t, "$2,500", formatParamValue("dollars", decimal.NewFromInt(2500)))
	assert.Equal(t, "1.20x", formatParamValue("multiplier", decimal.RequireFromString("1.2")))
	assert.Equal(t, "7", formatParamValue("", decimal.NewFromInt(7)))
}
