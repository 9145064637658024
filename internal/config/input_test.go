package config

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytes_PresetSeeding(t *testing.T) {
	doc := `
scenarios:
  - name: cautious
    preset: conservative
    current_age: 40
    monthly_retirement_spend: 5000
  - name: plain
    initial_investment: 0
`
	cfg, err := NewInputParser().LoadFromBytes([]byte(doc))
	require.NoError(t, err)
	require.Len(t, cfg.Scenarios, 2)

	cautious := cfg.Scenarios[0].Inputs
	assert.Equal(t, 40, cautious.CurrentAge)
	assert.True(t, cautious.MonthlyRetirementSpend.Equal(decimal.NewFromInt(5000)))
	assert.True(t, cautious.SafeWithdrawalRate.Equal(decimal.RequireFromString("3.5")), "from the preset")
	assert.True(t, cautious.RetirementBufferMultiplier.Equal(decimal.RequireFromString("1.2")))
	assert.Equal(t, 90, cautious.Horizon())

	plain := cfg.Scenarios[1].Inputs
	assert.True(t, plain.InitialInvestment.IsZero())
	assert.True(t, plain.SafeWithdrawalRate.Equal(decimal.NewFromInt(4)), "default preset fills the rest")
}

func TestLoadFromBytes_ExplicitFieldsReplacePresetLists(t *testing.T) {
	doc := `
scenarios:
  - name: custom
    preset: aggressive
    current_age: 35
    contribution_phases:
      - start_age: 35
        monthly_contribution: 1000
    withdrawal_overrides:
      - start_age: 50
        end_age: 60
        withdrawal_rate: 3
`
	cfg, err := NewInputParser().LoadFromBytes([]byte(doc))
	require.NoError(t, err)

	in := cfg.Scenarios[0].Inputs
	require.Len(t, in.ContributionPhases, 1)
	assert.Nil(t, in.ContributionPhases[0].EndAge)
	assert.True(t, in.ContributionPhases[0].MonthlyContribution.Equal(decimal.NewFromInt(1000)))
	require.Len(t, in.WithdrawalOverrides, 1)
	require.NotNil(t, in.WithdrawalOverrides[0].EndAge)
	assert.Equal(t, 60, *in.WithdrawalOverrides[0].EndAge)
}

func TestLoadFromBytes_LifeExpectancyDefault(t *testing.T) {
	doc := `
scenarios:
  - name: no-life
    preset: balanced
`
	// Presets carry a life expectancy, so clear it through an explicit null.
	doc += "    life_expectancy: null\n"

	cfg, err := NewInputParser().LoadFromBytes([]byte(doc))
	require.NoError(t, err)
	require.NotNil(t, cfg.Scenarios[0].Inputs.LifeExpectancy)
	assert.Equal(t, domain.DefaultLifeExpectancy, *cfg.Scenarios[0].Inputs.LifeExpectancy)
}

func TestLoadFromBytes_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"malformed", "scenarios: [", "failed to parse YAML"},
		{"empty", "scenarios: []", "no scenarios provided"},
		{"unknown preset", "scenarios:\n  - name: x\n    preset: yolo\n", "unknown preset"},
		{"missing name", "scenarios:\n  - current_age: 30\n", "name is required"},
		{"duplicate", "scenarios:\n  - name: a\n  - name: a\n", "duplicate name"},
		{"bad mode", "scenarios:\n  - name: a\n    inflation_mode: sideways\n", "inflation_mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().LoadFromBytes([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateInputs_ReportsEveryProblem(t *testing.T) {
	in := domain.DefaultInputs()
	in.CurrentAge = 50
	in.LifeExpectancy = domain.IntPtr(40)
	in.InitialInvestment = decimal.NewFromInt(-1)
	in.RetirementBufferMultiplier = decimal.Zero
	in.CompoundingInterval = "daily"
	in.ContributionPhases = []domain.ContributionPhase{
		{StartAge: 50, EndAge: domain.IntPtr(50), MonthlyContribution: decimal.NewFromInt(100)},
	}
	in.WithdrawalOverrides = []domain.WithdrawalOverride{
		{StartAge: 60, WithdrawalRate: decimal.NewFromInt(150)},
	}

	err := NewInputParser().ValidateInputs(&in)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"life_expectancy 40 cannot be below current_age 50",
		"initial_investment cannot be negative",
		"retirement_buffer_multiplier must be positive",
		"compounding_interval",
		"contribution_phases[0]: end_age 50 must be after start_age 50",
		"withdrawal_overrides[0]: withdrawal_rate",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateInputs_AcceptsEdgeValues(t *testing.T) {
	in := domain.DefaultInputs()
	in.SafeWithdrawalRate = decimal.Zero
	in.MonthlyRetirementSpend = decimal.Zero
	in.ExpectedYearlyReturn = decimal.NewFromInt(-5)
	in.ContributionPhases = []domain.ContributionPhase{
		{StartAge: 30, MonthlyContribution: decimal.NewFromInt(-500)},
	}
	assert.NoError(t, NewInputParser().ValidateInputs(&in))
}

func TestExampleConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, WriteExampleConfig(path))

	cfg, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Base Plan", "Cautious Drawdown"}, cfg.ScenarioNames())
	assert.Equal(t, "conservative", cfg.Scenarios[1].Preset)
	assert.Equal(t, 90, cfg.Scenarios[1].Inputs.Horizon(), "life expectancy comes from the preset")
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
