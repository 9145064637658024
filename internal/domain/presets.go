package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPresetName is the preset used when no inputs are supplied.
const DefaultPresetName = "balanced"

// Preset is a named set of starting assumptions.
type Preset struct {
	Name        string           `yaml:"name" json:"name"`
	Label       string           `yaml:"label" json:"label"`
	Description string           `yaml:"description" json:"description"`
	Inputs      RetirementInputs `yaml:"inputs" json:"inputs"`
}

var presetCatalog = map[string]Preset{
	"conservative": {
		Name:        "conservative",
		Label:       "Conservative",
		Description: "Lower returns, lower withdrawal rate, 20% buffer",
		Inputs: RetirementInputs{
			CurrentAge:                 25,
			LifeExpectancy:             IntPtr(90),
			InitialInvestment:          decimal.NewFromInt(25000),
			MonthlyRetirementSpend:     decimal.NewFromInt(3500),
			ExpectedYearlyReturn:       decimal.NewFromInt(7),
			InflationRate:              decimal.NewFromInt(3),
			InflationMode:              InflationModeReal,
			CompoundingInterval:        CompoundingMonthly,
			SafeWithdrawalRate:         decimal.RequireFromString("3.5"),
			RetirementBufferMultiplier: decimal.RequireFromString("1.2"),
			ContributionPhases: []ContributionPhase{
				{StartAge: 25, MonthlyContribution: decimal.NewFromInt(1500)},
			},
		},
	},
	"balanced": {
		Name:        "balanced",
		Label:       "Balanced",
		Description: "Moderate returns and the classic 4% rule",
		Inputs: RetirementInputs{
			CurrentAge:                 30,
			LifeExpectancy:             IntPtr(90),
			InitialInvestment:          decimal.NewFromInt(50000),
			MonthlyRetirementSpend:     decimal.NewFromInt(4000),
			ExpectedYearlyReturn:       decimal.NewFromInt(10),
			InflationRate:              decimal.NewFromInt(3),
			InflationMode:              InflationModeReal,
			CompoundingInterval:        CompoundingMonthly,
			SafeWithdrawalRate:         decimal.NewFromInt(4),
			RetirementBufferMultiplier: decimal.NewFromInt(1),
			ContributionPhases: []ContributionPhase{
				{StartAge: 30, MonthlyContribution: decimal.NewFromInt(2000)},
			},
		},
	},
	"aggressive": {
		Name:        "aggressive",
		Label:       "Aggressive",
		Description: "Higher returns, higher withdrawal rate, rising contributions",
		Inputs: RetirementInputs{
			CurrentAge:                 35,
			LifeExpectancy:             IntPtr(90),
			InitialInvestment:          decimal.NewFromInt(100000),
			MonthlyRetirementSpend:     decimal.NewFromInt(5000),
			ExpectedYearlyReturn:       decimal.NewFromInt(12),
			InflationRate:              decimal.NewFromInt(3),
			InflationMode:              InflationModeReal,
			CompoundingInterval:        CompoundingMonthly,
			SafeWithdrawalRate:         decimal.RequireFromString("4.5"),
			RetirementBufferMultiplier: decimal.NewFromInt(1),
			ContributionPhases: []ContributionPhase{
				{StartAge: 35, EndAge: IntPtr(45), MonthlyContribution: decimal.NewFromInt(3000)},
				{StartAge: 45, MonthlyContribution: decimal.NewFromInt(4000)},
			},
		},
	},
}

// PresetNames returns the catalog names in a stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presetCatalog))
	for name := range presetCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPreset looks up a preset by name (case-insensitive). The returned
// inputs are a deep copy and may be modified freely.
func GetPreset(name string) (Preset, error) {
	p, ok := presetCatalog[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	p.Inputs = *p.Inputs.DeepCopy()
	return p, nil
}

// DefaultInputs returns the balanced preset's inputs.
func DefaultInputs() RetirementInputs {
	p, _ := GetPreset(DefaultPresetName)
	return p.Inputs
}

// ApplyPreset swaps the preset's market and withdrawal assumptions into
// current. Personal figures stay as they are: age, life expectancy, initial
// investment, spend, contribution phases and withdrawal overrides.
func ApplyPreset(current RetirementInputs, name string) (RetirementInputs, error) {
	p, err := GetPreset(name)
	if err != nil {
		return RetirementInputs{}, err
	}
	out := *current.DeepCopy()
	out.ExpectedYearlyReturn = p.Inputs.ExpectedYearlyReturn
	out.InflationRate = p.Inputs.InflationRate
	out.InflationMode = p.Inputs.InflationMode
	out.CompoundingInterval = p.Inputs.CompoundingInterval
	out.SafeWithdrawalRate = p.Inputs.SafeWithdrawalRate
	out.RetirementBufferMultiplier = p.Inputs.RetirementBufferMultiplier
	return out, nil
}

// MatchPreset returns the name of the preset whose assumptions equal those in
// inputs, or "" when the inputs have been customized.
func MatchPreset(inputs RetirementInputs) string {
	for _, name := range PresetNames() {
		p := presetCatalog[name].Inputs
		if p.ExpectedYearlyReturn.Equal(inputs.ExpectedYearlyReturn) &&
			p.InflationRate.Equal(inputs.InflationRate) &&
			p.InflationMode == inputs.InflationMode &&
			p.CompoundingInterval == inputs.CompoundingInterval &&
			p.SafeWithdrawalRate.Equal(inputs.SafeWithdrawalRate) &&
			p.RetirementBufferMultiplier.Equal(inputs.RetirementBufferMultiplier) {
			return name
		}
	}
	return ""
}

// ShiftCurrentAge moves the start age and drags contribution phases along.
// Moving older shifts every phase by the difference. Moving younger only
// touches phases that start before the new age; they are pushed up to start
// at the new age and keep their length.
func ShiftCurrentAge(inputs RetirementInputs, newAge int) RetirementInputs {
	out := *inputs.DeepCopy()
	diff := newAge - inputs.CurrentAge
	out.CurrentAge = newAge
	if diff == 0 {
		return out
	}

	for i := range out.ContributionPhases {
		p := &out.ContributionPhases[i]
		if diff > 0 {
			p.StartAge += diff
			if p.EndAge != nil {
				*p.EndAge += diff
			}
			continue
		}
		if p.StartAge < newAge {
			shift := newAge - p.StartAge
			p.StartAge = newAge
			if p.EndAge != nil {
				*p.EndAge += shift
			}
		}
	}
	return out
}
