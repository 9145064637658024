package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const maxAge = 120

// InputParser handles parsing of scenario configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// rawConfiguration defers scenario decoding until each scenario's preset is known.
type rawConfiguration struct {
	Scenarios []yaml.Node `yaml:"scenarios"`
}

type scenarioHeader struct {
	Name   string `yaml:"name"`
	Preset string `yaml:"preset"`
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.LoadFromBytes(data)
}

// LoadFromBytes parses and validates a scenario document. Every scenario starts
// from its named preset, or the default preset when none is named, and the
// document's fields are layered on top.
func (ip *InputParser) LoadFromBytes(data []byte) (*domain.Configuration, error) {
	var raw rawConfiguration
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config := &domain.Configuration{Scenarios: make([]domain.Scenario, 0, len(raw.Scenarios))}
	for i := range raw.Scenarios {
		scenario, err := decodeScenario(&raw.Scenarios[i])
		if err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}
		config.Scenarios = append(config.Scenarios, scenario)
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func decodeScenario(node *yaml.Node) (domain.Scenario, error) {
	var header scenarioHeader
	if err := node.Decode(&header); err != nil {
		return domain.Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}

	presetName := header.Preset
	if presetName == "" {
		presetName = domain.DefaultPresetName
	}
	preset, err := domain.GetPreset(presetName)
	if err != nil {
		return domain.Scenario{}, err
	}

	scenario := domain.Scenario{Inputs: preset.Inputs}
	if err := node.Decode(&scenario); err != nil {
		return domain.Scenario{}, fmt.Errorf("failed to parse scenario %q: %w", header.Name, err)
	}
	if scenario.Inputs.LifeExpectancy == nil {
		scenario.Inputs.LifeExpectancy = domain.IntPtr(domain.DefaultLifeExpectancy)
	}
	return scenario, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	seen := make(map[string]bool, len(config.Scenarios))
	var errs []error
	for i := range config.Scenarios {
		s := &config.Scenarios[i]
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("scenario %d: name is required", i))
		} else if seen[s.Name] {
			errs = append(errs, fmt.Errorf("scenario %d: duplicate name %q", i, s.Name))
		}
		seen[s.Name] = true

		if err := ip.ValidateInputs(&s.Inputs); err != nil {
			errs = append(errs, fmt.Errorf("scenario %d (%s): %w", i, s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateInputs checks ranges on a single input set and reports every
// problem found.
func (ip *InputParser) ValidateInputs(in *domain.RetirementInputs) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if in.CurrentAge < 0 || in.CurrentAge > maxAge {
		add("current_age must be between 0 and %d, got %d", maxAge, in.CurrentAge)
	}
	if in.LifeExpectancy != nil {
		if *in.LifeExpectancy < in.CurrentAge {
			add("life_expectancy %d cannot be below current_age %d", *in.LifeExpectancy, in.CurrentAge)
		}
		if *in.LifeExpectancy > maxAge {
			add("life_expectancy cannot exceed %d, got %d", maxAge, *in.LifeExpectancy)
		}
	}
	if in.InitialInvestment.IsNegative() {
		add("initial_investment cannot be negative")
	}
	if in.MonthlyRetirementSpend.IsNegative() {
		add("monthly_retirement_spend cannot be negative")
	}
	if !inRange(in.ExpectedYearlyReturn, -100, 100) {
		add("expected_yearly_return must be between -100 and 100, got %s", in.ExpectedYearlyReturn)
	}
	if !inRange(in.InflationRate, -50, 100) {
		add("inflation_rate must be between -50 and 100, got %s", in.InflationRate)
	}
	if !in.InflationMode.Valid() {
		add("inflation_mode must be real or nominal, got %q", in.InflationMode)
	}
	if !in.CompoundingInterval.Valid() {
		add("compounding_interval must be monthly or yearly, got %q", in.CompoundingInterval)
	}
	if !inRange(in.SafeWithdrawalRate, 0, 100) {
		add("safe_withdrawal_rate must be between 0 and 100, got %s", in.SafeWithdrawalRate)
	}
	if !in.RetirementBufferMultiplier.IsPositive() {
		add("retirement_buffer_multiplier must be positive, got %s", in.RetirementBufferMultiplier)
	}

	for i, p := range in.ContributionPhases {
		if p.StartAge < 0 {
			add("contribution_phases[%d]: start_age cannot be negative", i)
		}
		if p.EndAge != nil && *p.EndAge <= p.StartAge {
			add("contribution_phases[%d]: end_age %d must be after start_age %d", i, *p.EndAge, p.StartAge)
		}
	}
	for i, o := range in.WithdrawalOverrides {
		if o.StartAge < 0 {
			add("withdrawal_overrides[%d]: start_age cannot be negative", i)
		}
		if o.EndAge != nil && *o.EndAge <= o.StartAge {
			add("withdrawal_overrides[%d]: end_age %d must be after start_age %d", i, *o.EndAge, o.StartAge)
		}
		if !inRange(o.WithdrawalRate, 0, 100) {
			add("withdrawal_overrides[%d]: withdrawal_rate must be between 0 and 100, got %s", i, o.WithdrawalRate)
		}
	}

	return errors.Join(errs...)
}

func inRange(v decimal.Decimal, lo, hi int64) bool {
	return v.GreaterThanOrEqual(decimal.NewFromInt(lo)) && v.LessThanOrEqual(decimal.NewFromInt(hi))
}

// GenerateExampleConfig returns a starter scenario file.
func GenerateExampleConfig() []byte {
	return []byte(exampleConfig)
}

// WriteExampleConfig writes the starter scenario file to path.
func WriteExampleConfig(path string) error {
	if err := os.WriteFile(path, GenerateExampleConfig(), 0o644); err != nil {
		return fmt.Errorf("failed to write example config %s: %w", path, err)
	}
	return nil
}

const exampleConfig = `# firecalc scenario file
#
# Each scenario starts from a preset (balanced when omitted); any field
# given here replaces the preset's value. Rates are percentages.
scenarios:
  - name: "Base Plan"
    description: "Steady saving with the 4% rule"
    preset: balanced
    current_age: 30
    life_expectancy: 90
    initial_investment: 50000
    monthly_retirement_spend: 4000
    contribution_phases:
      - start_age: 30
        end_age: 40
        monthly_contribution: 2000
      - start_age: 40
        monthly_contribution: 3000

  - name: "Cautious Drawdown"
    description: "Lower withdrawals in the early retirement years"
    preset: conservative
    current_age: 30
    initial_investment: 50000
    monthly_retirement_spend: 4000
    contribution_phases:
      - start_age: 30
        monthly_contribution: 2500
    withdrawal_overrides:
      - start_age: 45
        end_age: 55
        withdrawal_rate: 3
`
