package transform

import (
	"fmt"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	hundred         = decimal.NewFromInt(100)
	negativeHundred = decimal.NewFromInt(-100)
	negativeFifty   = decimal.NewFromInt(-50)
)

func between(v, lo, hi decimal.Decimal) bool {
	return v.GreaterThanOrEqual(lo) && v.LessThanOrEqual(hi)
}

// SetReturn sets the expected nominal yearly return.
type SetReturn struct {
	Rate decimal.Decimal // percent, e.g. 7 for 7%
}

func (sr *SetReturn) Name() string { return "set_return" }

func (sr *SetReturn) Description() string {
	return fmt.Sprintf("Set expected return to %s", money.FormatPercent(sr.Rate))
}

func (sr *SetReturn) Validate(base *domain.Scenario) error {
	if !between(sr.Rate, negativeHundred, hundred) {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("return must be between -100 and 100, got %s", sr.Rate), nil)
	}
	return validateBase(sr.Name(), base)
}

func (sr *SetReturn) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.ExpectedYearlyReturn = sr.Rate
	return modified, nil
}

// AdjustReturn shifts the expected return by Delta percentage points.
// Useful for bear and bull market what-ifs.
type AdjustReturn struct {
	Delta decimal.Decimal
}

func (ar *AdjustReturn) Name() string { return "adjust_return" }

func (ar *AdjustReturn) Description() string {
	sign := "+"
	if ar.Delta.IsNegative() {
		sign = ""
	}
	return fmt.Sprintf("Adjust expected return by %s%s points", sign, ar.Delta.String())
}

func (ar *AdjustReturn) Validate(base *domain.Scenario) error {
	if err := validateBase(ar.Name(), base); err != nil {
		return err
	}
	adjusted := base.Inputs.ExpectedYearlyReturn.Add(ar.Delta)
	if !between(adjusted, negativeHundred, hundred) {
		return NewTransformError(ar.Name(), "validate", fmt.Sprintf("adjusted return %s is outside -100 to 100", adjusted), nil)
	}
	return nil
}

func (ar *AdjustReturn) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.ExpectedYearlyReturn = modified.Inputs.ExpectedYearlyReturn.Add(ar.Delta)
	return modified, nil
}

// SetInflation changes the yearly inflation rate.
type SetInflation struct {
	Rate decimal.Decimal // percent
}

func (si *SetInflation) Name() string { return "set_inflation" }

func (si *SetInflation) Description() string {
	return fmt.Sprintf("Set inflation to %s", money.FormatPercent(si.Rate))
}

func (si *SetInflation) Validate(base *domain.Scenario) error {
	if !between(si.Rate, negativeFifty, hundred) {
		return NewTransformError(si.Name(), "validate", fmt.Sprintf("inflation must be between -50 and 100, got %s", si.Rate), nil)
	}
	return validateBase(si.Name(), base)
}

func (si *SetInflation) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.InflationRate = si.Rate
	return modified, nil
}

// SetInflationMode switches between real and nominal projections.
type SetInflationMode struct {
	Mode domain.InflationMode
}

func (sm *SetInflationMode) Name() string { return "set_mode" }

func (sm *SetInflationMode) Description() string {
	return fmt.Sprintf("Project in %s dollars", sm.Mode)
}

func (sm *SetInflationMode) Validate(base *domain.Scenario) error {
	if !sm.Mode.Valid() {
		return NewTransformError(sm.Name(), "validate", fmt.Sprintf("unknown inflation mode %q", sm.Mode), nil)
	}
	return validateBase(sm.Name(), base)
}

func (sm *SetInflationMode) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.InflationMode = sm.Mode
	return modified, nil
}

// SetCompounding changes the growth compounding convention.
type SetCompounding struct {
	Interval domain.CompoundingInterval
}

func (sc *SetCompounding) Name() string { return "set_compounding" }

func (sc *SetCompounding) Description() string {
	return fmt.Sprintf("Compound growth %s", sc.Interval)
}

func (sc *SetCompounding) Validate(base *domain.Scenario) error {
	if !sc.Interval.Valid() {
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("unknown compounding interval %q", sc.Interval), nil)
	}
	return validateBase(sc.Name(), base)
}

func (sc *SetCompounding) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.CompoundingInterval = sc.Interval
	return modified, nil
}

// ApplyPresetAssumptions swaps in a preset's market and withdrawal
// assumptions while keeping the scenario's personal figures.
type ApplyPresetAssumptions struct {
	Preset string
}

func (ap *ApplyPresetAssumptions) Name() string { return "apply_preset" }

func (ap *ApplyPresetAssumptions) Description() string {
	return fmt.Sprintf("Use %s preset assumptions", ap.Preset)
}

func (ap *ApplyPresetAssumptions) Validate(base *domain.Scenario) error {
	if _, err := domain.GetPreset(ap.Preset); err != nil {
		return NewTransformError(ap.Name(), "validate", "preset lookup failed", err)
	}
	return validateBase(ap.Name(), base)
}

func (ap *ApplyPresetAssumptions) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	inputs, err := domain.ApplyPreset(modified.Inputs, ap.Preset)
	if err != nil {
		return nil, NewTransformError(ap.Name(), "apply", "preset lookup failed", err)
	}
	modified.Inputs = inputs
	return modified, nil
}
