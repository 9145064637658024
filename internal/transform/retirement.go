package transform

import (
	"fmt"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/rgehrsitz/firecalc/pkg/money"
	"github.com/shopspring/decimal"
)

// SetWithdrawalRate sets the safe withdrawal rate used for the FI target and
// retired withdrawals.
type SetWithdrawalRate struct {
	Rate decimal.Decimal // percent
}

func (sw *SetWithdrawalRate) Name() string { return "set_swr" }

func (sw *SetWithdrawalRate) Description() string {
	return fmt.Sprintf("Set safe withdrawal rate to %s", money.FormatPercent(sw.Rate, 2))
}

func (sw *SetWithdrawalRate) Validate(base *domain.Scenario) error {
	if !between(sw.Rate, decimal.Zero, hundred) {
		return NewTransformError(sw.Name(), "validate", fmt.Sprintf("withdrawal rate must be between 0 and 100, got %s", sw.Rate), nil)
	}
	return validateBase(sw.Name(), base)
}

func (sw *SetWithdrawalRate) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.SafeWithdrawalRate = sw.Rate
	return modified, nil
}

// SetBuffer sets the multiplier applied to the FI target.
type SetBuffer struct {
	Multiplier decimal.Decimal
}

func (sb *SetBuffer) Name() string { return "set_buffer" }

func (sb *SetBuffer) Description() string {
	return fmt.Sprintf("Require %sx the base FI target", sb.Multiplier.StringFixed(2))
}

func (sb *SetBuffer) Validate(base *domain.Scenario) error {
	if !sb.Multiplier.IsPositive() {
		return NewTransformError(sb.Name(), "validate", fmt.Sprintf("buffer multiplier must be positive, got %s", sb.Multiplier), nil)
	}
	return validateBase(sb.Name(), base)
}

func (sb *SetBuffer) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.RetirementBufferMultiplier = sb.Multiplier
	return modified, nil
}

// SetSpend sets the monthly retirement spend.
type SetSpend struct {
	Monthly decimal.Decimal
}

func (ss *SetSpend) Name() string { return "set_spend" }

func (ss *SetSpend) Description() string {
	return fmt.Sprintf("Spend %s per month in retirement", money.FormatCurrency(ss.Monthly))
}

func (ss *SetSpend) Validate(base *domain.Scenario) error {
	if ss.Monthly.IsNegative() {
		return NewTransformError(ss.Name(), "validate", "monthly spend cannot be negative", nil)
	}
	return validateBase(ss.Name(), base)
}

func (ss *SetSpend) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.MonthlyRetirementSpend = ss.Monthly
	return modified, nil
}

// ScaleSpend multiplies the monthly retirement spend, e.g. 0.75 for a lean plan.
type ScaleSpend struct {
	Factor decimal.Decimal
}

func (ss *ScaleSpend) Name() string { return "scale_spend" }

func (ss *ScaleSpend) Description() string {
	return fmt.Sprintf("Scale retirement spend by %sx", ss.Factor.StringFixed(2))
}

func (ss *ScaleSpend) Validate(base *domain.Scenario) error {
	if !ss.Factor.IsPositive() {
		return NewTransformError(ss.Name(), "validate", fmt.Sprintf("factor must be positive, got %s", ss.Factor), nil)
	}
	return validateBase(ss.Name(), base)
}

func (ss *ScaleSpend) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	modified.Inputs.MonthlyRetirementSpend = modified.Inputs.MonthlyRetirementSpend.Mul(ss.Factor)
	return modified, nil
}

// AddWithdrawalOverride appends an age-ranged withdrawal rate.
type AddWithdrawalOverride struct {
	StartAge int
	EndAge   *int
	Rate     decimal.Decimal // percent
}

func (ao *AddWithdrawalOverride) Name() string { return "add_override" }

func (ao *AddWithdrawalOverride) Description() string {
	return fmt.Sprintf("Withdraw %s from age %s", money.FormatPercent(ao.Rate, 2), ageSpan(ao.StartAge, ao.EndAge))
}

func (ao *AddWithdrawalOverride) Validate(base *domain.Scenario) error {
	if err := validateSpan(ao.Name(), ao.StartAge, ao.EndAge); err != nil {
		return err
	}
	if !between(ao.Rate, decimal.Zero, hundred) {
		return NewTransformError(ao.Name(), "validate", fmt.Sprintf("withdrawal rate must be between 0 and 100, got %s", ao.Rate), nil)
	}
	return validateBase(ao.Name(), base)
}

func (ao *AddWithdrawalOverride) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()
	o := domain.WithdrawalOverride{StartAge: ao.StartAge, WithdrawalRate: ao.Rate}
	if ao.EndAge != nil {
		o.EndAge = domain.IntPtr(*ao.EndAge)
	}
	modified.Inputs.WithdrawalOverrides = append(modified.Inputs.WithdrawalOverrides, o)
	return modified, nil
}

func validateSpan(name string, start int, end *int) error {
	if start < 0 {
		return NewTransformError(name, "validate", fmt.Sprintf("start age cannot be negative, got %d", start), nil)
	}
	if end != nil && *end <= start {
		return NewTransformError(name, "validate", fmt.Sprintf("end age %d must be after start age %d", *end, start), nil)
	}
	return nil
}

func ageSpan(start int, end *int) string {
	if end == nil {
		return fmt.Sprintf("%d onward", start)
	}
	return fmt.Sprintf("%d to %d", start, *end)
}
